package mongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// FileStorage keeps each storage bucket in its own GridFS bucket. Object
// paths are stored as GridFS filenames.
type FileStorage struct {
	db *mongo.Database
}

var _ ports.FileStorage = (*FileStorage)(nil)

func NewFileStorage(db *mongo.Database) *FileStorage {
	return &FileStorage{db: db}
}

// Put uploads data under path and then removes older revisions of it.
func (s *FileStorage) Put(ctx context.Context, bucket, path string, data []byte) error {
	b, err := s.bucket(bucket)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := b.SetWriteDeadline(deadline(ctx)); err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, path, err)
	}
	newID, err := b.UploadFromStream(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, path, err)
	}

	cur, err := b.FindContext(ctx, bson.M{"filename": path, "_id": bson.M{"$ne": newID}})
	if err != nil {
		return fmt.Errorf("list revisions %s/%s: %w", bucket, path, err)
	}
	var old []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &old); err != nil {
		return fmt.Errorf("list revisions %s/%s: %w", bucket, path, err)
	}
	for _, f := range old {
		if err := b.DeleteContext(ctx, f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("remove revision %s/%s: %w", bucket, path, err)
		}
	}
	return nil
}

// Open returns the newest revision of path. The caller closes Body.
func (s *FileStorage) Open(ctx context.Context, bucket, path string) (*ports.StoredFile, error) {
	b, err := s.bucket(bucket)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := b.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, err
	}
	stream, err := b.OpenDownloadStreamByName(path)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("open %s/%s: %w", bucket, path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(stream); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("read %s/%s: %w", bucket, path, err)
	}
	_ = stream.Close()

	return &ports.StoredFile{
		Name: path,
		Size: int64(buf.Len()),
		Body: io.NopCloser(bytes.NewReader(buf.Bytes())),
	}, nil
}

func (s *FileStorage) bucket(name string) (*gridfs.Bucket, error) {
	if name == "" {
		return nil, errors.New("file storage: empty bucket name")
	}
	return gridfs.NewBucket(s.db, options.GridFSBucket().SetName(name))
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(defaultTimeout)
}

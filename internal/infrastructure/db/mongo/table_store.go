package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// ErrUnknownTable is returned for tables the backend does not expose.
var ErrUnknownTable = errors.New("unknown table")

var exposedTables = map[string]struct{}{
	ports.TableProfiles:     {},
	ports.TableDestinations: {},
	ports.TableFeedback:     {},
}

// TableStore gives the backend client row-level access to collections, one
// collection per table. The "id" column maps to the document _id.
type TableStore struct {
	db *mongo.Database
}

var _ ports.TableStore = (*TableStore)(nil)

func NewTableStore(db *mongo.Database) *TableStore {
	return &TableStore{db: db}
}

// FindOne decodes the first document of table matching filter into dst.
func (s *TableStore) FindOne(ctx context.Context, table string, filter ports.Filter, dst any) error {
	coll, err := s.collection(table)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := coll.FindOne(ctx, toBSONFilter(filter)).Decode(dst); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%s: %w", table, domain.ErrRecordNotFound)
		}
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// Upsert replaces the document with _id = id, inserting it when missing.
func (s *TableStore) Upsert(ctx context.Context, table, id string, record any) error {
	if id == "" {
		return fmt.Errorf("upsert %s: empty id", table)
	}
	coll, err := s.collection(table)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = coll.ReplaceOne(ctx, bson.M{"_id": id}, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (s *TableStore) collection(table string) (*mongo.Collection, error) {
	if _, ok := exposedTables[table]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return s.db.Collection(table), nil
}

func toBSONFilter(f ports.Filter) bson.M {
	out := make(bson.M, len(f))
	for k, v := range f {
		if k == "id" {
			k = "_id"
		}
		out[k] = v
	}
	return out
}

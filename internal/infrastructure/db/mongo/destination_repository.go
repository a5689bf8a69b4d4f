package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// DestinationRepository keeps the catalog in the negara_asia collection using
// the column names the public site has always used.
type DestinationRepository struct {
	col *mongo.Collection
}

var _ ports.DestinationRepository = (*DestinationRepository)(nil)

func NewDestinationRepository(db *mongo.Database) *DestinationRepository {
	return &DestinationRepository{col: db.Collection(ports.TableDestinations)}
}

type mongoDestination struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Country      string             `bson:"nama_negara"`
	Name         string             `bson:"nama_tempat"`
	Description  string             `bson:"deskripsi_tempat"`
	ImageURL     string             `bson:"foto_wisata"`
	Category     string             `bson:"kategori_tempat"`
	Link         string             `bson:"link,omitempty"`
	Place1       string             `bson:"tempat_alam,omitempty"`
	Image1       string             `bson:"foto_alam,omitempty"`
	Description1 string             `bson:"deskripsi_alam,omitempty"`
	Place2       string             `bson:"tempat_alam2,omitempty"`
	Image2       string             `bson:"foto_alam2,omitempty"`
	Description2 string             `bson:"deskripsi_alam2,omitempty"`
}

func toMongoDestination(d *domain.Destination) mongoDestination {
	md := mongoDestination{
		Country:     d.Country,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Category:    d.Category,
		Link:        d.Link,
	}
	if len(d.Highlights) > 0 {
		h := d.Highlights[0]
		md.Place1, md.Image1, md.Description1 = h.Place, h.ImageURL, h.Description
	}
	if len(d.Highlights) > 1 {
		h := d.Highlights[1]
		md.Place2, md.Image2, md.Description2 = h.Place, h.ImageURL, h.Description
	}
	return md
}

func (md mongoDestination) toDomain() *domain.Destination {
	d := &domain.Destination{
		ID:          md.ID.Hex(),
		Country:     md.Country,
		Name:        md.Name,
		Description: md.Description,
		ImageURL:    md.ImageURL,
		Category:    md.Category,
		Link:        md.Link,
	}
	if md.Place1 != "" || md.Image1 != "" {
		d.Highlights = append(d.Highlights, domain.Highlight{Place: md.Place1, ImageURL: md.Image1, Description: md.Description1})
	}
	if md.Place2 != "" || md.Image2 != "" {
		d.Highlights = append(d.Highlights, domain.Highlight{Place: md.Place2, ImageURL: md.Image2, Description: md.Description2})
	}
	return d
}

// Create inserts d and sets its generated ID.
func (r *DestinationRepository) Create(ctx context.Context, d *domain.Destination) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	md := toMongoDestination(d)
	md.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, md); err != nil {
		return fmt.Errorf("insert destination: %w", err)
	}
	d.ID = md.ID.Hex()
	return nil
}

// Update replaces the stored document for d.ID.
func (r *DestinationRepository) Update(ctx context.Context, d *domain.Destination) error {
	oid, err := primitive.ObjectIDFromHex(d.ID)
	if err != nil {
		return domain.ErrDestinationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	md := toMongoDestination(d)
	md.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, md)
	if err != nil {
		return fmt.Errorf("update destination: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDestinationNotFound
	}
	return nil
}

func (r *DestinationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDestinationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete destination: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDestinationNotFound
	}
	return nil
}

func (r *DestinationRepository) FindByID(ctx context.Context, id string) (*domain.Destination, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDestinationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDestination
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDestinationNotFound
		}
		return nil, err
	}
	return md.toDomain(), nil
}

// List returns a page ordered by country then place name, plus the total
// number of matches.
func (r *DestinationRepository) List(ctx context.Context, f ports.ListDestinationsFilter) ([]*domain.Destination, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count destinations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "nama_negara", Value: 1}, {Key: "nama_tempat", Value: 1}}).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find destinations: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Destination, 0, f.Limit)
	for cur.Next(ctx) {
		var md mongoDestination
		if err := cur.Decode(&md); err != nil {
			return nil, 0, fmt.Errorf("decode destination: %w", err)
		}
		items = append(items, md.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// listFilter builds the query: exact category, case-insensitive substring
// on the place name.
func listFilter(f ports.ListDestinationsFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["kategori_tempat"] = f.Category
	}
	if f.Search != "" {
		filter["nama_tempat"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

// EnsureIndexes creates the catalog's query indexes.
func (r *DestinationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "kategori_tempat", Value: 1}}},
		{Keys: bson.D{{Key: "nama_negara", Value: 1}, {Key: "nama_tempat", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

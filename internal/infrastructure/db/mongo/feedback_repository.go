package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// FeedbackRepository implements ports.FeedbackRepository on the contact_us
// collection.
type FeedbackRepository struct {
	col *mongo.Collection
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{col: db.Collection(ports.TableFeedback)}
}

var _ ports.FeedbackRepository = (*FeedbackRepository)(nil)

// Insert stores fb and sets its ID.
func (r *FeedbackRepository) Insert(ctx context.Context, fb *domain.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID()
	doc := bson.M{
		"_id":        id,
		"name":       fb.Name,
		"email":      fb.Email,
		"message":    fb.Message,
		"created_at": fb.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	fb.ID = id.Hex()
	return nil
}

// Recent returns the newest limit messages.
func (r *FeedbackRepository) Recent(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID        primitive.ObjectID `bson:"_id"`
		Name      string             `bson:"name"`
		Email     string             `bson:"email"`
		Message   string             `bson:"message"`
		CreatedAt primitive.DateTime `bson:"created_at"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	items := make([]*domain.Feedback, 0, len(docs))
	for _, d := range docs {
		items = append(items, &domain.Feedback{
			ID:        d.ID.Hex(),
			Name:      d.Name,
			Email:     d.Email,
			Message:   d.Message,
			CreatedAt: d.CreatedAt.Time().UTC(),
		})
	}
	return items, nil
}

func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

package mongodb

import (
	"context"
	"fmt"

	entity "market-catalog/internal/domain"

	"go.mongodb.org/mongo-driver/mongo"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{collection: db.Collection(CollectionActivity)}
}

// SaveActivity appends doc to the activity log. The driver assigns _id when
// it is zero.
func (r *ActivityRepository) SaveActivity(ctx context.Context, doc *entity.ActivityLog) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert activity log to Mongo: %w", err)
	}
	return nil
}

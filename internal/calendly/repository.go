package calendly

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	// Upsert sets the given fields on the booking with externalID, creating it if needed.
	Upsert(ctx context.Context, externalID string, set bson.M, now time.Time) error
	List(ctx context.Context, limit, offset int64) ([]Booking, error)
	Count(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Upsert(ctx context.Context, externalID string, set bson.M, now time.Time) error {
	fields := bson.M{"updated_at": now}
	for k, v := range set {
		fields[k] = v
	}
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": externalID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoRepository) List(ctx context.Context, limit, offset int64) ([]Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Booking, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

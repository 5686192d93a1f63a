package bookings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Submission) error
	Get(ctx context.Context, id string) (Submission, error)
	SetPaid(ctx context.Context, id string, paid bool) (Submission, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Submission, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	DeleteBySlot(ctx context.Context, slotID string) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Submission) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Submission, error) {
	var item Submission
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Submission{}, err
	}
	return item, nil
}

// SetPaid only touches is_paid; created_at is never rewritten.
func (r *MongoRepository) SetPaid(ctx context.Context, id string, paid bool) (Submission, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Submission
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_paid": paid}}, opts).Decode(&updated)
	if err != nil {
		return Submission{}, err
	}
	return updated, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Submission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Submission, 0)
	for cursor.Next(ctx) {
		var item Submission
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

func (r *MongoRepository) DeleteBySlot(ctx context.Context, slotID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"slot_id": slotID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.SlotID != "" {
		query["slot_id"] = filter.SlotID
	}
	if filter.IsPaid != nil {
		query["is_paid"] = *filter.IsPaid
	}
	return query
}

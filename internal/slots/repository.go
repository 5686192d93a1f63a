package slots

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, slot Slot) error
	Get(ctx context.Context, id string) (Slot, error)
	Update(ctx context.Context, id string, set bson.M) (Slot, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListOpen(ctx context.Context) ([]Slot, error)
	ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Slot, error)
	CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

var chronological = bson.D{
	{Key: "date", Value: 1},
	{Key: "start_time", Value: 1},
}

func (r *MongoRepository) Create(ctx context.Context, slot Slot) error {
	_, err := r.col.InsertOne(ctx, slot)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Slot, error) {
	var slot Slot
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&slot); err != nil {
		return Slot{}, err
	}
	return slot, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Slot, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Slot
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Slot{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListOpen(ctx context.Context) ([]Slot, error) {
	return r.find(ctx, bson.M{"is_available": true}, options.Find().SetSort(chronological))
}

func (r *MongoRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Slot, error) {
	opts := options.Find().
		SetSort(chronological).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, adminQuery(filter), opts)
}

func (r *MongoRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, adminQuery(filter))
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Slot, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Slot, 0)
	for cursor.Next(ctx) {
		var item Slot
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

// Dates are stored as YYYY-MM-DD so string comparison orders them correctly.
func adminQuery(filter AdminListFilter) bson.M {
	query := bson.M{}
	dateRange := bson.M{}
	if filter.From != "" {
		dateRange["$gte"] = filter.From
	}
	if filter.To != "" {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	if filter.OnlyAvailable {
		query["is_available"] = true
	}
	return query
}

package sitesettings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Get(ctx context.Context) (HomepageSettings, error)
	Upsert(ctx context.Context, item HomepageSettings) (HomepageSettings, error)
	InsertIfMissing(ctx context.Context, item HomepageSettings) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Get(ctx context.Context) (HomepageSettings, error) {
	var item HomepageSettings
	err := r.col.FindOne(ctx, bson.M{"_id": SingletonID}).Decode(&item)
	return item, err
}

func (r *MongoRepository) Upsert(ctx context.Context, item HomepageSettings) (HomepageSettings, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"hero_heading":    item.HeroHeading,
		"hero_subheading": item.HeroSubheading,
		"updated_at":      item.UpdatedAt,
	}}

	var updated HomepageSettings
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": SingletonID}, update, opts).Decode(&updated)
	return updated, err
}

func (r *MongoRepository) InsertIfMissing(ctx context.Context, item HomepageSettings) (bool, error) {
	update := bson.M{"$setOnInsert": bson.M{
		"hero_heading":    item.HeroHeading,
		"hero_subheading": item.HeroSubheading,
		"updated_at":      item.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": SingletonID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

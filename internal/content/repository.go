package content

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListQuery struct {
	PublicOnly bool
	Limit      int64
	Offset     int64
}

type Repository[T any] interface {
	Create(ctx context.Context, item T) error
	Get(ctx context.Context, id string) (T, error)
	GetBySlug(ctx context.Context, slug string, publicOnly bool) (T, error)
	Replace(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, q ListQuery) ([]T, error)
	Count(ctx context.Context, q ListQuery) (int64, error)
}

type MongoRepository[T any] struct {
	col *mongo.Collection
	// publishedField gates public reads; empty means every document is public.
	publishedField string
	sort           bson.D
}

func NewPracticeAreaRepository(col *mongo.Collection) *MongoRepository[PracticeArea] {
	return &MongoRepository[PracticeArea]{col: col, sort: bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}}}
}

func NewBlogPostRepository(col *mongo.Collection) *MongoRepository[BlogPost] {
	return &MongoRepository[BlogPost]{col: col, publishedField: "published", sort: bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}}
}

func NewCaseStudyRepository(col *mongo.Collection) *MongoRepository[CaseStudy] {
	return &MongoRepository[CaseStudy]{col: col, publishedField: "published", sort: bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}}
}

func NewSitePageRepository(col *mongo.Collection) *MongoRepository[SitePage] {
	return &MongoRepository[SitePage]{col: col, sort: bson.D{{Key: "slug", Value: 1}}}
}

func (r *MongoRepository[T]) Create(ctx context.Context, item T) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	return item, err
}

func (r *MongoRepository[T]) GetBySlug(ctx context.Context, slug string, publicOnly bool) (T, error) {
	query := r.query(publicOnly)
	query["slug"] = slug

	var item T
	err := r.col.FindOne(ctx, query).Decode(&item)
	return item, err
}

func (r *MongoRepository[T]) Replace(ctx context.Context, id string, item T) (T, error) {
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var updated T
	err := r.col.FindOneAndReplace(ctx, bson.M{"_id": id}, item, opts).Decode(&updated)
	return updated, err
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository[T]) List(ctx context.Context, q ListQuery) ([]T, error) {
	opts := options.Find().SetSort(r.sort)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.Offset > 0 {
		opts.SetSkip(q.Offset)
	}

	cursor, err := r.col.Find(ctx, r.query(q.PublicOnly), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
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

func (r *MongoRepository[T]) Count(ctx context.Context, q ListQuery) (int64, error) {
	return r.col.CountDocuments(ctx, r.query(q.PublicOnly))
}

func (r *MongoRepository[T]) query(publicOnly bool) bson.M {
	query := bson.M{}
	if publicOnly && r.publishedField != "" {
		query[r.publishedField] = true
	}
	return query
}

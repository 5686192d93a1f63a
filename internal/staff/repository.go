package staff

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Upsert(ctx context.Context, user User) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	return user, err
}

// Upsert keys on username and keeps the original id and created_at.
func (r *MongoRepository) Upsert(ctx context.Context, user User) error {
	update := bson.M{
		"$set": bson.M{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"active":        user.Active,
			"updated_at":    user.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        user.ID,
			"created_at": user.CreatedAt,
		},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"username": user.Username}, update, options.Update().SetUpsert(true))
	return err
}

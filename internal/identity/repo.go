package identity

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/pkg/mongodb"
	"storefront/pkg/mongodb/documents"
)

// MongoRepository persists users.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) *MongoRepository {
	return &MongoRepository{col: client.Collection(mongodb.CollectionUsers)}
}

func (r *MongoRepository) Insert(ctx context.Context, user *documents.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*documents.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*documents.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*documents.User, error) {
	var user documents.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

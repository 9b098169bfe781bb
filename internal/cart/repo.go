package cart

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/pkg/mongodb"
	"storefront/pkg/mongodb/documents"
)

// MongoRepository persists carts keyed by the owning user's id, so each
// user holds at most one cart record.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) *MongoRepository {
	return &MongoRepository{col: client.Collection(mongodb.CollectionCarts)}
}

func (r *MongoRepository) Find(ctx context.Context, userID string) (*documents.Cart, error) {
	var cart documents.Cart
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, cart *documents.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": cart.ID}, cart, opts)
	return err
}

func (r *MongoRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

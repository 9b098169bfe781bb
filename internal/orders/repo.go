package orders

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

// MongoRepository persists orders in the orders collection. Field
// mutations are partial $set merges, never full-record replacement, so
// concurrent writers race at field granularity and the last write wins.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) *MongoRepository {
	return &MongoRepository{col: client.Collection(mongodb.CollectionOrders)}
}

func (r *MongoRepository) Insert(ctx context.Context, order *documents.Order) error {
	_, err := r.col.InsertOne(ctx, order)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*documents.Order, error) {
	var order documents.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]documents.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]documents.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoRepository) list(ctx context.Context, filter bson.M) ([]documents.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []documents.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields applies a partial $set merge and stamps updated_at.
func (r *MongoRepository) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	merged := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		merged[k] = v
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": merged})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

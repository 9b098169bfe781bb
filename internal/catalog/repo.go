package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/pkg/mongodb"
	"storefront/pkg/mongodb/documents"
)

// MongoRepository persists products and categories.
type MongoRepository struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewMongoRepository(client *mongodb.Client) *MongoRepository {
	return &MongoRepository{
		products:   client.Collection(mongodb.CollectionProducts),
		categories: client.Collection(mongodb.CollectionCategories),
	}
}

func (r *MongoRepository) InsertProduct(ctx context.Context, product *documents.Product) error {
	_, err := r.products.InsertOne(ctx, product)
	return err
}

func (r *MongoRepository) FindProductByID(ctx context.Context, id string) (*documents.Product, error) {
	var product documents.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoRepository) ListProducts(ctx context.Context, categoryID string) ([]documents.Product, error) {
	filter := bson.M{}
	if categoryID != "" {
		filter["category_id"] = categoryID
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []documents.Product
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) UpdateProduct(ctx context.Context, product *documents.Product) error {
	res, err := r.products.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoRepository) InsertCategory(ctx context.Context, category *documents.Category) error {
	_, err := r.categories.InsertOne(ctx, category)
	return err
}

func (r *MongoRepository) ListCategories(ctx context.Context) ([]documents.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []documents.Category
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

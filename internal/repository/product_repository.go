package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-service/internal/entity"
)

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("products")}
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	product := &entity.Product{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	products := []entity.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entity.ErrDuplicateKey
		}
		return nil, err
	}

	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Product, error) {
	fields["updatedAt"] = time.Now()

	product := &entity.Product{}
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, entity.ErrDuplicateKey
		}
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// DecrementStock reduces stock by qty in a single conditional update: the
// filter only matches while stock >= qty, so concurrent decrements can never
// drive stock below zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the product vanished or it ran out of stock.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return entity.ErrInsufficientStock
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shop-service/internal/entity"
)

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection("carts")}
}

func (r *CartRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*entity.Cart, error) {
	cart := &entity.Cart{}
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}

	return cart, nil
}

func (r *CartRepository) Create(ctx context.Context, cart *entity.Cart) (*entity.Cart, error) {
	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}

	res, err := r.col.InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entity.ErrDuplicateKey
		}
		return nil, err
	}

	cart.ID = res.InsertedID.(primitive.ObjectID)
	return cart, nil
}

// SetItems replaces the full line list of the cart. Line merging happens in
// the service layer; the cart document is small enough to rewrite whole.
func (r *CartRepository) SetItems(ctx context.Context, cartID primitive.ObjectID, items []entity.CartItem) error {
	if items == nil {
		items = []entity.CartItem{}
	}

	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"_id": cartID},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}

	return nil
}

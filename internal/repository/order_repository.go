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

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection("orders")}
}

// Create inserts the order. A colliding orderCode is surfaced here by the
// unique index rather than pre-checked, so there is no race window.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	order.CreatedAt = time.Now()

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entity.ErrDuplicateKey
		}
		return nil, err
	}

	order.ID = res.InsertedID.(primitive.ObjectID)
	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Order, error) {
	order := &entity.Order{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]entity.Order, error) {
	return r.find(ctx, bson.M{"buyer": buyerID})
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus sets the lifecycle status and, when given, the completion
// timestamp. completedAt is never cleared.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus, completedAt *time.Time) (*entity.Order, error) {
	set := bson.M{"status": status}
	if completedAt != nil {
		set["completedAt"] = *completedAt
	}

	order := &entity.Order{}
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

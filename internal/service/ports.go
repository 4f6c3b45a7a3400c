package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
)

// Repository ports. The mongo implementations live in internal/repository;
// tests substitute in-memory fakes.

type UserRepo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductRepo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type CartRepo interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*entity.Cart, error)
	Create(ctx context.Context, cart *entity.Cart) (*entity.Cart, error)
	SetItems(ctx context.Context, cartID primitive.ObjectID, items []entity.CartItem) error
}

type OrderRepo interface {
	Create(ctx context.Context, order *entity.Order) (*entity.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	ListByBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]entity.Order, error)
	ListByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus, completedAt *time.Time) (*entity.Order, error)
}

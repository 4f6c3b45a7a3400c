package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the four lifecycle statuses.
// No transition order is enforced between them.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem snapshots the product at order-creation time; later catalog edits
// do not affect it.
type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"product" json:"productId"`
	ProductCode string             `bson:"productCode" json:"productCode"`
	Name        string             `bson:"name" json:"name"`
	Qty         int                `bson:"qty" json:"qty"`
	Price       float64            `bson:"price" json:"price"`
	Total       float64            `bson:"total" json:"total"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderCode   string             `bson:"orderCode" json:"orderCode"`
	Items       []OrderItem        `bson:"items" json:"items"`
	BuyerID     primitive.ObjectID `bson:"buyer" json:"buyerId"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Status      OrderStatus        `bson:"status" json:"status"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

/*
Mongo collection: orders

Indexes:
	db.orders.createIndex({ orderCode: 1 }, { unique: true })

The item list is immutable after insert; only status and completedAt are
updated afterwards.
*/

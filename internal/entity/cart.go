package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem references a product by id; Product is populated by the service
// layer when the cart is read back.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Qty       int                `bson:"qty" json:"qty"`
	Product   *Product           `bson:"-" json:"product,omitempty"`
}

// Cart holds the pending purchase lines of one user. At most one line per
// distinct product; adds merge by summing quantities.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

/*
Mongo collection: carts

Indexes:
	db.carts.createIndex({ user: 1 }, { unique: true })
*/

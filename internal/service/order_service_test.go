package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
)

type checkoutFixture struct {
	products *fakeProductRepo
	carts    *fakeCartRepo
	orders   *fakeOrderRepo
	cartSvc  *CartService
	orderSvc *OrderService
	userID   primitive.ObjectID
	product  *entity.Product
}

// product A: price 10, stock 5; user's cart holds A×3.
func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	product := &entity.Product{Code: "A", Name: "Gadget", Price: 10, Stock: 5}
	products := newFakeProductRepo(product)
	carts := newFakeCartRepo()
	orders := newFakeOrderRepo()

	f := &checkoutFixture{
		products: products,
		carts:    carts,
		orders:   orders,
		cartSvc:  NewCartService(carts, products),
		orderSvc: NewOrderService(orders, products, carts, nil),
		userID:   primitive.NewObjectID(),
		product:  product,
	}

	_, err := f.cartSvc.AddItem(context.Background(), f.userID, product.ID, 3)
	require.NoError(t, err)
	return f
}

func (f *checkoutFixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return p.Stock
}

func TestCheckout(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
	require.NoError(t, err)

	assert.Equal(t, "ORD1", order.OrderCode)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, f.userID, order.BuyerID)
	assert.Equal(t, 30.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "A", order.Items[0].ProductCode)
	assert.Equal(t, "Gadget", order.Items[0].Name)
	assert.Equal(t, 3, order.Items[0].Qty)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.Equal(t, 30.0, order.Items[0].Total)
	assert.Nil(t, order.CompletedAt)
	assert.False(t, order.CreatedAt.IsZero())

	assert.Equal(t, 2, f.stock(t))

	cart, err := f.cartSvc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCheckoutUsesCurrentPrice(t *testing.T) {
	f := newCheckoutFixture(t)

	// Price changed between add-to-cart and checkout; the order snapshots
	// the price at checkout time.
	price := 12.5
	_, err := f.products.Update(context.Background(), f.product.ID, map[string]interface{}{"price": price})
	require.NoError(t, err)

	order, err := f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, 37.5, order.TotalAmount)
	assert.Equal(t, 12.5, order.Items[0].Price)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	t.Run("no cart at all", func(t *testing.T) {
		_, err := f.orderSvc.Checkout(context.Background(), primitive.NewObjectID(), "ORD1")
		assert.ErrorIs(t, err, entity.ErrEmptyCart)
	})

	t.Run("cart exists but is empty", func(t *testing.T) {
		require.NoError(t, f.cartSvc.ClearCart(context.Background(), f.userID))
		_, err := f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
		assert.ErrorIs(t, err, entity.ErrEmptyCart)
	})
}

func TestCheckoutMissingOrderCode(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.orderSvc.Checkout(context.Background(), f.userID, "")
	assert.ErrorIs(t, err, entity.ErrValidation)
	assert.Equal(t, 5, f.stock(t))
}

func TestCheckoutInsufficientStockDecrementsNothing(t *testing.T) {
	f := newCheckoutFixture(t)

	// Stock drops to 2 behind the cart's back; the cart still wants 3.
	_, err := f.products.Update(context.Background(), f.product.ID, map[string]interface{}{"stock": 2})
	require.NoError(t, err)

	_, err = f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Gadget")

	assert.Equal(t, 2, f.stock(t))
	all, err := f.orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	cart, err := f.cartSvc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckoutDuplicateOrderCode(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
	require.NoError(t, err)

	_, err = f.cartSvc.AddItem(context.Background(), f.userID, f.product.ID, 1)
	require.NoError(t, err)

	_, err = f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
	assert.ErrorIs(t, err, entity.ErrDuplicateKey)
}

func TestCreateOrderDirect(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.orderSvc.CreateOrder(context.Background(), f.userID, "ORD9", []OrderLine{
		{ProductID: f.product.ID, Qty: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, order.TotalAmount)
	assert.Equal(t, 3, f.stock(t))

	// The cart is untouched by direct order creation.
	cart, err := f.cartSvc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newCheckoutFixture(t)

	t.Run("no items", func(t *testing.T) {
		_, err := f.orderSvc.CreateOrder(context.Background(), f.userID, "ORD9", nil)
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("quantity below one", func(t *testing.T) {
		_, err := f.orderSvc.CreateOrder(context.Background(), f.userID, "ORD9", []OrderLine{
			{ProductID: f.product.ID, Qty: 0},
		})
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.orderSvc.CreateOrder(context.Background(), f.userID, "ORD9", []OrderLine{
			{ProductID: primitive.NewObjectID(), Qty: 1},
		})
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("insufficient stock leaves stock intact", func(t *testing.T) {
		_, err := f.orderSvc.CreateOrder(context.Background(), f.userID, "ORD9", []OrderLine{
			{ProductID: f.product.ID, Qty: 6},
		})
		assert.ErrorIs(t, err, entity.ErrInsufficientStock)
		assert.Equal(t, 5, f.stock(t))
	})
}

func TestListOrdersVisibility(t *testing.T) {
	f := newCheckoutFixture(t)
	otherBuyer := primitive.NewObjectID()

	_, err := f.orderSvc.CreateOrder(context.Background(), f.userID, "ORD1", []OrderLine{{ProductID: f.product.ID, Qty: 1}})
	require.NoError(t, err)
	_, err = f.orderSvc.CreateOrder(context.Background(), otherBuyer, "ORD2", []OrderLine{{ProductID: f.product.ID, Qty: 1}})
	require.NoError(t, err)

	own, err := f.orderSvc.ListOrders(context.Background(), f.userID, entity.RoleUser)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.userID, own[0].BuyerID)

	all, err := f.orderSvc.ListOrders(context.Background(), f.userID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetOrderOwnership(t *testing.T) {
	f := newCheckoutFixture(t)
	otherBuyer := primitive.NewObjectID()

	order, err := f.orderSvc.CreateOrder(context.Background(), otherBuyer, "ORD2", []OrderLine{{ProductID: f.product.ID, Qty: 1}})
	require.NoError(t, err)

	t.Run("non-admin blocked from another buyer's order", func(t *testing.T) {
		_, err := f.orderSvc.GetOrder(context.Background(), f.userID, entity.RoleUser, order.ID)
		assert.ErrorIs(t, err, entity.ErrForbidden)
	})

	t.Run("buyer reads own order", func(t *testing.T) {
		got, err := f.orderSvc.GetOrder(context.Background(), otherBuyer, entity.RoleUser, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		got, err := f.orderSvc.GetOrder(context.Background(), f.userID, entity.RoleAdmin, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := f.orderSvc.GetOrder(context.Background(), f.userID, entity.RoleAdmin, primitive.NewObjectID())
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestSetStatus(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
	require.NoError(t, err)

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.orderSvc.SetStatus(context.Background(), order.ID, "shipped")
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("processing leaves completedAt unset", func(t *testing.T) {
		updated, err := f.orderSvc.SetStatus(context.Background(), order.ID, entity.OrderStatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusProcessing, updated.Status)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("completed stamps completedAt", func(t *testing.T) {
		updated, err := f.orderSvc.SetStatus(context.Background(), order.ID, entity.OrderStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)
	})

	t.Run("leaving completed keeps the timestamp", func(t *testing.T) {
		// Documents current behavior: completedAt is never cleared.
		updated, err := f.orderSvc.SetStatus(context.Background(), order.ID, entity.OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusCancelled, updated.Status)
		assert.NotNil(t, updated.CompletedAt)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := f.orderSvc.SetStatus(context.Background(), primitive.NewObjectID(), entity.OrderStatusCompleted)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestListOrdersByStatus(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.orderSvc.Checkout(context.Background(), f.userID, "ORD1")
	require.NoError(t, err)
	_, err = f.orderSvc.SetStatus(context.Background(), order.ID, entity.OrderStatusProcessing)
	require.NoError(t, err)

	processing, err := f.orderSvc.ListOrdersByStatus(context.Background(), entity.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Len(t, processing, 1)

	pending, err := f.orderSvc.ListOrdersByStatus(context.Background(), entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.orderSvc.ListOrdersByStatus(context.Background(), "shipped")
	assert.ErrorIs(t, err, entity.ErrValidation)
}

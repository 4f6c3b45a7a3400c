package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
)

type OrderService struct {
	orders      OrderRepo
	products    ProductRepo
	carts       CartRepo
	kafkaWriter *kafka.Writer
}

// NewOrderService creates a new instance of OrderService. A nil kafka writer
// disables event publishing.
func NewOrderService(orders OrderRepo, products ProductRepo, carts CartRepo, kafkaWriter *kafka.Writer) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		carts:       carts,
		kafkaWriter: kafkaWriter,
	}
}

// Checkout converts the user's cart into an order: every line is validated
// against current stock first, then stock is decremented per line, the order
// is inserted with status pending and the cart is cleared. Validation is
// all-or-nothing; the decrement loop is sequential and is not rolled back if
// a later line fails.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID, orderCode string) (*entity.Order, error) {
	if orderCode == "" {
		return nil, fmt.Errorf("order code required: %w", entity.ErrValidation)
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil, entity.ErrEmptyCart
		}
		logger.Error().Err(err).Msgf("Error getting cart for user %s", userID.Hex())
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, entity.ErrEmptyCart
	}

	lines := make([]OrderLine, len(cart.Items))
	for i, item := range cart.Items {
		lines[i] = OrderLine{ProductID: item.ProductID, Qty: item.Qty}
	}

	items, totalAmount, err := s.buildItems(ctx, lines)
	if err != nil {
		return nil, err
	}

	if err := s.decrementStock(ctx, items); err != nil {
		return nil, err
	}

	order, err := s.insertOrder(ctx, orderCode, userID, items, totalAmount)
	if err != nil {
		return nil, err
	}

	if err := s.carts.SetItems(ctx, cart.ID, nil); err != nil {
		logger.Error().Err(err).Msgf("Error clearing cart %s after checkout", cart.ID.Hex())
		return nil, err
	}

	s.publishOrderEvent(ctx, order, "created")
	return order, nil
}

type OrderLine struct {
	ProductID primitive.ObjectID `json:"product"`
	Qty       int                `json:"qty"`
}

// CreateOrder builds an order from a caller-supplied item list, bypassing the
// cart. Same stock validation and decrement semantics as Checkout.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID primitive.ObjectID, orderCode string, lines []OrderLine) (*entity.Order, error) {
	if orderCode == "" {
		return nil, fmt.Errorf("order code required: %w", entity.ErrValidation)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("at least one item required: %w", entity.ErrValidation)
	}

	items, totalAmount, err := s.buildItems(ctx, lines)
	if err != nil {
		return nil, err
	}

	if err := s.decrementStock(ctx, items); err != nil {
		return nil, err
	}

	order, err := s.insertOrder(ctx, orderCode, buyerID, items, totalAmount)
	if err != nil {
		return nil, err
	}

	s.publishOrderEvent(ctx, order, "created")
	return order, nil
}

// ListOrders returns all orders for admins, only the actor's own otherwise.
func (s *OrderService) ListOrders(ctx context.Context, actorID primitive.ObjectID, role string) ([]entity.Order, error) {
	if role == entity.RoleAdmin {
		return s.orders.List(ctx)
	}
	return s.orders.ListByBuyer(ctx, actorID)
}

func (s *OrderService) GetOrder(ctx context.Context, actorID primitive.ObjectID, role string, id primitive.ObjectID) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil, fmt.Errorf("order not found: %w", entity.ErrNotFound)
		}
		return nil, err
	}

	if role != entity.RoleAdmin && order.BuyerID != actorID {
		return nil, entity.ErrForbidden
	}

	return order, nil
}

// SetStatus moves the order to any of the four lifecycle statuses; no
// transition order is enforced. completedAt is stamped on the transition to
// completed.
func (s *OrderService) SetStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus) (*entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, entity.ErrValidation)
	}

	var completedAt *time.Time
	if status == entity.OrderStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	order, err := s.orders.UpdateStatus(ctx, id, status, completedAt)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil, fmt.Errorf("order not found: %w", entity.ErrNotFound)
		}
		logger.Error().Err(err).Msgf("Error updating status of order %s", id.Hex())
		return nil, err
	}

	s.publishOrderEvent(ctx, order, "status")
	return order, nil
}

func (s *OrderService) ListOrdersByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, entity.ErrValidation)
	}
	return s.orders.ListByStatus(ctx, status)
}

// buildItems re-reads every product, checks the requested quantity against
// current stock and snapshots name, code and current price into order items.
// Nothing is mutated here, so a failing line fails the whole order cleanly.
func (s *OrderService) buildItems(ctx context.Context, lines []OrderLine) ([]entity.OrderItem, float64, error) {
	items := make([]entity.OrderItem, 0, len(lines))
	var totalAmount float64

	for _, line := range lines {
		if line.Qty < 1 {
			return nil, 0, fmt.Errorf("quantity must be at least 1: %w", entity.ErrValidation)
		}

		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if err == entity.ErrNotFound {
				return nil, 0, fmt.Errorf("product not found: %w", entity.ErrNotFound)
			}
			logger.Error().Err(err).Msgf("Error getting product %s", line.ProductID.Hex())
			return nil, 0, err
		}

		if product.Stock < line.Qty {
			return nil, 0, fmt.Errorf("not enough stock for %s: %w", product.Name, entity.ErrInsufficientStock)
		}

		itemTotal := product.Price * float64(line.Qty)
		totalAmount += itemTotal

		items = append(items, entity.OrderItem{
			ProductID:   product.ID,
			ProductCode: product.Code,
			Name:        product.Name,
			Qty:         line.Qty,
			Price:       product.Price,
			Total:       itemTotal,
		})
	}

	return items, totalAmount, nil
}

// decrementStock applies the per-line conditional decrements. Each decrement
// is atomic on its own; a failure partway leaves earlier lines decremented.
func (s *OrderService) decrementStock(ctx context.Context, items []entity.OrderItem) error {
	for _, item := range items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Qty); err != nil {
			if err == entity.ErrInsufficientStock {
				return fmt.Errorf("not enough stock for %s: %w", item.Name, entity.ErrInsufficientStock)
			}
			logger.Error().Err(err).Msgf("Error decrementing stock for product %s", item.ProductID.Hex())
			return err
		}
	}

	return nil
}

func (s *OrderService) insertOrder(ctx context.Context, orderCode string, buyerID primitive.ObjectID, items []entity.OrderItem, totalAmount float64) (*entity.Order, error) {
	order := &entity.Order{
		OrderCode:   orderCode,
		Items:       items,
		BuyerID:     buyerID,
		TotalAmount: totalAmount,
		Status:      entity.OrderStatusPending,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		if err == entity.ErrDuplicateKey {
			return nil, fmt.Errorf("order code %q already exists: %w", orderCode, entity.ErrDuplicateKey)
		}
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	return created, nil
}

// publishOrderEvent emits the order to kafka. The order is already persisted
// when this runs, so a broker failure is logged rather than failing the
// request.
func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, event string) {
	if s.kafkaWriter == nil {
		return
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling order %s", order.OrderCode)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", event, order.OrderCode)),
		Value: orderJSON,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event for order %s", event, order.OrderCode)
	}
}

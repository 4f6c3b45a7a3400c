package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
)

type CartService struct {
	carts    CartRepo
	products ProductRepo
}

// NewCartService creates a new instance of CartService.
func NewCartService(carts CartRepo, products ProductRepo) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart returns the user's cart with product data populated, creating an
// empty cart on first access.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*entity.Cart, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, cart)
}

// AddItem appends a line for the product, merging into an existing line by
// summing quantities. The merged quantity must fit the current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*entity.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", entity.ErrValidation)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil, fmt.Errorf("product not found: %w", entity.ErrNotFound)
		}
		logger.Error().Err(err).Msgf("Error getting product %s", productID.Hex())
		return nil, err
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	items := cart.Items
	for i, item := range items {
		if item.ProductID == productID {
			newQty := item.Qty + qty
			if product.Stock < newQty {
				return nil, fmt.Errorf("not enough stock for %s: %w", product.Name, entity.ErrInsufficientStock)
			}
			items[i].Qty = newQty
			merged = true
			break
		}
	}
	if !merged {
		if product.Stock < qty {
			return nil, fmt.Errorf("not enough stock for %s: %w", product.Name, entity.ErrInsufficientStock)
		}
		items = append(items, entity.CartItem{ProductID: productID, Qty: qty})
	}

	if err := s.carts.SetItems(ctx, cart.ID, items); err != nil {
		logger.Error().Err(err).Msgf("Error saving cart %s", cart.ID.Hex())
		return nil, err
	}

	cart.Items = items
	return s.populate(ctx, cart)
}

// SetItemQty replaces the quantity of an existing line.
func (s *CartService) SetItemQty(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*entity.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", entity.ErrValidation)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil, fmt.Errorf("product not found: %w", entity.ErrNotFound)
		}
		return nil, err
	}

	if product.Stock < qty {
		return nil, fmt.Errorf("not enough stock for %s: %w", product.Name, entity.ErrInsufficientStock)
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil, fmt.Errorf("cart not found: %w", entity.ErrNotFound)
		}
		return nil, err
	}

	found := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Qty = qty
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("item not found in cart: %w", entity.ErrNotFound)
	}

	if err := s.carts.SetItems(ctx, cart.ID, cart.Items); err != nil {
		logger.Error().Err(err).Msgf("Error saving cart %s", cart.ID.Hex())
		return nil, err
	}

	return s.populate(ctx, cart)
}

// RemoveItem drops the product's line. Removing a product that is not in the
// cart is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*entity.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil, fmt.Errorf("cart not found: %w", entity.ErrNotFound)
		}
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}

	if err := s.carts.SetItems(ctx, cart.ID, items); err != nil {
		logger.Error().Err(err).Msgf("Error saving cart %s", cart.ID.Hex())
		return nil, err
	}

	cart.Items = items
	return s.populate(ctx, cart)
}

// ClearCart empties the cart. A missing cart counts as already clear.
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if err == entity.ErrNotFound {
			return nil
		}
		return err
	}

	if err := s.carts.SetItems(ctx, cart.ID, nil); err != nil {
		logger.Error().Err(err).Msgf("Error clearing cart %s", cart.ID.Hex())
		return err
	}

	return nil
}

func (s *CartService) getOrCreate(ctx context.Context, userID primitive.ObjectID) (*entity.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if err != entity.ErrNotFound {
		logger.Error().Err(err).Msgf("Error getting cart for user %s", userID.Hex())
		return nil, err
	}

	return s.carts.Create(ctx, &entity.Cart{UserID: userID, Items: []entity.CartItem{}})
}

// populate attaches product documents to the cart lines. A product deleted
// after it was added leaves its line with a nil Product.
func (s *CartService) populate(ctx context.Context, cart *entity.Cart) (*entity.Cart, error) {
	for i, item := range cart.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if err == entity.ErrNotFound {
				continue
			}
			return nil, err
		}
		cart.Items[i].Product = product
	}

	return cart, nil
}

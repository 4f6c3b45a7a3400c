package api

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/service"
)

type CartHandler struct {
	cartService  service.CartService
	orderService service.OrderService
}

// NewCartHandler creates a new instance of CartHandler
func NewCartHandler(cartService service.CartService, orderService service.OrderService) *CartHandler {
	return &CartHandler{cartService: cartService, orderService: orderService}
}

// GetCart returns the caller's cart with populated products --> GET /carts
func (h *CartHandler) GetCart(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	cart, err := h.cartService.GetCart(c.Request().Context(), actorID)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, cart)
}

// AddItem adds a product to the cart --> POST /carts/add
func (h *CartHandler) AddItem(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	req := struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), actorID, productID, req.Qty)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, cart)
}

// UpdateItem sets the quantity of an existing line --> PUT /carts/item/:productId
func (h *CartHandler) UpdateItem(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	req := struct {
		Qty int `json:"qty"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, err := h.cartService.SetItemQty(c.Request().Context(), actorID, productID, req.Qty)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, cart)
}

// RemoveItem removes a line from the cart --> DELETE /carts/item/:productId
func (h *CartHandler) RemoveItem(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	cart, err := h.cartService.RemoveItem(c.Request().Context(), actorID, productID)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, cart)
}

// ClearCart empties the cart --> DELETE /carts
func (h *CartHandler) ClearCart(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	if err := h.cartService.ClearCart(c.Request().Context(), actorID); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Cart cleared"})
}

// Checkout converts the cart into an order --> POST /carts/checkout
func (h *CartHandler) Checkout(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	req := struct {
		OrderCode string `json:"orderCode"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.Checkout(c.Request().Context(), actorID, req.OrderCode)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, order)
}

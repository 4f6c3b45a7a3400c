package api

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
	"shop-service/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder builds an order from a supplied item list --> POST /orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	req := struct {
		OrderCode string `json:"orderCode"`
		Items     []struct {
			Product string `json:"product"`
			Qty     int    `json:"qty"`
		} `json:"items"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return c.JSON(400, map[string]string{"error": "Invalid product ID"})
		}
		lines = append(lines, service.OrderLine{ProductID: productID, Qty: item.Qty})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), actorID, req.OrderCode, lines)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, order)
}

// ListOrders lists own orders, or all for admins --> GET /orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), actorID, role)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, orders)
}

// GetOrder retrieves an order by ID --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), actorID, role, id)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, order)
}

// UpdateStatus sets the lifecycle status --> PATCH /orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	req := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.SetStatus(c.Request().Context(), id, entity.OrderStatus(req.Status))
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, order)
}

// ListByStatus lists orders in a status --> GET /orders/status/:status (admin)
func (h *OrderHandler) ListByStatus(c echo.Context) error {
	orders, err := h.orderService.ListOrdersByStatus(c.Request().Context(), entity.OrderStatus(c.Param("status")))
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, orders)
}

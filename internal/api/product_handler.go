package api

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/service"
)

type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts lists the catalog --> GET /products (public)
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, products)
}

// GetProduct retrieves a product by ID --> GET /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, product)
}

// CreateProduct creates a product --> POST /products (admin)
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	input := service.ProductInput{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	product, err := h.productService.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, product)
}

// UpdateProduct updates a product --> PUT /products/:id (admin)
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	input := service.ProductUpdate{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, product)
}

// DeleteProduct deletes a product --> DELETE /products/:id (admin)
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Product deleted"})
}

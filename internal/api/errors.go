package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shop-service/internal/entity"
)

// httpStatusFromErr maps the service error taxonomy onto HTTP status codes.
// Anything unrecognized is an internal error.
func httpStatusFromErr(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrInsufficientStock),
		errors.Is(err, entity.ErrDuplicateKey),
		errors.Is(err, entity.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(c echo.Context, err error) error {
	return c.JSON(httpStatusFromErr(err), map[string]string{"error": err.Error()})
}

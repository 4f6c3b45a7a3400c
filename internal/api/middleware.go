package api

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
)

type JwtCustomClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTMiddleware authenticates bearer tokens and stores the parsed claims on
// the context.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JwtCustomClaims)
		},
	})
}

// RequireAdmin gates admin-only routes. Composed after JWTMiddleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := claimsFrom(c)
		if claims == nil || claims.Role != entity.RoleAdmin {
			return c.JSON(403, map[string]string{"error": "admin access required"})
		}
		return next(c)
	}
}

func claimsFrom(c echo.Context) *JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFrom returns the authenticated user's id and role.
func actorFrom(c echo.Context) (primitive.ObjectID, string, error) {
	claims := claimsFrom(c)
	if claims == nil {
		return primitive.NilObjectID, "", entity.ErrUnauthenticated
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, "", entity.ErrUnauthenticated
	}

	return id, claims.Role, nil
}

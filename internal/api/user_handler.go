package api

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a self-service account --> POST /auth/register
func (h *UserHandler) Register(c echo.Context) error {
	input := service.RegisterInput{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.Register(c.Request().Context(), input)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(201, map[string]interface{}{"message": "Register success", "user": user})
}

// Login exchanges credentials for a bearer token --> POST /auth/login
func (h *UserHandler) Login(c echo.Context) error {
	login := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&login); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.userService.Login(c.Request().Context(), login.Username, login.Password)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Login success", "token": token})
}

// Me returns the authenticated user's own profile --> GET /users/me
func (h *UserHandler) Me(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return jsonError(c, err)
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), actorID)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, user)
}

// ListUsers lists all users --> GET /users (admin)
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, users)
}

// GetUser retrieves a user by ID --> GET /users/:id (admin)
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, user)
}

// CreateUser creates a user with any role --> POST /users (admin)
func (h *UserHandler) CreateUser(c echo.Context) error {
	input := service.UserInput{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.CreateUser(c.Request().Context(), input)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, user)
}

// UpdateUser updates a user --> PUT /users/:id (admin)
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	input := service.UserUpdate{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, input)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, user)
}

// DeleteUser deletes a user --> DELETE /users/:id (admin)
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "User deleted"})
}

package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"shop-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type UserService struct {
	repo      UserRepo
	jwtSecret []byte
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserRepo, jwtSecret []byte) *UserService {
	return &UserService{repo: repo, jwtSecret: jwtSecret}
}

type JwtCustomClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Age       int    `json:"age"`
}

// Register creates a self-service account. Role is always "user"; admins are
// provisioned through the admin user CRUD.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("username and password required: %w", entity.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:  input.Username,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Gender:    input.Gender,
		Age:       input.Age,
		Role:      entity.RoleUser,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if err == entity.ErrDuplicateKey {
			return nil, fmt.Errorf("duplicate username: %w", entity.ErrDuplicateKey)
		}
		logger.Error().Err(err).Msg("Error registering user")
		return nil, err
	}

	return created, nil
}

// Login checks credentials and issues a 24h bearer token carrying the user id
// and role.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if err == entity.ErrNotFound {
			return "", fmt.Errorf("user not found: %w", entity.ErrNotFound)
		}
		logger.Error().Err(err).Msg("Error logging in user")
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid password: %w", entity.ErrUnauthenticated)
	}

	claims := &JwtCustomClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	return t, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err != entity.ErrNotFound {
			logger.Error().Err(err).Msgf("Error getting user by ID %s", id.Hex())
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}

	return users, nil
}

type UserInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Age       int    `json:"age"`
	Role      string `json:"role"`
}

// CreateUser is the admin entry point; unlike Register it may assign any role.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (*entity.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("username and password required: %w", entity.ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return nil, fmt.Errorf("invalid role %q: %w", role, entity.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:  input.Username,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Gender:    input.Gender,
		Age:       input.Age,
		Role:      role,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if err == entity.ErrDuplicateKey {
			return nil, fmt.Errorf("duplicate username: %w", entity.ErrDuplicateKey)
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return created, nil
}

type UserUpdate struct {
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Gender    *string `json:"gender"`
	Age       *int    `json:"age"`
	Role      *string `json:"role"`
}

func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, input UserUpdate) (*entity.User, error) {
	fields := bson.M{}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields["password"] = string(hashed)
	}
	if input.FirstName != nil {
		fields["firstName"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["lastName"] = *input.LastName
	}
	if input.Gender != nil {
		fields["gender"] = *input.Gender
	}
	if input.Age != nil {
		fields["age"] = *input.Age
	}
	if input.Role != nil {
		if *input.Role != entity.RoleUser && *input.Role != entity.RoleAdmin {
			return nil, fmt.Errorf("invalid role %q: %w", *input.Role, entity.ErrValidation)
		}
		fields["role"] = *input.Role
	}

	user, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if err != entity.ErrNotFound && err != entity.ErrDuplicateKey {
			logger.Error().Err(err).Msgf("Error updating user %s", id.Hex())
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err != entity.ErrNotFound {
			logger.Error().Err(err).Msgf("Error deleting user %s", id.Hex())
		}
		return err
	}

	return nil
}

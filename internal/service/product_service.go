package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
)

type ProductService struct {
	repo ProductRepo
}

// NewProductService creates a new instance of ProductService.
func NewProductService(repo ProductRepo) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err != entity.ErrNotFound {
			logger.Error().Err(err).Msgf("Error getting product by ID %s", id.Hex())
		}
		return nil, err
	}

	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}

	return products, nil
}

type ProductInput struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*entity.Product, error) {
	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("code and name required: %w", entity.ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", entity.ErrValidation)
	}
	if input.Stock < 0 {
		return nil, fmt.Errorf("stock must not be negative: %w", entity.ErrValidation)
	}

	product := &entity.Product{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if err == entity.ErrDuplicateKey {
			return nil, fmt.Errorf("product code %q already exists: %w", input.Code, entity.ErrDuplicateKey)
		}
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}

	return created, nil
}

type ProductUpdate struct {
	Code        *string  `json:"code"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}

func (s *ProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, input ProductUpdate) (*entity.Product, error) {
	fields := bson.M{}
	if input.Code != nil {
		if *input.Code == "" {
			return nil, fmt.Errorf("code must not be empty: %w", entity.ErrValidation)
		}
		fields["code"] = *input.Code
	}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("price must not be negative: %w", entity.ErrValidation)
		}
		fields["price"] = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, fmt.Errorf("stock must not be negative: %w", entity.ErrValidation)
		}
		fields["stock"] = *input.Stock
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}

	product, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if err == entity.ErrDuplicateKey {
			return nil, fmt.Errorf("product code already exists: %w", entity.ErrDuplicateKey)
		}
		if err != entity.ErrNotFound {
			logger.Error().Err(err).Msgf("Error updating product %s", id.Hex())
		}
		return nil, err
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err != entity.ErrNotFound {
			logger.Error().Err(err).Msgf("Error deleting product %s", id.Hex())
		}
		return err
	}

	return nil
}

package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-service/internal/entity"
)

// In-memory repository fakes. They mirror the mongo implementations' error
// contract: bare sentinels from entity, duplicate keys detected on insert.

type fakeProductRepo struct {
	products map[primitive.ObjectID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[primitive.ObjectID]*entity.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]entity.Product, error) {
	out := []entity.Product{}
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == product.Code {
			return nil, entity.ErrDuplicateKey
		}
	}
	product.ID = primitive.NewObjectID()
	cp := *product
	r.products[cp.ID] = &cp
	return product, nil
}

func (r *fakeProductRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "code":
			code := value.(string)
			for otherID, other := range r.products {
				if otherID != id && other.Code == code {
					return nil, entity.ErrDuplicateKey
				}
			}
			p.Code = code
		case "name":
			p.Name = value.(string)
		case "description":
			p.Description = value.(string)
		case "price":
			p.Price = value.(float64)
		case "stock":
			p.Stock = value.(int)
		case "image":
			p.Image = value.(string)
		}
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.products[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return entity.ErrNotFound
	}
	if p.Stock < qty {
		return entity.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

type fakeCartRepo struct {
	carts map[primitive.ObjectID]*entity.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[primitive.ObjectID]*entity.Cart{}}
}

func (r *fakeCartRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*entity.Cart, error) {
	for _, cart := range r.carts {
		if cart.UserID == userID {
			cp := *cart
			cp.Items = append([]entity.CartItem{}, cart.Items...)
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeCartRepo) Create(_ context.Context, cart *entity.Cart) (*entity.Cart, error) {
	for _, existing := range r.carts {
		if existing.UserID == cart.UserID {
			return nil, entity.ErrDuplicateKey
		}
	}
	cart.ID = primitive.NewObjectID()
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}
	cp := *cart
	cp.Items = append([]entity.CartItem{}, cart.Items...)
	r.carts[cp.ID] = &cp
	return cart, nil
}

func (r *fakeCartRepo) SetItems(_ context.Context, cartID primitive.ObjectID, items []entity.CartItem) error {
	cart, ok := r.carts[cartID]
	if !ok {
		return entity.ErrNotFound
	}
	cart.Items = append([]entity.CartItem{}, items...)
	return nil
}

type fakeOrderRepo struct {
	orders []*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) (*entity.Order, error) {
	for _, existing := range r.orders {
		if existing.OrderCode == order.OrderCode {
			return nil, entity.ErrDuplicateKey
		}
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	cp := *order
	r.orders = append(r.orders, &cp)
	return order, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			cp := *order
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeOrderRepo) List(_ context.Context) ([]entity.Order, error) {
	out := []entity.Order{}
	for _, order := range r.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByBuyer(_ context.Context, buyerID primitive.ObjectID) ([]entity.Order, error) {
	out := []entity.Order{}
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByStatus(_ context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	out := []entity.Order{}
	for _, order := range r.orders {
		if order.Status == status {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status entity.OrderStatus, completedAt *time.Time) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			order.Status = status
			if completedAt != nil {
				order.CompletedAt = completedAt
			}
			cp := *order
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*entity.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]entity.User, error) {
	out := []entity.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, entity.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[cp.ID] = &cp
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "password":
			u.Password = value.(string)
		case "firstName":
			u.FirstName = value.(string)
		case "lastName":
			u.LastName = value.(string)
		case "gender":
			u.Gender = value.(string)
		case "age":
			u.Age = value.(int)
		case "role":
			u.Role = value.(string)
		}
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

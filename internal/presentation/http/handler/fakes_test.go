package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/pagination"
)

type memProducts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Product
}

func newMemProducts() *memProducts {
	return &memProducts{rows: map[uuid.UUID]entity.Product{}}
}

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = *p
	return nil
}

func (r *memProducts) CreateBatch(ctx context.Context, products []entity.Product) error {
	for i := range products {
		_ = r.Create(ctx, &products[i])
	}
	return nil
}

func (r *memProducts) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memProducts) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = *p
	return nil
}

func (r *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memProducts) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.rows {
		if params.ActiveOnly && !p.Active {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *memProducts) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type memCustomers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{rows: map[uuid.UUID]entity.Customer{}}
}

func (r *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *memCustomers) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCustomers) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.Phone != nil && *c.Phone == phone {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *memCustomers) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memCustomers) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Customer, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *memCustomers) ListWithCursor(ctx context.Context, _ *pagination.CursorParams, search string) ([]entity.Customer, error) {
	out, _, err := r.List(ctx, nil, search)
	return out, err
}

func (r *memCustomers) AdjustCredit(_ context.Context, id uuid.UUID, delta int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok || c.CreditBalance+delta < 0 {
		return false, nil
	}
	c.CreditBalance += delta
	r.rows[id] = c
	return true, nil
}

type memCarts struct {
	mu        sync.Mutex
	byUser    map[uuid.UUID]*entity.CartSession
	customers *memCustomers
}

func newMemCarts(customers *memCustomers) *memCarts {
	return &memCarts{byUser: map[uuid.UUID]*entity.CartSession{}, customers: customers}
}

func (r *memCarts) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error) {
	r.mu.Lock()
	cart, ok := r.byUser[userID]
	if !ok {
		r.mu.Unlock()
		return nil, nil
	}
	out := *cart
	out.Items = append([]entity.CartItem{}, cart.Items...)
	r.mu.Unlock()

	if out.CustomerID != nil {
		out.Customer, _ = r.customers.GetByID(ctx, *out.CustomerID)
	}
	return &out, nil
}

func (r *memCarts) Create(_ context.Context, cart *entity.CartSession) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *cart
	stored.Items = append([]entity.CartItem{}, cart.Items...)
	r.byUser[cart.UserID] = &stored
	return nil
}

func (r *memCarts) find(cartID uuid.UUID) *entity.CartSession {
	for _, c := range r.byUser {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func (r *memCarts) SetCustomer(_ context.Context, cartID uuid.UUID, customerID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.find(cartID); cart != nil {
		cart.CustomerID = customerID
	}
	return nil
}

func (r *memCarts) SaveItem(_ context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.find(item.CartID)
	if cart == nil {
		return nil
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *item
			return nil
		}
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (r *memCarts) DeleteItem(_ context.Context, cartID, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.find(cartID)
	if cart == nil {
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memCarts) ClearItems(_ context.Context, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.find(cartID); cart != nil {
		cart.Items = nil
	}
	return nil
}

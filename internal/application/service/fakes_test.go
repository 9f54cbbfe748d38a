package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/pkg/pagination"
)

// In-memory repositories. Reads return copies, like rows loaded from postgres.

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[uuid.UUID]entity.Customer{}}
}

func (r *fakeCustomerRepo) add(c entity.Customer) *entity.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.mu.Lock()
	r.customers[c.ID] = c
	r.mu.Unlock()
	return &c
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone != nil && *c.Phone == phone {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.customers[c.ID]
	updated := *c
	updated.CreditBalance = stored.CreditBalance
	r.customers[c.ID] = updated
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Customer
	for _, c := range r.customers {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	out, _, err := r.List(ctx, nil, search)
	return out, err
}

func (r *fakeCustomerRepo) AdjustCredit(ctx context.Context, id uuid.UUID, delta int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.CreditBalance+delta < 0 {
		return false, nil
	}
	c.CreditBalance += delta
	r.customers[id] = c
	return true, nil
}

func (r *fakeCustomerRepo) balance(id uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customers[id].CreditBalance
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]entity.Product{}}
}

func (r *fakeProductRepo) add(p entity.Product) *entity.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
	return &p
}

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	for i := range products {
		if err := r.Create(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
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

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

type fakeCartRepo struct {
	mu        sync.Mutex
	carts     map[uuid.UUID]*entity.CartSession // by user
	customers *fakeCustomerRepo
	clearErr  error
}

func newFakeCartRepo(customers *fakeCustomerRepo) *fakeCartRepo {
	return &fakeCartRepo{carts: map[uuid.UUID]*entity.CartSession{}, customers: customers}
}

func (r *fakeCartRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CartSession, error) {
	r.mu.Lock()
	cart, ok := r.carts[userID]
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

func (r *fakeCartRepo) Create(ctx context.Context, cart *entity.CartSession) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *cart
	stored.Items = append([]entity.CartItem{}, cart.Items...)
	r.carts[cart.UserID] = &stored
	return nil
}

func (r *fakeCartRepo) byID(cartID uuid.UUID) *entity.CartSession {
	for _, c := range r.carts {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func (r *fakeCartRepo) SetCustomer(ctx context.Context, cartID uuid.UUID, customerID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.byID(cartID)
	if cart == nil {
		return errors.New("cart not found")
	}
	cart.CustomerID = customerID
	return nil
}

func (r *fakeCartRepo) SaveItem(ctx context.Context, item *entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.byID(item.CartID)
	if cart == nil {
		return errors.New("cart not found")
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
		cart.Items = append(cart.Items, *item)
		return nil
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

func (r *fakeCartRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.byID(cartID)
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

func (r *fakeCartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	if r.clearErr != nil {
		return r.clearErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart := r.byID(cartID); cart != nil {
		cart.Items = nil
		cart.CustomerID = nil
	}
	return nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]entity.Order
	customers *fakeCustomerRepo
	createErr error
}

func newFakeOrderRepo(customers *fakeCustomerRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]entity.Order{}, customers: customers}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *o
	stored.Items = append([]entity.OrderItem{}, o.Items...)
	stored.Customer = nil
	r.orders[o.ID] = stored
	return nil
}

func (r *fakeOrderRepo) load(ctx context.Context, o entity.Order) *entity.Order {
	o.Items = append([]entity.OrderItem{}, o.Items...)
	o.Customer, _ = r.customers.GetByID(ctx, o.CustomerID)
	return &o
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.GetWithDetails(ctx, id)
}

func (r *fakeOrderRepo) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return r.load(ctx, o), nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return r.load(ctx, o), nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *o
	stored.Items = r.orders[o.ID].Items
	stored.Customer = nil
	r.orders[o.ID] = stored
	return nil
}

func (r *fakeOrderRepo) all(ctx context.Context, keep func(entity.Order) bool) []entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, *r.load(ctx, o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	out := r.all(ctx, func(o entity.Order) bool {
		return params.Status == nil || o.Status == *params.Status
	})
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListWithCursor(ctx context.Context, params *repository.OrderCursorFilterParams) ([]entity.Order, error) {
	return r.all(ctx, func(o entity.Order) bool {
		return params.Status == nil || o.Status == *params.Status
	}), nil
}

func (r *fakeOrderRepo) ListByStatus(ctx context.Context, status enum.OrderStatus, orderBy string) ([]entity.Order, error) {
	return r.all(ctx, func(o entity.Order) bool { return o.Status == status }), nil
}

func (r *fakeOrderRepo) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	out := r.all(ctx, func(o entity.Order) bool {
		return o.Due > 0 && o.Status != enum.OrderStatusCancelled
	})
	return out, int64(len(out)), nil
}

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[uuid.UUID]entity.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: map[uuid.UUID]entity.Shift{}}
}

func (r *fakeShiftRepo) Create(ctx context.Context, s *entity.Shift) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts[s.ID] = *s
	return nil
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeShiftRepo) GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shifts {
		if s.UserID == userID && s.Status == enum.ShiftStatusOpen {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeShiftRepo) Update(ctx context.Context, s *entity.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts[s.ID] = *s
	return nil
}

func (r *fakeShiftRepo) List(ctx context.Context, userID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Shift, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Shift
	for _, s := range r.shifts {
		if userID == nil || s.UserID == *userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, int64(len(out)), nil
}

type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[uuid.UUID]entity.PrinterTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[uuid.UUID]entity.PrinterTemplate{}}
}

func (r *fakeTemplateRepo) Create(ctx context.Context, t *entity.PrinterTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = *t
	return nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PrinterTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeTemplateRepo) GetDefault(ctx context.Context, kind enum.TemplateKind) (*entity.PrinterTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.templates {
		if t.Kind == kind && t.IsDefault {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, t *entity.PrinterTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = *t
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) List(ctx context.Context, kind *enum.TemplateKind) ([]entity.PrinterTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PrinterTemplate
	for _, t := range r.templates {
		if kind == nil || t.Kind == *kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) SetDefault(ctx context.Context, id uuid.UUID, kind enum.TemplateKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tid, t := range r.templates {
		if t.Kind == kind {
			t.IsDefault = tid == id
			r.templates[tid] = t
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
	roles *fakeRoleRepo
}

func newFakeUserRepo(roles *fakeRoleRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]entity.User{}, roles: roles}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *u
	stored.Roles = r.users[u.ID].Roles
	r.users[u.ID] = stored
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) AssignRole(ctx context.Context, userID uuid.UUID, roleID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	for _, role := range r.roles.roles {
		if role.ID == roleID {
			u.Roles = append(u.Roles, role)
		}
	}
	r.users[userID] = u
	return nil
}

type fakeRoleRepo struct {
	roles []entity.Role
}

func newFakeRoleRepo(names ...string) *fakeRoleRepo {
	r := &fakeRoleRepo{}
	for i, name := range names {
		r.roles = append(r.roles, entity.Role{ID: uint(i + 1), Name: name})
	}
	return r
}

func (r *fakeRoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return &role, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) List(ctx context.Context) ([]entity.Role, error) {
	return r.roles, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	ready []string
	err   error
}

func (n *fakeNotifier) OrderReady(ctx context.Context, o *entity.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ready = append(n.ready, o.OrderNo)
	return n.err
}

package service

import (
	"context"
	"errors"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

var nopLogger = zerolog.Nop()

// --- users ---

type stubUserRepo struct {
	users       map[uint]*domain.User
	nextID      uint
	updateCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(user)
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) Update(_ context.Context, id uint, ch domain.UserChanges) (*domain.User, error) {
	r.updateCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.PasswordHash, ch.PasswordHash)
	set(&u.Name, ch.Name)
	set(&u.Username, ch.Username)
	set(&u.Address, ch.Address)
	set(&u.Phone, ch.Phone)
	set(&u.Gender, ch.Gender)
	set(&u.Image, ch.Image)
	if ch.Role != nil {
		u.Role = *ch.Role
	}
	return cloneUser(u), nil
}

// fakeHasher avoids bcrypt cost in service tests.
type fakeHasher struct {
	compares int
}

func (h *fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (h *fakeHasher) Compare(hash, plain string) bool {
	h.compares++
	return hash == "hashed:"+plain
}

type stubSigner struct {
	issued map[string]domain.Identity
}

func newStubSigner() *stubSigner { return &stubSigner{issued: make(map[string]domain.Identity)} }

func (s *stubSigner) Sign(id domain.Identity) (domain.IssuedToken, error) {
	tok := "tok-" + id.Email
	s.issued[tok] = id
	return domain.IssuedToken{Token: tok, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubSigner) Verify(token string) (domain.Identity, error) {
	id, ok := s.issued[token]
	if !ok {
		return domain.Identity{}, &domain.TokenError{Reason: domain.TokenBadSignature}
	}
	return id, nil
}

// --- events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- catalog ---

type stubCategoryRepo struct {
	cats map[uint]domain.Category
}

func newStubCategoryRepo(names ...string) *stubCategoryRepo {
	r := &stubCategoryRepo{cats: make(map[uint]domain.Category)}
	for i, n := range names {
		id := uint(i + 1)
		r.cats[id] = domain.Category{ID: id, Name: n}
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range r.cats {
		if c.Name == name {
			return nil, domain.ErrCategoryExists
		}
	}
	c := domain.Category{ID: uint(len(r.cats) + 1), Name: name}
	r.cats[c.ID] = c
	return &c, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.cats))
	for _, c := range r.cats {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubCategoryRepo) CountByIDs(_ context.Context, ids []uint) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.cats[id]; ok {
			n++
		}
	}
	return n, nil
}

type stubProductRepo struct {
	products   map[string]*domain.Product
	lastFilter domain.ProductFilter
}

func newStubProductRepo(products ...domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*domain.Product)}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product, _ []uint) (*domain.Product, error) {
	for _, existing := range r.products {
		if existing.Name == p.Name {
			return nil, domain.ErrProductExists
		}
	}
	c := *p
	r.products[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	// reverse so callers cannot rely on repository order
	slices.Reverse(out)
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	r.lastFilter = f
	var out []domain.Product
	for _, p := range r.products {
		if f.Search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))
	start := min(f.Page.Offset(), len(out))
	end := min(start+f.Page.Size, len(out))
	return out[start:end], total, nil
}

func (r *stubProductRepo) Update(_ context.Context, id string, ch domain.ProductChanges) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if ch.Name != nil {
		p.Name = *ch.Name
	}
	if ch.Price != nil {
		p.Price = *ch.Price
	}
	if ch.Stock != nil {
		p.Stock = *ch.Stock
	}
	c := *p
	return &c, nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type stubSearcher struct {
	ids []string
	err error
}

func (s *stubSearcher) Search(context.Context, string, domain.Page) ([]string, int64, error) {
	return s.ids, int64(len(s.ids)), s.err
}

type memImageStore struct {
	saved map[string]string
}

func (m *memImageStore) Save(_ context.Context, _ string, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := "img1"
	m.saved[id] = contentType + ":" + string(b)
	return id, nil
}

func (m *memImageStore) Open(_ context.Context, id string) (io.ReadCloser, ports.ImageInfo, error) {
	v, ok := m.saved[id]
	if !ok {
		return nil, ports.ImageInfo{}, domain.ErrImageNotFound
	}
	ct, body, _ := strings.Cut(v, ":")
	return io.NopCloser(strings.NewReader(body)), ports.ImageInfo{ContentType: ct, Size: int64(len(body))}, nil
}

// --- carts ---

type stubCartRepo struct {
	items  map[string]*domain.CartItem
	writes int
}

func newStubCartRepo(items ...domain.CartItem) *stubCartRepo {
	r := &stubCartRepo{items: make(map[string]*domain.CartItem)}
	for i := range items {
		it := items[i]
		r.items[it.ID] = &it
	}
	return r
}

func (r *stubCartRepo) Create(_ context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	r.writes++
	c := *item
	r.items[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubCartRepo) ListByUser(_ context.Context, userID uint, _ domain.Page) ([]domain.CartItem, int64, error) {
	var out []domain.CartItem
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCartRepo) UpdateQty(_ context.Context, id string, userID uint, qty int) (*domain.CartItem, error) {
	r.writes++
	it, ok := r.items[id]
	if !ok || it.UserID != userID {
		return nil, domain.ErrCartNotFound
	}
	it.Qty = qty
	c := *it
	return &c, nil
}

func (r *stubCartRepo) Delete(_ context.Context, id string, userID uint) (*domain.CartItem, error) {
	r.writes++
	it, ok := r.items[id]
	if !ok || it.UserID != userID {
		return nil, domain.ErrCartNotFound
	}
	delete(r.items, id)
	return it, nil
}

// --- orders ---

type stubOrderRepo struct {
	orders  map[string]*domain.Order
	creates int
	writes  int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order, lines []domain.OrderLine) (*domain.Order, error) {
	r.creates++
	c := *o
	for _, l := range lines {
		c.Items = append(c.Items, domain.OrderItem{ProductID: l.ProductID, Qty: l.Qty})
	}
	r.orders[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ domain.Page) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID uint) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	r.writes++
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	c := *o
	return &c, nil
}

type memIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: make(map[string]string)}
}

func (m *memIdempotency) Lookup(_ context.Context, scope, key string) (string, bool, error) {
	if m.lookupErr != nil {
		return "", false, m.lookupErr
	}
	v, ok := m.keys[scope+"/"+key]
	return v, ok, nil
}

func (m *memIdempotency) Remember(_ context.Context, scope, key, value string) error {
	m.keys[scope+"/"+key] = value
	return nil
}

var errBoom = errors.New("boom")

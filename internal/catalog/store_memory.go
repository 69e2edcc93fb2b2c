package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"DemoShop/internal/apperr"
	"DemoShop/internal/memstore"
)

type MemStore struct {
	products *memstore.Map[Product]

	now   func() time.Time
	newID func() string
}

type Option func(*MemStore)

func WithClock(now func() time.Time) Option {
	return func(s *MemStore) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *MemStore) { s.newID = gen }
}

func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		products: memstore.NewMap[Product](),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return "p_" + uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

// ActiveCount is the number of products visible to readers.
func (s *MemStore) ActiveCount() int {
	n := 0
	for _, p := range s.products.All() {
		if p.Active {
			n++
		}
	}
	return n
}

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	return s.filter(func(Product) bool { return true }), nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	p, ok := s.products.Get(id)
	if !ok || !p.Active {
		return Product{}, false, nil
	}
	return p, true, nil
}

func (s *MemStore) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.filter(func(p Product) bool {
		return strings.EqualFold(p.Category, category)
	}), nil
}

func (s *MemStore) Search(ctx context.Context, keyword string) ([]Product, error) {
	kw := strings.ToLower(keyword)
	return s.filter(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), kw) ||
			strings.Contains(strings.ToLower(p.Description), kw) ||
			strings.Contains(strings.ToLower(p.Category), kw)
	}), nil
}

func (s *MemStore) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range s.products.All() {
		if p.Active {
			seen[p.Category] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// filter scans the active products once, keeping those matching keep.
func (s *MemStore) filter(keep func(Product) bool) []Product {
	out := make([]Product, 0, 16)
	for _, p := range s.products.All() {
		if p.Active && keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemStore) Create(ctx context.Context, d Draft) (Product, error) {
	if err := validateDraft(d); err != nil {
		return Product{}, err
	}

	now := s.now()
	p := Product{
		ID:        s.newID(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p = applyDraft(p, d)

	if !s.products.PutIfAbsent(p.ID, p) {
		return Product{}, fmt.Errorf("create product: id %q already in use", p.ID)
	}
	return p, nil
}

// Update overwrites every caller-supplied field. Soft-deleted products are
// not found, and the active flag is never touched here.
func (s *MemStore) Update(ctx context.Context, id string, d Draft) (Product, error) {
	if err := validateDraft(d); err != nil {
		return Product{}, err
	}

	p, found, err := s.products.Update(id, func(cur Product) (Product, error) {
		if !cur.Active {
			return cur, apperr.NotFound(entity)
		}
		cur = applyDraft(cur, d)
		cur.UpdatedAt = s.now()
		return cur, nil
	})
	if err != nil {
		return Product{}, err
	}
	if !found {
		return Product{}, apperr.NotFound(entity)
	}
	return p, nil
}

// SoftDelete marks the product inactive. Repeating it on an already
// inactive product succeeds, since the record is still stored.
func (s *MemStore) SoftDelete(ctx context.Context, id string) error {
	_, found, _ := s.products.Update(id, func(cur Product) (Product, error) {
		cur.Active = false
		cur.UpdatedAt = s.now()
		return cur, nil
	})
	if !found {
		return apperr.NotFound(entity)
	}
	return nil
}

func (s *MemStore) UpdateStock(ctx context.Context, id string, quantity int) (Product, error) {
	if quantity < 0 {
		return Product{}, apperr.Validation(entity, "stockQuantity", "stock quantity must not be negative")
	}

	p, found, err := s.products.Update(id, func(cur Product) (Product, error) {
		if !cur.Active {
			return cur, apperr.NotFound(entity)
		}
		cur.StockQuantity = quantity
		cur.UpdatedAt = s.now()
		return cur, nil
	})
	if err != nil {
		return Product{}, err
	}
	if !found {
		return Product{}, apperr.NotFound(entity)
	}
	return p, nil
}

func validateDraft(d Draft) error {
	if d.Price.IsNegative() {
		return apperr.Validation(entity, "price", "price must not be negative")
	}
	if d.StockQuantity < 0 {
		return apperr.Validation(entity, "stockQuantity", "stock quantity must not be negative")
	}
	return nil
}

func applyDraft(p Product, d Draft) Product {
	p.Name = d.Name
	p.Description = d.Description
	p.Price = d.Price
	p.Category = d.Category
	p.StockQuantity = d.StockQuantity
	p.ImageURL = d.ImageURL
	return p
}

package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"Palaniappa/internal/schema"
)

var _ Store = (*MemStore)(nil)

// MemStore keeps products and users in process memory. Products are listed
// in insertion order.
type MemStore struct {
	mu    sync.RWMutex
	m     map[string]schema.Product
	order []string
	users map[string]schema.User
}

func NewMemStore(seed []schema.NewProduct) *MemStore {
	s := &MemStore{
		m:     make(map[string]schema.Product, len(seed)),
		order: make([]string, 0, len(seed)),
		users: map[string]schema.User{},
	}
	for _, np := range seed {
		s.insert(np.WithID(uuid.NewString()))
	}
	return s
}

// NewStore returns a memory store loaded with the demo inventory.
func NewStore() *MemStore {
	return NewMemStore(Seed())
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Close() error { return nil }

func (s *MemStore) insert(p schema.Product) {
	s.m[p.ID] = p
	s.order = append(s.order, p.ID)
}

func (s *MemStore) filter(keep func(schema.Product) bool) []schema.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.m[id]
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *MemStore) GetAllProducts(ctx context.Context) ([]schema.Product, error) {
	return s.filter(func(schema.Product) bool { return true }), nil
}

func (s *MemStore) GetProductByID(ctx context.Context, id string) (schema.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	if !ok {
		return schema.Product{}, false, nil
	}
	return p.Clone(), true, nil
}

func (s *MemStore) GetProductsByCategory(ctx context.Context, category string) ([]schema.Product, error) {
	return s.filter(func(p schema.Product) bool { return p.Category == category }), nil
}

func (s *MemStore) GetFeaturedProducts(ctx context.Context) ([]schema.Product, error) {
	return s.filter(func(p schema.Product) bool { return p.IsFeatured }), nil
}

func (s *MemStore) GetNewArrivals(ctx context.Context) ([]schema.Product, error) {
	return s.filter(func(p schema.Product) bool { return p.IsNewArrival }), nil
}

func (s *MemStore) CreateProduct(ctx context.Context, np schema.NewProduct) (schema.Product, error) {
	p := np.WithID(uuid.NewString())

	s.mu.Lock()
	s.insert(p)
	s.mu.Unlock()

	return p.Clone(), nil
}

// UpdateProduct holds the write lock across read and write so concurrent
// patches to one id are applied one after another.
func (s *MemStore) UpdateProduct(ctx context.Context, id string, patch schema.ProductPatch) (schema.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return schema.Product{}, false, nil
	}
	p = patch.Apply(p)
	s.m[id] = p
	return p.Clone(), true, nil
}

func (s *MemStore) DeleteProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemStore) SearchProducts(ctx context.Context, query string) ([]schema.Product, error) {
	q := strings.ToLower(query)
	return s.filter(func(p schema.Product) bool { return matchesQuery(p, q) }), nil
}

// matchesQuery expects q already lower-cased.
func matchesQuery(p schema.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

func (s *MemStore) GetUser(ctx context.Context, id string) (schema.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return schema.User{}, false, nil
	}
	return cloneUser(u), true, nil
}

func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (schema.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), true, nil
		}
	}
	return schema.User{}, false, nil
}

func (s *MemStore) CreateUser(ctx context.Context, nu schema.NewUser) (schema.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return schema.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == nu.Username {
			return schema.User{}, ErrUsernameTaken
		}
	}

	u := schema.User{ID: uuid.NewString(), Username: nu.Username, PasswordHash: hash}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func cloneUser(u schema.User) schema.User {
	u.PasswordHash = slices.Clone(u.PasswordHash)
	return u
}

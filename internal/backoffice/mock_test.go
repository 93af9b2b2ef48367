package backoffice

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// Lock in case of t.Parallel call.
type mockRepository struct {
	orders  map[order.ID]*order.Order
	reviews map[int64]int
	users   map[int]bool
	events  []order.StatusEvent
	filters []order.Filter
	mu      sync.Mutex
}

func newMockRepository(orders ...*order.Order) *mockRepository {
	m := &mockRepository{
		orders:  make(map[order.ID]*order.Order),
		reviews: make(map[int64]int),
		users:   make(map[int]bool),
	}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockRepository) ListOrders(_ context.Context, f order.Filter, customerID *int) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filters = append(m.filters, f)

	ids := make([]order.ID, 0, len(m.orders))
	for id := range m.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*order.Order, 0)
	for _, id := range ids {
		o := m.orders[id]
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if customerID != nil && (o.CustomerID == nil || *o.CustomerID != *customerID) {
			continue
		}
		c := *o
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockRepository) GetOrder(_ context.Context, id order.ID) (*order.Order, error) {
	if id == 500 {
		return nil, errors.New("don't panic!")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (m *mockRepository) UpdateOrderStatus(_ context.Context, id order.ID, status order.Status) (order.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return "", errs.ErrNotFound
	}
	previous := o.Status
	o.Status = status
	return previous, nil
}

func (m *mockRepository) CreateStatusEvent(_ context.Context, e *order.StatusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return nil
}

func (m *mockRepository) DeleteReview(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockRepository) DeleteUserReviews(_ context.Context, userID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, owner := range m.reviews {
		if owner == userID {
			delete(m.reviews, id)
			n++
		}
	}
	return n, nil
}

func (m *mockRepository) DeleteUser(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.users[userID] {
		return errs.ErrNotFound
	}
	delete(m.users, userID)
	for _, o := range m.orders {
		if o.CustomerID != nil && *o.CustomerID == userID {
			o.CustomerID = nil
		}
	}
	return nil
}

// snapshot copies the repository state so that a rollback can restore it.
func (m *mockRepository) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make(map[order.ID]*order.Order, len(m.orders))
	for id, o := range m.orders {
		c := *o
		orders[id] = &c
	}
	reviews := make(map[int64]int, len(m.reviews))
	for id, owner := range m.reviews {
		reviews[id] = owner
	}
	users := make(map[int]bool, len(m.users))
	for id, ok := range m.users {
		users[id] = ok
	}
	events := slices.Clone(m.events)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.orders, m.reviews, m.users, m.events = orders, reviews, users, events
	}
}

// mockManager runs the callback and undoes its effects on error.
type mockManager struct {
	repo      *mockRepository
	calls     int
	rollbacks int
	mu        sync.Mutex
}

var _ trm.Manager = (*mockManager)(nil)

func (m *mockManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	restore := m.repo.snapshot()
	if err := fn(ctx); err != nil {
		m.rollbacks++
		restore()
		return err
	}
	return nil
}

func (m *mockManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// withUser authenticates every request as u.
func withUser(u *user.User) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u != nil {
				r = r.WithContext(user.NewContext(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

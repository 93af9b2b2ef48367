package status

import (
	"context"
	"sync"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/requestid"
)

type call struct {
	cred      user.Credential
	requestID string
	status    order.Status
	id        order.ID
}

// mockTransport blocks every call until a result is sent on release.
// Lock in case of concurrent controls.
type mockTransport struct {
	release chan error
	started chan struct{}
	calls   []call
	mu      sync.Mutex
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		release: make(chan error),
		started: make(chan struct{}, 16),
	}
}

func (m *mockTransport) UpdateStatus(ctx context.Context, cred user.Credential, id order.ID, s order.Status) error {
	rid, _ := requestid.FromContext(ctx)

	m.mu.Lock()
	m.calls = append(m.calls, call{cred: cred, requestID: rid, status: s, id: id})
	m.mu.Unlock()
	m.started <- struct{}{}

	select {
	case err := <-m.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockTransport) Calls() []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]call, len(m.calls))
	copy(out, m.calls)
	return out
}

type mockNotifier struct {
	notices []Notice
	mu      sync.Mutex
}

func (m *mockNotifier) Notify(_ context.Context, n Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
}

func (m *mockNotifier) Notices() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notice, len(m.notices))
	copy(out, m.notices)
	return out
}

func newOrder(id order.ID, s order.Status) *order.Order {
	return &order.Order{ID: id, Status: s}
}

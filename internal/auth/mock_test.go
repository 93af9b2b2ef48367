package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
)

// Lock in case of t.Parallel call.
type mockRepository struct {
	items []user.User
	mu    sync.RWMutex
}

func (m *mockRepository) GetUserByID(_ context.Context, userID int) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == userID {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockRepository) GetUserByLogin(_ context.Context, login string) (*user.User, error) {
	if login == "panic" {
		return nil, errors.New("don't panic!")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.Login == login {
			return &item, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockRepository) CreateUser(_ context.Context, login, password string, role user.Role) (int, error) {
	if login == "panic" {
		return -1, errors.New("don't panic!")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	maxID := 0
	for _, item := range m.items {
		if item.Login == login {
			return -1, errs.ErrDataConflict
		}
		maxID = max(maxID, item.ID)
	}
	m.items = append(m.items, user.User{
		ID:        maxID + 1,
		Login:     login,
		Password:  password,
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	return maxID + 1, nil
}

type mockAuthService struct{}

func (m *mockAuthService) Register(w http.ResponseWriter, r *http.Request, params RegisterParams) {}

func (m *mockAuthService) Login(w http.ResponseWriter, r *http.Request, params LoginParams) {}

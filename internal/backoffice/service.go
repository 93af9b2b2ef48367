package backoffice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type Service struct {
	repo   Repository
	trm    trm.Manager
	logger logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, trManager trm.Manager, logger logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("nil dependency: repository")
	}
	if trManager == nil {
		return nil, errors.New("nil dependency: transaction manager")
	}
	if logger == nil {
		return nil, errors.New("nil dependency: logger")
	}
	return &Service{repo: repo, trm: trManager, logger: logger, now: time.Now}, nil
}

var _ ServerInterface = (*Service)(nil)

// List orders (GET /api/orders). Admins see every order, shippers the
// ones out for delivery and customers their own.
func (s *Service) ListOrders(w http.ResponseWriter, r *http.Request, params ListOrdersParams) {
	u, found := user.FromContext(r.Context())
	if !found {
		s.errorHandler(w, r, errUnauthenticated)
		return
	}

	f := params.Filter
	var customerID *int

	switch u.Role {
	case user.ADMIN:
	case user.SHIPPER:
		if f.Status == "" {
			f.Status = order.SHIPPED
		}
		if f.Status != order.SHIPPED {
			s.errorHandler(w, r, fmt.Errorf("%w: shippers only list %s orders", errs.ErrForbidden, order.SHIPPED))
			return
		}
	default:
		customerID = &u.ID
	}

	orders, err := s.repo.ListOrders(r.Context(), f, customerID)
	if err != nil {
		s.errorHandler(w, r, fmt.Errorf("list orders: %w", err))
		return
	}

	s.writeJSON(w, r, orders)
}

// Get order (GET /api/orders/{orderID}).
func (s *Service) GetOrder(w http.ResponseWriter, r *http.Request, id order.ID) {
	u, found := user.FromContext(r.Context())
	if !found {
		s.errorHandler(w, r, errUnauthenticated)
		return
	}

	o, err := s.repo.GetOrder(r.Context(), id)
	if err != nil {
		s.errorHandler(w, r, fmt.Errorf("get order %d: %w", id, err))
		return
	}

	// Other customers' orders do not exist as far as a customer can tell.
	if u.Role == user.CUSTOMER && (o.CustomerID == nil || *o.CustomerID != u.ID) {
		s.errorHandler(w, r, fmt.Errorf("get order %d: %w", id, errs.ErrNotFound))
		return
	}

	s.writeJSON(w, r, o)
}

// Update order status (PATCH /api/orders/{orderID}/status).
//
// Admins may set any status. Shippers may only mark shipped orders as
// delivered. The change and its audit event are written together.
func (s *Service) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, id order.ID, params UpdateOrderStatusParams) {
	u, found := user.FromContext(r.Context())
	if !found {
		s.errorHandler(w, r, errUnauthenticated)
		return
	}

	switch u.Role {
	case user.ADMIN:
	case user.SHIPPER:
		if params.Status != order.DELIVERED {
			s.errorHandler(w, r, fmt.Errorf("%w: shippers may only set %s", errs.ErrForbidden, order.DELIVERED))
			return
		}
	default:
		s.errorHandler(w, r, fmt.Errorf("%w: role %s may not change order status", errs.ErrForbidden, u.Role))
		return
	}

	var previous order.Status

	err := s.trm.Do(r.Context(), func(ctx context.Context) error {
		var err error
		previous, err = s.repo.UpdateOrderStatus(ctx, id, params.Status)
		if err != nil {
			return err
		}
		if u.Role == user.SHIPPER && previous != order.SHIPPED {
			return fmt.Errorf("%w: order is %s", errs.ErrForbidden, previous)
		}
		return s.repo.CreateStatusEvent(ctx, &order.StatusEvent{
			OrderID: id,
			From:    previous,
			To:      params.Status,
			ActorID: u.ID,
			At:      s.now(),
		})
	})
	if err != nil {
		s.errorHandler(w, r, fmt.Errorf("update order %d status: %w", id, err))
		return
	}

	s.logger.With(r.Context(), "order_id", int64(id), "user_id", u.ID).
		Infof("order status changed from %s to %s", previous, params.Status)

	w.WriteHeader(http.StatusNoContent)
}

// Delete review (DELETE /api/reviews/{reviewID}).
func (s *Service) DeleteReview(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.repo.DeleteReview(r.Context(), id); err != nil {
		s.errorHandler(w, r, fmt.Errorf("delete review %d: %w", id, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete user (DELETE /api/users/{userID}). Reviews go with the user,
// orders stay and lose their customer.
func (s *Service) DeleteUser(w http.ResponseWriter, r *http.Request, id int) {
	u, found := user.FromContext(r.Context())
	if !found {
		s.errorHandler(w, r, errUnauthenticated)
		return
	}
	if u.ID == id {
		s.errorHandler(w, r, fmt.Errorf("%w: users cannot delete themselves", errs.ErrDataConflict))
		return
	}

	var reviews int64

	err := s.trm.Do(r.Context(), func(ctx context.Context) error {
		var err error
		if reviews, err = s.repo.DeleteUserReviews(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteUser(ctx, id)
	})
	if err != nil {
		s.errorHandler(w, r, fmt.Errorf("delete user %d: %w", id, err))
		return
	}

	s.logger.With(r.Context(), "user_id", id).Infof("user deleted with %d reviews", reviews)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.With(r.Context()).Errorf("encode response: %s", err)
	}
}

func (s *Service) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if statusCode(err) >= http.StatusInternalServerError {
		s.logger.With(r.Context()).Errorf("backoffice: %s", err)
	}
	ErrorHandlerFunc(w, r, err)
}

var errUnauthenticated = fmt.Errorf("%w: no authenticated user", errs.ErrInvalidCredentials)

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode(err))

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func statusCode(err error) int {
	switch {
	// Status Bad Request (400).
	case errors.Is(err, errs.ErrInvalidRequest) ||
		errors.Is(err, errs.ErrInvalidPayload) ||
		errors.Is(err, errs.ErrInvalidContentType) ||
		errors.Is(err, errs.ErrRequiredBodyParam):
		return http.StatusBadRequest

	// Status Unauthorized (401).
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Status Forbidden (403).
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden

	// Status Not Found (404).
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound

	// Status Conflict (409).
	case errors.Is(err, errs.ErrDataConflict):
		return http.StatusConflict

	// Status Unprocessable Entity (422).
	case errors.Is(err, errs.ErrInvalidStatus):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

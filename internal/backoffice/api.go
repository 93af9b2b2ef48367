package backoffice

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/auth"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/request"
	"github.com/go-chi/chi/v5"
)

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Filter order.Filter
}

// UpdateOrderStatusParams defines parameters for UpdateOrderStatus.
type UpdateOrderStatusParams struct {
	Status order.Status
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Orders page (GET /api/orders).
	ListOrders(w http.ResponseWriter, r *http.Request, params ListOrdersParams)
	// Single order (GET /api/orders/{orderID}).
	GetOrder(w http.ResponseWriter, r *http.Request, id order.ID)
	// Order status change (PATCH /api/orders/{orderID}/status).
	UpdateOrderStatus(w http.ResponseWriter, r *http.Request, id order.ID, params UpdateOrderStatusParams)
	// Review removal (DELETE /api/reviews/{reviewID}).
	DeleteReview(w http.ResponseWriter, r *http.Request, id int64)
	// User removal (DELETE /api/users/{userID}).
	DeleteUser(w http.ResponseWriter, r *http.Request, id int)
}

// ServerInterfaceWrapper converts payloads to parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// List orders operation middleware.
func (siw *ServerInterfaceWrapper) ListOrders(w http.ResponseWriter, r *http.Request) {
	// ------------- Optional query parameters "status", "page", "limit" --

	f, err := order.ParseFilter(r.URL.Query())
	if err != nil {
		if errors.Is(err, errs.ErrInvalidStatus) {
			err = fmt.Errorf("%w: %w", errs.ErrInvalidRequest, err)
		}
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	siw.Handler.ListOrders(w, r, ListOrdersParams{Filter: f})
}

// Get order operation middleware.
func (siw *ServerInterfaceWrapper) GetOrder(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "orderID" -------------------------

	id, err := order.ParseID(chi.URLParam(r, "orderID"))
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	siw.Handler.GetOrder(w, r, id)
}

// Update order status operation middleware.
func (siw *ServerInterfaceWrapper) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "orderID" -------------------------

	id, err := order.ParseID(chi.URLParam(r, "orderID"))
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	// ------------- Required application/json content type ----------

	if err = request.RequireJSON(r); err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	var body struct {
		Status *string `json:"status"`
	}
	if err = request.DecodeJSON(r, &body); err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	// ------------- Required JSON body parameter "status" ------------

	if body.Status == nil {
		siw.ErrorHandlerFunc(w, r, &errs.RequiredJSONBodyParamError{ParamName: "status"})
		return
	}

	// Rejected before any storage is touched.
	status, err := order.ParseStatus(*body.Status)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	siw.Handler.UpdateOrderStatus(w, r, id, UpdateOrderStatusParams{Status: status})
}

// Delete review operation middleware.
func (siw *ServerInterfaceWrapper) DeleteReview(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "reviewID" ------------------------

	param := chi.URLParam(r, "reviewID")
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("%w: review id %q", errs.ErrInvalidRequest, param))
		return
	}

	siw.Handler.DeleteReview(w, r, id)
}

// Delete user operation middleware.
func (siw *ServerInterfaceWrapper) DeleteUser(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "userID" --------------------------

	param := chi.URLParam(r, "userID")
	id, err := strconv.Atoi(param)
	if err != nil || id <= 0 {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("%w: user id %q", errs.ErrInvalidRequest, param))
		return
	}

	siw.Handler.DeleteUser(w, r, id)
}

type ChiServerOptions struct {
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
	BaseRouter       chi.Router
	BaseURL          string
	Middlewares      []MiddlewareFunc
}

// HandlerWithOptions creates http.Handler with additional options.
// Review and user removal is restricted to admins.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = ErrorHandlerFunc
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		for _, middleware := range options.Middlewares {
			r.Use(middleware)
		}
		r.Get(options.BaseURL+"/orders", wrapper.ListOrders)
		r.Get(options.BaseURL+"/orders/{orderID}", wrapper.GetOrder)
		r.Patch(options.BaseURL+"/orders/{orderID}/status", wrapper.UpdateOrderStatus)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(user.ADMIN))
			r.Delete(options.BaseURL+"/reviews/{reviewID}", wrapper.DeleteReview)
			r.Delete(options.BaseURL+"/users/{userID}", wrapper.DeleteUser)
		})
	})

	return r
}

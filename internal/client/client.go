// Package client talks to the order API: it is the status transport of
// the order status controls and the read side used to initialize them.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/config"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/status"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/limiter"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/requestid"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
)

const (
	statusPath = "/api/orders/{orderID}/status"
	orderPath  = "/api/orders/{orderID}"
	ordersPath = "/api/orders"
	loginPath  = "/api/user/login"

	authCookie = "Authorization"
)

// OrderAPI is an HTTP client of the order API.
type OrderAPI struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	limiter *limiter.DynamicRateLimiter
	logger  logger.Logger
	config  config.OrderAPI
	slowed  atomic.Bool
}

var _ status.Transport = (*OrderAPI)(nil)

// New builds a client from the order_api configuration.
func New(cfg *config.Config, logger logger.Logger) (*OrderAPI, error) {
	if cfg == nil {
		return nil, errors.New("nil dependency: config")
	}
	if logger == nil {
		return nil, errors.New("nil dependency: logger")
	}
	if cfg.OrderAPI.Address == "" {
		return nil, errors.New("order api address is empty")
	}

	c := &OrderAPI{
		logger: logger,
		config: cfg.OrderAPI,
		limiter: limiter.NewDynamicRateLimiter(
			cfg.OrderAPI.RateInterval,
			cfg.OrderAPI.RateBurst,
		),
	}

	c.http = resty.New().
		SetBaseURL(cfg.OrderAPI.Address).
		SetTimeout(cfg.OrderAPI.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger)

	if cfg.OrderAPI.Breaker.MaxFailures > 0 {
		maxFailures := cfg.OrderAPI.Breaker.MaxFailures
		c.breaker = gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
			Name:    "order-api",
			Timeout: cfg.OrderAPI.Breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			// Requests the server answered with 4xx say nothing about
			// its health.
			IsSuccessful: func(err error) bool {
				var se *errs.UnexpectedStatusError
				if errors.As(err, &se) {
					return se.Code < http.StatusInternalServerError &&
						se.Code != http.StatusTooManyRequests
				}
				return err == nil
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warnf("circuit breaker %s: %s -> %s", name, from, to)
			},
		})
	}

	return c, nil
}

// UpdateStatus sends PATCH /api/orders/{id}/status with {"status": s}.
// Any 2xx is success; everything else is an error wrapping
// errs.ErrTransportFailure.
func (c *OrderAPI) UpdateStatus(ctx context.Context, cred user.Credential, id order.ID, s order.Status) error {
	_, err := c.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx, cred).
			SetPathParam("orderID", id.String()).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]order.Status{"status": s}).
			Patch(statusPath)
	})
	if err != nil {
		c.logger.With(ctx, "order_id", int64(id), "status", s).
			Debugf("update order status: %s", err)
		return err
	}
	return nil
}

// GetOrder reads a single order.
func (c *OrderAPI) GetOrder(ctx context.Context, cred user.Credential, id order.ID) (*order.Order, error) {
	out := new(order.Order)

	_, err := c.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx, cred).
			SetPathParam("orderID", id.String()).
			SetResult(out).
			Get(orderPath)
	})
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("order %d", id))
	}

	return out, nil
}

// ListOrders reads a page of orders.
func (c *OrderAPI) ListOrders(ctx context.Context, cred user.Credential, f order.Filter) ([]*order.Order, error) {
	out := make([]*order.Order, 0)

	_, err := c.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx, cred).
			SetQueryParamsFromValues(f.Query()).
			SetResult(&out).
			Get(ordersPath)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Login exchanges a login and password for a credential.
func (c *OrderAPI) Login(ctx context.Context, login, password string) (user.Credential, error) {
	res, err := c.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx, user.Credential{}).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"login": login, "password": password}).
			Post(loginPath)
	})
	if err != nil {
		var se *errs.UnexpectedStatusError
		if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
			return user.Credential{}, fmt.Errorf("%w: %s", errs.ErrInvalidCredentials, login)
		}
		return user.Credential{}, err
	}

	for _, cookie := range res.Cookies() {
		if cookie.Name == authCookie && cookie.Value != "" {
			return user.Credential{Token: cookie.Value}, nil
		}
	}
	if token := res.Header().Get(authCookie); token != "" {
		return user.Credential{Token: token}, nil
	}

	return user.Credential{}, fmt.Errorf("%w: no authorization token in login response",
		errs.ErrTransportFailure)
}

func (c *OrderAPI) request(ctx context.Context, cred user.Credential) *resty.Request {
	ctx, id := requestid.Ensure(ctx)

	r := c.http.R().
		SetContext(ctx).
		SetHeader(requestid.Header, id)
	if !cred.IsZero() {
		r.SetHeader("Authorization", cred.Token)
	}
	return r
}

// do runs one request through the rate limiter and the circuit breaker
// and turns every failure into an errs.ErrTransportFailure.
func (c *OrderAPI) do(ctx context.Context, send func(context.Context) (*resty.Response, error)) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", errs.ErrTransportFailure, err)
	}

	call := func() (*resty.Response, error) {
		res, err := send(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrTransportFailure, err)
		}
		if !res.IsSuccess() {
			se := &errs.UnexpectedStatusError{Code: res.StatusCode(), Body: res.String()}
			if c.throttle(res) {
				return res, fmt.Errorf("%w: %w", errs.ErrRateLimit, se)
			}
			return res, se
		}
		c.restore()
		return res, nil
	}

	if c.breaker == nil {
		return call()
	}

	res, err := c.breaker.Execute(call)
	if err != nil && !errors.Is(err, errs.ErrTransportFailure) {
		// Open or half-open breaker refusing the call.
		err = fmt.Errorf("%w: %w", errs.ErrTransportFailure, err)
	}
	return res, err
}

// throttle slows the limiter down when the server asks to and reports
// whether it did.
func (c *OrderAPI) throttle(res *resty.Response) bool {
	if res.StatusCode() != http.StatusTooManyRequests {
		return false
	}

	wait := c.config.RateInterval * 2
	if s, err := strconv.Atoi(res.Header().Get("Retry-After")); err == nil && s > 0 {
		wait = time.Duration(s) * time.Second
	}
	if wait <= 0 {
		wait = time.Second
	}

	c.limiter.Update(wait, 1)
	c.slowed.Store(true)
	c.logger.Warnf("order api rate limited, one request every %s", wait)
	return true
}

// restore returns the limiter to the configured rate after a success.
func (c *OrderAPI) restore() {
	if c.slowed.CompareAndSwap(true, false) {
		c.limiter.Update(c.config.RateInterval, c.config.RateBurst)
	}
}

func notFound(err error, what string) error {
	var se *errs.UnexpectedStatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w", what, errs.ErrNotFound)
	}
	return err
}

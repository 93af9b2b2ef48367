package order

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter selects a page of orders, optionally with a single status.
type Filter struct {
	Status Status
	Page   int
	Limit  int
}

// Offset returns the number of rows to skip for the page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Query builds the query string for the orders list endpoint.
// Zero values are left out.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ParseFilter reads a Filter from q applying defaults.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{Page: DefaultPage, Limit: DefaultLimit}

	if v := q.Get("status"); v != "" {
		st, err := ParseStatus(v)
		if err != nil {
			return Filter{}, err
		}
		f.Status = st
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return Filter{}, fmt.Errorf("%w: page must be a positive integer, got %q",
				errs.ErrInvalidRequest, v)
		}
		f.Page = page
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > MaxLimit {
			return Filter{}, fmt.Errorf("%w: limit must be between 1 and %d, got %q",
				errs.ErrInvalidRequest, MaxLimit, v)
		}
		f.Limit = limit
	}

	return f, nil
}

package order

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/shopspring/decimal"
)

// ID is an opaque numeric order identifier.
type ID int64

// ParseID parses a decimal order identifier.
func ParseID(s string) (ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: order id %q", errs.ErrInvalidRequest, s)
	}
	return ID(id), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Status is the order status. The set of values is closed: every control
// that changes an order status, on either side of the wire, uses it.
type Status string

const (
	PENDING   Status = "pending"
	SHIPPED   Status = "shipped"
	DELIVERED Status = "delivered"
	CANCELLED Status = "cancelled"
)

var statuses = []Status{PENDING, SHIPPED, DELIVERED, CANCELLED}

// Statuses returns the canonical enumeration in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// ParseStatus reports whether s is exactly one of the canonical statuses.
// No case folding or trimming is done.
func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidStatus, s)
}

// Valid is a shortcut for ParseStatus when only membership matters.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Order description. Owned by the order service, any local copy
// may be stale.
type Order struct {
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Total      decimal.Decimal `json:"total"`
	CustomerID *int            `json:"customer_id,omitempty"`
	Status     Status          `json:"status"`
	ID         ID              `json:"id"`
}

// StatusEvent is an audit record of a single status change.
type StatusEvent struct {
	At      time.Time `json:"at"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	OrderID ID        `json:"order_id"`
	ActorID int       `json:"actor_id"`
}

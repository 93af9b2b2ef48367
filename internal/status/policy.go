package status

import (
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
)

// Policy decides whether a candidate value may be sent at all. It must be
// pure: no state changes, no I/O.
type Policy interface {
	Check(candidate string) (order.Status, error)
	Choices() []order.Status
}

// Canonical accepts exactly the members of the order status enumeration,
// compared byte for byte.
var Canonical Policy = canonical{}

type canonical struct{}

func (canonical) Check(candidate string) (order.Status, error) {
	return order.ParseStatus(candidate)
}

func (canonical) Choices() []order.Status {
	return order.Statuses()
}

package status

import (
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/google/uuid"
)

// Transition is the record of one in-flight status change. It lives from
// Select until the transport call resolves.
type Transition struct {
	err       error
	done      chan struct{}
	Previous  order.Status
	Requested order.Status
	OrderID   order.ID
	ID        uuid.UUID
}

func newTransition(id order.ID, previous, requested order.Status) *Transition {
	return &Transition{
		ID:        uuid.New(),
		OrderID:   id,
		Previous:  previous,
		Requested: requested,
		done:      make(chan struct{}),
	}
}

// Done is closed once the transition is resolved.
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

// Pending reports whether the transport call is still running.
func (t *Transition) Pending() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Err returns nil while pending or after success, and the transport
// failure otherwise.
func (t *Transition) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the transition resolves and returns its error.
func (t *Transition) Wait() error {
	<-t.done
	return t.err
}

func (t *Transition) resolve(err error) {
	t.err = err
	close(t.done)
}

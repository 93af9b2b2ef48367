package status

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
)

// Board holds one independent control per order, like the rows of the
// orders table. Controls never wait for each other.
type Board struct {
	transport Transport
	controls  map[order.ID]*Control
	opts      []Option
	mu        sync.RWMutex
}

// NewBoard returns an empty board whose controls share transport and opts.
func NewBoard(transport Transport, opts ...Option) *Board {
	return &Board{
		transport: transport,
		controls:  make(map[order.ID]*Control),
		opts:      opts,
	}
}

// Load adds a control for every new order and refreshes idle controls of
// known ones. Controls with a pending transition keep their state. The
// batch is checked first: on error the board is left unchanged.
func (b *Board) Load(orders ...*order.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	added := make(map[order.ID]*Control)
	for _, o := range orders {
		if o == nil {
			return errors.New("nil dependency: order")
		}
		if c, ok := b.controls[o.ID]; ok {
			if _, err := c.policy.Check(string(o.Status)); err != nil {
				return fmt.Errorf("order %d: %w", o.ID, err)
			}
			continue
		}
		if _, ok := added[o.ID]; ok {
			continue
		}

		c, err := NewControl(o, b.transport, b.opts...)
		if err != nil {
			return err
		}
		added[o.ID] = c
	}

	for _, o := range orders {
		if c, ok := b.controls[o.ID]; ok {
			if err := c.Reset(o.Status); err != nil && !errors.Is(err, errs.ErrTransitionPending) {
				return err
			}
		}
	}
	for id, c := range added {
		b.controls[id] = c
	}

	return nil
}

// Control returns the control of order id.
func (b *Board) Control(id order.ID) (*Control, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.controls[id]
	return c, ok
}

// Select forwards to the control of order id.
func (b *Board) Select(ctx context.Context, cred user.Credential, id order.ID, candidate string) (*Transition, error) {
	c, ok := b.Control(id)
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}
	return c.Select(ctx, cred, candidate)
}

// Wait blocks until every control is idle.
func (b *Board) Wait() {
	b.mu.RLock()
	controls := make([]*Control, 0, len(b.controls))
	for _, c := range b.controls {
		controls = append(controls, c)
	}
	b.mu.RUnlock()

	for _, c := range controls {
		c.Wait()
	}
}

// Snapshots returns the state of every control ordered by order id.
func (b *Board) Snapshots() []Snapshot {
	b.mu.RLock()
	out := make([]Snapshot, 0, len(b.controls))
	for _, c := range b.controls {
		out = append(out, c.Snapshot())
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

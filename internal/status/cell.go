package status

import (
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
)

// Cell holds the status shown to the operator next to the last status the
// server confirmed. The two only differ while a handle is open.
//
// Cell is not safe for concurrent use; Control serializes access to it.
type Cell struct {
	open      *Handle
	displayed order.Status
	confirmed order.Status
}

// NewCell returns a cell initialized from the order record.
func NewCell(initial order.Status) *Cell {
	return &Cell{displayed: initial, confirmed: initial}
}

// Displayed returns the value the operator currently sees.
func (c *Cell) Displayed() order.Status { return c.displayed }

// Confirmed returns the last value confirmed by the server.
func (c *Cell) Confirmed() order.Status { return c.confirmed }

// Open reports whether a handle is outstanding.
func (c *Cell) Open() bool { return c.open != nil }

// Begin shows next right away and returns the handle that will either
// commit or roll it back. Only one handle may be open at a time.
func (c *Cell) Begin(next order.Status) (*Handle, error) {
	if c.open != nil {
		return nil, errs.ErrTransitionPending
	}
	h := &Handle{cell: c}
	c.open = h
	c.displayed = next
	return h, nil
}

// Reset replaces both values, e.g. after the order was read again.
func (c *Cell) Reset(s order.Status) error {
	if c.open != nil {
		return errs.ErrTransitionPending
	}
	c.displayed, c.confirmed = s, s
	return nil
}

// Handle resolves one Begin. The first Commit or Rollback wins, later
// calls do nothing.
type Handle struct {
	cell *Cell
	done bool
}

// Commit makes the displayed value the confirmed one.
func (h *Handle) Commit() {
	if h.done {
		return
	}
	h.done = true
	h.cell.confirmed = h.cell.displayed
	h.cell.open = nil
}

// Rollback discards the optimistic value.
func (h *Handle) Rollback() {
	if h.done {
		return
	}
	h.done = true
	h.cell.displayed = h.cell.confirmed
	h.cell.open = nil
}

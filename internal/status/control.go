package status

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/requestid"
	"go.uber.org/zap"
)

// Transport performs the authoritative status change on the server.
// Every failure must be reported as an error; callers treat them alike.
type Transport interface {
	UpdateStatus(ctx context.Context, cred user.Credential, id order.ID, status order.Status) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, cred user.Credential, id order.ID, status order.Status) error

func (f TransportFunc) UpdateStatus(ctx context.Context, cred user.Credential, id order.ID, status order.Status) error {
	return f(ctx, cred, id, status)
}

// State of a control.
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Snapshot is a consistent read of a control.
type Snapshot struct {
	Transition *Transition
	Displayed  order.Status
	Confirmed  order.Status
	State      State
	OrderID    order.ID
}

// Option configures a Control.
type Option func(*Control)

// WithTimeout bounds each transport call. Zero leaves it to the transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Control) { c.timeout = d }
}

// WithNotifier sets where notices go. By default they are dropped.
func WithNotifier(n Notifier) Option {
	return func(c *Control) { c.notifier = n }
}

// WithPolicy replaces the Canonical policy.
func WithPolicy(p Policy) Option {
	return func(c *Control) { c.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Control) { c.logger = l }
}

// Control is the status selector of one order.
type Control struct {
	transport Transport
	policy    Policy
	notifier  Notifier
	logger    logger.Logger
	cell      *Cell
	current   *Transition
	last      *Transition
	timeout   time.Duration
	id        order.ID
	mu        sync.Mutex
}

// NewControl returns an idle control showing o's status.
func NewControl(o *order.Order, transport Transport, opts ...Option) (*Control, error) {
	if o == nil {
		return nil, errors.New("nil dependency: order")
	}
	if transport == nil {
		return nil, errors.New("nil dependency: transport")
	}

	c := &Control{
		id:        o.ID,
		transport: transport,
		policy:    Canonical,
		notifier:  discard{},
		logger:    logger.NewWithZap(zap.NewNop()),
	}
	for _, opt := range opts {
		opt(c)
	}

	initial, err := c.policy.Check(string(o.Status))
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", o.ID, err)
	}
	c.cell = NewCell(initial)

	return c, nil
}

// OrderID returns the order the control belongs to.
func (c *Control) OrderID() order.ID { return c.id }

// Choices lists the values the control offers.
func (c *Control) Choices() []order.Status { return c.policy.Choices() }

// Select asks for the order to move to candidate.
//
// While a transition is pending the call is refused with
// errs.ErrTransitionPending and nothing changes. A candidate the policy
// rejects produces an InvalidStatus notice and errs.ErrInvalidStatus;
// the transport is not called. Otherwise the candidate is displayed at
// once, the transport call starts in the background and the open
// transition is returned.
//
// ctx only provides values to the transport call: cancelling it does not
// abort an update that already started.
func (c *Control) Select(ctx context.Context, cred user.Credential, candidate string) (*Transition, error) {
	c.mu.Lock()

	if c.current != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("order %d: %w", c.id, errs.ErrTransitionPending)
	}

	next, err := c.policy.Check(candidate)
	if err != nil {
		c.mu.Unlock()
		c.notifier.Notify(ctx, Notice{Kind: InvalidStatus, OrderID: c.id, Status: candidate, Err: err})
		return nil, fmt.Errorf("order %d: %w", c.id, err)
	}

	previous := c.cell.Confirmed()
	h, err := c.cell.Begin(next)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("order %d: %w", c.id, err)
	}
	t := newTransition(c.id, previous, next)
	c.current = t
	c.last = t

	c.mu.Unlock()

	go c.run(ctx, cred, t, h)

	return t, nil
}

func (c *Control) run(ctx context.Context, cred user.Credential, t *Transition, h *Handle) {
	ctx = requestid.NewContext(context.WithoutCancel(ctx), t.ID.String())

	// The timeout bounds the call only; the notice must still go out.
	sendCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log := c.logger.With(ctx, "order_id", int64(c.id), "from", t.Previous, "to", t.Requested)

	err := c.send(sendCtx, cred, t)

	c.mu.Lock()
	if err != nil {
		h.Rollback()
	} else {
		h.Commit()
	}
	c.mu.Unlock()

	// The control stays pending until the operator has been told.
	if err != nil {
		log.Errorf("status update rolled back: %s", err)
		c.notifier.Notify(ctx, Notice{Kind: UpdateFailed, OrderID: c.id, Status: string(t.Requested), Err: err})
	} else {
		log.Infof("status updated")
	}

	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()

	t.resolve(err)
}

// send calls the transport, turning panics and foreign errors into
// transport failures.
func (c *Control) send(ctx context.Context, cred user.Credential, t *Transition) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: transport panic: %v", errs.ErrTransportFailure, r)
		}
	}()

	err = c.transport.UpdateStatus(ctx, cred, c.id, t.Requested)
	if err != nil && !errors.Is(err, errs.ErrTransportFailure) {
		err = fmt.Errorf("%w: %w", errs.ErrTransportFailure, err)
	}
	return err
}

// Displayed returns the value currently shown.
func (c *Control) Displayed() order.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cell.Displayed()
}

// Confirmed returns the last value the server confirmed.
func (c *Control) Confirmed() order.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cell.Confirmed()
}

// State reports whether a transition is in flight.
func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Control) state() State {
	if c.current != nil {
		return Pending
	}
	return Idle
}

// Snapshot returns all fields under one lock.
func (c *Control) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		OrderID:    c.id,
		State:      c.state(),
		Displayed:  c.cell.Displayed(),
		Confirmed:  c.cell.Confirmed(),
		Transition: c.current,
	}
}

// Reset reloads the control from a fresh order read. It is refused while
// a transition is pending.
func (c *Control) Reset(s order.Status) error {
	st, err := c.policy.Check(string(s))
	if err != nil {
		return fmt.Errorf("order %d: %w", c.id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.cell.Reset(st); err != nil {
		return fmt.Errorf("order %d: %w", c.id, err)
	}
	return nil
}

// Wait blocks until the control is idle and its last transition has
// resolved.
func (c *Control) Wait() {
	c.mu.Lock()
	t := c.last
	c.mu.Unlock()

	if t != nil {
		<-t.Done()
	}
}

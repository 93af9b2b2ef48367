package backoffice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository interface {
	ListOrders(ctx context.Context, f order.Filter, customerID *int) ([]*order.Order, error)
	GetOrder(ctx context.Context, id order.ID) (*order.Order, error)
	// UpdateOrderStatus sets the status and returns the one it replaced.
	UpdateOrderStatus(ctx context.Context, id order.ID, status order.Status) (order.Status, error)
	CreateStatusEvent(ctx context.Context, e *order.StatusEvent) error
	DeleteReview(ctx context.Context, id int64) error
	DeleteUserReviews(ctx context.Context, userID int) (int64, error)
	DeleteUser(ctx context.Context, userID int) error
}

type Repo struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*Repo, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &Repo{db: db, getter: getter, logger: logger}, nil
}

var _ Repository = (*Repo)(nil)

const selectOrder = `SELECT id, customer_id, status, total, created_at, updated_at FROM orders`

func (r *Repo) ListOrders(ctx context.Context, f order.Filter, customerID *int) ([]*order.Order, error) {
	var (
		conds []string
		args  []any
	)

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if customerID != nil {
		args = append(args, *customerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}

	query := selectOrder
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, f.Limit, f.Offset())
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*order.Order, 0, f.Limit)

	for rows.Next() {
		o := new(order.Order)
		if err = scanOrder(rows, o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *Repo) GetOrder(ctx context.Context, id order.ID) (*order.Order, error) {
	o := new(order.Order)

	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, selectOrder+" WHERE id = $1", id)
	if err := scanOrder(row, o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return o, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner, o *order.Order) error {
	return s.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Status,
		&o.Total,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func (r *Repo) UpdateOrderStatus(ctx context.Context, id order.ID, status order.Status) (order.Status, error) {
	// The row lock keeps the returned previous status exact under
	// concurrent updates. The last write wins.
	const query = `
		UPDATE orders o
		SET status = $1, updated_at = now()
		FROM (SELECT id, status FROM orders WHERE id = $2 FOR UPDATE) prev
		WHERE o.id = prev.id
		RETURNING prev.status`

	var previous order.Status

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, status, id).Scan(&previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return "", fmt.Errorf("%w: %q", errs.ErrInvalidStatus, status)
		}
		return "", err
	}

	return previous, nil
}

func (r *Repo) CreateStatusEvent(ctx context.Context, e *order.StatusEvent) error {
	const query = `
		INSERT INTO order_status_events (order_id, from_status, to_status, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		e.OrderID, e.From, e.To, e.ActorID, e.At)
	if err != nil {
		return fmt.Errorf("create status event: %w", err)
	}

	return nil
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	const query = "DELETE FROM reviews WHERE id = $1"

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repo) DeleteUserReviews(ctx context.Context, userID int) (int64, error) {
	const query = "DELETE FROM reviews WHERE user_id = $1"

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// DeleteUser removes the user. Orders keep existing without a customer.
func (r *Repo) DeleteUser(ctx context.Context, userID int) error {
	const query = "DELETE FROM users WHERE id = $1"

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: user %d is still referenced", errs.ErrDataConflict, userID)
		}
		return err
	}

	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

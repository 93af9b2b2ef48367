package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository interface {
	GetUserByID(ctx context.Context, userID int) (*user.User, error)
	GetUserByLogin(ctx context.Context, login string) (*user.User, error)
	CreateUser(ctx context.Context, login, password string, role user.Role) (id int, err error)
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

const selectUser = `SELECT id, login, password, role, created_at, updated_at FROM users`

func (r *Repo) GetUserByID(ctx context.Context, userID int) (*user.User, error) {
	return r.getUser(ctx, selectUser+" WHERE id = $1", userID)
}

func (r *Repo) GetUserByLogin(ctx context.Context, login string) (*user.User, error) {
	return r.getUser(ctx, selectUser+" WHERE login = $1", login)
}

func (r *Repo) getUser(ctx context.Context, query string, arg any) (*user.User, error) {
	u := new(user.User)

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Login,
		&u.Password,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *Repo) CreateUser(ctx context.Context, login, password string, role user.Role) (int, error) {
	const query = "INSERT INTO users (login, password, role) VALUES ($1, $2, $3) RETURNING id"

	var id int

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, login, password, role).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return -1, errs.ErrDataConflict
			}
		}
		return -1, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

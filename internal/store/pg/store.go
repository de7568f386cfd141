// Package pg implements core.AccountStore on Postgres via pgx.
package pg

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/holamaria/internal/store/core"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

// Config ajustes del pool.
type Config struct {
	DSN             string
	MaxConns        int32
	ConnMaxLifetime time.Duration
}

// New abre el pool y verifica la conexión.
func New(ctx context.Context, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

const accountCols = `id, email, display_name, provider, email_verified, active, password_hash, created_at, updated_at`

func scanAccount(row pgx.Row) (*core.Account, error) {
	var a core.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.DisplayName, &a.Provider,
		&a.EmailVerified, &a.Active, &a.PasswordHash,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*core.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM account WHERE id = $1`
	return scanAccount(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetByEmailProvider(ctx context.Context, email, provider string) (*core.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM account WHERE email = $1 AND provider = $2`
	return scanAccount(s.pool.QueryRow(ctx, q, strings.ToLower(email), provider))
}

// Create inserta la cuenta. La constraint UNIQUE (email, provider) es
// la garantía real contra callbacks duplicados; un 23505 se reporta
// como core.ErrConflict para que el caller re-lea.
func (s *Store) Create(ctx context.Context, a *core.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = strings.ToLower(a.Email)
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	const q = `
		INSERT INTO account (id, email, display_name, provider, email_verified, active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.pool.Exec(ctx, q,
		a.ID, a.Email, a.DisplayName, a.Provider,
		a.EmailVerified, a.Active, a.PasswordHash,
		a.CreatedAt, a.UpdatedAt,
	)
	if isUnique(err) {
		return core.ErrConflict
	}
	return err
}

func (s *Store) Update(ctx context.Context, a *core.Account) error {
	a.Email = strings.ToLower(a.Email)
	a.UpdatedAt = time.Now().UTC()

	const q = `
		UPDATE account
		SET email = $2, display_name = $3, provider = $4,
		    email_verified = $5, active = $6, password_hash = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q,
		a.ID, a.Email, a.DisplayName, a.Provider,
		a.EmailVerified, a.Active, a.PasswordHash, a.UpdatedAt,
	)
	if isUnique(err) {
		return core.ErrConflict
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM account WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

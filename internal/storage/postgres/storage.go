package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/storage"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// Storage is a PostgreSQL-backed implementation of the storage interface.
// The username primary key is the create-if-absent primitive.
type Storage struct {
	db *sql.DB
}

// New opens a connection pool, verifies it and optionally runs migrations
func New(ctx context.Context, cfg Config) (*Storage, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.Migrate {
		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	return NewWithDB(db), nil
}

// NewWithDB creates a storage over an existing pool (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Exists(ctx context.Context, username model.CanonicalUsername) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM credentials WHERE username = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, string(username)).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (s *Storage) CreateIfAbsent(ctx context.Context, cred *model.Credential) error {
	query :=
		`INSERT INTO credentials (username, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, string(cred.Username), cred.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrCredentialExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return model.ErrCredentialExists
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, username model.CanonicalUsername) (*model.Credential, error) {
	query := `SELECT password_hash FROM credentials WHERE username = $1`

	cred := &model.Credential{Username: username}
	err := s.db.QueryRowContext(ctx, query, string(username)).Scan(&cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cred, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

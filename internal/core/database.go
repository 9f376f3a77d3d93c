// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
)

const dbPingTimeout = 5 * time.Second

// SQLSTATE codes the repositories translate into domain errors.
const (
	SQLStateUniqueViolation     = "23505"
	SQLStateForeignKeyViolation = "23503"
)

type Database struct {
	DB *sqlx.DB
}

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Setup opens the pool and, when enabled, provisions the schema.
func Setup(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	conn, err := sqlx.ConnectContext(ctx, "pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	configurePool(conn, cfg)

	db := &Database{DB: conn}
	if err := db.Ping(ctx); err != nil {
		_ = conn.Close() //nolint:errcheck
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.EnsureSchema(ctx); err != nil {
			_ = conn.Close() //nolint:errcheck
			return nil, err
		}
	}

	return db, nil
}

func configurePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	// Spread reconnects so the pool does not recycle every connection at once.
	db.SetConnMaxLifetime(withJitter(cfg.ConnMaxLifetime, 7))
}

func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (d *Database) Stats() sql.DBStats {
	return d.DB.Stats()
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// InTx commits when fn returns nil and rolls back otherwise, including
// when fn panics. A failed commit is not rolled back again.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && err != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	committed = true
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Violation reports the SQLSTATE and constraint of a postgres error.
// ok is false for anything that did not come from the server.
func Violation(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Code, pgErr.ConstraintName, true
}

func IsUniqueViolation(err error) bool {
	code, _, ok := Violation(err)
	return ok && code == SQLStateUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	code, _, ok := Violation(err)
	return ok && code == SQLStateForeignKeyViolation
}

func withJitter(base time.Duration, fraction int64) time.Duration {
	spread := int64(base) / fraction
	if spread <= 0 {
		return base
	}
	return base + time.Duration(rand.Int64N(spread)) //nolint:gosec
}

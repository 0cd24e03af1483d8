package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresCatalog читает каталог из PostgreSQL. Изменения остатков в базу не записываются.
type PostgresCatalog struct {
	pool   *pgxpool.Pool
	loc    *time.Location
	delays []time.Duration
}

// NewPostgresCatalog подключается к базе и применяет миграции схемы каталога.
func NewPostgresCatalog(ctx context.Context, dsn string) (*PostgresCatalog, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresCatalog{
		pool:   pool,
		loc:    time.Local,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresCatalog) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresCatalog) Close() error {
	r.pool.Close()
	return nil
}

// Load читает товары и акции в одной транзакции только для чтения.
func (r *PostgresCatalog) Load(ctx context.Context) (*Catalog, error) {
	var (
		products   []productRecord
		promotions []promotionRecord
	)

	err := withRetry(ctx, r.delays, func() error {
		var err error
		products, promotions, err = r.load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return buildCatalog(products, promotions, r.loc)
}

func (r *PostgresCatalog) load(ctx context.Context) ([]productRecord, []promotionRecord, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT name, buy_quantity, free_quantity, start_date, end_date, COALESCE(kind, '')
		 FROM promotions
		 ORDER BY name`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("select promotions: %w", err)
	}

	var promotions []promotionRecord
	for rows.Next() {
		var (
			rec        promotionRecord
			start, end time.Time
		)
		if err := rows.Scan(&rec.Name, &rec.Buy, &rec.Get, &start, &end, &rec.Kind); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan promotion: %w", err)
		}
		rec.StartDate = start.Format(dateLayout)
		rec.EndDate = end.Format(dateLayout)
		promotions = append(promotions, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows error: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT name, price, stock, COALESCE(promotion, '')
		 FROM products
		 ORDER BY position`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []productRecord
	for rows.Next() {
		var rec productRecord
		if err := rows.Scan(&rec.Name, &rec.Price, &rec.Quantity, &rec.Promotion); err != nil {
			return nil, nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows error: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	return products, promotions, nil
}

func withRetry(ctx context.Context, delays []time.Duration, fn func() error) error {
	var err error

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(delays) {
			break
		}

		timer := time.NewTimer(delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

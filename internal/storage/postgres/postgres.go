package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fitai/fitai/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements storage.Storage on a pgx pool. The schema is
// owned by the goose migrations in migrations/.
type PostgresStorage struct {
	pool *pgxpool.Pool
	*usersStorage
	*activityLogsStorage
	*plansStorage
	*catalogStorage
	*PostgresReportsStorage
}

var _ storage.Storage = (*PostgresStorage)(nil)

func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:                   pool,
		usersStorage:           &usersStorage{pool: pool},
		activityLogsStorage:    &activityLogsStorage{pool: pool},
		plansStorage:           &plansStorage{pool: pool},
		catalogStorage:         &catalogStorage{pool: pool},
		PostgresReportsStorage: NewPostgresReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// whereBuilder accumulates AND conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) period(column string, p storage.Period) {
	if p.From != nil {
		w.add(column+" >= ?", *p.From)
	}
	if p.To != nil {
		w.add(column+" <= ?", *p.To)
	}
}

func (w *whereBuilder) search(term string, columns ...string) {
	if term == "" {
		return
	}
	w.args = append(w.args, "%"+term+"%")
	placeholder := fmt.Sprintf("$%d", len(w.args))
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + placeholder
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limit appends a LIMIT clause when n is positive.
func (w *whereBuilder) limit(n int) string {
	if n <= 0 {
		return ""
	}
	w.args = append(w.args, n)
	return fmt.Sprintf(" LIMIT $%d", len(w.args))
}

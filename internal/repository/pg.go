package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// pgTable implements Store for one table whose primary key is an integer id
// column. columns lists the remaining columns in the order produced by values
// and consumed by scan (after id).
type pgTable[T Entity[T]] struct {
	pool    *pgxpool.Pool
	name    string
	columns []string
	scan    func(pgx.Row) (T, error)
	values  func(T) ([]any, error)
}

func (t *pgTable[T]) returning() string {
	return "id, " + strings.Join(t.columns, ", ")
}

// List returns every row ordered by id.
func (t *pgTable[T]) List(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, t.returning(), t.name)
	rows, err := t.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return items, nil
}

// Get fetches a row by id.
func (t *pgTable[T]) Get(ctx context.Context, id int) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.returning(), t.name)
	item, err := t.scan(t.pool.QueryRow(ctx, query, id))
	if err != nil {
		var zero T
		return zero, mapError(err)
	}
	return item, nil
}

// Create inserts a row. A non-positive id is replaced by max(id)+1 inside the
// insert statement.
func (t *pgTable[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	vals, err := t.values(entity)
	if err != nil {
		return zero, err
	}
	id := entity.EntityID()
	if id < 0 {
		id = 0
	}

	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}
	query := fmt.Sprintf(`
        INSERT INTO %[1]s (id, %[2]s)
        VALUES (COALESCE(NULLIF($1::integer, 0), (SELECT COALESCE(MAX(id), 0) + 1 FROM %[1]s)), %[3]s)
        RETURNING %[4]s
    `, t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "), t.returning())

	args := append([]any{id}, vals...)
	item, err := t.scan(t.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return zero, mapError(err)
	}
	return item, nil
}

// Update overwrites every column of the row carrying entity's id.
func (t *pgTable[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	vals, err := t.values(entity)
	if err != nil {
		return zero, err
	}

	sets := make([]string, len(t.columns))
	for i, col := range t.columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 RETURNING %s`,
		t.name, strings.Join(sets, ", "), t.returning())

	args := append([]any{entity.EntityID()}, vals...)
	item, err := t.scan(t.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return zero, mapError(err)
	}
	return item, nil
}

// Delete removes the row with id.
func (t *pgTable[T]) Delete(ctx context.Context, id int) error {
	tag, err := t.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.Detail)
	}
	return err
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"vintelli-api/internal/model"
)

const referenceColumns = "title, brand, category, original_price, sold_price, days_to_sell, item_condition, size"

// dialect captures the SQL differences between the supported backends.
type dialect struct {
	name string
	// placeholder returns the bind marker for the n-th (1-based) argument.
	placeholder func(n int) string
}

var (
	questionDialect = func(name string) dialect {
		return dialect{name: name, placeholder: func(int) string { return "?" }}
	}
	dollarDialect = dialect{name: "postgres", placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
)

// sqlReferenceRepository implements ReferenceRepository over database/sql.
type sqlReferenceRepository struct {
	db      *sql.DB
	dialect dialect
}

func (r *sqlReferenceRepository) insertQuery() string {
	marks := make([]string, 8)
	for i := range marks {
		marks[i] = r.dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO reference_sales (%s) VALUES (%s)",
		referenceColumns, strings.Join(marks, ", "))
}

// LoadReferenceSales returns every valid row ordered by id.
func (r *sqlReferenceRepository) LoadReferenceSales(ctx context.Context) ([]model.ReferenceEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+referenceColumns+" FROM reference_sales ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query reference sales: %w", err)
	}
	defer rows.Close()

	entries := make([]model.ReferenceEntry, 0)
	skipped := 0
	for rows.Next() {
		var e model.ReferenceEntry
		if err := rows.Scan(&e.Title, &e.Brand, &e.Category, &e.OriginalPrice,
			&e.SoldPrice, &e.DaysToSell, &e.Condition, &e.Size); err != nil {
			return nil, fmt.Errorf("failed to scan reference sale: %w", err)
		}
		if !e.Valid() {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference sales: %w", err)
	}

	if skipped > 0 {
		log.Printf("[ReferenceRepository] Skipped %d invalid rows (%s)", skipped, r.dialect.name)
	}
	return entries, nil
}

// SeedReferenceSales inserts entries in one transaction when the table has
// no rows. Invalid entries are skipped.
func (r *sqlReferenceRepository) SeedReferenceSales(ctx context.Context, entries []model.ReferenceEntry) (int, error) {
	count, err := r.count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.insertQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		if _, err := stmt.ExecContext(ctx, e.Title, e.Brand, e.Category, e.OriginalPrice,
			e.SoldPrice, e.DaysToSell, e.Condition, e.Size); err != nil {
			return 0, fmt.Errorf("failed to seed %q: %w", e.Key(), err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("[ReferenceRepository] Seeded %d reference sales (%s)", written, r.dialect.name)
	return written, nil
}

func (r *sqlReferenceRepository) count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reference_sales").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reference sales: %w", err)
	}
	return n, nil
}

// GetStats returns the row count and backend name.
func (r *sqlReferenceRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	n, err := r.count(ctx)
	if err != nil {
		return nil, err
	}

	var brands int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT brand) FROM reference_sales").Scan(&brands); err != nil {
		return nil, fmt.Errorf("failed to count brands: %w", err)
	}

	return map[string]interface{}{
		"backend":          r.dialect.name,
		"reference_sales":  n,
		"distinct_brands":  brands,
		"open_connections": r.db.Stats().OpenConnections,
	}, nil
}

// Ping checks the connection.
func (r *sqlReferenceRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *sqlReferenceRepository) Close() error {
	return r.db.Close()
}

var _ ReferenceRepository = (*sqlReferenceRepository)(nil)

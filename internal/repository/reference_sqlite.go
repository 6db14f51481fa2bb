package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteReferenceRepository implements ReferenceRepository using SQLite.
type SQLiteReferenceRepository struct {
	*sqlReferenceRepository
	path string
}

// NewSQLiteReferenceRepository opens (creating if needed) the database file
// at dbPath, e.g. "./data/reference.db".
func NewSQLiteReferenceRepository(dbPath string) (*SQLiteReferenceRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports 1 writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteReferenceRepository] Initialized with database: %s", dbPath)
	return &SQLiteReferenceRepository{
		sqlReferenceRepository: &sqlReferenceRepository{db: db, dialect: questionDialect("sqlite")},
		path:                   dbPath,
	}, nil
}

func createSQLiteTables(db *sql.DB) error {
	return execAll(context.Background(), db,
		`CREATE TABLE IF NOT EXISTS reference_sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			brand TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			original_price REAL NOT NULL DEFAULT 0,
			sold_price REAL NOT NULL DEFAULT 0,
			days_to_sell INTEGER NOT NULL DEFAULT 0,
			item_condition TEXT NOT NULL DEFAULT '',
			size TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reference_brand ON reference_sales(brand)`,
		`CREATE INDEX IF NOT EXISTS idx_reference_category ON reference_sales(category)`,
	)
}

// GetStats adds the database file size to the common statistics.
func (r *SQLiteReferenceRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats, err := r.sqlReferenceRepository.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	var pageCount, pageSize int64
	if err := r.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := r.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}
	stats["path"] = r.path
	return stats, nil
}

// execAll runs each statement in order.
func execAll(ctx context.Context, db *sql.DB, stmts ...string) error {
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

var _ ReferenceRepository = (*SQLiteReferenceRepository)(nil)

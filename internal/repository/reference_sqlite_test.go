package repository

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"vintelli-api/internal/model"
	"vintelli-api/internal/reference"
)

func newTestSQLite(t *testing.T) *SQLiteReferenceRepository {
	t.Helper()
	repo, err := NewSQLiteReferenceRepository(filepath.Join(t.TempDir(), "data", "reference.db"))
	if err != nil {
		t.Fatalf("NewSQLiteReferenceRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteReferenceSeedAndLoad(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	entries, err := repo.LoadReferenceSales(ctx)
	if err != nil {
		t.Fatalf("LoadReferenceSales: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("empty table: got %v", entries)
	}

	builtin := reference.BuiltinEntries()
	n, err := repo.SeedReferenceSales(ctx, builtin)
	if err != nil {
		t.Fatalf("SeedReferenceSales: %v", err)
	}
	if n != len(builtin) {
		t.Errorf("seeded %d rows, want %d", n, len(builtin))
	}

	loaded, err := repo.LoadReferenceSales(ctx)
	if err != nil {
		t.Fatalf("LoadReferenceSales: %v", err)
	}
	if !reflect.DeepEqual(loaded, builtin) {
		t.Errorf("loaded entries differ from seed:\n got %+v\nwant %+v", loaded, builtin)
	}
}

func TestSQLiteReferenceSeedIsOnce(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	if _, err := repo.SeedReferenceSales(ctx, reference.BuiltinEntries()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	n, err := repo.SeedReferenceSales(ctx, reference.BuiltinEntries())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n != 0 {
		t.Errorf("second seed wrote %d rows, want 0", n)
	}
}

func TestSQLiteReferenceSkipsInvalidRows(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	good := model.ReferenceEntry{Title: "Zara Coat", Brand: "Zara", Category: "Coats", OriginalPrice: 40, SoldPrice: 60, DaysToSell: 9}
	if _, err := repo.SeedReferenceSales(ctx, []model.ReferenceEntry{good}); err != nil {
		t.Fatalf("SeedReferenceSales: %v", err)
	}
	if _, err := repo.db.ExecContext(ctx, repo.insertQuery(), "Broken", "X", "Y", 1.0, -3.0, 2, "", ""); err != nil {
		t.Fatalf("insert invalid row: %v", err)
	}

	loaded, err := repo.LoadReferenceSales(ctx)
	if err != nil {
		t.Fatalf("LoadReferenceSales: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != good {
		t.Errorf("got %+v, want only the valid entry", loaded)
	}
}

func TestSQLiteReferenceStats(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	if _, err := repo.SeedReferenceSales(ctx, reference.BuiltinEntries()); err != nil {
		t.Fatalf("SeedReferenceSales: %v", err)
	}

	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats["backend"] != "sqlite" {
		t.Errorf("backend: got %v", stats["backend"])
	}
	if stats["reference_sales"] != int64(13) {
		t.Errorf("reference_sales: got %v", stats["reference_sales"])
	}
	if stats["distinct_brands"] != int64(11) {
		t.Errorf("distinct_brands: got %v", stats["distinct_brands"])
	}
	if err := repo.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestDollarDialectPlaceholders(t *testing.T) {
	r := &sqlReferenceRepository{dialect: dollarDialect}
	want := "INSERT INTO reference_sales (" + referenceColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	if got := r.insertQuery(); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

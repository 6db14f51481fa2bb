package repository

import (
	"context"

	"vintelli-api/internal/model"
)

// ReferenceRepository stores the reference sales the matcher compares
// listings against. The API reads it once at start-up.
type ReferenceRepository interface {
	// LoadReferenceSales returns every stored entry in insertion order.
	LoadReferenceSales(ctx context.Context) ([]model.ReferenceEntry, error)

	// SeedReferenceSales inserts entries when the table is empty and
	// returns the number of rows written.
	SeedReferenceSales(ctx context.Context, entries []model.ReferenceEntry) (int, error)

	// GetStats returns statistics about the reference store.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Ping checks the connection.
	Ping(ctx context.Context) error

	// Close closes the repository connection.
	Close() error
}

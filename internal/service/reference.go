package service

import (
	"context"
	"fmt"
	"log"

	"vintelli-api/internal/reference"
	"vintelli-api/internal/repository"
)

// LoadReferenceDataset builds the dataset the matcher uses. With a nil
// repository the compiled-in set is returned; otherwise the repository is
// optionally seeded with it and then read once.
func LoadReferenceDataset(ctx context.Context, repo repository.ReferenceRepository, seed bool) (*reference.Dataset, error) {
	if repo == nil {
		ds := reference.Builtin()
		log.Printf("[ReferenceLoader] Using built-in reference set (%d entries)", ds.Len())
		return ds, nil
	}

	if seed {
		if _, err := repo.SeedReferenceSales(ctx, reference.BuiltinEntries()); err != nil {
			return nil, fmt.Errorf("failed to seed reference sales: %w", err)
		}
	}

	entries, err := repo.LoadReferenceSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference sales: %w", err)
	}
	if len(entries) == 0 {
		log.Printf("[ReferenceLoader] Warning: reference store is empty, matches will be empty")
	}

	ds := reference.NewDataset(entries)
	log.Printf("[ReferenceLoader] Loaded %d reference entries", ds.Len())
	return ds, nil
}

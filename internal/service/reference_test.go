package service

import (
	"context"
	"errors"
	"testing"

	"vintelli-api/internal/model"
	"vintelli-api/internal/reference"
)

type fakeReferenceRepo struct {
	stored  []model.ReferenceEntry
	seeded  bool
	loadErr error
}

func (f *fakeReferenceRepo) LoadReferenceSales(ctx context.Context) ([]model.ReferenceEntry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored, nil
}

func (f *fakeReferenceRepo) SeedReferenceSales(ctx context.Context, entries []model.ReferenceEntry) (int, error) {
	if len(f.stored) > 0 {
		return 0, nil
	}
	f.seeded = true
	f.stored = append(f.stored, entries...)
	return len(entries), nil
}

func (f *fakeReferenceRepo) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"reference_sales": len(f.stored)}, nil
}

func (f *fakeReferenceRepo) Ping(ctx context.Context) error { return nil }
func (f *fakeReferenceRepo) Close() error                   { return nil }

func TestLoadReferenceDatasetBuiltin(t *testing.T) {
	ds, err := LoadReferenceDataset(context.Background(), nil, true)
	if err != nil {
		t.Fatalf("LoadReferenceDataset: %v", err)
	}
	if ds.Len() != reference.Builtin().Len() {
		t.Errorf("len: got %d", ds.Len())
	}
}

func TestLoadReferenceDatasetSeeds(t *testing.T) {
	repo := &fakeReferenceRepo{}
	ds, err := LoadReferenceDataset(context.Background(), repo, true)
	if err != nil {
		t.Fatalf("LoadReferenceDataset: %v", err)
	}
	if !repo.seeded || ds.Len() != 13 {
		t.Errorf("seeded=%v len=%d", repo.seeded, ds.Len())
	}
}

func TestLoadReferenceDatasetWithoutSeed(t *testing.T) {
	repo := &fakeReferenceRepo{}
	ds, err := LoadReferenceDataset(context.Background(), repo, false)
	if err != nil {
		t.Fatalf("LoadReferenceDataset: %v", err)
	}
	if repo.seeded || ds.Len() != 0 {
		t.Errorf("seeded=%v len=%d", repo.seeded, ds.Len())
	}
}

func TestLoadReferenceDatasetError(t *testing.T) {
	repo := &fakeReferenceRepo{loadErr: errors.New("connection refused")}
	if _, err := LoadReferenceDataset(context.Background(), repo, false); err == nil {
		t.Fatal("expected an error")
	}
}

package reference

import (
	"testing"

	"vintelli-api/internal/model"
)

func TestBuiltinDatasetInvariants(t *testing.T) {
	d := Builtin()
	if d.Len() != 13 {
		t.Fatalf("Len: got %d, want 13", d.Len())
	}

	seen := make(map[model.EntryKey]bool)
	for _, e := range d.Entries() {
		if !e.Valid() {
			t.Errorf("entry %q violates invariants", e.Title)
		}
		if seen[e.Key()] {
			t.Errorf("duplicate entry %q", e.Key())
		}
		seen[e.Key()] = true
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	d := Builtin()
	entries := d.Entries()
	entries[0].Brand = "mutated"

	if got := d.Entries()[0].Brand; got != "Nike" {
		t.Errorf("dataset mutated through Entries(): brand %q", got)
	}
}

func TestNilDataset(t *testing.T) {
	var d *Dataset
	if d.Len() != 0 {
		t.Errorf("nil Len: got %d", d.Len())
	}
	if got := d.Entries(); got == nil || len(got) != 0 {
		t.Errorf("nil Entries: got %v", got)
	}
}

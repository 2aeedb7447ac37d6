package transposer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/askiada/go-transposer/pkg/grid"
)

const (
	sourceSheet      = "leads"
	destinationSheet = "transposed"
)

func newStore(t *testing.T, source, destination [][]grid.Value) *grid.MemoryStore {
	t.Helper()

	store := grid.NewMemoryStore()
	store.AddSheet(sourceSheet, source)
	store.AddSheet(destinationSheet, destination)

	return store
}

func sheet(t *testing.T, store *grid.MemoryStore, name string) [][]grid.Value {
	t.Helper()

	rows, ok := store.Sheet(name)
	if !ok {
		t.Fatalf("sheet %q not found", name)
	}

	return rows
}

func assertGrid(t *testing.T, want, got [][]grid.Value) {
	t.Helper()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

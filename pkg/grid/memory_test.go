package grid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-transposer/pkg/grid"
)

func TestMemoryStoreMissingSheet(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := grid.NewMemoryStore()

	_, err := store.Values(ctx, "nope")
	require.ErrorIs(t, err, grid.ErrMissingSheet)

	_, _, err = store.Bounds(ctx, "nope")
	require.ErrorIs(t, err, grid.ErrMissingSheet)

	_, err = store.Range(ctx, "nope", grid.Coord{Row: 1, Col: 1}, 1, 1)
	require.ErrorIs(t, err, grid.ErrMissingSheet)

	err = store.SetRange(ctx, "nope", grid.Coord{Row: 1, Col: 1}, [][]grid.Value{{"a"}})
	require.ErrorIs(t, err, grid.ErrMissingSheet)

	_, err = store.Claim(ctx, "nope")
	require.ErrorIs(t, err, grid.ErrMissingSheet)
}

func TestMemoryStoreBounds(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := grid.NewMemoryStore()
	store.AddSheet("empty", nil)
	store.AddSheet("data", [][]grid.Value{
		{"a", "b", ""},
		{"c", "d", "e", ""},
		{"", nil},
	})

	rows, cols, err := store.Bounds(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Zero(t, cols)

	rows, cols, err = store.Bounds(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
}

func TestMemoryStoreSetRangeGrows(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := grid.NewMemoryStore()
	store.AddSheet("dest", nil)

	err := store.SetRange(ctx, "dest", grid.Coord{Row: 1, Col: 3}, [][]grid.Value{
		{"x", int64(1)},
		{"y", true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Writes())

	block, err := store.Range(ctx, "dest", grid.Coord{Row: 1, Col: 1}, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]grid.Value{
		{"", "", "x", int64(1)},
		{"", "", "y", true},
		{"", "", "", ""},
	}, block)
}

func TestMemoryStoreInvalidRange(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := grid.NewMemoryStore()
	store.AddSheet("s", nil)

	_, err := store.Range(ctx, "s", grid.Coord{}, 1, 1)
	require.ErrorIs(t, err, grid.ErrInvalidRange)

	err = store.SetRange(ctx, "s", grid.Coord{Row: 0, Col: 1}, [][]grid.Value{{"a"}})
	require.ErrorIs(t, err, grid.ErrInvalidRange)
}

func TestMemoryStoreSheetIsCopied(t *testing.T) {
	t.Parallel()

	rows := [][]grid.Value{{"a"}}
	store := grid.NewMemoryStore()
	store.AddSheet("s", rows)
	rows[0][0] = "changed"

	got, ok := store.Sheet("s")
	require.True(t, ok)
	assert.Equal(t, [][]grid.Value{{"a"}}, got)

	got[0][0] = "changed again"
	values, err := store.Values(t.Context(), "s")
	require.NoError(t, err)
	assert.Equal(t, [][]grid.Value{{"a"}}, values)
}

func TestMemoryStoreClaim(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := grid.NewMemoryStore()
	store.AddSheet("s", nil)

	release, err := store.Claim(ctx, "s")
	require.NoError(t, err)

	_, err = store.Claim(ctx, "s")
	require.ErrorIs(t, err, grid.ErrSheetBusy)

	require.NoError(t, release())
	require.NoError(t, release())

	release, err = store.Claim(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, release())
}

func TestMemoryStoreCursor(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := grid.NewMemoryStore()

	col, err := store.Cursor(ctx, "s")
	require.NoError(t, err)
	assert.Zero(t, col)

	require.NoError(t, store.SetCursor(ctx, "s", 7))

	col, err = store.Cursor(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 7, col)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	store := grid.NewMemoryStore()
	store.AddSheet("s", nil)

	_, err := store.Values(ctx, "s")
	require.ErrorIs(t, err, context.Canceled)
}

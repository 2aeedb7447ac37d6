package xlsx_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/askiada/go-transposer/pkg/grid"
	"github.com/askiada/go-transposer/pkg/grid/xlsx"
)

func createWorkbook(t *testing.T) (*xlsx.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "book.xlsx")

	store, err := xlsx.Create(path, []xlsx.Sheet{
		{Name: "Form responses 1", Header: []string{"name", "age", "checked"}},
		{Name: "Transposed"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

func TestCreateAndReopen(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, path := createWorkbook(t)

	err := store.SetRange(ctx, "Form responses 1", grid.Coord{Row: 2, Col: 1}, [][]grid.Value{
		{"Alice", int64(30), true},
		{"Bob", 2.5, "FALSE"},
		{"123", int64(7), ""},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := xlsx.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	values, err := reopened.Values(ctx, "Form responses 1")
	require.NoError(t, err)

	want := [][]grid.Value{
		{"name", "age", "checked"},
		{"Alice", int64(30), true},
		{"Bob", 2.5, "FALSE"},
		{"123", int64(7)},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}

	rows, cols, err := reopened.Bounds(ctx, "Form responses 1")
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)

	empty, err := reopened.Values(ctx, "Transposed")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMissingSheet(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, _ := createWorkbook(t)

	_, err := store.Values(ctx, "Sheet1")
	require.ErrorIs(t, err, grid.ErrMissingSheet)

	err = store.SetRange(ctx, "nope", grid.Coord{Row: 1, Col: 1}, [][]grid.Value{{"a"}})
	require.ErrorIs(t, err, grid.ErrMissingSheet)

	_, err = store.Claim(ctx, "nope")
	require.ErrorIs(t, err, grid.ErrMissingSheet)
}

func TestRangePadsBlanks(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, _ := createWorkbook(t)

	block, err := store.Range(ctx, "Form responses 1", grid.Coord{Row: 1, Col: 2}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]grid.Value{
		{"age", "checked", ""},
		{"", "", ""},
	}, block)

	_, err = store.Range(ctx, "Form responses 1", grid.Coord{Row: 0, Col: 1}, 1, 1)
	require.ErrorIs(t, err, grid.ErrInvalidRange)
}

func TestCursor(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, path := createWorkbook(t)

	col, err := store.Cursor(ctx, "Transposed")
	require.NoError(t, err)
	assert.Zero(t, col)

	require.NoError(t, store.SetCursor(ctx, "Transposed", 3))
	require.NoError(t, store.SetCursor(ctx, "Other", 9))
	require.NoError(t, store.SetCursor(ctx, "Transposed", 5))
	require.NoError(t, store.Close())

	reopened, err := xlsx.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	col, err = reopened.Cursor(ctx, "Transposed")
	require.NoError(t, err)
	assert.Equal(t, 5, col)

	col, err = reopened.Cursor(ctx, "Other")
	require.NoError(t, err)
	assert.Equal(t, 9, col)

	meta, err := reopened.Values(ctx, xlsx.MetaSheet)
	require.NoError(t, err)
	assert.Len(t, meta, 2)
}

func TestClaim(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, path := createWorkbook(t)

	release, err := store.Claim(ctx, "Form responses 1")
	require.NoError(t, err)
	assert.FileExists(t, xlsx.LockPath(path))

	_, err = store.Claim(ctx, "Transposed")
	require.ErrorIs(t, err, grid.ErrSheetBusy)

	other, err := xlsx.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })

	_, err = other.Claim(ctx, "Form responses 1")
	require.ErrorIs(t, err, grid.ErrSheetBusy)

	require.NoError(t, release())
	require.NoError(t, release())

	release, err = other.Claim(ctx, "Form responses 1")
	require.NoError(t, err)
	require.NoError(t, release())
}

func TestClaimLeftoverLockFile(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, path := createWorkbook(t)

	// A run killed while holding the claim leaves its lock file behind.
	require.NoError(t, os.WriteFile(xlsx.LockPath(path), []byte("4242"), 0o600))

	release, err := store.Claim(ctx, "Form responses 1")
	require.NoError(t, err)
	require.NoError(t, release())
}

func TestCloseReleasesClaim(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, path := createWorkbook(t)

	_, err := store.Claim(ctx, "Form responses 1")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := xlsx.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	release, err := reopened.Claim(ctx, "Form responses 1")
	require.NoError(t, err)
	require.NoError(t, release())
}

func TestCreateExisting(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, path := createWorkbook(t)

	err := store.SetRange(ctx, "Form responses 1", grid.Coord{Row: 2, Col: 1}, [][]grid.Value{{"Alice", int64(30), true}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = xlsx.Create(path, []xlsx.Sheet{{Name: "Form responses 1", Header: []string{"name", "checked"}}})
	require.ErrorIs(t, err, xlsx.ErrWorkbookExists)

	kept, err := xlsx.Open(path)
	require.NoError(t, err)

	values, err := kept.Values(ctx, "Form responses 1")
	require.NoError(t, err)
	assert.Len(t, values, 2)
	require.NoError(t, kept.Close())

	replaced, err := xlsx.Create(path, []xlsx.Sheet{{Name: "Form responses 1", Header: []string{"name", "checked"}}}, xlsx.WithOverwrite())
	require.NoError(t, err)
	t.Cleanup(func() { _ = replaced.Close() })

	values, err = replaced.Values(ctx, "Form responses 1")
	require.NoError(t, err)
	assert.Equal(t, [][]grid.Value{{"name", "checked"}}, values)
}

func TestCreateKeepsSheetOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ordered.xlsx")
	names := []string{"zeta", "alpha", "mid", "beta"}

	sheets := make([]xlsx.Sheet, len(names))
	for i, name := range names {
		sheets[i] = xlsx.Sheet{Name: name}
	}

	store, err := xlsx.Create(path, sheets)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, names, f.GetSheetList())
}

func TestCreateInvalidSheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "invalid.xlsx")

	_, err := xlsx.Create(path, []xlsx.Sheet{{Name: "bad/name"}})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestDates(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store, path := createWorkbook(t)
	day := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	err := store.SetRange(ctx, "Transposed", grid.Coord{Row: 1, Col: 1}, [][]grid.Value{{day, int64(45293)}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := xlsx.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	values, err := reopened.Values(ctx, "Transposed")
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Len(t, values[0], 2)

	got, ok := values[0][0].(time.Time)
	require.True(t, ok, "got %T", values[0][0])
	assert.True(t, day.Equal(got), got)
	assert.Equal(t, int64(45293), values[0][1])
}

func TestFormulas(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "formulas.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"name", "checked"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Alice"))
	require.NoError(t, f.SetCellFormula("Sheet1", "B2", "1=1"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "Bob"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	store, err := xlsx.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	values, err := store.Values(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]grid.Value{
		{"name", "checked"},
		{"Alice", true},
		{"Bob"},
	}, values)

	column, err := store.Range(ctx, "Sheet1", grid.Coord{Row: 2, Col: 2}, 2, 1)
	require.NoError(t, err)
	column[1][0] = true
	require.NoError(t, store.SetRange(ctx, "Sheet1", grid.Coord{Row: 2, Col: 2}, column))

	values, err = store.Values(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, grid.Row{"Bob", true}, grid.Row(values[2]))

	saved, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = saved.Close() })

	formula, err := saved.GetCellFormula("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1=1", formula)
}

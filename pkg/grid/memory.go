package grid

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps sheets in memory. The zero value is not usable, use
// NewMemoryStore.
type MemoryStore struct {
	lock    sync.RWMutex
	sheets  map[string][][]Value
	cursors map[string]int
	claims  map[string]struct{}
	writes  int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets:  make(map[string][][]Value),
		cursors: make(map[string]int),
		claims:  make(map[string]struct{}),
	}
}

// AddSheet creates or replaces a sheet with a copy of rows.
func (s *MemoryStore) AddSheet(name string, rows [][]Value) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.sheets[name] = copyRows(rows)
}

// Sheet returns a copy of the sheet content, trimmed like Values.
func (s *MemoryStore) Sheet(name string) ([][]Value, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	rows, ok := s.sheets[name]
	if !ok {
		return nil, false
	}

	return trim(rows), true
}

// Writes returns how many SetRange calls succeeded.
func (s *MemoryStore) Writes() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.writes
}

func (s *MemoryStore) Values(ctx context.Context, sheet string) ([][]Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, MissingSheet(sheet)
	}

	return trim(rows), nil
}

func (s *MemoryStore) Bounds(ctx context.Context, sheet string) (int, int, error) {
	rows, err := s.Values(ctx, sheet)
	if err != nil {
		return 0, 0, err
	}

	return len(rows), Width(rows), nil
}

func (s *MemoryStore) Range(ctx context.Context, sheet string, origin Coord, rows, cols int) ([][]Value, error) {
	if !origin.Valid() || rows < 0 || cols < 0 {
		return nil, errors.Wrapf(ErrInvalidRange, "origin %+v size %dx%d", origin, rows, cols)
	}

	values, err := s.Values(ctx, sheet)
	if err != nil {
		return nil, err
	}

	res := make([][]Value, rows)
	for r := range res {
		res[r] = make([]Value, cols)
		for c := range res[r] {
			res[r][c] = ""

			ri, ci := origin.Row-1+r, origin.Col-1+c
			if ri < len(values) && ci < len(values[ri]) && values[ri][ci] != nil {
				res[r][c] = values[ri][ci]
			}
		}
	}

	return res, nil
}

func (s *MemoryStore) SetRange(ctx context.Context, sheet string, origin Coord, values [][]Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !origin.Valid() {
		return errors.Wrapf(ErrInvalidRange, "origin %+v", origin)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return MissingSheet(sheet)
	}

	for r, line := range values {
		ri := origin.Row - 1 + r
		for len(rows) <= ri {
			rows = append(rows, nil)
		}

		for c, val := range line {
			ci := origin.Col - 1 + c
			for len(rows[ri]) <= ci {
				rows[ri] = append(rows[ri], nil)
			}
			rows[ri][ci] = val
		}
	}

	s.sheets[sheet] = rows
	s.writes++

	return nil
}

// Claim gives the caller exclusive use of sheet until release is called.
func (s *MemoryStore) Claim(ctx context.Context, sheet string) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.sheets[sheet]; !ok {
		return nil, MissingSheet(sheet)
	}

	if _, ok := s.claims[sheet]; ok {
		return nil, errors.Wrapf(ErrSheetBusy, "sheet %q", sheet)
	}

	s.claims[sheet] = struct{}{}

	var once sync.Once

	return func() error {
		once.Do(func() {
			s.lock.Lock()
			defer s.lock.Unlock()
			delete(s.claims, sheet)
		})

		return nil
	}, nil
}

func (s *MemoryStore) Cursor(ctx context.Context, sheet string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.cursors[sheet], nil
}

func (s *MemoryStore) SetCursor(ctx context.Context, sheet string, lastCol int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.cursors[sheet] = lastCol

	return nil
}

// trim copies rows, dropping trailing blank cells and trailing blank rows.
func trim(rows [][]Value) [][]Value {
	res := make([][]Value, 0, len(rows))
	for _, row := range rows {
		end := len(row)
		for end > 0 && IsEmpty(row[end-1]) {
			end--
		}

		line := make([]Value, end)
		copy(line, row[:end])
		res = append(res, line)
	}

	end := len(res)
	for end > 0 && len(res[end-1]) == 0 {
		end--
	}

	return res[:end]
}

func copyRows(rows [][]Value) [][]Value {
	res := make([][]Value, len(rows))
	for i, row := range rows {
		res[i] = make([]Value, len(row))
		copy(res[i], row)
	}

	return res
}

var (
	_ Store       = (*MemoryStore)(nil)
	_ Claimer     = (*MemoryStore)(nil)
	_ CursorStore = (*MemoryStore)(nil)
)

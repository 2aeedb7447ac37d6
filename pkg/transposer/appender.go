package transposer

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-transposer/pkg/grid"
)

// Placement tells where a block was written. Row and Col are 1-based; a zero
// Placement means nothing was written.
type Placement struct {
	Row    int
	Col    int
	Height int
	Width  int
}

// LastCol returns the last column covered by the block.
func (p Placement) LastCol() int {
	if p.Width == 0 {
		return 0
	}

	return p.Col + p.Width - 1
}

// Appender writes blocks to the right of what a sheet already holds.
type Appender struct {
	store  grid.Store
	sheet  string
	logger *zap.Logger
}

// NewAppender creates an appender on sheet.
func NewAppender(store grid.Store, sheet string, logger *zap.Logger) *Appender {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Appender{
		store:  store,
		sheet:  sheet,
		logger: logger,
	}
}

// NextColumn returns the column the next block starts at: one past the last
// non-empty cell of row 1, or past the recorded cursor when the store keeps
// one and it is further right.
func (a *Appender) NextColumn(ctx context.Context) (int, error) {
	lastRow, lastCol, err := a.store.Bounds(ctx, a.sheet)
	if err != nil {
		return 0, errors.Wrap(err, "unable to get destination bounds")
	}

	occupied := 0

	if lastRow > 0 && lastCol > 0 {
		first, err := a.store.Range(ctx, a.sheet, grid.Coord{Row: 1, Col: 1}, 1, lastCol)
		if err != nil {
			return 0, errors.Wrap(err, "unable to read destination first row")
		}

		for i, cell := range first[0] {
			if !grid.IsEmpty(cell) {
				occupied = i + 1
			}
		}
	}

	if cursors, ok := a.store.(grid.CursorStore); ok {
		cursor, err := cursors.Cursor(ctx, a.sheet)
		if err != nil {
			return 0, errors.Wrap(err, "unable to read destination cursor")
		}

		occupied = max(occupied, cursor)
	}

	return occupied + 1, nil
}

// Append writes m at row 1 of the first free column. An empty matrix is a
// no-op.
func (a *Appender) Append(ctx context.Context, m grid.Matrix) (Placement, error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return Placement{}, nil
	}

	col, err := a.NextColumn(ctx)
	if err != nil {
		return Placement{}, err
	}

	placement := Placement{Row: 1, Col: col, Height: len(m), Width: len(m[0])}

	err = a.store.SetRange(ctx, a.sheet, grid.Coord{Row: placement.Row, Col: placement.Col}, m)
	if err != nil {
		return Placement{}, errors.Wrap(err, "unable to write transposed block")
	}

	if cursors, ok := a.store.(grid.CursorStore); ok {
		err := cursors.SetCursor(ctx, a.sheet, placement.LastCol())
		if err != nil {
			return placement, errors.Wrap(err, "unable to record destination cursor")
		}
	}

	a.logger.Debug("block appended",
		zap.String("sheet", a.sheet),
		zap.Int("column", placement.Col),
		zap.Int("rows", placement.Height),
		zap.Int("columns", placement.Width),
	)

	return placement, nil
}

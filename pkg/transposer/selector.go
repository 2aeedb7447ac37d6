package transposer

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-transposer/pkg/grid"
)

// DefaultCheckedColumn is the header of the bookkeeping column.
const DefaultCheckedColumn = "checked"

// SelectedRow is a body row picked by a run. Index is its 1-based row in the
// source sheet, header included.
type SelectedRow struct {
	Index int
	Cells grid.Row
}

// Batch is the result of a selection.
type Batch struct {
	Header       grid.Row
	CheckedIndex int
	Rows         []SelectedRow
}

// Cells returns the selected rows without their index.
func (b Batch) Cells() []grid.Row {
	res := make([]grid.Row, len(b.Rows))
	for i, row := range b.Rows {
		res[i] = row.Cells
	}

	return res
}

// Selector reads the unprocessed rows of a sheet and marks them processed.
type Selector struct {
	store         grid.Store
	sheet         string
	checkedColumn string
	logger        *zap.Logger
}

// NewSelector creates a selector on sheet. An empty checkedColumn means
// DefaultCheckedColumn.
func NewSelector(store grid.Store, sheet, checkedColumn string, logger *zap.Logger) *Selector {
	if checkedColumn == "" {
		checkedColumn = DefaultCheckedColumn
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Selector{
		store:         store,
		sheet:         sheet,
		checkedColumn: checkedColumn,
		logger:        logger,
	}
}

// Select returns the rows whose checked cell is neither true nor "TRUE", in
// sheet order and with the checked value they had before the call, then
// sets their checked cell to true with a single write.
func (s *Selector) Select(ctx context.Context) (Batch, error) {
	values, err := s.store.Values(ctx, s.sheet)
	if err != nil {
		return Batch{}, errors.Wrap(err, "unable to read source rows")
	}

	if len(values) == 0 {
		return Batch{}, grid.MissingColumn(s.sheet, s.checkedColumn)
	}

	header := grid.Row(values[0])

	checkedIdx := grid.HeaderIndex(header, s.checkedColumn)
	if checkedIdx < 0 {
		return Batch{}, grid.MissingColumn(s.sheet, s.checkedColumn)
	}

	width := max(grid.Width(values), checkedIdx+1)
	batch := Batch{
		Header:       pad(header, width),
		CheckedIndex: checkedIdx,
	}

	for i, line := range values[1:] {
		row := pad(line, width)
		if grid.IsChecked(row[checkedIdx]) {
			continue
		}

		batch.Rows = append(batch.Rows, SelectedRow{Index: i + 2, Cells: row})
	}

	s.logger.Debug("rows selected",
		zap.String("sheet", s.sheet),
		zap.Int("body", len(values)-1),
		zap.Int("selected", len(batch.Rows)),
	)

	if len(batch.Rows) == 0 {
		return batch, nil
	}

	err = s.mark(ctx, len(values), checkedIdx, batch.Rows)
	if err != nil {
		return Batch{}, err
	}

	return batch, nil
}

// mark sets the checked cell of rows to true, writing the whole checked
// column from row 2 to lastRow at once.
func (s *Selector) mark(ctx context.Context, lastRow, checkedIdx int, rows []SelectedRow) error {
	origin := grid.Coord{Row: 2, Col: checkedIdx + 1}

	column, err := s.store.Range(ctx, s.sheet, origin, lastRow-1, 1)
	if err != nil {
		return errors.Wrap(err, "unable to read checked column")
	}

	for _, row := range rows {
		column[row.Index-2][0] = true
	}

	err = s.store.SetRange(ctx, s.sheet, origin, column)
	if err != nil {
		return errors.Wrap(err, "unable to mark rows as checked")
	}

	return nil
}

// pad copies row, filling missing trailing cells with empty strings.
func pad(row []grid.Value, width int) grid.Row {
	res := make(grid.Row, width)
	for i := range res {
		res[i] = ""
		if i < len(row) && row[i] != nil {
			res[i] = row[i]
		}
	}

	return res
}

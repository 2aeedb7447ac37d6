package xlsx

import (
	"context"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/askiada/go-transposer/pkg/grid"
)

// Cursor returns the last column recorded for sheet in MetaSheet.
func (s *Store) Cursor(ctx context.Context, sheet string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSheet(MetaSheet) {
		return 0, nil
	}

	rows, err := s.values(MetaSheet)
	if err != nil {
		return 0, err
	}

	_, col := findCursor(rows, sheet)

	return col, nil
}

// SetCursor records lastCol for sheet, creating the hidden MetaSheet on first use.
func (s *Store) SetCursor(ctx context.Context, sheet string, lastCol int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSheet(MetaSheet) {
		if _, err := s.file.NewSheet(MetaSheet); err != nil {
			return errors.Wrapf(err, "unable to create sheet %s", MetaSheet)
		}

		if err := s.file.SetSheetVisible(MetaSheet, false); err != nil {
			return errors.Wrapf(err, "unable to hide sheet %s", MetaSheet)
		}
	}

	rows, err := s.values(MetaSheet)
	if err != nil {
		return err
	}

	rowIdx, _ := findCursor(rows, sheet)
	if rowIdx == 0 {
		rowIdx = len(rows) + 1
	}

	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return errors.Wrap(err, "unable to build cell name")
	}

	row := []any{sheet, lastCol}

	err = s.file.SetSheetRow(MetaSheet, cell, &row)
	if err != nil {
		return errors.Wrapf(err, "unable to write cursor of %s", sheet)
	}

	return s.save()
}

// findCursor returns the 1-based row holding sheet's cursor and its value.
func findCursor(rows [][]grid.Value, sheet string) (int, int) {
	for i, row := range rows {
		if len(row) < 2 || row[0] != sheet {
			continue
		}

		switch v := row[1].(type) {
		case int64:
			return i + 1, int(v)
		case float64:
			return i + 1, int(v)
		default:
			return i + 1, 0
		}
	}

	return 0, 0
}

var _ grid.CursorStore = (*Store)(nil)

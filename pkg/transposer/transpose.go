package transposer

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-transposer/pkg/grid"
)

// ErrRaggedRows is returned when the rows to transpose do not all have the
// same length.
var ErrRaggedRows = errors.New("rows have different lengths")

// Transpose drops the checked column from the batch rows and transposes them.
func Transpose(batch Batch) (grid.Matrix, error) {
	return TransposeRows(batch.Cells(), batch.CheckedIndex)
}

// TransposeRows removes the cell at dropIdx from every row, then swaps rows
// and columns: cell (i, j) of the result is cell (j, i) of the filtered
// rows. A negative dropIdx keeps every column. An empty input gives an
// empty matrix.
func TransposeRows(rows []grid.Row, dropIdx int) (grid.Matrix, error) {
	if len(rows) == 0 {
		return grid.Matrix{}, nil
	}

	filtered := make([]grid.Row, len(rows))
	for i, row := range rows {
		filtered[i] = without(row, dropIdx)
	}

	width := len(filtered[0])
	for i, row := range filtered {
		if len(row) != width {
			return nil, errors.Wrapf(ErrRaggedRows, "row %d has %d cells, expected %d", i, len(row), width)
		}
	}

	res := make(grid.Matrix, width)
	for col := range res {
		res[col] = make([]grid.Value, len(filtered))
		for r, row := range filtered {
			res[col][r] = row[col]
		}
	}

	return res, nil
}

func without(row grid.Row, idx int) grid.Row {
	if idx < 0 || idx >= len(row) {
		res := make(grid.Row, len(row))
		copy(res, row)

		return res
	}

	res := make(grid.Row, 0, len(row)-1)
	res = append(res, row[:idx]...)

	return append(res, row[idx+1:]...)
}

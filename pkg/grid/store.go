package grid

import "context"

// Store gives access to named sheets.
//
// Every method returns an error matching ErrMissingSheet when the sheet does
// not exist.
type Store interface {
	// Values returns every row of the sheet, header included. Rows are not
	// padded, trailing blank cells may be missing.
	Values(ctx context.Context, sheet string) ([][]Value, error)
	// Bounds returns the last occupied row and column, both 0 for an empty sheet.
	Bounds(ctx context.Context, sheet string) (lastRow, lastCol int, err error)
	// Range returns a rows x cols block starting at origin. Cells outside the
	// occupied area are returned as empty strings.
	Range(ctx context.Context, sheet string, origin Coord, rows, cols int) ([][]Value, error)
	// SetRange writes values as a block starting at origin.
	SetRange(ctx context.Context, sheet string, origin Coord, values [][]Value) error
}

// Claimer is implemented by stores able to give one run exclusive use of a sheet.
type Claimer interface {
	// Claim returns ErrSheetBusy when the sheet is already claimed. The
	// returned function releases the claim.
	Claim(ctx context.Context, sheet string) (release func() error, err error)
}

// CursorStore is implemented by stores able to persist the last column an
// append wrote to, per sheet.
type CursorStore interface {
	// Cursor returns 0 when nothing was recorded yet.
	Cursor(ctx context.Context, sheet string) (int, error)
	SetCursor(ctx context.Context, sheet string, lastCol int) error
}

package grid

import "github.com/pkg/errors"

var (
	// ErrMissingSheet is returned when a named sheet does not exist.
	ErrMissingSheet = errors.New("sheet not found")
	// ErrMissingColumn is returned when a required header column does not exist.
	ErrMissingColumn = errors.New("column not found")
	// ErrSheetBusy is returned when another run already claimed the sheet.
	ErrSheetBusy = errors.New("sheet is claimed by another run")
	// ErrInvalidRange is returned for ranges outside the sheet coordinates.
	ErrInvalidRange = errors.New("invalid range")
)

// MissingSheet wraps ErrMissingSheet with the sheet name.
func MissingSheet(sheet string) error {
	return errors.Wrapf(ErrMissingSheet, "sheet %q", sheet)
}

// MissingColumn wraps ErrMissingColumn with the column and sheet names.
func MissingColumn(sheet, column string) error {
	return errors.Wrapf(ErrMissingColumn, "column %q in sheet %q", column, sheet)
}

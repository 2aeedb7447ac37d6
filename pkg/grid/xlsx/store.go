// Package xlsx implements grid.Store on top of an Excel workbook.
package xlsx

import (
	"context"
	"os"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/askiada/go-transposer/pkg/grid"
)

// MetaSheet is the hidden sheet holding append cursors.
const MetaSheet = "_transposer"

// ErrWorkbookExists is returned by Create when the target file is already
// there and overwriting was not asked for.
var ErrWorkbookExists = errors.New("workbook already exists")

// Store is a grid.Store backed by a workbook file. Every write saves the
// workbook to disk.
type Store struct {
	mu   sync.Mutex
	file *excelize.File
	path string
	lock *flock.Flock
}

// Open opens an existing workbook.
func Open(path string) (*Store, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open workbook %s", path)
	}

	return &Store{file: f, path: path}, nil
}

// Sheet describes a sheet to create. An empty Header leaves the sheet blank.
type Sheet struct {
	Name   string
	Header []string
}

type createOptions struct {
	overwrite bool
}

// CreateOption configures Create.
type CreateOption func(o *createOptions)

// WithOverwrite lets Create replace an existing file.
func WithOverwrite() CreateOption {
	return func(o *createOptions) {
		o.overwrite = true
	}
}

// Create creates a new workbook at path holding sheets, in order. It fails
// with ErrWorkbookExists when path exists, unless WithOverwrite is given.
func Create(path string, sheets []Sheet, opts ...CreateOption) (*Store, error) {
	cfg := createOptions{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.overwrite {
		_, err := os.Stat(path)
		if err == nil {
			return nil, errors.Wrap(ErrWorkbookExists, path)
		}

		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "unable to stat %s", path)
		}
	}

	f := excelize.NewFile()

	err := fillWorkbook(f, sheets)
	if err == nil {
		err = errors.Wrapf(f.SaveAs(path), "unable to save workbook %s", path)
	}

	if err != nil {
		_ = f.Close()

		return nil, err
	}

	return &Store{file: f, path: path}, nil
}

func fillWorkbook(f *excelize.File, sheets []Sheet) error {
	defaultSheet := f.GetSheetName(0)
	keepDefault := len(sheets) == 0

	for _, sheet := range sheets {
		if sheet.Name == defaultSheet {
			keepDefault = true
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return errors.Wrapf(err, "unable to create sheet %s", sheet.Name)
		}

		if len(sheet.Header) == 0 {
			continue
		}

		row := make([]any, len(sheet.Header))
		for i, h := range sheet.Header {
			row[i] = h
		}

		if err := f.SetSheetRow(sheet.Name, "A1", &row); err != nil {
			return errors.Wrapf(err, "unable to write header of %s", sheet.Name)
		}
	}

	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return errors.Wrapf(err, "unable to delete sheet %s", defaultSheet)
		}
	}

	f.SetActiveSheet(0)

	return nil
}

// Close releases the workbook and any claim still held by the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock != nil {
		_ = s.lock.Unlock()
		s.lock = nil
	}

	return errors.Wrap(s.file.Close(), "unable to close workbook")
}

func (s *Store) hasSheet(sheet string) bool {
	idx, err := s.file.GetSheetIndex(sheet)

	return err == nil && idx >= 0
}

func (s *Store) Values(ctx context.Context, sheet string) ([][]grid.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.values(sheet)
}

// values decodes every cell of sheet. Trailing blank cells of a row are
// dropped; a blank cell holding a formula without cached result is
// evaluated.
func (s *Store) values(sheet string) ([][]grid.Value, error) {
	if !s.hasSheet(sheet) {
		return nil, grid.MissingSheet(sheet)
	}

	raw, err := s.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read rows of %s", sheet)
	}

	width := 0
	for _, line := range raw {
		width = max(width, len(line))
	}

	rows := make([][]grid.Value, len(raw))
	for r, line := range raw {
		row := make([]grid.Value, width)
		for c := range row {
			cell := ""
			if c < len(line) {
				cell = line[c]
			}

			row[c], err = s.decode(sheet, grid.Coord{Row: r + 1, Col: c + 1}, cell)
			if err != nil {
				return nil, err
			}
		}

		rows[r] = trimRow(row)
	}

	return rows, nil
}

func trimRow(row []grid.Value) []grid.Value {
	end := len(row)
	for end > 0 && grid.IsEmpty(row[end-1]) {
		end--
	}

	return row[:end]
}

func (s *Store) Bounds(ctx context.Context, sheet string) (int, int, error) {
	rows, err := s.Values(ctx, sheet)
	if err != nil {
		return 0, 0, err
	}

	return len(rows), grid.Width(rows), nil
}

func (s *Store) Range(ctx context.Context, sheet string, origin grid.Coord, rows, cols int) ([][]grid.Value, error) {
	if !origin.Valid() || rows < 0 || cols < 0 {
		return nil, errors.Wrapf(grid.ErrInvalidRange, "origin %+v size %dx%d", origin, rows, cols)
	}

	values, err := s.Values(ctx, sheet)
	if err != nil {
		return nil, err
	}

	res := make([][]grid.Value, rows)
	for r := range res {
		res[r] = make([]grid.Value, cols)
		for c := range res[r] {
			res[r][c] = ""

			ri, ci := origin.Row-1+r, origin.Col-1+c
			if ri < len(values) && ci < len(values[ri]) {
				res[r][c] = values[ri][ci]
			}
		}
	}

	return res, nil
}

// SetRange writes values with origin as top left cell. A formula cell whose
// result already equals the value to write is left untouched, so writing
// back what Range returned keeps formulas.
func (s *Store) SetRange(ctx context.Context, sheet string, origin grid.Coord, values [][]grid.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !origin.Valid() {
		return errors.Wrapf(grid.ErrInvalidRange, "origin %+v", origin)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSheet(sheet) {
		return grid.MissingSheet(sheet)
	}

	for r, line := range values {
		for c, val := range line {
			at := grid.Coord{Row: origin.Row + r, Col: origin.Col + c}

			err := s.setCell(sheet, at, val)
			if err != nil {
				return err
			}
		}
	}

	return s.save()
}

func (s *Store) setCell(sheet string, at grid.Coord, val grid.Value) error {
	name, err := excelize.CoordinatesToCellName(at.Col, at.Row)
	if err != nil {
		return errors.Wrap(err, "unable to build cell name")
	}

	formula, err := s.file.GetCellFormula(sheet, name)
	if err != nil {
		return errors.Wrapf(err, "unable to read formula of %s!%s", sheet, name)
	}

	if formula != "" {
		current, err := s.cell(sheet, at, name)
		if err != nil {
			return err
		}

		if sameValue(current, val) {
			return nil
		}
	}

	err = s.file.SetCellValue(sheet, name, val)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s!%s", sheet, name)
	}

	return nil
}

func (s *Store) save() error {
	return errors.Wrapf(s.file.Save(), "unable to save workbook %s", s.path)
}

var _ grid.Store = (*Store)(nil)

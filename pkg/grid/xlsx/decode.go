package xlsx

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/askiada/go-transposer/pkg/grid"
)

// cell reads and decodes a single cell.
func (s *Store) cell(sheet string, at grid.Coord, name string) (grid.Value, error) {
	raw, err := s.file.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s!%s", sheet, name)
	}

	return s.decode(sheet, at, raw)
}

// decode turns the raw text of a cell back into a typed value: booleans,
// numbers, dates for numbers with a date format, strings otherwise. A blank
// formula cell is evaluated; if evaluation fails the formula text is kept.
func (s *Store) decode(sheet string, at grid.Coord, raw string) (grid.Value, error) {
	name, err := excelize.CoordinatesToCellName(at.Col, at.Row)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build cell name")
	}

	if raw == "" {
		return s.evaluate(sheet, name)
	}

	typ, err := s.file.GetCellType(sheet, name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get type of %s!%s", sheet, name)
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE", nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		num := parseNumber(raw)
		if _, ok := num.(string); ok {
			return num, nil
		}

		return s.asDate(sheet, name, raw, num)
	default:
		return raw, nil
	}
}

func (s *Store) evaluate(sheet, name string) (grid.Value, error) {
	formula, err := s.file.GetCellFormula(sheet, name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read formula of %s!%s", sheet, name)
	}

	if formula == "" {
		return "", nil
	}

	result, err := s.file.CalcCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return "=" + formula, nil //nolint:nilerr // unsupported functions keep their text
	}

	switch result {
	case "TRUE":
		return true, nil
	case "FALSE":
		return false, nil
	default:
		return parseNumber(result), nil
	}
}

func parseNumber(s string) grid.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}

// asDate returns num as a time.Time when the cell has a date or time number
// format.
func (s *Store) asDate(sheet, name, raw string, num grid.Value) (grid.Value, error) {
	styleID, err := s.file.GetCellStyle(sheet, name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get style of %s!%s", sheet, name)
	}

	if styleID == 0 {
		return num, nil
	}

	style, err := s.file.GetStyle(styleID)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get style %d", styleID)
	}

	if !isDateFormat(style) {
		return num, nil
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return num, nil //nolint:nilerr // parseNumber already accepted raw
	}

	props, err := s.file.GetWorkbookProps()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get workbook properties")
	}

	date1904 := props.Date1904 != nil && *props.Date1904

	date, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return num, nil //nolint:nilerr // out of range serials stay numbers
	}

	return date, nil
}

// Built-in number formats rendering dates or times.
var dateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

func isDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}

	if style.CustomNumFmt == nil {
		return dateFormats[style.NumFmt]
	}

	return isDateLayout(*style.CustomNumFmt)
}

// isDateLayout reports whether a custom format has date or time tokens
// outside of quoted text and brackets.
func isDateLayout(layout string) bool {
	quoted, bracket := false, false

	for _, r := range strings.ToLower(layout) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}

	return false
}

func sameValue(a, b grid.Value) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)

		return ok && ta.Equal(tb)
	}

	return a == b
}

package grid

// Value is the content of a single cell: string, float64, int64, bool or nil.
type Value = any

// Row is one line of a grid, aligned positionally to the header.
type Row []Value

// Matrix is a rectangular block of values, row-major.
type Matrix [][]Value

// Coord addresses a cell. Both fields are 1-based.
type Coord struct {
	Row int
	Col int
}

// Valid reports whether c points inside a sheet.
func (c Coord) Valid() bool {
	return c.Row >= 1 && c.Col >= 1
}

// IsChecked reports whether v marks a row as processed. Only the boolean
// true and the exact string "TRUE" count.
func IsChecked(v Value) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "TRUE"
	default:
		return false
	}
}

// IsEmpty reports whether v is a blank cell.
func IsEmpty(v Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)

	return ok && s == ""
}

// HeaderIndex returns the position of name in header, or -1.
func HeaderIndex(header Row, name string) int {
	for i, cell := range header {
		s, ok := cell.(string)
		if ok && s == name {
			return i
		}
	}

	return -1
}

// Width returns the length of the widest row.
func Width(rows [][]Value) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	return width
}

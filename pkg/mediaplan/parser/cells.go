package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Sheet is a rectangular grid of trimmed cell strings. Coordinates are
// 0-based and match the workbook's own row and column positions.
type Sheet struct {
	Name  string
	cells [][]string
	cols  int
}

// NewSheet builds a sheet from raw rows, padding ragged rows.
func NewSheet(name string, rows [][]string) *Sheet {
	s := &Sheet{Name: name}
	for _, row := range rows {
		if len(row) > s.cols {
			s.cols = len(row)
		}
	}
	s.cells = make([][]string, len(rows))
	for r, row := range rows {
		line := make([]string, s.cols)
		for c, v := range row {
			line[c] = strings.TrimSpace(v)
		}
		s.cells[r] = line
	}
	return s
}

// LoadSheet reads every formatted cell value of a worksheet.
func LoadSheet(f *excelize.File, sheetName string) (*Sheet, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "read rows of sheet %q", sheetName)
	}
	return NewSheet(sheetName, rows), nil
}

// NumRows is the row count.
func (s *Sheet) NumRows() int { return len(s.cells) }

// NumCols is the column count.
func (s *Sheet) NumCols() int { return s.cols }

// Cell returns the trimmed value at (row, col), or "" out of bounds.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.cells) || col < 0 || col >= s.cols {
		return ""
	}
	return s.cells[row][col]
}

// Row returns cells [first, last] of a row; out-of-bounds cells are "".
func (s *Sheet) Row(row, first, last int) []string {
	if last < first {
		return nil
	}
	out := make([]string, 0, last-first+1)
	for c := first; c <= last; c++ {
		out = append(out, s.Cell(row, c))
	}
	return out
}

// RowBlank reports whether cells [first, last] of a row are all empty.
func (s *Sheet) RowBlank(row, first, last int) bool {
	for c := first; c <= last; c++ {
		if s.Cell(row, c) != "" {
			return false
		}
	}
	return true
}

var currencyTokens = []string{"$", "€", "£", "¥", "AED", "SAR", "QAR", "KWD", "BHD", "OMR", "USD", "EUR", "GBP"}

// ParseNumber parses a human-formatted number: currency symbols, thousands
// separators, a trailing percent sign and accounting parentheses are
// accepted. The second result reports a percent sign in the source.
func ParseNumber(s string) (value float64, percent, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	upper := strings.ToUpper(s)
	for _, tok := range currencyTokens {
		upper = strings.ReplaceAll(upper, tok, "")
	}
	upper = strings.ReplaceAll(upper, ",", "")
	upper = strings.ReplaceAll(upper, "\u00a0", "")
	upper = strings.ReplaceAll(upper, " ", "")
	if upper == "" || upper == "-" || upper == "+" {
		return 0, false, false
	}
	f, err := strconv.ParseFloat(upper, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, false
	}
	if negative {
		f = -f
	}
	return f, percent, true
}

// IsNumeric reports whether a cell parses as a number.
func IsNumeric(s string) bool {
	_, _, ok := ParseNumber(s)
	return ok
}

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCell reads a GDP cell. Surrounding whitespace is ignored; an empty
// cell reports present=false. Any other value that is not a float is an
// ErrParse.
func ParseCell(raw string) (value float64, present bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q is not a number", ErrParse, raw)
	}
	return v, true, nil
}

// CellValue reads column of row with ParseCell. A column the row does not
// have is reported the same as an empty cell.
func CellValue(row Row, column string) (float64, bool, error) {
	raw, ok := row.Value(column)
	if !ok {
		return 0, false, nil
	}
	return ParseCell(raw)
}

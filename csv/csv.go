package csv

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseComma returns the separator named by str. Besides single characters,
// "tab" and "\t" are accepted.
func ParseComma(str string) (byte, error) {
	switch strings.ToLower(str) {
	case "", ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case ":", "colon":
		return ':', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("%s: unsupported separator", str)
	}
}

// ReadFile reads a delimited file into a grid ready to be loaded in a
// sheet. Fields are kept as they are written: the sheet takes care of
// recognizing numbers and formulas.
func ReadFile(file string, comma byte) ([][]any, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Read(r, comma)
}

func Read(r io.Reader, comma byte) ([][]any, error) {
	rs := NewReader(r)
	if comma != 0 {
		rs.Comma = comma
	}
	rows, err := rs.ReadAll()
	if err != nil {
		return nil, err
	}
	grid := make([][]any, 0, len(rows))
	for _, fields := range rows {
		row := make([]any, len(fields))
		for i := range fields {
			row[i] = fields[i]
		}
		grid = append(grid, row)
	}
	return grid, nil
}

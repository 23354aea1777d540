package oxml

import (
	"errors"
	"fmt"
	"strings"
)

const (
	TypeSharedStr = "s"
	TypeInlineStr = "inlineStr"
	TypeFormula   = "str"
	TypeDate      = "d"
	TypeError     = "e"
	TypeBool      = "b"
	TypeNumber    = "n"
)

const formulaShared = "shared"

var (
	ErrFile  = errors.New("invalid spreadsheet")
	ErrFound = errors.New("not found")
)

type SheetInfo struct {
	Id     string
	Name   string
	Index  int
	Hidden bool

	target string
}

// Sheets lists the worksheets of the xlsx file in workbook order.
func Sheets(file string) ([]SheetInfo, error) {
	r, err := readFile(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.readWorkbook()
}

// ReadSheet reads the worksheet name of file into a grid suitable for
// grid.Sheet.Load. When name is empty, the first sheet is read. Formulas
// are returned as text starting with "=" so that they are recomputed;
// constants keep their type.
func ReadSheet(file, name string) ([][]any, error) {
	r, err := readFile(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sheets, err := r.readWorkbook()
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook without sheet", ErrFile)
	}
	info := sheets[0]
	if name != "" {
		var ok bool
		for _, s := range sheets {
			if strings.EqualFold(s.Name, name) {
				info, ok = s, true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("%s: sheet %w", name, ErrFound)
		}
	}
	shared, err := r.readSharedStrings()
	if err != nil {
		return nil, err
	}
	return r.readWorksheet(info, shared)
}

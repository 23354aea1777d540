package oxml

import (
	"strconv"
	"strings"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
	"github.com/xuri/efp"
)

// shiftFormula moves the relative references of expr by the given number
// of lines and columns, the way a formula is adjusted when it is copied
// from one cell to another. Anchored parts ($A or A$1) are kept.
func shiftFormula(expr string, lines, columns int64) string {
	var (
		ps     = efp.ExcelParser()
		tokens = ps.Parse(expr)
	)
	for i := range tokens {
		tok := &tokens[i]
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		tok.TValue = shiftReference(tok.TValue, lines, columns)
	}
	return ps.Render()
}

func shiftReference(ref string, lines, columns int64) string {
	var (
		sheet string
		addr  = ref
	)
	if ix := strings.LastIndexByte(ref, '!'); ix >= 0 {
		sheet, addr = ref[:ix+1], ref[ix+1:]
	}
	parts := strings.Split(addr, ":")
	for i := range parts {
		str, ok := shiftAddress(parts[i], lines, columns)
		if !ok {
			return value.ErrRef.Code()
		}
		parts[i] = str
	}
	return sheet + strings.Join(parts, ":")
}

// shiftAddress returns false when the shifted address falls outside of the
// sheet. Text that is not an address is returned unchanged.
func shiftAddress(addr string, lines, columns int64) (string, bool) {
	var (
		rest           = addr
		colAbs, rowAbs bool
	)
	if strings.HasPrefix(rest, "$") {
		colAbs, rest = true, rest[1:]
	}
	col, n := layout.ParseIndex(rest)
	if n == 0 {
		return addr, true
	}
	rest = rest[n:]
	if strings.HasPrefix(rest, "$") {
		rowAbs, rest = true, rest[1:]
	}
	row, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return addr, true
	}
	if !colAbs {
		col += columns
	}
	if !rowAbs {
		row += lines
	}
	if col < 1 || row < 1 || col > layout.MaxColumn || row > layout.MaxLine {
		return "", false
	}
	var buf strings.Builder
	if colAbs {
		buf.WriteByte('$')
	}
	buf.WriteString(layout.IndexToString(col))
	if rowAbs {
		buf.WriteByte('$')
	}
	buf.WriteString(strconv.FormatInt(row, 10))
	return buf.String(), true
}

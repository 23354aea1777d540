package grid

import (
	"slices"
	"strings"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

const formulaMarker = "="

// Cell is a single cell of a sheet. Value and Err are exclusive: a cell
// that failed to compute has no value.
type Cell struct {
	layout.Position

	Raw     string
	Formula string
	Value   value.Value
	Err     error

	deps []layout.Position
}

func blankCell(pos layout.Position) *Cell {
	return &Cell{
		Position: pos.Key(),
	}
}

// parseInput builds a cell from the text typed by a user. Text starting
// with = is a formula; anything else is a literal.
func parseInput(pos layout.Position, raw string) *Cell {
	cell := blankCell(pos)
	cell.Raw = raw
	if formula, ok := strings.CutPrefix(raw, formulaMarker); ok {
		cell.Formula = formula
		return cell
	}
	cell.Value = literal(raw)
	return cell
}

func literal(raw string) value.Value {
	str := strings.TrimSpace(raw)
	if str == "" {
		return nil
	}
	if f, err := value.Text(str).ToFloat(); err == nil {
		return f
	}
	if b, err := value.Text(str).ToBool(); err == nil {
		return b
	}
	return value.Text(raw)
}

func (c *Cell) IsFormula() bool {
	return strings.HasPrefix(c.Raw, formulaMarker)
}

func (c *Cell) Blank() bool {
	return c.Value == nil && c.Err == nil && !c.IsFormula()
}

// Dependencies returns the cells read by the formula of the cell, in the
// order they were first read.
func (c *Cell) Dependencies() []layout.Position {
	return slices.Clone(c.deps)
}

// Code returns the code of the error of the cell, if any.
func (c *Cell) Code() string {
	return value.Code(c.Err)
}

// Display returns the text shown for the cell: the error code when
// computing the cell failed, its value otherwise.
func (c *Cell) Display() string {
	if c.Err != nil {
		return c.Code()
	}
	if c.Value == nil {
		return ""
	}
	return c.Value.String()
}

// Scalar returns the value of the cell as read by a formula.
func (c *Cell) Scalar() value.ScalarValue {
	if s, ok := c.Value.(value.ScalarValue); ok && s != nil {
		return s
	}
	return value.Empty()
}

func (c *Cell) setResult(val value.Value, err error) {
	if err != nil {
		c.Value, c.Err = nil, err
		return
	}
	c.Value, c.Err = val, nil
}

func (c *Cell) hasDependency(pos layout.Position) bool {
	return slices.Contains(c.deps, pos)
}

func (c *Cell) clone() *Cell {
	x := *c
	x.deps = slices.Clone(c.deps)
	return &x
}

package grid

import (
	"iter"

	"github.com/midbel/sheetcalc/layout"
)

// View gives read only access to the computed cells of a sheet.
type View interface {
	Name() string
	Bounds() *layout.Range
	Cell(layout.Position) *Cell
}

// Rows yields, line by line, the cells of the view found in the given
// columns. Blank cells are included so that every row has the same length.
// All the columns of the view are used when cols is empty.
func Rows(v View, cols []int64) iter.Seq2[int64, []*Cell] {
	rg := v.Bounds()
	if len(cols) == 0 {
		for c := rg.Starts.Column; c <= rg.Ends.Column; c++ {
			cols = append(cols, c)
		}
	}
	return func(yield func(int64, []*Cell) bool) {
		if !rg.Starts.Valid() {
			return
		}
		for line := rg.Starts.Line; line <= rg.Ends.Line; line++ {
			row := make([]*Cell, 0, len(cols))
			for _, c := range cols {
				pos := layout.Position{
					Line:   line,
					Column: c,
				}
				row = append(row, v.Cell(pos))
			}
			if !yield(line, row) {
				return
			}
		}
	}
}

package value

import (
	"fmt"
	"iter"
	"strings"

	"github.com/midbel/sheetcalc/layout"
)

// Array is a rectangular block of scalars stored row by row. It is the
// value of ranges and of array literals.
type Array struct {
	Data [][]ScalarValue
}

func NewArray(data [][]ScalarValue) Array {
	return Array{
		Data: data,
	}
}

// Vector builds a single row array.
func Vector(list ...ScalarValue) Array {
	return NewArray([][]ScalarValue{list})
}

func (a Array) Type() string {
	dim := a.Dimension()
	return fmt.Sprintf("array(%d, %d)", dim.Lines, dim.Columns)
}

func (Array) Kind() ValueKind {
	return KindArray
}

func (a Array) String() string {
	rows := make([]string, 0, len(a.Data))
	for _, r := range a.Data {
		cols := make([]string, 0, len(r))
		for _, v := range r {
			if t, ok := v.(Text); ok {
				cols = append(cols, fmt.Sprintf("%q", string(t)))
				continue
			}
			cols = append(cols, v.String())
		}
		rows = append(rows, strings.Join(cols, ","))
	}
	return "{" + strings.Join(rows, ";") + "}"
}

func (a Array) Dimension() layout.Dimension {
	var (
		d layout.Dimension
		n = len(a.Data)
	)
	if n > 0 {
		d.Lines = int64(n)
		d.Columns = int64(len(a.Data[0]))
	}
	return d
}

func (a Array) Len() int {
	var n int
	for _, r := range a.Data {
		n += len(r)
	}
	return n
}

func (a Array) At(row, col int) ScalarValue {
	if row < 0 || row >= len(a.Data) {
		return nil
	}
	v := a.Data[row]
	if col < 0 || col >= len(v) {
		return nil
	}
	return v[col]
}

// Values yields every scalar of the array row by row.
func (a Array) Values() iter.Seq[ScalarValue] {
	return func(yield func(ScalarValue) bool) {
		for _, r := range a.Data {
			for _, v := range r {
				if !yield(v) {
					return
				}
			}
		}
	}
}

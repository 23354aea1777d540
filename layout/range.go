package layout

import (
	"fmt"
	"iter"
	"strings"
)

type Range struct {
	Starts Position
	Ends   Position
}

func NewRange(starts, ends Position) *Range {
	return &Range{
		Starts: starts,
		Ends:   ends,
	}
}

func ParseRange(str string) (*Range, error) {
	fst, lst, ok := strings.Cut(str, ":")
	starts, err := Parse(fst)
	if err != nil {
		return nil, err
	}
	ends := starts
	if ok {
		if ends, err = Parse(lst); err != nil {
			return nil, err
		}
	}
	return NewRange(starts, ends).Normalize(), nil
}

func (r *Range) Contains(pos Position) bool {
	ok := pos.Line >= r.Starts.Line && pos.Line <= r.Ends.Line
	if !ok {
		return false
	}
	return pos.Column >= r.Starts.Column && pos.Column <= r.Ends.Column
}

func (r *Range) Width() int64 {
	return r.Ends.Column - r.Starts.Column + 1
}

func (r *Range) Height() int64 {
	return r.Ends.Line - r.Starts.Line + 1
}

func (r *Range) Dimension() Dimension {
	return Dimension{
		Lines:   r.Height(),
		Columns: r.Width(),
	}
}

func (r *Range) String() string {
	if r.Starts.Equal(r.Ends) {
		return r.Starts.Addr()
	}
	return fmt.Sprintf("%s:%s", r.Starts.Addr(), r.Ends.Key().Addr())
}

// Normalize returns a copy whose Starts is the top-left corner and Ends
// the bottom-right one, whatever corners were given.
func (r *Range) Normalize() *Range {
	x := NewRange(r.Starts, r.Ends)
	x.Starts.Line = min(r.Starts.Line, r.Ends.Line)
	x.Starts.Column = min(r.Starts.Column, r.Ends.Column)
	x.Ends.Line = max(r.Starts.Line, r.Ends.Line)
	x.Ends.Column = max(r.Starts.Column, r.Ends.Column)
	return x
}

// Positions yields every cell of the range row by row.
func (r *Range) Positions() iter.Seq[Position] {
	rg := r.Normalize()
	return func(yield func(Position) bool) {
		for line := rg.Starts.Line; line <= rg.Ends.Line; line++ {
			for col := rg.Starts.Column; col <= rg.Ends.Column; col++ {
				pos := Position{
					Sheet:  rg.Starts.Sheet,
					Line:   line,
					Column: col,
				}
				if !yield(pos) {
					return
				}
			}
		}
	}
}

// Extend grows the range so that it covers pos.
func (r *Range) Extend(pos Position) {
	var zero Position
	if r.Starts == zero && r.Ends == zero {
		r.Starts, r.Ends = pos.Key(), pos.Key()
		return
	}
	r.Starts.Line = min(r.Starts.Line, pos.Line)
	r.Starts.Column = min(r.Starts.Column, pos.Column)
	r.Ends.Line = max(r.Ends.Line, pos.Line)
	r.Ends.Column = max(r.Ends.Column, pos.Column)
}

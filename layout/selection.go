package layout

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var ErrSelection = errors.New("invalid column selection")

// Selection picks columns out of a range. Columns are returned 1-based,
// in the order the selection lists them.
type Selection interface {
	Columns(*Range) []int64
}

// ParseSelection reads a list of column selectors separated by commas.
// A selector is a single column (B), a span (B:D) or a stepped span
// (A:F:2). Both ends of a span can be omitted.
func ParseSelection(str string) (Selection, error) {
	var list multiSelection
	for part := range strings.SplitSeq(str, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sel, err := parseSelector(part)
		if err != nil {
			return nil, err
		}
		list = append(list, sel)
	}
	switch len(list) {
	case 0:
		return nil, fmt.Errorf("%w: empty selection", ErrSelection)
	case 1:
		return list[0], nil
	default:
		return list, nil
	}
}

func parseSelector(str string) (Selection, error) {
	parts := strings.Split(str, ":")
	column := func(str string) (int64, error) {
		if str == "" {
			return 0, nil
		}
		ix, n := ParseIndex(str)
		if n != len(str) || ix > MaxColumn {
			return 0, fmt.Errorf("%w: %q", ErrSelection, str)
		}
		return ix, nil
	}
	switch len(parts) {
	case 1:
		ix, err := column(parts[0])
		if err != nil || ix == 0 {
			return nil, fmt.Errorf("%w: %q", ErrSelection, str)
		}
		return SelectColumn(ix), nil
	case 2, 3:
		lo, err := column(parts[0])
		if err != nil {
			return nil, err
		}
		hi, err := column(parts[1])
		if err != nil {
			return nil, err
		}
		var step int64 = 1
		if len(parts) == 3 && parts[2] != "" {
			step, err = strconv.ParseInt(parts[2], 10, 64)
			if err != nil || step == 0 {
				return nil, fmt.Errorf("%w: bad step %q", ErrSelection, parts[2])
			}
		}
		return SelectSpan(lo, hi, step), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrSelection, str)
	}
}

type singleColumn int64

func SelectColumn(ix int64) Selection {
	return singleColumn(ix)
}

func (c singleColumn) Columns(rg *Range) []int64 {
	if rg == nil {
		return nil
	}
	ix := int64(c)
	if ix >= rg.Starts.Column && ix <= rg.Ends.Column {
		return []int64{ix}
	}
	return nil
}

type columnSpan struct {
	Starts int64
	Ends   int64
	Step   int64
}

// SelectSpan selects the columns between from and to. A zero bound is
// replaced by the matching edge of the range; a negative step walks the
// columns backward.
func SelectSpan(from, to, step int64) Selection {
	if step == 0 {
		step = 1
	}
	return columnSpan{
		Starts: from,
		Ends:   to,
		Step:   step,
	}
}

func (c columnSpan) Columns(rg *Range) []int64 {
	if rg == nil {
		return nil
	}
	var (
		list   []int64
		starts = c.Starts
		ends   = c.Ends
	)
	if c.Step > 0 {
		if starts == 0 {
			starts = rg.Starts.Column
		}
		if ends == 0 {
			ends = rg.Ends.Column
		}
		starts = max(starts, rg.Starts.Column)
		ends = min(ends, rg.Ends.Column)
		for i := starts; i <= ends; i += c.Step {
			list = append(list, i)
		}
		return list
	}
	if starts == 0 {
		starts = rg.Ends.Column
	}
	if ends == 0 {
		ends = rg.Starts.Column
	}
	starts = min(starts, rg.Ends.Column)
	ends = max(ends, rg.Starts.Column)
	for i := starts; i >= ends; i += c.Step {
		list = append(list, i)
	}
	return list
}

type multiSelection []Selection

func (m multiSelection) Columns(rg *Range) []int64 {
	var list []int64
	for _, s := range m {
		list = slices.Concat(list, s.Columns(rg))
	}
	return list
}

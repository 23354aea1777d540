package grid

import (
	"fmt"
	"strings"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

// sheetResolver gives formulas access to the cells of a sheet. When track
// is set, every reference is recorded as a dependency of the origin cell.
type sheetResolver struct {
	sheet *Sheet
	track bool
}

func (r sheetResolver) ResolveCell(origin, ref layout.Position) (value.Value, error) {
	if err := r.checkSheet(ref); err != nil {
		return nil, err
	}
	ref = ref.Key()
	if r.track {
		r.sheet.store.AddDependency(origin, ref)
	}
	cell := r.sheet.store.Get(ref)
	if cell.Err != nil {
		return nil, cell.Err
	}
	return cell.Scalar(), nil
}

// ResolveRange returns the cells of the range as an array. Every cell of
// the range is resolved, and so registered, even when an earlier one fails.
func (r sheetResolver) ResolveRange(origin, start, end layout.Position) (value.Value, error) {
	if err := r.checkSheet(start); err != nil {
		return nil, err
	}
	var (
		rg    = layout.NewRange(start.Key(), end.Key()).Normalize()
		data  = make([][]value.ScalarValue, 0, rg.Height())
		row   []value.ScalarValue
		first error
	)
	if !rg.Starts.Valid() {
		return nil, fmt.Errorf("%w: empty range", value.ErrRef)
	}
	for pos := range rg.Positions() {
		v, err := r.ResolveCell(origin, pos)
		if err != nil && first == nil {
			first = err
		}
		if s, ok := v.(value.ScalarValue); ok && err == nil {
			row = append(row, s)
		} else {
			row = append(row, value.Empty())
		}
		if int64(len(row)) == rg.Width() {
			data = append(data, row)
			row = nil
		}
	}
	if first != nil {
		return nil, first
	}
	return value.NewArray(data), nil
}

func (r sheetResolver) CallFunction(name string, args []value.Value) (value.Value, error) {
	if !r.sheet.registry.Exists(name) {
		return nil, fmt.Errorf("%w: function %s", value.ErrName, name)
	}
	fn, err := r.sheet.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return fn(args)
}

func (r sheetResolver) CallVariable(name string) (value.Value, error) {
	v, ok := r.sheet.Variable(name)
	if !ok {
		return nil, fmt.Errorf("%w: variable %s", value.ErrName, name)
	}
	return v, nil
}

func (r sheetResolver) checkSheet(pos layout.Position) error {
	if pos.Sheet == "" || strings.EqualFold(pos.Sheet, r.sheet.name) {
		return nil
	}
	return fmt.Errorf("%w: unknown sheet %s", value.ErrRef, pos.Sheet)
}

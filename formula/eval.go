package formula

import (
	"math"

	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/value"
)

type scalarFunc func(value.ScalarValue, value.ScalarValue) (value.ScalarValue, error)

func binary(oper op.Op, left, right value.Value) (value.Value, error) {
	switch {
	case oper == op.Concat:
		return apply(left, right, concat)
	case op.IsComparison(oper):
		return apply(left, right, func(a, b value.ScalarValue) (value.ScalarValue, error) {
			return compare(oper, a, b)
		})
	default:
		return apply(left, right, func(a, b value.ScalarValue) (value.ScalarValue, error) {
			return arithmetic(oper, a, b)
		})
	}
}

func unary(oper op.Op, val value.Value) (value.Value, error) {
	if oper == op.Add {
		return val, nil
	}
	return each(val, func(v value.ScalarValue) (value.ScalarValue, error) {
		return finite(0 - toNumber(v))
	})
}

func not(val value.Value) (value.Value, error) {
	return each(val, func(v value.ScalarValue) (value.ScalarValue, error) {
		return value.Boolean(!truthy(v)), nil
	})
}

func percentOf(val value.Value) (value.Value, error) {
	return each(val, func(v value.ScalarValue) (value.ScalarValue, error) {
		return finite(toNumber(v) / 100)
	})
}

func arithmetic(oper op.Op, left, right value.ScalarValue) (value.ScalarValue, error) {
	var (
		x   = toNumber(left)
		y   = toNumber(right)
		res float64
	)
	switch oper {
	case op.Add:
		res = x + y
	case op.Sub:
		res = x - y
	case op.Mul:
		res = x * y
	case op.Div:
		if y == 0 {
			return nil, value.ErrDiv0
		}
		res = x / y
	case op.Pow:
		if x == 0 && y < 0 {
			return nil, value.ErrDiv0
		}
		res = math.Pow(x, y)
	default:
		return nil, value.ErrValue
	}
	return finite(res)
}

func finite(res float64) (value.ScalarValue, error) {
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return nil, value.ErrNum
	}
	return value.Float(res), nil
}

func concat(left, right value.ScalarValue) (value.ScalarValue, error) {
	return value.Text(left.String() + right.String()), nil
}

func compare(oper op.Op, left, right value.ScalarValue) (value.ScalarValue, error) {
	cmp, err := order(left, right)
	if err != nil {
		return nil, err
	}
	var res bool
	switch oper {
	case op.Eq:
		res = cmp == 0
	case op.Ne:
		res = cmp != 0
	case op.Lt:
		res = cmp < 0
	case op.Le:
		res = cmp <= 0
	case op.Gt:
		res = cmp > 0
	case op.Ge:
		res = cmp >= 0
	default:
		return nil, value.ErrValue
	}
	return value.Boolean(res), nil
}

// order compares two scalars. Values of different types are ordered by
// type: numbers come before texts that come before booleans. A blank takes
// the zero value of the other side.
func order(left, right value.ScalarValue) (int, error) {
	left, right = zeroBlank(left, right), zeroBlank(right, left)
	left, right = dateAsNumber(left), dateAsNumber(right)

	if rl, rr := rank(left), rank(right); rl != rr {
		if rl < rr {
			return -1, nil
		}
		return 1, nil
	}
	c, ok := left.(value.Comparable)
	if !ok {
		return 0, value.ErrValue
	}
	eq, err := c.Equal(right)
	if err != nil {
		return 0, value.ErrValue
	}
	if eq {
		return 0, nil
	}
	less, err := c.Less(right)
	if err != nil {
		return 0, value.ErrValue
	}
	if less {
		return -1, nil
	}
	return 1, nil
}

func zeroBlank(v, other value.ScalarValue) value.ScalarValue {
	if !value.IsBlank(v) {
		return v
	}
	switch other.(type) {
	case value.Text:
		return value.Text("")
	case value.Boolean:
		return value.Boolean(false)
	default:
		return value.Float(0)
	}
}

func dateAsNumber(v value.ScalarValue) value.ScalarValue {
	if d, ok := v.(value.Date); ok {
		f, _ := d.ToFloat()
		return f
	}
	return v
}

func rank(v value.ScalarValue) int {
	switch v.(type) {
	case value.Float:
		return 0
	case value.Text:
		return 1
	case value.Boolean:
		return 2
	default:
		return 3
	}
}

// toNumber converts a value to a number without failing: values that can
// not be read as a number count as zero.
func toNumber(v value.Value) float64 {
	switch v := v.(type) {
	case value.Float:
		return float64(v)
	case value.Boolean:
		if v {
			return 1
		}
		return 0
	case value.Text:
		f, err := v.ToFloat()
		if err != nil {
			return 0
		}
		return float64(f)
	case value.Date:
		f, _ := v.ToFloat()
		return float64(f)
	default:
		return 0
	}
}

func truthy(v value.Value) bool {
	switch v := v.(type) {
	case value.Boolean:
		return bool(v)
	case value.Text:
		if b, err := v.ToBool(); err == nil {
			return bool(b)
		}
	}
	return toNumber(v) != 0
}

func each(val value.Value, do func(value.ScalarValue) (value.ScalarValue, error)) (value.Value, error) {
	arr, ok := val.(value.Array)
	if !ok {
		s, ok := val.(value.ScalarValue)
		if !ok {
			return nil, value.ErrValue
		}
		return do(s)
	}
	data := make([][]value.ScalarValue, len(arr.Data))
	for i, row := range arr.Data {
		data[i] = make([]value.ScalarValue, len(row))
		for j, v := range row {
			res, err := do(v)
			if err != nil {
				return nil, err
			}
			data[i][j] = res
		}
	}
	return value.NewArray(data), nil
}

// apply combines two values with do. When one of them is an array, do is
// applied element by element and the smaller operand is repeated to cover
// the larger one.
func apply(left, right value.Value, do scalarFunc) (value.Value, error) {
	ls, lok := left.(value.ScalarValue)
	rs, rok := right.(value.ScalarValue)
	if lok && rok {
		return do(ls, rs)
	}
	var (
		la, err1 = asArray(left)
		ra, err2 = asArray(right)
	)
	if err1 != nil || err2 != nil {
		return nil, value.ErrValue
	}
	var (
		dl   = la.Dimension()
		dr   = ra.Dimension()
		dim  = dl.Max(dr)
		data = make([][]value.ScalarValue, dim.Lines)
	)
	if dl.Lines == 0 || dl.Columns == 0 || dr.Lines == 0 || dr.Columns == 0 {
		return nil, value.ErrValue
	}
	for i := range dim.Lines {
		data[i] = make([]value.ScalarValue, dim.Columns)
		for j := range dim.Columns {
			var (
				x = la.At(int(i%dl.Lines), int(j%dl.Columns))
				y = ra.At(int(i%dr.Lines), int(j%dr.Columns))
			)
			if x == nil || y == nil {
				return nil, value.ErrValue
			}
			res, err := do(x, y)
			if err != nil {
				return nil, err
			}
			data[i][j] = res
		}
	}
	return value.NewArray(data), nil
}

func asArray(v value.Value) (value.Array, error) {
	switch v := v.(type) {
	case value.Array:
		return v, nil
	case value.ScalarValue:
		return value.Vector(v), nil
	default:
		return value.Array{}, value.ErrValue
	}
}

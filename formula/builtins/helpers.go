package builtins

import (
	"math"

	"github.com/midbel/sheetcalc/value"
)

func checkArity(args []value.Value, lo, hi int) error {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return ErrArity
	}
	return nil
}

func scalarArg(v value.Value) (value.ScalarValue, error) {
	if arr, ok := v.(value.Array); ok {
		if arr.Len() != 1 {
			return nil, value.ErrValue
		}
		return arr.At(0, 0), nil
	}
	s, ok := v.(value.ScalarValue)
	if !ok || s == nil {
		return value.Empty(), nil
	}
	return s, nil
}

func floatArg(v value.Value) (float64, error) {
	s, err := scalarArg(v)
	if err != nil {
		return 0, err
	}
	f, err := value.CastToFloat(s)
	return float64(f), err
}

func textArg(v value.Value) (string, error) {
	s, err := scalarArg(v)
	if err != nil {
		return "", err
	}
	t, err := value.CastToText(s)
	return string(t), err
}

func boolArg(v value.Value) (bool, error) {
	s, err := scalarArg(v)
	if err != nil {
		return false, err
	}
	b, err := value.CastToBool(s)
	return bool(b), err
}

func number(f float64) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, value.ErrNum
	}
	return value.Float(f), nil
}

// numbers calls do for each number given in args. Values coming from
// arrays that are not numbers are skipped while scalars given directly
// are converted and fail when they can not be.
func numbers(args []value.Value, do func(float64)) error {
	for _, a := range args {
		if arr, ok := a.(value.Array); ok {
			for v := range arr.Values() {
				switch v := v.(type) {
				case value.Float:
					do(float64(v))
				case value.Date:
					f, _ := v.ToFloat()
					do(float64(f))
				default:
				}
			}
			continue
		}
		if value.IsBlank(a) {
			continue
		}
		f, err := value.CastToFloat(a)
		if err != nil {
			return err
		}
		do(float64(f))
	}
	return nil
}

// booleans works like numbers for logical values.
func booleans(args []value.Value, do func(bool)) error {
	for _, a := range args {
		if arr, ok := a.(value.Array); ok {
			for v := range arr.Values() {
				switch v.(type) {
				case value.Float, value.Boolean:
					b, _ := value.CastToBool(v)
					do(bool(b))
				default:
				}
			}
			continue
		}
		if value.IsBlank(a) {
			continue
		}
		b, err := value.CastToBool(a)
		if err != nil {
			return err
		}
		do(bool(b))
	}
	return nil
}

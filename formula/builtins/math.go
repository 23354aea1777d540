package builtins

import (
	"math"

	"github.com/midbel/sheetcalc/value"
)

func Abs(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 1, 1); err != nil {
		return nil, err
	}
	f, err := floatArg(args[0])
	if err != nil {
		return nil, err
	}
	return value.Float(math.Abs(f)), nil
}

// Round rounds half away from zero to the given number of digits. A
// negative number of digits rounds to the left of the decimal point.
func Round(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 1, 2); err != nil {
		return nil, err
	}
	f, err := floatArg(args[0])
	if err != nil {
		return nil, err
	}
	var digits float64
	if len(args) == 2 {
		if digits, err = floatArg(args[1]); err != nil {
			return nil, err
		}
	}
	scale := math.Pow(10, math.Trunc(digits))
	return number(math.Round(f*scale) / scale)
}

func Int(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 1, 1); err != nil {
		return nil, err
	}
	f, err := floatArg(args[0])
	if err != nil {
		return nil, err
	}
	return value.Float(math.Floor(f)), nil
}

// Mod returns a result with the sign of the divisor.
func Mod(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 2, 2); err != nil {
		return nil, err
	}
	x, err := floatArg(args[0])
	if err != nil {
		return nil, err
	}
	y, err := floatArg(args[1])
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, value.ErrDiv0
	}
	return number(x - y*math.Floor(x/y))
}

func Power(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 2, 2); err != nil {
		return nil, err
	}
	x, err := floatArg(args[0])
	if err != nil {
		return nil, err
	}
	y, err := floatArg(args[1])
	if err != nil {
		return nil, err
	}
	if x == 0 && y < 0 {
		return nil, value.ErrDiv0
	}
	return number(math.Pow(x, y))
}

func Sqrt(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 1, 1); err != nil {
		return nil, err
	}
	f, err := floatArg(args[0])
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return nil, value.ErrNum
	}
	return value.Float(math.Sqrt(f)), nil
}

func Pi(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 0, 0); err != nil {
		return nil, err
	}
	return value.Float(math.Pi), nil
}

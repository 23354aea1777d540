package builtins

import (
	"math"

	"github.com/midbel/sheetcalc/value"
)

func Sum(args []value.Value) (value.Value, error) {
	var total float64
	err := numbers(args, func(f float64) {
		total += f
	})
	if err != nil {
		return nil, err
	}
	return number(total)
}

func Product(args []value.Value) (value.Value, error) {
	var (
		total = 1.0
		seen  bool
	)
	err := numbers(args, func(f float64) {
		total *= f
		seen = true
	})
	if err != nil {
		return nil, err
	}
	if !seen {
		return value.Float(0), nil
	}
	return number(total)
}

func Average(args []value.Value) (value.Value, error) {
	var (
		total float64
		count int
	)
	err := numbers(args, func(f float64) {
		total += f
		count++
	})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, value.ErrDiv0
	}
	return number(total / float64(count))
}

func Min(args []value.Value) (value.Value, error) {
	res := math.Inf(1)
	err := numbers(args, func(f float64) {
		res = min(res, f)
	})
	if err != nil {
		return nil, err
	}
	if math.IsInf(res, 1) {
		return value.Float(0), nil
	}
	return value.Float(res), nil
}

func Max(args []value.Value) (value.Value, error) {
	res := math.Inf(-1)
	err := numbers(args, func(f float64) {
		res = max(res, f)
	})
	if err != nil {
		return nil, err
	}
	if math.IsInf(res, -1) {
		return value.Float(0), nil
	}
	return value.Float(res), nil
}

// Count counts the numbers in its arguments. Arguments that can not be
// read as numbers are ignored.
func Count(args []value.Value) (value.Value, error) {
	var count int
	for _, a := range args {
		if arr, ok := a.(value.Array); ok {
			for v := range arr.Values() {
				switch v.(type) {
				case value.Float, value.Date:
					count++
				default:
				}
			}
			continue
		}
		if value.IsBlank(a) {
			continue
		}
		if _, err := value.CastToFloat(a); err == nil {
			count++
		}
	}
	return value.Float(count), nil
}

func CountA(args []value.Value) (value.Value, error) {
	var count int
	for _, a := range args {
		if arr, ok := a.(value.Array); ok {
			for v := range arr.Values() {
				if !value.IsBlank(v) {
					count++
				}
			}
			continue
		}
		if !value.IsBlank(a) {
			count++
		}
	}
	return value.Float(count), nil
}

package builtins

import (
	"github.com/midbel/sheetcalc/value"
)

func IsBlank(args []value.Value) (value.Value, error) {
	return check(args, value.IsBlank)
}

func IsNumber(args []value.Value) (value.Value, error) {
	return check(args, value.IsNumber)
}

func IsText(args []value.Value) (value.Value, error) {
	return check(args, value.IsText)
}

func check(args []value.Value, predicate func(value.Value) bool) (value.Value, error) {
	if err := checkArity(args, 1, 1); err != nil {
		return nil, err
	}
	if _, ok := args[0].(value.Array); ok {
		return value.Boolean(false), nil
	}
	return value.Boolean(predicate(args[0])), nil
}

package builtins

import (
	"github.com/midbel/sheetcalc/value"
)

// If returns its second argument when the condition holds, its third one
// otherwise. A missing third argument gives FALSE.
func If(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 2, 3); err != nil {
		return nil, err
	}
	ok, err := boolArg(args[0])
	if err != nil {
		return nil, err
	}
	if ok {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return value.Boolean(false), nil
}

func And(args []value.Value) (value.Value, error) {
	var (
		res  = true
		seen bool
	)
	err := booleans(args, func(b bool) {
		res = res && b
		seen = true
	})
	if err != nil {
		return nil, err
	}
	if !seen {
		return nil, value.ErrValue
	}
	return value.Boolean(res), nil
}

func Or(args []value.Value) (value.Value, error) {
	var (
		res  bool
		seen bool
	)
	err := booleans(args, func(b bool) {
		res = res || b
		seen = true
	})
	if err != nil {
		return nil, err
	}
	if !seen {
		return nil, value.ErrValue
	}
	return value.Boolean(res), nil
}

func Not(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 1, 1); err != nil {
		return nil, err
	}
	ok, err := boolArg(args[0])
	if err != nil {
		return nil, err
	}
	return value.Boolean(!ok), nil
}

func True(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 0, 0); err != nil {
		return nil, err
	}
	return value.Boolean(true), nil
}

func False(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 0, 0); err != nil {
		return nil, err
	}
	return value.Boolean(false), nil
}

func NA(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 0, 0); err != nil {
		return nil, err
	}
	return nil, value.ErrNA
}

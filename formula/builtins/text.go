package builtins

import (
	"strings"
	"unicode/utf8"

	"github.com/midbel/sheetcalc/value"
)

func Concatenate(args []value.Value) (value.Value, error) {
	var str strings.Builder
	for _, a := range args {
		if arr, ok := a.(value.Array); ok {
			for v := range arr.Values() {
				str.WriteString(v.String())
			}
			continue
		}
		t, err := value.CastToText(a)
		if err != nil {
			return nil, err
		}
		str.WriteString(string(t))
	}
	return value.Text(str.String()), nil
}

func Len(args []value.Value) (value.Value, error) {
	if err := checkArity(args, 1, 1); err != nil {
		return nil, err
	}
	str, err := textArg(args[0])
	if err != nil {
		return nil, err
	}
	return value.Float(utf8.RuneCountInString(str)), nil
}

func Upper(args []value.Value) (value.Value, error) {
	return transform(args, strings.ToUpper)
}

func Lower(args []value.Value) (value.Value, error) {
	return transform(args, strings.ToLower)
}

// Trim removes leading and trailing spaces and collapses the inner runs
// of spaces.
func Trim(args []value.Value) (value.Value, error) {
	return transform(args, func(str string) string {
		return strings.Join(strings.Fields(str), " ")
	})
}

func Left(args []value.Value) (value.Value, error) {
	return substring(args, func(rs []rune, n int) []rune {
		return rs[:n]
	})
}

func Right(args []value.Value) (value.Value, error) {
	return substring(args, func(rs []rune, n int) []rune {
		return rs[len(rs)-n:]
	})
}

func transform(args []value.Value, do func(string) string) (value.Value, error) {
	if err := checkArity(args, 1, 1); err != nil {
		return nil, err
	}
	str, err := textArg(args[0])
	if err != nil {
		return nil, err
	}
	return value.Text(do(str)), nil
}

func substring(args []value.Value, do func([]rune, int) []rune) (value.Value, error) {
	if err := checkArity(args, 1, 2); err != nil {
		return nil, err
	}
	str, err := textArg(args[0])
	if err != nil {
		return nil, err
	}
	n := 1.0
	if len(args) == 2 {
		if n, err = floatArg(args[1]); err != nil {
			return nil, err
		}
	}
	if n < 0 {
		return nil, value.ErrValue
	}
	rs := []rune(str)
	return value.Text(string(do(rs, min(int(n), len(rs))))), nil
}

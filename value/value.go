package value

import (
	"fmt"

	"github.com/midbel/sheetcalc/layout"
)

type ValueKind int8

const (
	KindScalar ValueKind = 1 << iota
	KindError
	KindArray
)

const (
	TypeBlank  = "blank"
	TypeNumber = "number"
	TypeText   = "text"
	TypeBool   = "boolean"
	TypeDate   = "date"
	TypeError  = "error"
)

type Value interface {
	Kind() ValueKind
	fmt.Stringer
}

type ScalarValue interface {
	Value
	Type() string
	Scalar() any
}

type ArrayValue interface {
	Value
	Dimension() layout.Dimension
	At(int, int) ScalarValue
}

// Comparable is implemented by scalars that can be ordered against a value
// of the same type. Mixed types report ErrCompatible.
type Comparable interface {
	Equal(Value) (bool, error)
	Less(Value) (bool, error)
}

func IsBlank(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Blank)
	return ok
}

func IsNumber(v Value) bool {
	_, ok := v.(Float)
	return ok
}

func IsText(v Value) bool {
	_, ok := v.(Text)
	return ok
}

func IsBool(v Value) bool {
	_, ok := v.(Boolean)
	return ok
}

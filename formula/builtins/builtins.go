package builtins

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/midbel/sheetcalc/value"
)

var ErrArity = fmt.Errorf("%w: invalid number of arguments", value.ErrValue)

type Func func([]value.Value) (value.Value, error)

var catalog = map[string]Func{
	"SUM":         Sum,
	"PRODUCT":     Product,
	"AVERAGE":     Average,
	"MIN":         Min,
	"MAX":         Max,
	"COUNT":       Count,
	"COUNTA":      CountA,
	"ABS":         Abs,
	"ROUND":       Round,
	"INT":         Int,
	"MOD":         Mod,
	"POWER":       Power,
	"SQRT":        Sqrt,
	"PI":          Pi,
	"IF":          If,
	"AND":         And,
	"OR":          Or,
	"NOT":         Not,
	"TRUE":        True,
	"FALSE":       False,
	"NA":          NA,
	"CONCATENATE": Concatenate,
	"LEN":         Len,
	"UPPER":       Upper,
	"LOWER":       Lower,
	"TRIM":        Trim,
	"LEFT":        Left,
	"RIGHT":       Right,
	"ISBLANK":     IsBlank,
	"ISNUMBER":    IsNumber,
	"ISTEXT":      IsText,
}

// Registry holds the functions that formulas can call. Names are case
// insensitive.
type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]Func),
	}
}

// Default returns a registry filled with the builtin functions.
func Default() *Registry {
	r := NewRegistry()
	for name, fn := range catalog {
		r.Register(name, fn)
	}
	return r
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[strings.ToUpper(name)] = fn
}

func (r *Registry) Exists(name string) bool {
	_, ok := r.funcs[strings.ToUpper(name)]
	return ok
}

func (r *Registry) Get(name string) (Func, error) {
	fn, ok := r.funcs[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%w: function %s", value.ErrName, strings.ToUpper(name))
	}
	return fn, nil
}

func (r *Registry) Call(name string, args []value.Value) (value.Value, error) {
	fn, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return fn(args)
}

func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}

package builtins

import (
	"errors"
	"testing"

	"github.com/midbel/sheetcalc/value"
)

func numbersOf(list ...float64) value.Array {
	var row []value.ScalarValue
	for _, f := range list {
		row = append(row, value.Float(f))
	}
	return value.Vector(row...)
}

func TestBuiltins(t *testing.T) {
	mixed := value.Vector(value.Float(1), value.Text("foo"), value.Blank{}, value.Boolean(true), value.Float(2))
	tests := []struct {
		Name string
		Args []value.Value
		Want string
	}{
		{Name: "SUM", Args: []value.Value{value.Float(1), value.Float(2)}, Want: "3"},
		{Name: "SUM", Args: []value.Value{mixed, value.Text("3")}, Want: "6"},
		{Name: "SUM", Args: []value.Value{value.Boolean(true), value.Blank{}}, Want: "1"},
		{Name: "sum", Args: nil, Want: "0"},
		{Name: "PRODUCT", Args: []value.Value{numbersOf(2, 3, 4)}, Want: "24"},
		{Name: "PRODUCT", Args: nil, Want: "0"},
		{Name: "AVERAGE", Args: []value.Value{numbersOf(1, 2, 3, 6)}, Want: "3"},
		{Name: "MIN", Args: []value.Value{numbersOf(4, -1, 8)}, Want: "-1"},
		{Name: "MAX", Args: []value.Value{numbersOf(4, -1, 8), value.Float(2)}, Want: "8"},
		{Name: "MAX", Args: []value.Value{value.Vector(value.Text("foo"))}, Want: "0"},
		{Name: "COUNT", Args: []value.Value{mixed, value.Text("12"), value.Text("foo")}, Want: "3"},
		{Name: "COUNTA", Args: []value.Value{mixed}, Want: "4"},
		{Name: "ABS", Args: []value.Value{value.Float(-4)}, Want: "4"},
		{Name: "ROUND", Args: []value.Value{value.Float(2.346), value.Float(2)}, Want: "2.35"},
		{Name: "ROUND", Args: []value.Value{value.Float(-2.5)}, Want: "-3"},
		{Name: "ROUND", Args: []value.Value{value.Float(1234), value.Float(-2)}, Want: "1200"},
		{Name: "INT", Args: []value.Value{value.Float(-1.5)}, Want: "-2"},
		{Name: "MOD", Args: []value.Value{value.Float(-3), value.Float(2)}, Want: "1"},
		{Name: "MOD", Args: []value.Value{value.Float(3), value.Float(-2)}, Want: "-1"},
		{Name: "POWER", Args: []value.Value{value.Float(2), value.Float(10)}, Want: "1024"},
		{Name: "SQRT", Args: []value.Value{value.Float(16)}, Want: "4"},
		{Name: "IF", Args: []value.Value{value.Boolean(true), value.Text("yes"), value.Text("no")}, Want: "yes"},
		{Name: "IF", Args: []value.Value{value.Float(0), value.Text("yes"), value.Text("no")}, Want: "no"},
		{Name: "IF", Args: []value.Value{value.Float(0), value.Text("yes")}, Want: "FALSE"},
		{Name: "AND", Args: []value.Value{value.Boolean(true), value.Float(1)}, Want: "TRUE"},
		{Name: "AND", Args: []value.Value{value.Vector(value.Boolean(true), value.Text("x"), value.Boolean(false))}, Want: "FALSE"},
		{Name: "OR", Args: []value.Value{value.Boolean(false), value.Float(2)}, Want: "TRUE"},
		{Name: "NOT", Args: []value.Value{value.Boolean(false)}, Want: "TRUE"},
		{Name: "TRUE", Args: nil, Want: "TRUE"},
		{Name: "FALSE", Args: nil, Want: "FALSE"},
		{Name: "CONCATENATE", Args: []value.Value{value.Text("foo"), value.Float(1), value.Boolean(true)}, Want: "foo1TRUE"},
		{Name: "LEN", Args: []value.Value{value.Text("héllo")}, Want: "5"},
		{Name: "UPPER", Args: []value.Value{value.Text("foo")}, Want: "FOO"},
		{Name: "LOWER", Args: []value.Value{value.Text("FOO")}, Want: "foo"},
		{Name: "TRIM", Args: []value.Value{value.Text("  foo   bar ")}, Want: "foo bar"},
		{Name: "LEFT", Args: []value.Value{value.Text("foobar"), value.Float(3)}, Want: "foo"},
		{Name: "LEFT", Args: []value.Value{value.Text("foobar")}, Want: "f"},
		{Name: "RIGHT", Args: []value.Value{value.Text("foobar"), value.Float(10)}, Want: "foobar"},
		{Name: "ISBLANK", Args: []value.Value{value.Blank{}}, Want: "TRUE"},
		{Name: "ISNUMBER", Args: []value.Value{value.Text("1")}, Want: "FALSE"},
		{Name: "ISTEXT", Args: []value.Value{value.Text("1")}, Want: "TRUE"},
	}
	reg := Default()
	for _, c := range tests {
		got, err := reg.Call(c.Name, c.Args)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Name, err)
			continue
		}
		if got.String() != c.Want {
			t.Errorf("%s(%v): result mismatched! want %s, got %s", c.Name, c.Args, c.Want, got)
		}
	}
}

func TestBuiltinsErrors(t *testing.T) {
	tests := []struct {
		Name string
		Args []value.Value
		Want error
	}{
		{Name: "UNKNOWN", Want: value.ErrName},
		{Name: "SUM", Args: []value.Value{value.Text("foo")}, Want: value.ErrValue},
		{Name: "AVERAGE", Args: []value.Value{value.Vector(value.Text("foo"))}, Want: value.ErrDiv0},
		{Name: "MOD", Args: []value.Value{value.Float(1), value.Float(0)}, Want: value.ErrDiv0},
		{Name: "SQRT", Args: []value.Value{value.Float(-1)}, Want: value.ErrNum},
		{Name: "POWER", Args: []value.Value{value.Float(-8), value.Float(0.5)}, Want: value.ErrNum},
		{Name: "ABS", Args: nil, Want: ErrArity},
		{Name: "ABS", Args: []value.Value{value.Float(1), value.Float(2)}, Want: value.ErrValue},
		{Name: "LEN", Args: []value.Value{numbersOf(1, 2)}, Want: value.ErrValue},
		{Name: "LEFT", Args: []value.Value{value.Text("foo"), value.Float(-1)}, Want: value.ErrValue},
		{Name: "AND", Args: nil, Want: value.ErrValue},
		{Name: "NA", Args: nil, Want: value.ErrNA},
	}
	reg := Default()
	for _, c := range tests {
		_, err := reg.Call(c.Name, c.Args)
		if !errors.Is(err, c.Want) {
			t.Errorf("%s: error mismatched! want %s, got %v", c.Name, c.Want, err)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg.Exists("double") {
		t.Fatalf("empty registry should not know any function")
	}
	reg.Register("double", func(args []value.Value) (value.Value, error) {
		f, err := floatArg(args[0])
		return value.Float(f * 2), err
	})
	for _, name := range []string{"double", "DOUBLE", "Double"} {
		if !reg.Exists(name) {
			t.Errorf("%s: function not found", name)
		}
	}
	got, err := reg.Call("DOUBLE", []value.Value{value.Float(21)})
	if err != nil || got.String() != "42" {
		t.Errorf("unexpected result: %v (%v)", got, err)
	}
	if names := Default().Names(); len(names) != len(catalog) {
		t.Errorf("names mismatched! want %d, got %d", len(catalog), len(names))
	}
}

package formula

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type fakeResolver struct {
	cells map[string]value.Value
	refs  []string
}

func (r *fakeResolver) ResolveCell(_, ref layout.Position) (value.Value, error) {
	if ref.Sheet != "" && ref.Sheet != "Data" {
		return nil, fmt.Errorf("%w: unknown sheet %s", value.ErrRef, ref.Sheet)
	}
	ref = ref.Key()
	r.refs = append(r.refs, ref.String())
	val, ok := r.cells[ref.String()]
	if !ok {
		return value.Empty(), nil
	}
	if err, ok := val.(value.Error); ok {
		return nil, err
	}
	return val, nil
}

func (r *fakeResolver) ResolveRange(origin, start, end layout.Position) (value.Value, error) {
	var (
		rg   = layout.NewRange(start, end).Normalize()
		data [][]value.ScalarValue
	)
	for line := rg.Starts.Line; line <= rg.Ends.Line; line++ {
		var row []value.ScalarValue
		for col := rg.Starts.Column; col <= rg.Ends.Column; col++ {
			pos := layout.Position{Sheet: start.Sheet, Line: line, Column: col}
			v, err := r.ResolveCell(origin, pos)
			if err != nil {
				return nil, err
			}
			row = append(row, v.(value.ScalarValue))
		}
		data = append(data, row)
	}
	return value.NewArray(data), nil
}

func (r *fakeResolver) CallFunction(name string, args []value.Value) (value.Value, error) {
	switch name {
	case "ONE":
		return value.Float(1), nil
	case "COUNTARGS":
		return value.Float(len(args)), nil
	case "SUM":
		var total value.Float
		for _, a := range args {
			if arr, ok := a.(value.Array); ok {
				for v := range arr.Values() {
					f, _ := value.CastToFloat(v)
					total += f
				}
				continue
			}
			f, err := value.CastToFloat(a)
			if err != nil {
				return nil, err
			}
			total += f
		}
		return total, nil
	default:
		return nil, fmt.Errorf("%w: %s", value.ErrName, name)
	}
}

func (r *fakeResolver) CallVariable(name string) (value.Value, error) {
	switch name {
	case "TRUE":
		return value.Boolean(true), nil
	case "FALSE":
		return value.Boolean(false), nil
	default:
		return nil, fmt.Errorf("%w: %s", value.ErrName, name)
	}
}

func fake() *fakeResolver {
	r := fakeResolver{
		cells: make(map[string]value.Value),
	}
	r.cells["A1"] = value.Float(0)
	r.cells["B1"] = value.Text("foo")
	r.cells["C1"] = value.Float(11)
	r.cells["A2"] = value.Float(1)
	r.cells["B2"] = value.Text("bar")
	r.cells["C2"] = value.Float(42)
	r.cells["A3"] = value.Float(2)
	r.cells["B3"] = value.Text("12")
	r.cells["C3"] = value.Float(67)
	r.cells["D1"] = value.ErrDiv0
	return &r
}

func evalString(str string) (value.Value, error) {
	ctx := NewContext(layout.ParsePosition("Z1"), fake())
	return Eval(str, ctx)
}

func TestBasicFormula(t *testing.T) {
	tests := []struct {
		Expr string
		Want string
	}{
		{Expr: "1+1", Want: "2"},
		{Expr: "=10 + 10", Want: "20"},
		{Expr: "=SUM(10) + 12", Want: "22"},
		{Expr: "1+2*3", Want: "7"},
		{Expr: "(1+2)*3", Want: "9"},
		{Expr: "2^3^2", Want: "64"},
		{Expr: "-2^2", Want: "-4"},
		{Expr: "-2*3", Want: "-6"},
		{Expr: "-2+3", Want: "1"},
		{Expr: "2*-3+1", Want: "-5"},
		{Expr: "(-2)^2", Want: "4"},
		{Expr: "10-4-3", Want: "3"},
		{Expr: "50%", Want: "0.5"},
		{Expr: "200*10%", Want: "20"},
		{Expr: "1.5e2", Want: "150"},
		{Expr: ".5+.5", Want: "1"},
		{Expr: "'foo' & 'bar'", Want: "foobar"},
		{Expr: `"it""s"`, Want: `it"s`},
		{Expr: "1 & 2 + 3", Want: "15"},
		{Expr: "-'foo'", Want: "0"},
		{Expr: "-'inf'", Want: "0"},
		{Expr: "'Infinity' + 1", Want: "1"},
		{Expr: "'nan'%", Want: "0"},
		{Expr: "-B3", Want: "-12"},
		{Expr: "'3' * 2", Want: "6"},
		{Expr: "TRUE + 1", Want: "2"},
		{Expr: "one()", Want: "1"},
		{Expr: "one()/1", Want: "1"},
		{Expr: "$B$1", Want: "foo"},
		{Expr: "$B$1 & B2", Want: "foobar"},
		{Expr: "Data!C1 + 1", Want: "12"},
		{Expr: "'Data'!C1", Want: "11"},
		{Expr: "SUM(A1:C1; C2)", Want: "53"},
		{Expr: "SUM(C1:A3)", Want: "135"},
		{Expr: "COUNTARGS(1,,2)", Want: "3"},
		{Expr: "COUNTARGS()", Want: "0"},
		{Expr: "E5", Want: "0"},
		{Expr: "1 < 2", Want: "TRUE"},
		{Expr: "1 = 2", Want: "FALSE"},
		{Expr: "1 <> 2", Want: "TRUE"},
		{Expr: "2 > 1", Want: "TRUE"},
		{Expr: "1 >= 1", Want: "TRUE"},
		{Expr: "1 >= 2", Want: "FALSE"},
		{Expr: "1 <= 2", Want: "TRUE"},
		{Expr: "'foo' = 'FOO'", Want: "TRUE"},
		{Expr: "'a' < 'b'", Want: "TRUE"},
		{Expr: "1 < 'a'", Want: "TRUE"},
		{Expr: "'z' < TRUE", Want: "TRUE"},
		{Expr: "E5 = 0", Want: "TRUE"},
		{Expr: "E5 = ''", Want: "TRUE"},
		{Expr: "true <> false", Want: "TRUE"},
		{Expr: "NOT 1 = 2", Want: "FALSE"},
		{Expr: "NOT 0", Want: "TRUE"},
		{Expr: "not 1 + 1", Want: "FALSE"},
		{Expr: "{1,2;3,4}", Want: "{1,2;3,4}"},
		{Expr: "[1,2] * 2", Want: "{2,4}"},
		{Expr: "{1,2} + {10;20}", Want: "{11,12;21,22}"},
		{Expr: "SUM({1,2,3})", Want: "6"},
	}
	for _, c := range tests {
		got, err := evalString(c.Expr)
		if err != nil {
			t.Errorf("%s: error while evaluating formula: %s", c.Expr, err)
			continue
		}
		if got == nil {
			t.Errorf("%s: nil value", c.Expr)
			continue
		}
		if got.String() != c.Want {
			t.Errorf("%s: result mismatched! want %s, got %s", c.Expr, c.Want, got)
		}
	}
}

func TestFormulaErrors(t *testing.T) {
	tests := []struct {
		Expr string
		Want error
	}{
		{Expr: "1/0", Want: value.ErrDiv0},
		{Expr: "1/E5", Want: value.ErrDiv0},
		{Expr: "0^-1", Want: value.ErrDiv0},
		{Expr: "(-8)^0.5", Want: value.ErrNum},
		{Expr: "D1 + 1", Want: value.ErrDiv0},
		{Expr: "UNKNOWN(1)", Want: value.ErrName},
		{Expr: "foobar", Want: value.ErrName},
		{Expr: "Other!A1", Want: value.ErrRef},
		{Expr: "SUM('foo')", Want: value.ErrValue},
		{Expr: "SUM(B1)", Want: value.ErrValue},
		{Expr: "1 +", Want: ErrSyntax},
		{Expr: "1 2", Want: ErrSyntax},
		{Expr: "(1 + 2", Want: ErrSyntax},
		{Expr: "SUM(1, 2", Want: ErrSyntax},
		{Expr: "'foo", Want: ErrSyntax},
		{Expr: "A1:", Want: ErrSyntax},
		{Expr: "{1,2;3}", Want: ErrSyntax},
		{Expr: "=", Want: ErrSyntax},
		{Expr: "1 # 2", Want: ErrSyntax},
		{Expr: "$foo", Want: ErrSyntax},
		{Expr: "1\x002", Want: ErrSyntax},
		{Expr: "1e400", Want: ErrSyntax},
		{Expr: "SUM(A1:ZZZZZZZZZ1)", Want: ErrSyntax},
		{Expr: "XFE1", Want: ErrSyntax},
	}
	for _, c := range tests {
		_, err := evalString(c.Expr)
		if !errors.Is(err, c.Want) {
			t.Errorf("%s: error mismatched! want %s, got %v", c.Expr, c.Want, err)
		}
	}
}

func TestParseError(t *testing.T) {
	_, err := evalString("1 + * 2")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if perr.Text != "*" {
		t.Errorf("offending text mismatched! want *, got %q", perr.Text)
	}
	if perr.Column != 5 {
		t.Errorf("position mismatched! want column 5, got %s", perr.Position)
	}
	if code := value.Code(err); code != value.CodeParse {
		t.Errorf("code mismatched! want %s, got %s", value.CodeParse, code)
	}
}

func TestReferences(t *testing.T) {
	tests := []struct {
		Expr string
		Want []string
	}{
		{Expr: "A1", Want: []string{"A1"}},
		{Expr: "SUM(A1:A4)", Want: []string{"A1", "A2", "A3", "A4"}},
		{Expr: "SUM(B2:A1)", Want: []string{"A1", "B1", "A2", "B2"}},
		{Expr: "$C$1 + C1", Want: []string{"C1", "C1"}},
		{Expr: "UNKNOWN(A1, B1)", Want: []string{"A1", "B1"}},
		{Expr: "1 + 2", Want: nil},
	}
	for _, c := range tests {
		r := fake()
		Eval(c.Expr, NewContext(layout.ParsePosition("Z1"), r))
		if !slices.Equal(r.refs, c.Want) {
			t.Errorf("%s: references mismatched! want %v, got %v", c.Expr, c.Want, r.refs)
		}
	}
}

func TestEvalWithoutResolver(t *testing.T) {
	got, err := Eval("=2 * (3 + 4)", Context{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.String() != "14" {
		t.Errorf("result mismatched! want 14, got %s", got)
	}
	if _, err := Eval("A1", Context{}); !errors.Is(err, value.ErrRef) {
		t.Errorf("expected reference error, got %v", err)
	}
	if _, err := Eval("SUM(1)", Context{}); !errors.Is(err, value.ErrName) {
		t.Errorf("expected name error, got %v", err)
	}
}

func TestScanner(t *testing.T) {
	tests := []struct {
		Input string
		Want  []op.Op
	}{
		{Input: "=A1+$B$2", Want: []op.Op{op.Cell, op.Add, op.Cell}},
		{Input: "SUM(A1:B2)", Want: []op.Op{op.Func, op.BegGrp, op.Cell, op.RangeRef, op.Cell, op.EndGrp}},
		{Input: "LOG10(1)", Want: []op.Op{op.Func, op.BegGrp, op.Number, op.EndGrp}},
		{Input: "STDEV.S(1;2)", Want: []op.Op{op.Func, op.BegGrp, op.Number, op.Semi, op.Number, op.EndGrp}},
		{Input: "NOT x", Want: []op.Op{op.Not, op.Ident}},
		{Input: "NOT(x)", Want: []op.Op{op.Func, op.BegGrp, op.Ident, op.EndGrp}},
		{Input: "a<=b<>c>=d", Want: []op.Op{op.Ident, op.Le, op.Ident, op.Ne, op.Ident, op.Ge, op.Ident}},
		{Input: "{1,2}[3]", Want: []op.Op{op.BegArr, op.Number, op.Comma, op.Number, op.EndArr, op.BegArr, op.Number, op.EndArr}},
		{Input: "Sheet1!A1", Want: []op.Op{op.Cell, op.SheetRef, op.Cell}},
		{Input: "1e-3%", Want: []op.Op{op.Number, op.Percent}},
		{Input: "A0", Want: []op.Op{op.Ident}},
		{Input: "1\x002", Want: []op.Op{op.Number, op.Invalid, op.Number}},
	}
	for _, c := range tests {
		var (
			scan = Scan(c.Input)
			got  []op.Op
		)
		for {
			tok := scan.Scan()
			if tok.Type == op.EOF {
				break
			}
			got = append(got, tok.Type)
		}
		if !slices.Equal(got, c.Want) {
			t.Errorf("%s: tokens mismatched! want %v, got %v", c.Input, c.Want, got)
		}
	}
}

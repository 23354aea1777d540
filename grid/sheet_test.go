package grid

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/midbel/sheetcalc/formula"
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

func mustCell(t *testing.T, sh *Sheet, id string) *Cell {
	t.Helper()
	c, err := sh.GetCell(id)
	if err != nil {
		t.Fatalf("%s: fail to get cell: %s", id, err)
	}
	return c
}

func setCells(t *testing.T, sh *Sheet, cells ...[2]string) {
	t.Helper()
	for _, c := range cells {
		if err := sh.SetCell(c[0], c[1]); err != nil {
			t.Fatalf("%s: fail to set cell: %s", c[0], err)
		}
	}
}

func checkValue(t *testing.T, sh *Sheet, id, want string) {
	t.Helper()
	c := mustCell(t, sh, id)
	if c.Err != nil {
		t.Errorf("%s: unexpected error: %s", id, c.Err)
		return
	}
	if c.Value == nil {
		t.Errorf("%s: nil value, want %s", id, want)
		return
	}
	if got := c.Value.String(); got != want {
		t.Errorf("%s: value mismatched! want %s, got %s", id, want, got)
	}
}

func checkError(t *testing.T, sh *Sheet, id string, want error) {
	t.Helper()
	c := mustCell(t, sh, id)
	if !errors.Is(c.Err, want) {
		t.Errorf("%s: error mismatched! want %s, got %v", id, want, c.Err)
	}
	if c.Value != nil {
		t.Errorf("%s: value should be nil when cell has an error, got %s", id, c.Value)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		Input string
		Want  value.Value
	}{
		{Input: "42", Want: value.Float(42)},
		{Input: "-1.5", Want: value.Float(-1.5)},
		{Input: "1e3", Want: value.Float(1000)},
		{Input: "true", Want: value.Boolean(true)},
		{Input: "FALSE", Want: value.Boolean(false)},
		{Input: "foo bar", Want: value.Text("foo bar")},
		{Input: "#REF!", Want: value.Text("#REF!")},
		{Input: "", Want: nil},
	}
	sh := NewSheet()
	for _, c := range tests {
		setCells(t, sh, [2]string{"A1", c.Input})
		cell := mustCell(t, sh, "A1")
		if cell.Err != nil {
			t.Errorf("%q: literal should not produce an error, got %s", c.Input, cell.Err)
			continue
		}
		if cell.Value != c.Want {
			t.Errorf("%q: value mismatched! want %v, got %v", c.Input, c.Want, cell.Value)
		}
		if cell.Raw != c.Input {
			t.Errorf("%q: raw input not kept, got %q", c.Input, cell.Raw)
		}
		if cell.IsFormula() {
			t.Errorf("%q: literal should not be a formula", c.Input)
		}
	}
}

func TestDependencyDiscovery(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "1"},
		[2]string{"A2", "2"},
		[2]string{"A3", "3"},
		[2]string{"A4", "4"},
		[2]string{"A5", "=SUM(A1:A4)"},
	)
	cell := mustCell(t, sh, "A5")
	if want := positions("A1", "A2", "A3", "A4"); !slices.Equal(cell.Dependencies(), want) {
		t.Errorf("dependencies mismatched! want %v, got %v", want, cell.Dependencies())
	}
	if cell.Formula != "SUM(A1:A4)" {
		t.Errorf("formula mismatched! got %s", cell.Formula)
	}
	checkValue(t, sh, "A5", "10")
}

func TestPropagation(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "1"},
		[2]string{"A2", "=SUM(A1,100)"},
	)
	checkValue(t, sh, "A2", "101")

	setCells(t, sh, [2]string{"A1", "2"})
	checkValue(t, sh, "A2", "102")
}

func TestPropagationChain(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "=B1*2"},
		[2]string{"B1", "=C1+1"},
		[2]string{"C1", "=D1+1"},
	)
	checkValue(t, sh, "A1", "4")

	setCells(t, sh, [2]string{"D1", "10"})
	checkValue(t, sh, "C1", "11")
	checkValue(t, sh, "B1", "12")
	checkValue(t, sh, "A1", "24")
}

func TestPropagationDeepChain(t *testing.T) {
	const size = 5000
	sh := NewSheet()
	sh.SetAt(layout.FromIndex(0, 0), "1")
	for i := int64(1); i < size; i++ {
		prev := layout.FromIndex(0, i-1)
		sh.SetAt(layout.FromIndex(0, i), "="+prev.String()+"+1")
	}
	last := layout.FromIndex(0, size-1).String()
	checkValue(t, sh, last, "5000")

	setCells(t, sh, [2]string{"A1", "11"})
	checkValue(t, sh, last, "5010")
	if c := mustCell(t, sh, "A2500"); c.Value == nil || c.Value.String() != "2510" {
		t.Errorf("A2500: value mismatched! want 2510, got %v", c.Value)
	}
}

func TestNonFiniteText(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "inf"},
		[2]string{"A2", "=-A1"},
		[2]string{"A3", "=A1%"},
		[2]string{"A4", "nan"},
		[2]string{"A5", "=A4%"},
		[2]string{"A6", "=A1+1"},
	)
	checkValue(t, sh, "A1", "inf")
	checkValue(t, sh, "A2", "0")
	checkValue(t, sh, "A3", "0")
	checkValue(t, sh, "A5", "0")
	checkValue(t, sh, "A6", "1")
}

func TestDiamond(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "1"},
		[2]string{"B1", "=A1+1"},
		[2]string{"C1", "=A1*10"},
		[2]string{"D1", "=B1+C1"},
	)
	checkValue(t, sh, "D1", "12")

	setCells(t, sh, [2]string{"A1", "5"})
	checkValue(t, sh, "B1", "6")
	checkValue(t, sh, "C1", "50")
	checkValue(t, sh, "D1", "56")
}

func TestSelfReference(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh, [2]string{"A1", "=SUM(A1,2)"})
	checkError(t, sh, "A1", value.ErrRef)
	if code := mustCell(t, sh, "A1").Code(); code != "#REF!" {
		t.Errorf("code mismatched! want #REF!, got %s", code)
	}
}

func TestCyclePoisoning(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "1"},
		[2]string{"A2", "2"},
		[2]string{"A3", "=SUM(A1,A2)"},
		[2]string{"B1", "=SUM(A3,B2)"},
		[2]string{"B2", "=SUM(A1,B1)"},
	)
	checkError(t, sh, "B1", value.ErrRef)
	checkError(t, sh, "B2", value.ErrRef)
	checkError(t, sh, "B1", ErrCircular)
	checkValue(t, sh, "A3", "3")
	checkValue(t, sh, "A1", "1")
}

func TestCycleOnBlankCells(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A3", "=SUM(A1,A2)"},
		[2]string{"B1", "=SUM(A3,B2)"},
		[2]string{"B2", "=SUM(A1,B1)"},
	)
	checkError(t, sh, "B1", value.ErrRef)
	checkError(t, sh, "B2", value.ErrRef)
	checkValue(t, sh, "A3", "0")
	if c := mustCell(t, sh, "A1"); c.Err != nil {
		t.Errorf("A1 is not part of the cycle, got error %s", c.Err)
	}
}

func TestCycleDownstream(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"C1", "=A1+1"},
		[2]string{"D1", "=C1*2"},
		[2]string{"A1", "=B1"},
		[2]string{"B1", "=A1"},
	)
	checkError(t, sh, "A1", value.ErrRef)
	checkError(t, sh, "B1", value.ErrRef)
	checkError(t, sh, "C1", value.ErrRef)
	checkError(t, sh, "D1", value.ErrRef)
}

func TestBreakCycle(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "=B1+1"},
		[2]string{"B1", "=A1+1"},
		[2]string{"C1", "=B1*2"},
	)
	checkError(t, sh, "A1", value.ErrRef)
	checkError(t, sh, "B1", value.ErrRef)

	setCells(t, sh, [2]string{"A1", "5"})
	checkValue(t, sh, "A1", "5")
	checkValue(t, sh, "B1", "6")
	checkValue(t, sh, "C1", "12")
}

func TestCycleFoundWhileRecalculating(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "0"},
		[2]string{"C1", "=1/A1 + C2"},
		[2]string{"C2", "=C1"},
	)
	checkError(t, sh, "C1", value.ErrDiv0)
	checkError(t, sh, "C2", value.ErrDiv0)

	setCells(t, sh, [2]string{"A1", "1"})
	checkError(t, sh, "C1", ErrCircular)
	checkError(t, sh, "C2", ErrCircular)

	setCells(t, sh, [2]string{"A1", "0"})
	checkError(t, sh, "C1", value.ErrDiv0)
	checkError(t, sh, "C2", value.ErrDiv0)
}

func TestUnknownName(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "1"},
		[2]string{"A2", "=UNKNOWNFN(A1)"},
		[2]string{"A3", "=foo + A1"},
	)
	checkError(t, sh, "A2", value.ErrName)
	checkError(t, sh, "A3", value.ErrName)
	if deps := mustCell(t, sh, "A2").Dependencies(); !slices.Contains(deps, layout.ParsePosition("A1")) {
		t.Errorf("dependencies should include A1, got %v", deps)
	}
	if code := mustCell(t, sh, "A2").Code(); code != "#NAME!" {
		t.Errorf("code mismatched! want #NAME!, got %s", code)
	}
}

func TestFormulaReplacement(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "1"},
		[2]string{"B1", "2"},
		[2]string{"C1", "=A1*10"},
		[2]string{"D1", "=C1+1"},
	)
	checkValue(t, sh, "D1", "11")

	setCells(t, sh, [2]string{"C1", "=B1*100"})
	if deps := mustCell(t, sh, "C1").Dependencies(); !slices.Equal(deps, positions("B1")) {
		t.Errorf("dependencies mismatched! want [B1], got %v", deps)
	}
	checkValue(t, sh, "D1", "201")

	deps, _ := sh.Dependents("A1")
	if len(deps) != 0 {
		t.Errorf("A1 should not have dependents anymore, got %v", deps)
	}
	setCells(t, sh, [2]string{"A1", "7"})
	checkValue(t, sh, "C1", "200")

	setCells(t, sh, [2]string{"C1", "3"})
	if deps := mustCell(t, sh, "C1").Dependencies(); len(deps) != 0 {
		t.Errorf("literal should not have dependencies, got %v", deps)
	}
	checkValue(t, sh, "D1", "4")
}

func TestErrorPropagation(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh,
		[2]string{"A1", "0"},
		[2]string{"B1", "=10/A1"},
		[2]string{"C1", "=B1+1"},
		[2]string{"D1", "=SUM(B1:C1)"},
		[2]string{"E1", "=1 +"},
	)
	checkError(t, sh, "B1", value.ErrDiv0)
	checkError(t, sh, "C1", value.ErrDiv0)
	checkError(t, sh, "D1", value.ErrDiv0)
	checkError(t, sh, "E1", formula.ErrSyntax)
	if code := mustCell(t, sh, "E1").Code(); code != value.CodeParse {
		t.Errorf("code mismatched! want %s, got %s", value.CodeParse, code)
	}

	setCells(t, sh, [2]string{"A1", "5"})
	checkValue(t, sh, "B1", "2")
	checkValue(t, sh, "C1", "3")
	checkValue(t, sh, "D1", "5")
}

func TestForwardReference(t *testing.T) {
	sh := NewSheet()
	err := sh.Load([][]any{
		{"=B1+C1", "=C1*2", 3},
		{nil, "text", true},
	})
	if err != nil {
		t.Fatalf("fail to load grid: %s", err)
	}
	checkValue(t, sh, "A1", "9")
	checkValue(t, sh, "B1", "6")
	checkValue(t, sh, "B2", "text")
	checkValue(t, sh, "C2", "TRUE")
	if !mustCell(t, sh, "A2").Blank() {
		t.Errorf("A2 should be blank")
	}
	if sh.Len() != 5 {
		t.Errorf("number of cells mismatched! want 5, got %d", sh.Len())
	}
	if got := sh.Bounds().String(); got != "A1:C2" {
		t.Errorf("bounds mismatched! want A1:C2, got %s", got)
	}
}

func TestSetTyped(t *testing.T) {
	sh := NewSheet()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if err := sh.Set("A1", day); err != nil {
		t.Fatalf("fail to set date: %s", err)
	}
	if err := sh.Set("A2", 2.5); err != nil {
		t.Fatalf("fail to set number: %s", err)
	}
	if err := sh.Set("A3", value.ErrNA); err != nil {
		t.Fatalf("fail to set error: %s", err)
	}
	if err := sh.Set("A4", struct{}{}); err == nil {
		t.Errorf("expected error for unsupported value")
	}
	checkValue(t, sh, "A1", "2026-03-01")
	checkValue(t, sh, "A2", "2.5")
	checkError(t, sh, "A3", value.ErrNA)

	setCells(t, sh, [2]string{"B1", "=A1+1"}, [2]string{"B2", "=ISNUMBER(A3)"})
	checkValue(t, sh, "B1", "46083")
	checkError(t, sh, "B2", value.ErrNA)
}

func TestEvaluate(t *testing.T) {
	sh := NewSheet(WithName("Data"))
	setCells(t, sh, [2]string{"A1", "12"})

	tests := []struct {
		Expr string
		Want string
	}{
		{Expr: "10 + 10", Want: "20"},
		{Expr: "=SUM(10) + 12", Want: "22"},
		{Expr: "A1 * 2", Want: "24"},
		{Expr: "Data!A1 & 'x'", Want: "12x"},
		{Expr: "TRUE", Want: "TRUE"},
		{Expr: "IF(A1 > 10, \"big\", \"small\")", Want: "big"},
	}
	for _, c := range tests {
		got, err := sh.Evaluate(c.Expr)
		if err != nil {
			t.Errorf("%s: fail to evaluate: %s", c.Expr, err)
			continue
		}
		if got.String() != c.Want {
			t.Errorf("%s: result mismatched! want %s, got %s", c.Expr, c.Want, got)
		}
	}
	if _, err := sh.Evaluate("Other!A1"); !errors.Is(err, value.ErrRef) {
		t.Errorf("expected reference error for foreign sheet, got %v", err)
	}
	if deps, _ := sh.Dependents("A1"); len(deps) != 0 {
		t.Errorf("evaluate should not record dependencies, got %v", deps)
	}
}

func TestVariablesAndRegistry(t *testing.T) {
	reg := builtins.Default()
	reg.Register("DOUBLE", func(args []value.Value) (value.Value, error) {
		f, err := value.CastToFloat(args[0])
		return value.Float(f * 2), err
	})
	sh := NewSheet(
		WithRegistry(reg),
		WithVariables(map[string]value.Value{"rate": value.Float(0.5)}),
	)
	setCells(t, sh,
		[2]string{"A1", "=DOUBLE(21) * rate"},
		[2]string{"A2", "=NULL"},
	)
	checkValue(t, sh, "A1", "21")
	checkValue(t, sh, "A2", "0")

	sh.SetVariable("RATE", value.Float(2))
	if v, ok := sh.Variable("rate"); !ok || v != value.Float(2) {
		t.Errorf("variable mismatched! got %v", v)
	}
}

func TestInvalidIdentifier(t *testing.T) {
	sh := NewSheet()
	for _, id := range []string{"", "A0", "1A", "Other!A1"} {
		if err := sh.SetCell(id, "1"); err == nil {
			t.Errorf("%q: expected error for invalid identifier", id)
		}
	}
	if err := sh.SetCell("Sheet1!B2", "1"); err != nil {
		t.Errorf("qualified identifier should be accepted: %s", err)
	}
	checkValue(t, sh, "B2", "1")
}

func TestGetCellIsCopy(t *testing.T) {
	sh := NewSheet()
	setCells(t, sh, [2]string{"A1", "1"})
	c := mustCell(t, sh, "A1")
	c.Value = value.Float(100)
	checkValue(t, sh, "A1", "1")
}

func TestRows(t *testing.T) {
	sh := NewSheet()
	sh.Load([][]any{
		{1, 2, 3},
		{"=A1+B1", nil, "=C1/0"},
	})
	var got []string
	for _, row := range Rows(sh, []int64{3, 1}) {
		for _, c := range row {
			got = append(got, c.Display())
		}
	}
	want := []string{"3", "1", "#DIV/0!", "3"}
	if !slices.Equal(got, want) {
		t.Errorf("rows mismatched! want %v, got %v", want, got)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sh := NewSheet(WithLogger(logger))
	setCells(t, sh,
		[2]string{"A1", "=B1"},
		[2]string{"B1", "=A1"},
	)
	if !strings.Contains(buf.String(), "cycle detected") {
		t.Errorf("cycle should be logged, got %s", buf.String())
	}
}

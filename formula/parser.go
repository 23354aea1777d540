package formula

import (
	"fmt"
	"strconv"

	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

var defaultGrammar = FormulaGrammar()

// Parser reduces a formula to its value while reading it: every prefix,
// infix and postfix function returns the value of the production it
// recognizes. No syntax tree is built.
type Parser struct {
	scan *Scanner
	curr Token
	peek Token

	grammar *Grammar
	ctx     Context
}

func NewParser(g *Grammar, ctx Context) *Parser {
	return &Parser{
		grammar: g,
		ctx:     ctx,
	}
}

func (p *Parser) Eval(str string) (value.Value, error) {
	p.scan = Scan(str)
	p.next()
	p.next()
	if p.done() {
		return nil, p.makeError("empty formula")
	}
	res, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.makeError("unexpected token")
	}
	if value.IsBlank(res) {
		res = value.Float(0)
	}
	return res, nil
}

func (p *Parser) parse(pow int) (value.Value, error) {
	fn, err := p.prefix()
	if err != nil {
		return nil, err
	}
	left, err := fn(p)
	if err != nil {
		return nil, err
	}
	for {
		fn, err := p.postfix()
		if err != nil {
			break
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	for !p.done() && pow < p.pow(p.curr.Type) {
		fn, err := p.infix()
		if err != nil {
			return nil, err
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

func (p *Parser) done() bool {
	return p.is(op.EOF)
}

func (p *Parser) is(kind op.Op) bool {
	return p.curr.Type == kind
}

func (p *Parser) isSeparator() bool {
	return p.is(op.Comma) || p.is(op.Semi)
}

func (p *Parser) pow(kind op.Op) int {
	return p.grammar.Pow(kind)
}

func (p *Parser) prefix() (PrefixFunc, error) {
	if p.done() {
		return nil, p.makeError("unexpected end of formula")
	}
	return p.grammar.Prefix(p.curr)
}

func (p *Parser) postfix() (InfixFunc, error) {
	return p.grammar.Postfix(p.curr)
}

func (p *Parser) infix() (InfixFunc, error) {
	return p.grammar.Infix(p.curr)
}

func (p *Parser) makeError(msg string) error {
	return unexpected(p.curr, fmt.Sprintf("%s: %s", p.grammar.Context(), msg))
}

func parseNumber(p *Parser) (value.Value, error) {
	x, err := strconv.ParseFloat(p.curr.Literal, 64)
	if err != nil {
		return nil, p.makeError("invalid number")
	}
	p.next()
	return value.Float(x), nil
}

func parseLiteral(p *Parser) (value.Value, error) {
	lit := p.curr.Literal
	p.next()
	if p.is(op.SheetRef) {
		return parseQualifiedAddress(p, lit)
	}
	return value.Text(lit), nil
}

func parseIdentifier(p *Parser) (value.Value, error) {
	name := p.curr.Literal
	p.next()
	if p.is(op.SheetRef) {
		return parseQualifiedAddress(p, name)
	}
	return p.ctx.variable(name)
}

func parseAddress(p *Parser) (value.Value, error) {
	tok := p.curr
	p.next()
	if p.is(op.SheetRef) {
		return parseQualifiedAddress(p, tok.Literal)
	}
	return resolveAddress(p, "", tok)
}

func parseQualifiedAddress(p *Parser, sheet string) (value.Value, error) {
	p.next()
	if !p.is(op.Cell) {
		return nil, p.makeError("cell address expected after sheet name")
	}
	tok := p.curr
	p.next()
	return resolveAddress(p, sheet, tok)
}

// resolveAddress resolves the cell given by tok or, when a range operator
// follows, the whole range it starts.
func resolveAddress(p *Parser, sheet string, tok Token) (value.Value, error) {
	start, err := layout.Parse(tok.Literal)
	if err != nil {
		return nil, unexpected(tok, err.Error())
	}
	start.Sheet = sheet
	if !p.is(op.RangeRef) {
		return p.ctx.resolveCell(start)
	}
	p.next()
	if !p.is(op.Cell) {
		return nil, p.makeError("cell address expected after ':'")
	}
	end, err := layout.Parse(p.curr.Literal)
	if err != nil {
		return nil, p.makeError(err.Error())
	}
	end.Sheet = sheet
	p.next()
	return p.ctx.resolveRange(start, end)
}

func parseCall(p *Parser) (value.Value, error) {
	name := p.curr.Literal
	p.next()
	if !p.is(op.BegGrp) {
		return nil, p.makeError("'(' expected after function name")
	}
	p.next()
	var args []value.Value
	for !p.done() && !p.is(op.EndGrp) {
		if p.isSeparator() {
			args = append(args, value.Empty())
			p.next()
			continue
		}
		arg, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch {
		case p.isSeparator():
			p.next()
			if p.is(op.EndGrp) {
				args = append(args, value.Empty())
			}
		case p.is(op.EndGrp):
		default:
			return nil, p.makeError("unexpected token in function call")
		}
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("missing ')' at end of function call")
	}
	p.next()
	return p.ctx.call(name, args)
}

func parseGroup(p *Parser) (value.Value, error) {
	p.next()
	res, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("missing ')' at end of expression")
	}
	p.next()
	return res, nil
}

// parseArray reads an array literal. Commas separate the columns and
// semicolons the rows.
func parseArray(p *Parser) (value.Value, error) {
	p.next()
	var (
		rows [][]value.ScalarValue
		row  []value.ScalarValue
	)
	for !p.done() && !p.is(op.EndArr) {
		res, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		s, ok := res.(value.ScalarValue)
		if !ok {
			return nil, fmt.Errorf("%w: array literal only accepts scalar values", value.ErrValue)
		}
		row = append(row, s)
		switch {
		case p.is(op.Comma):
			p.next()
		case p.is(op.Semi):
			rows = append(rows, row)
			row = nil
			p.next()
		case p.is(op.EndArr):
		default:
			return nil, p.makeError("unexpected token in array")
		}
	}
	if !p.is(op.EndArr) {
		return nil, p.makeError("missing closing bracket at end of array")
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) != len(rows[0]) {
			return nil, p.makeError("array rows must have the same number of columns")
		}
	}
	p.next()
	return value.NewArray(rows), nil
}

func parseUnary(p *Parser) (value.Value, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(powAdd)
	if err != nil {
		return nil, err
	}
	return unary(oper, right)
}

func parseNot(p *Parser) (value.Value, error) {
	p.next()
	right, err := p.parse(powNot)
	if err != nil {
		return nil, err
	}
	return not(right)
}

func parsePercent(p *Parser, left value.Value) (value.Value, error) {
	p.next()
	return percentOf(left)
}

func parseBinary(p *Parser, left value.Value) (value.Value, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(p.pow(oper))
	if err != nil {
		return nil, err
	}
	return binary(oper, left, right)
}

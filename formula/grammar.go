package formula

import (
	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/value"
)

const (
	powLowest = iota
	powCmp
	powNot
	powConcat
	powAdd
	powMul
	powPow
)

var defaultBindings = map[op.Op]int{
	op.Eq:     powCmp,
	op.Ne:     powCmp,
	op.Lt:     powCmp,
	op.Le:     powCmp,
	op.Gt:     powCmp,
	op.Ge:     powCmp,
	op.Concat: powConcat,
	op.Add:    powAdd,
	op.Sub:    powAdd,
	op.Mul:    powMul,
	op.Div:    powMul,
	op.Pow:    powPow,
}

type (
	PrefixFunc func(*Parser) (value.Value, error)
	InfixFunc  func(*Parser, value.Value) (value.Value, error)
)

// Grammar maps token kinds to the functions that reduce them and to
// their binding power.
type Grammar struct {
	name string

	prefix   map[op.Op]PrefixFunc
	infix    map[op.Op]InfixFunc
	postfix  map[op.Op]InfixFunc
	bindings map[op.Op]int
}

func NewGrammar(name string) *Grammar {
	g := Grammar{
		name:     name,
		prefix:   make(map[op.Op]PrefixFunc),
		infix:    make(map[op.Op]InfixFunc),
		postfix:  make(map[op.Op]InfixFunc),
		bindings: make(map[op.Op]int),
	}
	for k, p := range defaultBindings {
		g.bindings[k] = p
	}
	return &g
}

func FormulaGrammar() *Grammar {
	g := NewGrammar("formula")

	g.RegisterPrefix(op.Number, parseNumber)
	g.RegisterPrefix(op.Literal, parseLiteral)
	g.RegisterPrefix(op.Cell, parseAddress)
	g.RegisterPrefix(op.Ident, parseIdentifier)
	g.RegisterPrefix(op.Func, parseCall)
	g.RegisterPrefix(op.BegGrp, parseGroup)
	g.RegisterPrefix(op.BegArr, parseArray)
	g.RegisterPrefix(op.Sub, parseUnary)
	g.RegisterPrefix(op.Add, parseUnary)
	g.RegisterPrefix(op.Not, parseNot)

	g.RegisterPostfix(op.Percent, parsePercent)

	g.RegisterInfix(op.Add, parseBinary)
	g.RegisterInfix(op.Sub, parseBinary)
	g.RegisterInfix(op.Mul, parseBinary)
	g.RegisterInfix(op.Div, parseBinary)
	g.RegisterInfix(op.Pow, parseBinary)
	g.RegisterInfix(op.Concat, parseBinary)
	g.RegisterInfix(op.Eq, parseBinary)
	g.RegisterInfix(op.Ne, parseBinary)
	g.RegisterInfix(op.Lt, parseBinary)
	g.RegisterInfix(op.Le, parseBinary)
	g.RegisterInfix(op.Gt, parseBinary)
	g.RegisterInfix(op.Ge, parseBinary)

	return g
}

func (g *Grammar) Context() string {
	return g.name
}

func (g *Grammar) Pow(kind op.Op) int {
	pow, ok := g.bindings[kind]
	if !ok {
		pow = powLowest
	}
	return pow
}

func (g *Grammar) Prefix(tok Token) (PrefixFunc, error) {
	fn, ok := g.prefix[tok.Type]
	if !ok {
		return nil, unexpected(tok, g.name+": unsupported prefix operator")
	}
	return fn, nil
}

func (g *Grammar) Infix(tok Token) (InfixFunc, error) {
	fn, ok := g.infix[tok.Type]
	if !ok {
		return nil, unexpected(tok, g.name+": unsupported infix operator")
	}
	return fn, nil
}

func (g *Grammar) Postfix(tok Token) (InfixFunc, error) {
	fn, ok := g.postfix[tok.Type]
	if !ok {
		return nil, unexpected(tok, g.name+": unsupported postfix operator")
	}
	return fn, nil
}

func (g *Grammar) RegisterPrefix(kd op.Op, fn PrefixFunc) {
	g.prefix[kd] = fn
}

func (g *Grammar) RegisterInfix(kd op.Op, fn InfixFunc) {
	g.infix[kd] = fn
}

func (g *Grammar) RegisterPostfix(kd op.Op, fn InfixFunc) {
	g.postfix[kd] = fn
}

func (g *Grammar) RegisterBinding(kd op.Op, pow int) {
	g.bindings[kd] = pow
}

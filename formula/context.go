package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

var ErrSyntax = errors.New("syntax error")

// Resolver gives a formula access to the cells and the functions of the
// sheet it is evaluated in. Each resolved reference is recorded as a
// dependency of the origin cell.
type Resolver interface {
	ResolveCell(origin, ref layout.Position) (value.Value, error)
	ResolveRange(origin, start, end layout.Position) (value.Value, error)
	CallFunction(name string, args []value.Value) (value.Value, error)
	CallVariable(name string) (value.Value, error)
}

// Context is the state shared by every reduction of a single evaluation:
// the cell being computed and the resolver of its sheet.
type Context struct {
	Origin   layout.Position
	Resolver Resolver
}

func NewContext(origin layout.Position, resolver Resolver) Context {
	return Context{
		Origin:   origin,
		Resolver: resolver,
	}
}

func (c Context) resolveCell(ref layout.Position) (value.Value, error) {
	if c.Resolver == nil {
		return nil, fmt.Errorf("%w: %s can not be resolved", value.ErrRef, ref)
	}
	return c.Resolver.ResolveCell(c.Origin, ref)
}

func (c Context) resolveRange(start, end layout.Position) (value.Value, error) {
	if c.Resolver == nil {
		return nil, fmt.Errorf("%w: %s:%s can not be resolved", value.ErrRef, start, end)
	}
	return c.Resolver.ResolveRange(c.Origin, start, end)
}

func (c Context) call(name string, args []value.Value) (value.Value, error) {
	name = strings.ToUpper(name)
	if c.Resolver == nil {
		return nil, fmt.Errorf("%w: %s", value.ErrName, name)
	}
	return c.Resolver.CallFunction(name, args)
}

func (c Context) variable(name string) (value.Value, error) {
	name = strings.ToUpper(name)
	if c.Resolver == nil {
		return nil, fmt.Errorf("%w: %s", value.ErrName, name)
	}
	return c.Resolver.CallVariable(name)
}

// ParseError reports a formula that does not match the grammar.
type ParseError struct {
	Text    string
	Message string
	Position
}

func unexpected(tok Token, msg string) error {
	return &ParseError{
		Text:     tok.Text(),
		Message:  msg,
		Position: tok.Position,
	}
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("(%s) %s", e.Position, e.Message)
	}
	return fmt.Sprintf("(%s) %s near %q", e.Position, e.Message, e.Text)
}

func (e *ParseError) Code() string {
	return value.CodeParse
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// Eval computes the value of a formula. The leading = marker is optional.
func Eval(str string, ctx Context) (value.Value, error) {
	p := NewParser(defaultGrammar, ctx)
	return p.Eval(str)
}

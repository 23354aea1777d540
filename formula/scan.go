package formula

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/midbel/sheetcalc/formula/op"
)

const kwNot = "NOT"

type Scanner struct {
	input []byte
	pos   int
	next  int
	char  rune

	Position

	buf bytes.Buffer
}

// Scan prepares a scanner for the given formula. A leading = marker is
// skipped.
func Scan(str string) *Scanner {
	scan := Scanner{
		input: []byte(str),
	}
	scan.Position.Line = 1
	scan.read()
	scan.skipBlanks()
	if scan.char == equal {
		scan.read()
	}
	return &scan
}

func (s *Scanner) Scan() Token {
	s.skipBlanks()

	var tok Token
	tok.Position = s.Position
	if s.done() {
		tok.Type = op.EOF
		return tok
	}
	defer s.reset()
	switch {
	case isOperator(s.char):
		s.scanOperator(&tok)
	case isDelimiter(s.char):
		s.scanDelimiter(&tok)
	case isQuote(s.char):
		s.scanLiteral(&tok)
	case isDigit(s.char) || (s.char == dot && isDigit(s.peek())):
		s.scanNumber(&tok)
	case isLetter(s.char) || s.char == dollar:
		s.scanIdent(&tok)
	default:
		tok.Type = op.Invalid
		tok.Literal = string(s.char)
		s.read()
	}
	return tok
}

func (s *Scanner) scanIdent(tok *Token) {
	reco := recognizeCell()
	for !s.done() && isAlpha(s.char) {
		reco.Update(s.char)
		s.write()
		s.read()
	}
	tok.Literal = s.literal()
	switch {
	case s.char == lparen && !strings.ContainsRune(tok.Literal, dollar):
		tok.Type = op.Func
	case reco.IsCell():
		tok.Type = op.Cell
	case strings.ContainsRune(tok.Literal, dollar):
		tok.Type = op.Invalid
	case strings.EqualFold(tok.Literal, kwNot):
		tok.Type = op.Not
	default:
		tok.Type = op.Ident
	}
}

func (s *Scanner) scanNumber(tok *Token) {
	tok.Type = op.Number
	s.scanDigits()
	if s.char == dot {
		s.write()
		s.read()
		s.scanDigits()
	}
	if s.char == 'e' || s.char == 'E' {
		if p := s.peek(); !isDigit(p) && p != plus && p != minus {
			tok.Literal = s.literal()
			return
		}
		s.write()
		s.read()
		if s.char == plus || s.char == minus {
			s.write()
			s.read()
		}
		if !isDigit(s.char) {
			tok.Type = op.Invalid
		}
		s.scanDigits()
	}
	tok.Literal = s.literal()
}

func (s *Scanner) scanDigits() {
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
}

// scanLiteral reads a quoted string. A doubled quote stands for the quote
// itself.
func (s *Scanner) scanLiteral(tok *Token) {
	quote := s.char
	s.read()
	tok.Type = op.Invalid
	for !s.done() {
		if s.char == quote {
			s.read()
			if s.char != quote {
				tok.Type = op.Literal
				break
			}
		}
		s.write()
		s.read()
	}
	tok.Literal = s.literal()
}

func (s *Scanner) scanOperator(tok *Token) {
	tok.Type = op.Invalid
	switch s.char {
	case amper:
		tok.Type = op.Concat
	case percent:
		tok.Type = op.Percent
	case plus:
		tok.Type = op.Add
	case minus:
		tok.Type = op.Sub
	case star:
		tok.Type = op.Mul
	case slash:
		tok.Type = op.Div
	case caret:
		tok.Type = op.Pow
	case langle:
		tok.Type = op.Lt
		if k := s.peek(); k == equal {
			s.read()
			tok.Type = op.Le
		} else if k == rangle {
			s.read()
			tok.Type = op.Ne
		}
	case rangle:
		tok.Type = op.Gt
		if s.peek() == equal {
			s.read()
			tok.Type = op.Ge
		}
	case equal:
		tok.Type = op.Eq
	case colon:
		tok.Type = op.RangeRef
	case bang:
		tok.Type = op.SheetRef
	default:
	}
	s.read()
}

func (s *Scanner) scanDelimiter(tok *Token) {
	tok.Type = op.Invalid
	switch s.char {
	case comma:
		tok.Type = op.Comma
	case semi:
		tok.Type = op.Semi
	case lparen:
		tok.Type = op.BegGrp
	case rparen:
		tok.Type = op.EndGrp
	case lsquare, lcurly:
		tok.Type = op.BegArr
	case rsquare, rcurly:
		tok.Type = op.EndArr
	default:
	}
	s.read()
}

func (s *Scanner) literal() string {
	return s.buf.String()
}

func (s *Scanner) write() {
	s.buf.WriteRune(s.char)
}

func (s *Scanner) reset() {
	s.buf.Reset()
}

func (s *Scanner) read() {
	if s.next >= len(s.input) {
		s.char = 0
		s.pos = len(s.input)
		return
	}
	r, n := utf8.DecodeRune(s.input[s.next:])
	s.char, s.pos, s.next = r, s.next, s.next+n
	s.Column++
}

func (s *Scanner) peek() rune {
	if s.next >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(s.input[s.next:])
	return r
}

func (s *Scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) skipBlanks() {
	for isBlank(s.char) {
		s.read()
	}
}

type recoMode int

const (
	cellStart recoMode = iota
	cellAbsCol
	cellCol
	cellAbsRow
	cellRow
	cellDead
)

// cellRecognizer tells whether an identifier is an A1 reference, with
// optional $ anchors in front of the column and the row.
type cellRecognizer struct {
	state recoMode
}

func recognizeCell() *cellRecognizer {
	return &cellRecognizer{
		state: cellStart,
	}
}

func (c *cellRecognizer) Update(ch rune) {
	switch c.state {
	case cellStart:
		if ch == dollar {
			c.state = cellAbsCol
			break
		}
		c.toColumn(ch)
	case cellAbsCol:
		c.toColumn(ch)
	case cellCol:
		if isLetter(ch) && ch != underscore {
			break
		}
		if ch == dollar {
			c.state = cellAbsRow
			break
		}
		c.toRow(ch)
	case cellAbsRow:
		c.toRow(ch)
	case cellRow:
		if !isDigit(ch) {
			c.state = cellDead
		}
	default:
	}
}

func (c *cellRecognizer) IsCell() bool {
	return c.state == cellRow
}

func (c *cellRecognizer) toColumn(ch rune) {
	if isLetter(ch) && ch != underscore {
		c.state = cellCol
		return
	}
	c.state = cellDead
}

func (c *cellRecognizer) toRow(ch rune) {
	if isDigit(ch) && ch != '0' {
		c.state = cellRow
		return
	}
	c.state = cellDead
}

const (
	underscore = '_'
	bang       = '!'
	semi       = ';'
	comma      = ','
	rparen     = ')'
	lparen     = '('
	lcurly     = '{'
	rcurly     = '}'
	lsquare    = '['
	rsquare    = ']'
	squote     = '\''
	dquote     = '"'
	space      = ' '
	tab        = '\t'
	nl         = '\n'
	cr         = '\r'
	plus       = '+'
	minus      = '-'
	star       = '*'
	slash      = '/'
	caret      = '^'
	equal      = '='
	langle     = '<'
	rangle     = '>'
	colon      = ':'
	dot        = '.'
	amper      = '&'
	percent    = '%'
	dollar     = '$'
)

func isQuote(c rune) bool {
	return c == squote || c == dquote
}

func isLower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func isUpper(c rune) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c rune) bool {
	return isLower(c) || isUpper(c) || c == underscore
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return isLetter(c) || isDigit(c) || c == dollar || c == dot
}

func isBlank(c rune) bool {
	return c == space || c == tab || c == nl || c == cr
}

func isDelimiter(c rune) bool {
	return c == semi || c == lparen || c == rparen || c == comma ||
		c == lsquare || c == rsquare || c == lcurly || c == rcurly
}

func isOperator(c rune) bool {
	return c == plus || c == minus || c == slash || c == star ||
		c == langle || c == rangle || c == colon || c == bang ||
		c == equal || c == caret || c == amper || c == percent
}

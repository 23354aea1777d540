package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrAddress = errors.New("invalid cell address")

// Limits of a worksheet: columns go up to XFD.
const (
	MaxColumn int64 = 16384
	MaxLine   int64 = 1048576
)

// Position identifies a cell. Line and Column are 1-based, as in the A1
// notation; the zero Position is not a valid address.
type Position struct {
	Sheet  string
	Line   int64
	Column int64
}

// FromIndex builds a Position from a 0-based column and row.
func FromIndex(col, row int64) Position {
	return Position{
		Line:   row + 1,
		Column: col + 1,
	}
}

func ParsePosition(addr string) Position {
	pos, _ := Parse(addr)
	return pos
}

// Parse reads an address in A1 notation. An optional sheet qualifier
// (Sheet!A1) and $ anchors are accepted; anchors are dropped.
func Parse(addr string) (Position, error) {
	var pos Position
	if ix := strings.LastIndexByte(addr, '!'); ix >= 0 {
		pos.Sheet = strings.Trim(addr[:ix], "'")
		addr = addr[ix+1:]
	}
	addr = strings.ReplaceAll(addr, "$", "")
	if !IsAddress(addr) {
		return pos, fmt.Errorf("%w: %q", ErrAddress, addr)
	}
	var offset int
	pos.Column, offset = ParseIndex(addr)
	line, err := strconv.ParseInt(addr[offset:], 10, 64)
	if err != nil || line > MaxLine || pos.Column > MaxColumn {
		return pos, fmt.Errorf("%w: %q out of bounds", ErrAddress, addr)
	}
	pos.Line = line
	return pos, nil
}

func (p Position) Index() (int64, int64) {
	return p.Column - 1, p.Line - 1
}

func (p Position) Valid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) Equal(other Position) bool {
	return p.Line == other.Line && p.Column == other.Column
}

// Key returns the position without its sheet qualifier.
func (p Position) Key() Position {
	p.Sheet = ""
	return p
}

// Less orders positions row-major.
func (p Position) Less(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

func (p Position) Addr() string {
	var parts []string
	if p.Sheet != "" {
		parts = append(parts, p.Sheet)
		parts = append(parts, "!")
	}
	parts = append(parts, IndexToString(p.Column))
	parts = append(parts, strconv.FormatInt(p.Line, 10))
	return strings.Join(parts, "")
}

func (p Position) String() string {
	return p.Addr()
}

func IsAddress(addr string) bool {
	size := len(addr)
	if size < 2 {
		return false
	}
	var offset int
	for offset < size {
		c := addr[offset]
		if c >= 'a' && c <= 'z' {
			c = c - 'a' + 'A'
		}
		if c < 'A' || c > 'Z' {
			break
		}
		offset++
	}
	if offset == 0 || offset >= size || addr[offset] == '0' {
		return false
	}
	for offset < size {
		c := addr[offset]
		if c < '0' || c > '9' {
			return false
		}
		offset++
	}
	return offset == size
}

// ParseIndex decodes the leading column letters of str and returns the
// 1-based column with the number of bytes consumed. Columns past MaxColumn
// are reported as MaxColumn+1.
func ParseIndex(str string) (int64, int) {
	if len(str) == 0 {
		return 0, 0
	}
	var (
		offset int
		index  int64
	)
	for offset < len(str) && isLetter(rune(str[offset])) {
		delta := byte('A')
		if isLower(rune(str[offset])) {
			delta = 'a'
		}
		if index <= MaxColumn {
			index = min(index*26+int64(str[offset]-delta+1), MaxColumn+1)
		}
		offset++
	}
	return index, offset
}

func IndexToString(ix int64) string {
	var result []byte
	for ix > 0 {
		ix--
		result = append(result, byte('A'+ix%26))
		ix /= 26
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return string(result)
}

func isLower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func isUpper(c rune) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c rune) bool {
	return isLower(c) || isUpper(c)
}

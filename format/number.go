package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/midbel/sheetcalc/value"
)

var ErrPattern = errors.New("invalid pattern")

type numberFormatter struct {
	minInt int
	minDec int
	maxDec int

	signAlways  bool
	hasGrouping bool

	decimalSep  byte
	thousandSep byte
}

// ParseNumberFormatter compiles a pattern such as "#,##0.00". A 0 is a
// mandatory digit, a # an optional one, a comma in the integral part turns
// on grouping by thousands and a leading + always prints the sign.
func ParseNumberFormatter(pattern string) (Formatter, error) {
	nf := numberFormatter{
		decimalSep:  '.',
		thousandSep: ',',
	}
	left, right, _ := strings.Cut(pattern, ".")
	if strings.HasPrefix(left, "+") {
		nf.signAlways = true
		left = left[1:]
	}
	if left == "" {
		return nil, fmt.Errorf("%w: %q: missing integral part", ErrPattern, pattern)
	}
	optional := false
	for i := 0; i < len(right); i++ {
		switch {
		case right[i] == '0' && !optional:
			nf.minDec++
			nf.maxDec++
		case right[i] == '#':
			optional = true
			nf.maxDec++
		default:
			return nil, fmt.Errorf("%w: %q: unexpected character in fractional part", ErrPattern, pattern)
		}
	}
	optional = false
	for i := len(left) - 1; i >= 0; i-- {
		switch {
		case left[i] == ',':
			nf.hasGrouping = true
		case left[i] == '0' && !optional:
			nf.minInt++
		case left[i] == '#':
			optional = true
		default:
			return nil, fmt.Errorf("%w: %q: unexpected character in integral part", ErrPattern, pattern)
		}
	}
	return nf, nil
}

func (nf numberFormatter) Format(v value.Value) (string, error) {
	vf, ok := v.(value.Float)
	if !ok {
		return "", fmt.Errorf("%s: value is not a number", v)
	}
	var (
		scale   = math.Pow10(nf.maxDec)
		rounded = math.Round(float64(vf)*scale) / scale
		signed  = rounded < 0
		str     = strconv.FormatFloat(math.Abs(rounded), 'f', nf.maxDec, 64)
	)
	left, right, _ := strings.Cut(str, ".")
	right = strings.TrimRight(right, "0")
	if n := len(right); n < nf.minDec {
		right += strings.Repeat("0", nf.minDec-n)
	}
	if n := len(left); n < nf.minInt {
		left = strings.Repeat("0", nf.minInt-n) + left
	}
	if left == "0" && nf.minInt == 0 && right != "" {
		left = ""
	}
	if nf.hasGrouping {
		left = nf.group(left)
	}

	var buf strings.Builder
	if signed {
		buf.WriteByte('-')
	} else if nf.signAlways {
		buf.WriteByte('+')
	}
	buf.WriteString(left)
	if right != "" {
		buf.WriteByte(nf.decimalSep)
		buf.WriteString(right)
	}
	return buf.String(), nil
}

func (nf numberFormatter) group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var (
		buf  strings.Builder
		head = len(digits) % 3
	)
	if head > 0 {
		buf.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if buf.Len() > 0 {
			buf.WriteByte(nf.thousandSep)
		}
		buf.WriteString(digits[i : i+3])
	}
	return buf.String()
}

package value

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type Blank struct{}

func Empty() ScalarValue {
	return Blank{}
}

func (Blank) Type() string {
	return TypeBlank
}

func (Blank) Kind() ValueKind {
	return KindScalar
}

func (Blank) String() string {
	return ""
}

func (Blank) Scalar() any {
	return nil
}

func (Blank) ToFloat() (Float, error) {
	return 0, nil
}

func (Blank) ToText() (Text, error) {
	return "", nil
}

func (Blank) ToBool() (Boolean, error) {
	return false, nil
}

type Float float64

func (Float) Type() string {
	return TypeNumber
}

func (Float) Kind() ValueKind {
	return KindScalar
}

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

func (f Float) Scalar() any {
	return float64(f)
}

func (f Float) ToFloat() (Float, error) {
	return f, nil
}

func (f Float) ToText() (Text, error) {
	return Text(f.String()), nil
}

func (f Float) ToBool() (Boolean, error) {
	return Boolean(f != 0), nil
}

func (f Float) Equal(other Value) (bool, error) {
	x, ok := other.(Float)
	if !ok {
		return false, ErrCompatible
	}
	return f == x, nil
}

func (f Float) Less(other Value) (bool, error) {
	x, ok := other.(Float)
	if !ok {
		return false, ErrCompatible
	}
	return f < x, nil
}

type Text string

func (Text) Type() string {
	return TypeText
}

func (Text) Kind() ValueKind {
	return KindScalar
}

func (t Text) String() string {
	return string(t)
}

func (t Text) Scalar() any {
	return string(t)
}

func (t Text) ToFloat() (Float, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrValue
	}
	return Float(n), nil
}

func (t Text) ToText() (Text, error) {
	return t, nil
}

func (t Text) ToBool() (Boolean, error) {
	switch strings.ToUpper(string(t)) {
	case "TRUE":
		return true, nil
	case "FALSE":
		return false, nil
	default:
		return false, ErrValue
	}
}

func (t Text) Equal(other Value) (bool, error) {
	x, ok := other.(Text)
	if !ok {
		return false, ErrCompatible
	}
	return strings.EqualFold(string(t), string(x)), nil
}

func (t Text) Less(other Value) (bool, error) {
	x, ok := other.(Text)
	if !ok {
		return false, ErrCompatible
	}
	return strings.ToLower(string(t)) < strings.ToLower(string(x)), nil
}

type Boolean bool

func (Boolean) Type() string {
	return TypeBool
}

func (Boolean) Kind() ValueKind {
	return KindScalar
}

func (b Boolean) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (b Boolean) Scalar() any {
	return bool(b)
}

func (b Boolean) ToFloat() (Float, error) {
	if !b {
		return 0, nil
	}
	return 1, nil
}

func (b Boolean) ToText() (Text, error) {
	return Text(b.String()), nil
}

func (b Boolean) ToBool() (Boolean, error) {
	return b, nil
}

func (b Boolean) Equal(other Value) (bool, error) {
	x, ok := other.(Boolean)
	if !ok {
		return false, ErrCompatible
	}
	return b == x, nil
}

func (b Boolean) Less(other Value) (bool, error) {
	x, ok := other.(Boolean)
	if !ok {
		return false, ErrCompatible
	}
	return !bool(b) && bool(x), nil
}

// epoch is the origin of spreadsheet serial dates.
var epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

type Date time.Time

// DateFromSerial converts a serial day number into a date.
func DateFromSerial(serial float64) Date {
	days, frac := math.Modf(serial)
	t := epoch.AddDate(0, 0, int(days))
	t = t.Add(time.Duration(frac * float64(24*time.Hour)))
	return Date(t)
}

func (Date) Type() string {
	return TypeDate
}

func (Date) Kind() ValueKind {
	return KindScalar
}

func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

func (d Date) Scalar() any {
	return time.Time(d)
}

// ToFloat returns the serial day number of the date.
func (d Date) ToFloat() (Float, error) {
	diff := time.Time(d).Sub(epoch)
	return Float(diff.Hours() / 24), nil
}

func (d Date) ToText() (Text, error) {
	return Text(d.String()), nil
}

func (d Date) ToBool() (Boolean, error) {
	return Boolean(!time.Time(d).IsZero()), nil
}

func (d Date) Equal(other Value) (bool, error) {
	x, ok := other.(Date)
	if !ok {
		return false, ErrCompatible
	}
	return time.Time(d).Equal(time.Time(x)), nil
}

func (d Date) Less(other Value) (bool, error) {
	x, ok := other.(Date)
	if !ok {
		return false, ErrCompatible
	}
	return time.Time(d).Before(time.Time(x)), nil
}

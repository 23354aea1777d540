package format

import (
	"github.com/midbel/sheetcalc/value"
)

const (
	DefaultNumberPattern = "#,##0.##"
	DefaultDatePattern   = "YYYY-0MM-0DD"
)

type Formatter interface {
	Format(value.Value) (string, error)
}

// ValueFormatter selects a Formatter from the type of the value to format.
// Values without a registered formatter are printed as they are.
type ValueFormatter struct {
	formatters map[string]Formatter
}

func FormatValue() *ValueFormatter {
	vf := ValueFormatter{
		formatters: make(map[string]Formatter),
	}
	return &vf
}

func (vf *ValueFormatter) Set(kind string, formatter Formatter) {
	vf.formatters[kind] = formatter
}

func (vf *ValueFormatter) Number(pattern string) error {
	f, err := ParseNumberFormatter(pattern)
	if err == nil {
		vf.Set(value.TypeNumber, f)
	}
	return err
}

func (vf *ValueFormatter) Date(pattern string) error {
	f, err := ParseDateFormatter(pattern)
	if err == nil {
		vf.Set(value.TypeDate, f)
	}
	return err
}

func (vf *ValueFormatter) Format(v value.Value) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(value.ScalarValue)
	if !ok {
		return v.String(), nil
	}
	if f, ok := vf.formatters[s.Type()]; ok {
		return f.Format(v)
	}
	return v.String(), nil
}

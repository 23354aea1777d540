package format

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/midbel/sheetcalc/value"
)

func init() {
	// longest patterns first so that DDDD is never read as DD twice
	slices.SortStableFunc(dateFieldsWriter, func(a, b dateFieldPattern) int {
		return cmp.Compare(len(b.Pattern), len(a.Pattern))
	})
}

type dateFieldPattern struct {
	Pattern string
	Func    dateWriter
}

type dateWriter func(*strings.Builder, time.Time)

var dateFieldsWriter = []dateFieldPattern{
	{Pattern: "YYYY", Func: writeYearLong},
	{Pattern: "YY", Func: writeYearShort},
	{Pattern: "MM", Func: writeMonth},
	{Pattern: "0MM", Func: writeMonthPadded},
	{Pattern: "MMM", Func: writeMonthNameShort},
	{Pattern: "MMMM", Func: writeMonthNameLong},
	{Pattern: "DD", Func: writeDay},
	{Pattern: "0DD", Func: writeDayPadded},
	{Pattern: "DDD", Func: writeDayNameShort},
	{Pattern: "DDDD", Func: writeDayNameLong},
	{Pattern: "JJJ", Func: writeYearDay},
	{Pattern: "0JJJ", Func: writeYearDayPadded},
	{Pattern: "hh", Func: writeHour},
	{Pattern: "0hh", Func: writeHourPadded},
	{Pattern: "mm", Func: writeMinute},
	{Pattern: "0mm", Func: writeMinutePadded},
	{Pattern: "ss", Func: writeSecond},
	{Pattern: "0ss", Func: writeSecondPadded},
}

type dateFormatter struct {
	writers []dateWriter
}

// ParseDateFormatter compiles a date pattern. Characters that are not part
// of a field are copied as is.
func ParseDateFormatter(pattern string) (Formatter, error) {
	var df dateFormatter
	for i := 0; i < len(pattern); {
		ix := slices.IndexFunc(dateFieldsWriter, func(k dateFieldPattern) bool {
			return strings.HasPrefix(pattern[i:], k.Pattern)
		})
		if ix >= 0 {
			df.writers = append(df.writers, dateFieldsWriter[ix].Func)
			i += len(dateFieldsWriter[ix].Pattern)
			continue
		}
		df.writers = append(df.writers, writeLiteralDate(pattern[i]))
		i++
	}
	return df, nil
}

func (f dateFormatter) Format(v value.Value) (string, error) {
	tv, ok := v.(value.Date)
	if !ok {
		return "", fmt.Errorf("%s: value is not a date", v)
	}
	if len(f.writers) == 0 {
		return v.String(), nil
	}
	var str strings.Builder
	for i := range f.writers {
		f.writers[i](&str, time.Time(tv))
	}
	return str.String(), nil
}

func writeLiteralDate(char byte) dateWriter {
	return func(w *strings.Builder, _ time.Time) {
		w.WriteByte(char)
	}
}

func writePadded(w *strings.Builder, n, width int) {
	str := strconv.Itoa(n)
	for i := len(str); i < width; i++ {
		w.WriteByte('0')
	}
	w.WriteString(str)
}

func writeYearLong(w *strings.Builder, t time.Time) {
	writePadded(w, t.Year(), 4)
}

func writeYearShort(w *strings.Builder, t time.Time) {
	writePadded(w, t.Year()%100, 2)
}

func writeMonth(w *strings.Builder, t time.Time) {
	w.WriteString(strconv.Itoa(int(t.Month())))
}

func writeMonthPadded(w *strings.Builder, t time.Time) {
	writePadded(w, int(t.Month()), 2)
}

func writeMonthNameShort(w *strings.Builder, t time.Time) {
	w.WriteString(t.Month().String()[:3])
}

func writeMonthNameLong(w *strings.Builder, t time.Time) {
	w.WriteString(t.Month().String())
}

func writeDay(w *strings.Builder, t time.Time) {
	w.WriteString(strconv.Itoa(t.Day()))
}

func writeDayPadded(w *strings.Builder, t time.Time) {
	writePadded(w, t.Day(), 2)
}

func writeDayNameShort(w *strings.Builder, t time.Time) {
	w.WriteString(t.Weekday().String()[:3])
}

func writeDayNameLong(w *strings.Builder, t time.Time) {
	w.WriteString(t.Weekday().String())
}

func writeYearDay(w *strings.Builder, t time.Time) {
	w.WriteString(strconv.Itoa(t.YearDay()))
}

func writeYearDayPadded(w *strings.Builder, t time.Time) {
	writePadded(w, t.YearDay(), 3)
}

func writeHour(w *strings.Builder, t time.Time) {
	w.WriteString(strconv.Itoa(t.Hour()))
}

func writeHourPadded(w *strings.Builder, t time.Time) {
	writePadded(w, t.Hour(), 2)
}

func writeMinute(w *strings.Builder, t time.Time) {
	w.WriteString(strconv.Itoa(t.Minute()))
}

func writeMinutePadded(w *strings.Builder, t time.Time) {
	writePadded(w, t.Minute(), 2)
}

func writeSecond(w *strings.Builder, t time.Time) {
	w.WriteString(strconv.Itoa(t.Second()))
}

func writeSecondPadded(w *strings.Builder, t time.Time) {
	writePadded(w, t.Second(), 2)
}

package value

import (
	"fmt"
	"time"
)

type toFloat interface {
	ToFloat() (Float, error)
}

type toText interface {
	ToText() (Text, error)
}

type toBool interface {
	ToBool() (Boolean, error)
}

func CastToArray(val Value) (Array, error) {
	arr, ok := val.(Array)
	if !ok {
		return arr, ErrCast
	}
	return arr, nil
}

func True(val Value) bool {
	b, err := CastToBool(val)
	return err == nil && bool(b)
}

// CastToFloat converts val to a number. Text must hold a valid number;
// anything that can not be converted fails with ErrValue.
func CastToFloat(val Value) (Float, error) {
	switch v := val.(type) {
	case nil:
		return 0, nil
	case Error:
		return 0, v
	case toFloat:
		return v.ToFloat()
	default:
		return 0, fmt.Errorf("%w: %s can not be used as number", ErrValue, typeOf(val))
	}
}

func CastToText(val Value) (Text, error) {
	switch v := val.(type) {
	case nil:
		return "", nil
	case Error:
		return "", v
	case toText:
		return v.ToText()
	default:
		return "", fmt.Errorf("%w: %s can not be used as text", ErrValue, typeOf(val))
	}
}

func CastToBool(val Value) (Boolean, error) {
	switch v := val.(type) {
	case nil:
		return false, nil
	case Error:
		return false, v
	case toBool:
		return v.ToBool()
	default:
		return false, fmt.Errorf("%w: %s can not be used as boolean", ErrValue, typeOf(val))
	}
}

func CastToDate(val Value) (Date, error) {
	switch v := val.(type) {
	case Date:
		return v, nil
	case Float:
		return DateFromSerial(float64(v)), nil
	case Text:
		t, err := time.Parse("2006-01-02", string(v))
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q is not a date", ErrValue, string(v))
		}
		return Date(t), nil
	case Error:
		return Date{}, v
	default:
		return Date{}, fmt.Errorf("%w: %s can not be used as date", ErrValue, typeOf(val))
	}
}

// Of converts a go value into a scalar value.
func Of(v any) (ScalarValue, error) {
	switch v := v.(type) {
	case nil:
		return Empty(), nil
	case ScalarValue:
		return v, nil
	case string:
		return Text(v), nil
	case bool:
		return Boolean(v), nil
	case float64:
		return Float(v), nil
	case float32:
		return Float(v), nil
	case int:
		return Float(v), nil
	case int64:
		return Float(v), nil
	case int32:
		return Float(v), nil
	case uint:
		return Float(v), nil
	case uint64:
		return Float(v), nil
	case time.Time:
		return Date(v), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrCast, v)
	}
}

func typeOf(val Value) string {
	if s, ok := val.(ScalarValue); ok {
		return s.Type()
	}
	if a, ok := val.(Array); ok {
		return a.Type()
	}
	return fmt.Sprintf("%T", val)
}

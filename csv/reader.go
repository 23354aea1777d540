package csv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	quote = '"'
	nl    = '\n'
	cr    = '\r'
)

var (
	ErrQuote  = errors.New("unexpected quote in field")
	ErrFields = errors.New("invalid number of fields")

	errUnterminated = errors.New("unterminated quoted field")
	errCharacter    = errors.New("unexpected character after field")
)

type Reader struct {
	inner         *bufio.Reader
	Comma         byte
	FieldsPerLine int
	TrimSpace     bool

	line  int
	atEOF bool
}

func NewReader(r io.Reader) *Reader {
	rs := Reader{
		inner: bufio.NewReader(r),
		Comma: ',',
	}
	return &rs
}

func (r *Reader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rs, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, rs)
	}
	return all, nil
}

// Read returns the fields of the next record. A quoted field can span
// several lines.
func (r *Reader) Read() ([]string, error) {
	if r.atEOF {
		return nil, io.EOF
	}
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	r.line++

	var res []string
	for i := 0; ; {
		var (
			field []byte
			size  int
		)
		if i < len(line) && line[i] == quote {
			for {
				field, size, err = readQuotedField(line[i:])
				if !errors.Is(err, errUnterminated) || r.atEOF {
					break
				}
				next, err1 := r.readLine()
				if err1 != nil {
					break
				}
				line = append(line, next...)
			}
		} else {
			field, size, err = r.readDefaultField(line[i:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		res = append(res, r.clean(field))

		i += size
		if i >= len(line) || line[i] == nl || line[i] == cr {
			break
		}
		if line[i] != r.Comma {
			return nil, fmt.Errorf("line %d: %w", r.line, errCharacter)
		}
		i++
	}
	if r.FieldsPerLine > 0 && len(res) != r.FieldsPerLine {
		return nil, fmt.Errorf("line %d: %w: want %d, got %d", r.line, ErrFields, r.FieldsPerLine, len(res))
	}
	return res, nil
}

func (r *Reader) readLine() ([]byte, error) {
	line, err := r.inner.ReadBytes(nl)
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	r.atEOF = true
	if len(line) == 0 {
		return nil, io.EOF
	}
	return line, nil
}

func (r *Reader) clean(field []byte) string {
	if r.TrimSpace {
		field = bytes.TrimSpace(field)
	}
	return string(field)
}

func readQuotedField(line []byte) ([]byte, int, error) {
	var (
		field  []byte
		offset = 1
	)
	for offset < len(line) {
		if line[offset] == quote {
			if offset+1 < len(line) && line[offset+1] == quote {
				field = append(field, quote)
				offset += 2
				continue
			}
			return field, offset + 1, nil
		}
		field = append(field, line[offset])
		offset++
	}
	return nil, 0, errUnterminated
}

func (r *Reader) readDefaultField(line []byte) ([]byte, int, error) {
	var offset int
	for offset < len(line) {
		switch line[offset] {
		case quote:
			return nil, 0, ErrQuote
		case r.Comma, cr, nl:
			return line[:offset], offset, nil
		default:
			offset++
		}
	}
	return line[:offset], offset, nil
}

package oxml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"

	sax "github.com/midbel/codecs/xml"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type reader struct {
	reader *zip.ReadCloser
	base   string
}

func readFile(name string) (*reader, error) {
	z, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	r := reader{
		reader: z,
		base:   wbBaseDir,
	}
	return &r, nil
}

func (r *reader) Close() error {
	if r.reader == nil {
		return ErrFile
	}
	return r.reader.Close()
}

func (r *reader) readSharedStrings() ([]string, error) {
	var root xmlSharedStrings
	if err := r.decodeXML(r.fromBase("sharedStrings.xml"), &root); err != nil {
		if errors.Is(err, ErrFound) {
			return nil, nil
		}
		return nil, err
	}
	list := make([]string, 0, len(root.Values))
	for _, v := range root.Values {
		list = append(list, v.String())
	}
	return list, nil
}

func (r *reader) readWorkbook() ([]SheetInfo, error) {
	addr, err := r.readWorkbookLocation()
	if err != nil {
		return nil, err
	}
	r.base = path.Dir(addr)

	var root xmlWorkbook
	if err := r.decodeXML(addr, &root); err != nil {
		return nil, err
	}
	relations, err := r.readRelations(path.Join(r.base, "_rels", path.Base(addr)+".rels"))
	if err != nil {
		return nil, err
	}
	var list []SheetInfo
	for _, xs := range root.Sheets {
		ix := slices.IndexFunc(relations, func(r xmlRelation) bool {
			return r.Id == xs.Id && strings.HasSuffix(r.Type, typeSheetUrl)
		})
		if ix < 0 {
			return nil, fmt.Errorf("%w: no worksheet for sheet %s", ErrFile, xs.Name)
		}
		s := SheetInfo{
			Id:     xs.Id,
			Name:   xs.Name,
			Index:  xs.Index,
			Hidden: xs.State == "hidden" || xs.State == "veryHidden",
			target: relations[ix].Target,
		}
		list = append(list, s)
	}
	return list, nil
}

func (r *reader) readWorkbookLocation() (string, error) {
	relations, err := r.readRelations("_rels/.rels")
	if err != nil {
		return "", err
	}
	ix := slices.IndexFunc(relations, func(r xmlRelation) bool {
		return strings.HasSuffix(r.Type, typeDocUrl)
	})
	if ix < 0 {
		return "", fmt.Errorf("%w: workbook not found", ErrFile)
	}
	return strings.TrimPrefix(relations[ix].Target, "/"), nil
}

func (r *reader) readRelations(name string) ([]xmlRelation, error) {
	var root xmlRelations
	if err := r.decodeXML(name, &root); err != nil {
		return nil, err
	}
	return root.Relations, nil
}

func (r *reader) readWorksheet(info SheetInfo, shared []string) ([][]any, error) {
	z, err := r.openFile(r.fromBase(info.target))
	if err != nil {
		return nil, err
	}
	defer z.Close()

	rs := readSheet(z, shared)
	if err := rs.Read(); err != nil {
		return nil, fmt.Errorf("%s: %w", info.Name, err)
	}
	return rs.Grid()
}

func (r *reader) decodeXML(name string, ptr any) error {
	rs, err := r.openFile(name)
	if err != nil {
		return err
	}
	defer rs.Close()
	if err := xml.NewDecoder(rs).Decode(ptr); err != nil {
		return fmt.Errorf("%w: fail to read data from %s", ErrFile, name)
	}
	return nil
}

func (r *reader) openFile(name string) (io.ReadCloser, error) {
	ix := slices.IndexFunc(r.reader.File, func(f *zip.File) bool {
		return f.Name == name
	})
	if ix < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrFound)
	}
	return r.reader.File[ix].Open()
}

func (r *reader) fromBase(name string) string {
	if strings.HasPrefix(name, "/") {
		return strings.TrimPrefix(name, "/")
	}
	return path.Join(r.base, name)
}

type cellData struct {
	layout.Position
	Type    string
	Raw     string
	Formula string
	Shared  string
}

type sheetReader struct {
	reader        *sax.Reader
	sharedStrings []string

	line  int64
	cells []*cellData
}

func readSheet(r io.Reader, shared []string) *sheetReader {
	rs := sheetReader{
		reader:        sax.NewReader(r),
		sharedStrings: shared,
	}
	return &rs
}

func (r *sheetReader) Read() error {
	r.reader.Element(sax.LocalName("row"), r.onRow)
	r.reader.Element(sax.LocalName("c"), r.onCell)
	return r.reader.Start()
}

// Grid returns the cells read as rows of values. Missing cells are nil.
func (r *sheetReader) Grid() ([][]any, error) {
	var rows, cols int64
	for _, c := range r.cells {
		rows = max(rows, c.Line)
		cols = max(cols, c.Column)
	}
	grid := make([][]any, rows)
	for i := range grid {
		grid[i] = make([]any, cols)
	}
	shared := make(map[string]*cellData)
	for _, c := range r.cells {
		if _, ok := shared[c.Shared]; c.Shared != "" && c.Formula != "" && !ok {
			shared[c.Shared] = c
		}
	}
	for _, c := range r.cells {
		if src, ok := shared[c.Shared]; ok && c.Formula == "" {
			c.Formula = shiftFormula(src.Formula, c.Line-src.Line, c.Column-src.Column)
		}
		v, err := r.cellValue(c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Position, err)
		}
		col, row := c.Index()
		grid[row][col] = v
	}
	return grid, nil
}

func (r *sheetReader) cellValue(cell *cellData) (any, error) {
	if cell.Formula != "" {
		return "=" + cell.Formula, nil
	}
	switch cell.Type {
	case TypeSharedStr:
		n, err := strconv.Atoi(strings.TrimSpace(cell.Raw))
		if err != nil {
			return nil, fmt.Errorf("invalid shared string index: %s", cell.Raw)
		}
		if n < 0 || n >= len(r.sharedStrings) {
			return nil, fmt.Errorf("shared string index out of bounds")
		}
		return value.Text(r.sharedStrings[n]), nil
	case TypeInlineStr, TypeFormula:
		return value.Text(cell.Raw), nil
	case TypeBool:
		b, err := strconv.ParseBool(cell.Raw)
		if err != nil {
			return nil, err
		}
		return value.Boolean(b), nil
	case TypeError:
		if e, ok := value.ErrorFromCode(cell.Raw); ok {
			return e, nil
		}
		return value.ErrValue, nil
	case TypeDate:
		when, err := ParseDate(cell.Raw)
		if err != nil {
			return nil, err
		}
		return when, nil
	default:
		if cell.Raw == "" {
			return nil, nil
		}
		n, err := value.Text(cell.Raw).ToFloat()
		if err != nil {
			return value.Text(cell.Raw), nil
		}
		return n, nil
	}
}

func (r *sheetReader) onRow(rs *sax.Reader, el sax.E) error {
	line, err := strconv.ParseInt(el.GetAttributeValue("r"), 10, 64)
	if err != nil {
		if el.GetAttributeValue("r") != "" {
			return fmt.Errorf("%w: invalid row number", ErrFile)
		}
		line = r.line + 1
	}
	r.line = line
	return nil
}

func (r *sheetReader) onCell(rs *sax.Reader, el sax.E) error {
	if r.line == 0 {
		return fmt.Errorf("%w: cell outside of row", ErrFile)
	}
	cell := cellData{
		Type: el.GetAttributeValue("t"),
	}
	if addr := el.GetAttributeValue("r"); addr != "" {
		pos, err := layout.Parse(addr)
		if err != nil {
			return err
		}
		cell.Position = pos
	} else {
		cell.Position = layout.Position{
			Line:   r.line,
			Column: 1,
		}
		if n := len(r.cells); n > 0 && r.cells[n-1].Line == r.line {
			cell.Column = r.cells[n-1].Column + 1
		}
	}
	r.cells = append(r.cells, &cell)

	local := sax.LocalName("v")
	if cell.Type == TypeInlineStr {
		local = sax.LocalName("t")
	}
	rs.Element(local, func(rs *sax.Reader, _ sax.E) error {
		rs.OnText(func(_ *sax.Reader, str string) error {
			cell.Raw += str
			return nil
		})
		return nil
	})
	rs.Element(sax.LocalName("f"), func(rs *sax.Reader, el sax.E) error {
		return r.onFormula(&cell, el, rs)
	})
	return nil
}

// onFormula records the text of a formula. Cells sharing the formula of
// another cell only carry the index of the shared formula: their own
// formula is computed from it once the whole sheet is read.
func (r *sheetReader) onFormula(cell *cellData, el sax.E, rs *sax.Reader) error {
	if el.GetAttributeValue("t") == formulaShared {
		cell.Shared = el.GetAttributeValue("si")
	}
	if el.SelfClosed {
		return nil
	}
	rs.OnText(func(_ *sax.Reader, str string) error {
		cell.Formula += str
		return nil
	})
	return nil
}

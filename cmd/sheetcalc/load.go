package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/sheetcalc/csv"
	"github.com/midbel/sheetcalc/grid"
	"github.com/midbel/sheetcalc/oxml"
)

type Source struct {
	File  string
	Sep   string
	Sheet string
}

// Load reads the cells of the source and computes them.
func (s Source) Load() (*grid.Sheet, error) {
	if s.File == "" {
		return grid.NewSheet(grid.WithLogger(logger)), nil
	}
	ok, err := isZip(s.File)
	if err != nil {
		return nil, err
	}
	var (
		data [][]any
		name = s.Sheet
	)
	if ok {
		if name == "" {
			list, err := oxml.Sheets(s.File)
			if err != nil {
				return nil, err
			}
			if len(list) > 0 {
				name = list[0].Name
			}
		}
		data, err = oxml.ReadSheet(s.File, name)
	} else {
		var comma byte
		if comma, err = csv.ParseComma(s.Sep); err != nil {
			return nil, err
		}
		if name == "" {
			name = filepath.Base(s.File)
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		data, err = csv.ReadFile(s.File, comma)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("file read", "file", s.File, "sheet", name, "rows", len(data))

	sheet := grid.NewSheet(grid.WithName(name), grid.WithLogger(logger))
	return sheet, sheet.Load(data)
}

var magicZipBytes = [][]byte{
	{0x50, 0x4b, 0x03, 0x04},
	{0x50, 0x4b, 0x05, 0x06},
	{0x50, 0x4b, 0x07, 0x08},
}

func isZip(file string) (bool, error) {
	r, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer r.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	for _, mzb := range magicZipBytes {
		if bytes.Equal(magic, mzb) {
			return true, nil
		}
	}
	return false, nil
}

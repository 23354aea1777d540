package main

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/midbel/sheetcalc/format"
	"github.com/midbel/sheetcalc/grid"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

type cellStyleKind int8

const (
	styleText cellStyleKind = iota
	styleNumber
	styleError
)

// renderCells builds a table of the computed cells of view restricted to
// cols. The first column holds line numbers when lino is set.
func renderCells(view grid.View, cols []int64, vf *format.ValueFormatter, width int, lino bool) (*table.Table, error) {
	var (
		headers []string
		rows    [][]string
		kinds   [][]cellStyleKind
	)
	if lino {
		headers = append(headers, "#")
	}
	if len(cols) == 0 {
		rg := view.Bounds()
		for c := rg.Starts.Column; c <= rg.Ends.Column; c++ {
			cols = append(cols, c)
		}
	}
	for _, c := range cols {
		headers = append(headers, layout.IndexToString(c))
	}
	for line, cells := range grid.Rows(view, cols) {
		var (
			row  []string
			kind []cellStyleKind
		)
		if lino {
			row = append(row, strconv.FormatInt(line, 10))
			kind = append(kind, styleNumber)
		}
		for _, c := range cells {
			str, k, err := displayCell(c, vf)
			if err != nil {
				return nil, err
			}
			row = append(row, str)
			kind = append(kind, k)
		}
		rows = append(rows, row)
		kinds = append(kinds, kind)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			style := cellStyle
			if width > 0 {
				style = style.Width(width + 2).MaxWidth(width + 2)
			}
			switch kinds[row][col] {
			case styleNumber:
				style = style.Align(lipgloss.Right)
			case styleError:
				style = style.Inherit(errorStyle)
			}
			if lino && col == 0 {
				style = style.Inherit(labelStyle)
			}
			return style
		})
	return t, nil
}

func displayCell(c *grid.Cell, vf *format.ValueFormatter) (string, cellStyleKind, error) {
	if c.Err != nil {
		return c.Code(), styleError, nil
	}
	if c.Value == nil {
		return "", styleText, nil
	}
	str, err := vf.Format(c.Value)
	if err != nil {
		return "", styleText, err
	}
	if value.IsNumber(c.Value) {
		return str, styleNumber, nil
	}
	return str, styleText, nil
}

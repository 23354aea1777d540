package main

import (
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/midbel/cli"
	"github.com/midbel/sheetcalc/format"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/oxml"
	"github.com/midbel/sheetcalc/value"
)

type EvalCommand struct {
	Source
}

func (c EvalCommand) Run(args []string) error {
	set := cli.NewFlagSet("eval")
	set.StringVar(&c.File, "f", "", "load cells from file")
	set.StringVar(&c.Sep, "s", "", "csv field separator")
	set.StringVar(&c.Sheet, "r", "", "sheet to read from a xlsx file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() == 0 {
		return fmt.Errorf("no expression given")
	}
	sheet, err := c.Load()
	if err != nil {
		return err
	}
	var failed bool
	for _, expr := range set.Args() {
		res, err := sheet.Evaluate(expr)
		if err != nil {
			failed = true
			if value.Code(err) == value.CodeParse {
				lipgloss.Fprintln(os.Stdout, expr, errorStyle.Render(err.Error()))
			} else {
				lipgloss.Fprintln(os.Stdout, expr, "=", errorStyle.Render(value.Code(err)))
			}
			continue
		}
		fmt.Fprintln(os.Stdout, expr, "=", res)
	}
	if failed {
		return errFail
	}
	return nil
}

type PrintSheetCommand struct {
	Source
	Columns     string
	Width       int
	Lino        bool
	Pattern     string
	DatePattern string
}

func (c PrintSheetCommand) Run(args []string) error {
	set := cli.NewFlagSet("print")
	set.StringVar(&c.Sep, "s", "", "csv field separator")
	set.StringVar(&c.Sheet, "r", "", "sheet to read from a xlsx file")
	set.StringVar(&c.Columns, "c", "", "columns to print (A,C:E,A:F:2)")
	set.IntVar(&c.Width, "w", 0, "column width")
	set.BoolVar(&c.Lino, "n", false, "print line number")
	set.StringVar(&c.Pattern, "p", "", "pattern used to format numbers")
	set.StringVar(&c.DatePattern, "d", format.DefaultDatePattern, "pattern used to format dates")
	if err := set.Parse(args); err != nil {
		return err
	}
	c.File = set.Arg(0)
	if c.File == "" {
		return fmt.Errorf("no file given")
	}
	vf := format.FormatValue()
	if c.Pattern != "" {
		if err := vf.Number(c.Pattern); err != nil {
			return err
		}
	}
	if err := vf.Date(c.DatePattern); err != nil {
		return err
	}
	sheet, err := c.Load()
	if err != nil {
		return err
	}
	var cols []int64
	if c.Columns != "" {
		sel, err := layout.ParseSelection(c.Columns)
		if err != nil {
			return err
		}
		cols = sel.Columns(sheet.Bounds())
	}
	t, err := renderCells(sheet, cols, vf, c.Width, c.Lino)
	if err != nil {
		return err
	}
	_, err = lipgloss.Fprintln(os.Stdout, t.Render())
	return err
}

type InspectCellCommand struct {
	Source
}

func (c InspectCellCommand) Run(args []string) error {
	set := cli.NewFlagSet("inspect")
	set.StringVar(&c.Sep, "s", "", "csv field separator")
	set.StringVar(&c.Sheet, "r", "", "sheet to read from a xlsx file")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() < 2 {
		return fmt.Errorf("file and cell(s) expected")
	}
	c.File = set.Arg(0)
	sheet, err := c.Load()
	if err != nil {
		return err
	}
	for i := 1; i < set.NArg(); i++ {
		id := set.Arg(i)
		cell, err := sheet.GetCell(id)
		if err != nil {
			return err
		}
		dependents, err := sheet.Dependents(id)
		if err != nil {
			return err
		}
		precedents, err := sheet.Precedents(id)
		if err != nil {
			return err
		}
		lipgloss.Fprintln(os.Stdout, headerStyle.Render(cell.Position.String()))
		printField("input", cell.Raw)
		if cell.Err != nil {
			printField("error", errorStyle.Render(cell.Code()+" "+cell.Err.Error()))
		} else {
			printField("value", cell.Display())
		}
		printField("reads", joinPositions(cell.Dependencies()))
		printField("precedents", joinPositions(precedents))
		printField("dependents", joinPositions(dependents))
	}
	return nil
}

func printField(label, text string) {
	lipgloss.Fprintln(os.Stdout, labelStyle.Render(fmt.Sprintf("  %-12s", label+":")), text)
}

func joinPositions(list []layout.Position) string {
	parts := make([]string, 0, len(list))
	for _, p := range list {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ", ")
}

type GetInfoCommand struct{}

func (c GetInfoCommand) Run(args []string) error {
	set := cli.NewFlagSet("info")
	if err := set.Parse(args); err != nil {
		return err
	}
	list, err := oxml.Sheets(set.Arg(0))
	if err != nil {
		return err
	}
	for _, s := range list {
		state := "visible"
		if s.Hidden {
			state = "hidden"
		}
		sheet, err := Source{File: set.Arg(0), Sheet: s.Name}.Load()
		if err != nil {
			return err
		}
		dim := sheet.Bounds().Dimension()
		lipgloss.Fprintf(os.Stdout, "%d %s (%s): %d lines, %d columns, %d cells\n", s.Index, headerStyle.Render(s.Name), state, dim.Lines, dim.Columns, sheet.Len())
	}
	return nil
}

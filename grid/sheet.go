package grid

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/midbel/sheetcalc/formula"
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

var ErrCircular = fmt.Errorf("%w: circular reference", value.ErrRef)

// Sheet keeps a set of cells consistent: each time a cell changes, the
// formulas reading it, directly or not, are computed again.
//
// A Sheet is not safe for concurrent use.
type Sheet struct {
	name     string
	store    *Store
	registry *builtins.Registry
	vars     map[string]value.Value
	logger   *slog.Logger

	// cells sitting in a cycle, known while an update is running
	cyclic positionSet
}

func NewSheet(options ...Option) *Sheet {
	s := Sheet{
		name:     DefaultName,
		store:    NewStore(),
		registry: builtins.Default(),
		vars: map[string]value.Value{
			"TRUE":  value.Boolean(true),
			"FALSE": value.Boolean(false),
			"NULL":  value.Empty(),
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range options {
		o(&s)
	}
	return &s
}

func (s *Sheet) Name() string {
	return s.name
}

// SetCell sets the content of the cell id and recomputes the cells that
// depend on it. Only an invalid id is reported: a formula failing to
// compute stores its error on the cell.
func (s *Sheet) SetCell(id, text string) error {
	pos, err := s.parse(id)
	if err != nil {
		return err
	}
	s.SetAt(pos, text)
	return nil
}

// Set is the typed version of SetCell. Strings are handled like user
// input while other values are stored as they are.
func (s *Sheet) Set(id string, v any) error {
	pos, err := s.parse(id)
	if err != nil {
		return err
	}
	return s.setAny(pos, v)
}

func (s *Sheet) SetAt(pos layout.Position, text string) {
	s.update(parseInput(pos, text))
}

// Load sets every cell of grid, row by row, starting at A1.
func (s *Sheet) Load(grid [][]any) error {
	for i, row := range grid {
		for j, v := range row {
			pos := layout.FromIndex(int64(j), int64(i))
			if err := s.setAny(pos, v); err != nil {
				return fmt.Errorf("%s: %w", pos, err)
			}
		}
	}
	s.logger.Debug("grid loaded", "rows", len(grid), "cells", s.store.Len())
	return nil
}

// GetCell returns a copy of the cell id. The cell is blank when it has
// never been set.
func (s *Sheet) GetCell(id string) (*Cell, error) {
	pos, err := s.parse(id)
	if err != nil {
		return nil, err
	}
	return s.Cell(pos), nil
}

func (s *Sheet) Cell(pos layout.Position) *Cell {
	return s.store.Get(pos).clone()
}

// Evaluate computes a formula against the cells of the sheet without
// storing it. No dependency is recorded.
func (s *Sheet) Evaluate(text string) (value.Value, error) {
	ctx := formula.NewContext(layout.Position{}, sheetResolver{sheet: s})
	return formula.Eval(text, ctx)
}

func (s *Sheet) SetVariable(name string, v value.Value) {
	s.vars[strings.ToUpper(name)] = v
}

func (s *Sheet) Variable(name string) (value.Value, bool) {
	v, ok := s.vars[strings.ToUpper(name)]
	return v, ok
}

// Dependents returns the cells whose formula reads id, directly or
// through other cells.
func (s *Sheet) Dependents(id string) ([]layout.Position, error) {
	pos, err := s.parse(id)
	if err != nil {
		return nil, err
	}
	return s.store.Dependents(pos), nil
}

// Precedents returns the cells read by the formula of id, directly or
// through other cells.
func (s *Sheet) Precedents(id string) ([]layout.Position, error) {
	pos, err := s.parse(id)
	if err != nil {
		return nil, err
	}
	return s.store.Precedents(pos), nil
}

func (s *Sheet) Cells() []*Cell {
	list := s.store.Cells()
	for i := range list {
		list[i] = list[i].clone()
	}
	return list
}

func (s *Sheet) Bounds() *layout.Range {
	return s.store.Bounds()
}

func (s *Sheet) Len() int {
	return s.store.Len()
}

func (s *Sheet) parse(id string) (layout.Position, error) {
	pos, err := layout.Parse(id)
	if err != nil {
		return pos, err
	}
	if pos.Sheet != "" && !strings.EqualFold(pos.Sheet, s.name) {
		return pos, fmt.Errorf("%w: unknown sheet %s", value.ErrRef, pos.Sheet)
	}
	return pos.Key(), nil
}

func (s *Sheet) setAny(pos layout.Position, v any) error {
	if str, ok := v.(string); ok {
		s.SetAt(pos, str)
		return nil
	}
	val, err := value.Of(v)
	if err != nil {
		return err
	}
	if e, ok := val.(value.Error); ok {
		cell := blankCell(pos)
		cell.Raw = e.Code()
		cell.Err = e
		s.update(cell)
		return nil
	}
	cell := blankCell(pos)
	if !value.IsBlank(val) {
		cell.Raw = val.String()
		cell.Value = val
	}
	s.update(cell)
	return nil
}

func (s *Sheet) update(cell *Cell) {
	s.cyclic = make(positionSet)
	defer func() {
		s.cyclic = nil
	}()

	pos := cell.Position
	if _, ok := s.store.Lookup(pos); !ok && cell.Blank() && cell.Raw == "" {
		s.markCycles(pos)
		s.propagate(pos)
		return
	}
	cell = s.store.Upsert(cell)
	if !cell.IsFormula() || !s.compute(cell) {
		s.markCycles(pos)
	}
	s.propagate(pos)
}

// compute evaluates the formula of cell and records what it reads. When
// the cells read are not the same as before, the cycles going through cell
// are searched again. compute reports whether that search happened.
func (s *Sheet) compute(cell *Cell) bool {
	var (
		pos    = cell.Position
		before = cell.Dependencies()
	)
	s.store.ResetDependencies(pos)

	ctx := formula.NewContext(pos, sheetResolver{
		sheet: s,
		track: true,
	})
	res, err := formula.Eval(cell.Formula, ctx)
	cell.setResult(res, err)
	if err != nil && !errors.Is(err, ErrCircular) {
		s.logger.Debug("formula failed", "cell", pos, "formula", cell.Formula, "err", err)
	}
	changed := !slices.Equal(before, cell.deps)
	if changed {
		s.markCycles(pos)
	}
	if _, ok := s.cyclic[pos]; ok {
		cell.setResult(nil, circular(pos))
	}
	return changed
}

// markCycles looks for the cycles among pos and the cells depending on it.
// Members of a cycle get a reference error. Cells read by a cycle without
// being part of it are left untouched.
func (s *Sheet) markCycles(pos layout.Position) {
	pos = pos.Key()
	nodes := s.store.Dependents(pos)
	if !slices.Contains(nodes, pos) {
		nodes = append(nodes, pos)
	}
	var (
		cycles  = s.store.Cycles(nodes)
		members []layout.Position
	)
	for _, p := range nodes {
		if _, ok := cycles[p]; !ok {
			delete(s.cyclic, p)
			continue
		}
		s.cyclic[p] = struct{}{}
		members = append(members, p)
		if c, ok := s.store.Lookup(p); ok {
			c.setResult(nil, circular(p))
		}
	}
	if len(members) > 0 {
		slices.SortFunc(members, comparePositions)
		s.logger.Debug("cycle detected", "cell", pos, "members", members)
	}
}

func circular(pos layout.Position) error {
	return fmt.Errorf("%w: %s", ErrCircular, pos)
}

// propagate computes again the formulas depending on pos. Cells are
// visited so that a cell comes after the cells it reads; members of a
// cycle come last.
func (s *Sheet) propagate(pos layout.Position) {
	list := s.store.Dependents(pos)
	list = slices.DeleteFunc(list, func(p layout.Position) bool {
		return p == pos.Key()
	})
	if len(list) == 0 {
		return
	}
	order := s.sortDependents(list)
	s.logger.Debug("recalculate", "cell", pos, "dependents", len(order))
	for _, p := range order {
		cell, ok := s.store.Lookup(p)
		if !ok || !cell.IsFormula() {
			continue
		}
		s.compute(cell)
	}
}

func (s *Sheet) sortDependents(list []layout.Position) []layout.Position {
	var (
		set    = make(positionSet)
		done   = make(positionSet)
		degree = make(map[layout.Position]int)
		queue  []layout.Position
		order  []layout.Position
	)
	for _, p := range list {
		set[p] = struct{}{}
	}
	for _, p := range list {
		for _, d := range s.store.directPrecedents(p) {
			if _, ok := set[d]; ok {
				degree[p]++
			}
		}
		if degree[p] == 0 {
			queue = append(queue, p)
		}
	}
	release := func(p layout.Position) {
		order = append(order, p)
		done[p] = struct{}{}

		next := s.store.directDependents(p)
		slices.SortFunc(next, comparePositions)
		for _, d := range next {
			if _, ok := set[d]; !ok {
				continue
			}
			degree[d]--
			if degree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	for {
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			release(p)
		}
		var cyclic []layout.Position
		for _, p := range list {
			if _, ok := done[p]; ok {
				continue
			}
			if _, ok := s.cyclic[p]; ok {
				cyclic = append(cyclic, p)
			}
		}
		if len(cyclic) == 0 {
			break
		}
		for _, p := range cyclic {
			release(p)
		}
		queue = slices.DeleteFunc(queue, func(p layout.Position) bool {
			_, ok := done[p]
			return ok
		})
	}
	for _, p := range list {
		if _, ok := done[p]; !ok {
			order = append(order, p)
		}
	}
	return order
}

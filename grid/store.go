package grid

import (
	"maps"
	"slices"

	"github.com/midbel/sheetcalc/layout"
)

type positionSet map[layout.Position]struct{}

// Store owns the cells of a sheet and the dependency edges between them.
// Edges are kept in both directions: on the cell for the positions its
// formula reads and in a reverse index for the cells reading a position.
type Store struct {
	cells   map[layout.Position]*Cell
	reverse map[layout.Position]positionSet
}

func NewStore() *Store {
	return &Store{
		cells:   make(map[layout.Position]*Cell),
		reverse: make(map[layout.Position]positionSet),
	}
}

// Get returns the cell at pos. A blank cell is returned when pos has never
// been set; it is not added to the store.
func (s *Store) Get(pos layout.Position) *Cell {
	if c, ok := s.cells[pos.Key()]; ok {
		return c
	}
	return blankCell(pos)
}

func (s *Store) Lookup(pos layout.Position) (*Cell, bool) {
	c, ok := s.cells[pos.Key()]
	return c, ok
}

// Upsert stores cell. When a cell already exists at the same position, its
// content and its dependencies are replaced by the ones of cell and the
// stored cell is returned.
func (s *Store) Upsert(cell *Cell) *Cell {
	pos := cell.Position.Key()
	curr, ok := s.cells[pos]
	if !ok {
		curr = blankCell(pos)
		s.cells[pos] = curr
	}
	curr.Raw = cell.Raw
	curr.Formula = cell.Formula
	curr.Value = cell.Value
	curr.Err = cell.Err

	s.ResetDependencies(pos)
	for _, d := range cell.deps {
		s.AddDependency(pos, d)
	}
	return curr
}

func (s *Store) AddDependency(origin, ref layout.Position) {
	origin, ref = origin.Key(), ref.Key()
	cell, ok := s.cells[origin]
	if !ok {
		cell = blankCell(origin)
		s.cells[origin] = cell
	}
	if cell.hasDependency(ref) {
		return
	}
	cell.deps = append(cell.deps, ref)
	set, ok := s.reverse[ref]
	if !ok {
		set = make(positionSet)
		s.reverse[ref] = set
	}
	set[origin] = struct{}{}
}

func (s *Store) ResetDependencies(origin layout.Position) {
	origin = origin.Key()
	cell, ok := s.cells[origin]
	if !ok {
		return
	}
	for _, d := range cell.deps {
		set := s.reverse[d]
		delete(set, origin)
		if len(set) == 0 {
			delete(s.reverse, d)
		}
	}
	cell.deps = nil
}

// Dependents returns every cell reading pos, directly or through other
// cells. pos itself is part of the result when it sits in a cycle.
func (s *Store) Dependents(pos layout.Position) []layout.Position {
	return s.walk(pos.Key(), s.directDependents)
}

// Precedents returns every cell read by the formula of pos, directly or
// through other cells.
func (s *Store) Precedents(pos layout.Position) []layout.Position {
	return s.walk(pos.Key(), s.directPrecedents)
}

// Cycles returns the positions of nodes sitting in a cycle of the graph
// restricted to nodes: members of a strongly connected component of more
// than one cell and cells reading themselves.
func (s *Store) Cycles(nodes []layout.Position) positionSet {
	t := tarjan{
		store:   s,
		nodes:   make(positionSet),
		index:   make(map[layout.Position]int),
		low:     make(map[layout.Position]int),
		onStack: make(positionSet),
		cyclic:  make(positionSet),
	}
	for _, p := range nodes {
		t.nodes[p.Key()] = struct{}{}
	}
	for p := range t.nodes {
		if _, ok := t.index[p]; !ok {
			t.connect(p)
		}
	}
	return t.cyclic
}

func (s *Store) Len() int {
	return len(s.cells)
}

// Cells returns the stored cells sorted row by row.
func (s *Store) Cells() []*Cell {
	list := slices.Collect(maps.Values(s.cells))
	slices.SortFunc(list, func(a, b *Cell) int {
		return comparePositions(a.Position, b.Position)
	})
	return list
}

func (s *Store) Bounds() *layout.Range {
	var rg layout.Range
	for pos := range s.cells {
		rg.Extend(pos)
	}
	return &rg
}

func (s *Store) directDependents(pos layout.Position) []layout.Position {
	return slices.Collect(maps.Keys(s.reverse[pos]))
}

func (s *Store) directPrecedents(pos layout.Position) []layout.Position {
	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}
	return cell.deps
}

func (s *Store) walk(start layout.Position, next func(layout.Position) []layout.Position) []layout.Position {
	var list []layout.Position
	s.visit(start, next, func(p layout.Position) bool {
		list = append(list, p)
		return true
	})
	slices.SortFunc(list, comparePositions)
	return list
}

// visit goes through the graph from start using an explicit queue. The
// start position is only visited when it can be reached from itself.
func (s *Store) visit(start layout.Position, next func(layout.Position) []layout.Position, do func(layout.Position) bool) {
	var (
		seen  = make(positionSet)
		queue = slices.Clone(next(start))
	)
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		if !do(pos) {
			return
		}
		queue = append(queue, next(pos)...)
	}
}

type tarjan struct {
	store   *Store
	nodes   positionSet
	index   map[layout.Position]int
	low     map[layout.Position]int
	stack   []layout.Position
	onStack positionSet
	cyclic  positionSet
}

func (t *tarjan) connect(pos layout.Position) {
	t.index[pos] = len(t.index)
	t.low[pos] = t.index[pos]
	t.stack = append(t.stack, pos)
	t.onStack[pos] = struct{}{}

	for _, d := range t.store.directPrecedents(pos) {
		if _, ok := t.nodes[d]; !ok {
			continue
		}
		if _, ok := t.index[d]; !ok {
			t.connect(d)
			t.low[pos] = min(t.low[pos], t.low[d])
		} else if _, ok := t.onStack[d]; ok {
			t.low[pos] = min(t.low[pos], t.index[d])
		}
	}
	if t.low[pos] != t.index[pos] {
		return
	}
	var component []layout.Position
	for {
		n := len(t.stack) - 1
		p := t.stack[n]
		t.stack = t.stack[:n]
		delete(t.onStack, p)
		component = append(component, p)
		if p == pos {
			break
		}
	}
	if len(component) == 1 && !slices.Contains(t.store.directPrecedents(pos), pos) {
		return
	}
	for _, p := range component {
		t.cyclic[p] = struct{}{}
	}
}

func comparePositions(a, b layout.Position) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

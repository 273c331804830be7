package tenner

// Backtracking search shared by Solve, CountSolutions and
// HasUniqueSolution. Cells are picked by minimum remaining values,
// candidates are filtered by placement legality plus column-sum
// reachability, and each placement is forward-checked against the empty
// cells it constrains before recursing. The three entry points differ only
// in the solution-count cutoff.

// PossibleValues returns the legal digits for the empty cell at p, in
// ascending order. A digit is legal iff placing it violates no adjacency or
// row rule and leaves the column's target sum reachable: the remaining
// deficit must fit in [0, 9*emptyCellsLeft]. Returns nil candidates for a
// filled or out-of-bounds cell.
func PossibleValues(g *Grid, targetSums []int, p Position) []Cell {
	candidates := make([]Cell, 0, 10)
	if !g.InBounds(p) || g.At(p) != Empty || p.Col >= len(targetSums) {
		return candidates
	}
	sum, empty := g.ColumnSum(p.Col)
	for v := Cell(0); v <= 9; v++ {
		if !IsValidPlacement(g, p, v) {
			continue
		}
		remaining := targetSums[p.Col] - sum - int(v)
		if remaining < 0 || remaining > (empty-1)*9 {
			continue
		}
		candidates = append(candidates, v)
	}
	return candidates
}

// selectCell picks the next empty cell by MRV, ties broken by scan order.
// A cell with zero candidates is returned immediately: descending anywhere
// else is wasted work when that cell can never be filled.
func selectCell(g *Grid, targetSums []int) (best Position, candidates []Cell, found bool) {
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			p := Position{Row: row, Col: col}
			if g.At(p) != Empty {
				continue
			}
			c := PossibleValues(g, targetSums, p)
			if len(c) == 0 {
				return p, c, true
			}
			if !found || len(c) < len(candidates) {
				best, candidates, found = p, c, true
			}
		}
	}
	return
}

// forwardCheck reports whether every still-empty cell constrained by the
// placement at p (same row, or one of its 8 neighbors) retains at least one
// candidate. Detects dead branches one level before the recursion would.
func forwardCheck(g *Grid, targetSums []int, p Position) bool {
	for col := 0; col < g.Cols; col++ {
		q := Position{Row: p.Row, Col: col}
		if g.At(q) == Empty && len(PossibleValues(g, targetSums, q)) == 0 {
			return false
		}
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			q := Position{Row: p.Row + dr, Col: p.Col + dc}
			if g.InBounds(q) && g.At(q) == Empty &&
				len(PossibleValues(g, targetSums, q)) == 0 {
				return false
			}
		}
	}
	return true
}

// NextHint suggests the most constrained empty cell and its candidates:
// the same MRV pick the solver would make next. found is false on a full
// grid; zero candidates mean the position is already contradictory.
func NextHint(g *Grid, targetSums []int) (p Position, candidates []Cell, found bool) {
	return selectCell(g, targetSums)
}

type search struct {
	grid         *Grid
	targetSums   []int
	maxSolutions int
	count        int
	first        Grid
}

// run returns true once the solution cutoff is reached, unwinding the whole
// stack. Every placement is undone on every exit path: the grid comes back
// exactly as it went in.
func (s *search) run() bool {
	p, candidates, anyEmpty := selectCell(s.grid, s.targetSums)
	if !anyEmpty {
		// By construction the constraints held all the way down; this is
		// the authoritative final check regardless.
		if IsPuzzleComplete(s.grid, s.targetSums) {
			s.count++
			if s.count == 1 {
				s.first = s.grid.Clone()
			}
		}
		return s.count >= s.maxSolutions
	}
	for _, v := range candidates {
		s.grid.Set(p, v)
		if forwardCheck(s.grid, s.targetSums, p) && s.run() {
			s.grid.Clear(p)
			return true
		}
		s.grid.Clear(p)
	}
	return false
}

func newSearch(g Grid, targetSums []int, maxSolutions int) (*search, error) {
	if err := g.shape(targetSums); err != nil {
		return nil, err
	}
	work := g.Clone()
	return &search{
		grid:         &work,
		targetSums:   targetSums,
		maxSolutions: maxSolutions,
	}, nil
}

// Solve returns a completed grid satisfying every constraint, or
// ErrNoSolution. ErrDimensionMismatch is a precondition failure reported
// before any search happens. The input grid is never mutated.
func Solve(g Grid, targetSums []int) (Grid, error) {
	s, err := newSearch(g, targetSums, 1)
	if err != nil {
		return Grid{}, err
	}
	s.run()
	if s.count == 0 {
		return Grid{}, ErrNoSolution
	}
	return s.first, nil
}

// CountSolutions counts completions of g, stopping once max are found.
func CountSolutions(g Grid, targetSums []int, max int) (int, error) {
	s, err := newSearch(g, targetSums, max)
	if err != nil {
		return 0, err
	}
	s.run()
	return s.count, nil
}

// HasUniqueSolution reports whether g has exactly one completion. The
// search stops as soon as a second solution turns up.
func HasUniqueSolution(g Grid, targetSums []int) (bool, error) {
	count, err := CountSolutions(g, targetSums, 2)
	if err != nil {
		return false, err
	}
	return count == 1, nil
}

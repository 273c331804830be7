package tenner

// Placement rules: a digit may not repeat anywhere in its row, nor in any
// of the 8 neighboring cells (diagonals included). Column sums are the only
// global constraint and are handled by the solver's feasibility pruning;
// here a column is only "valid" once it is fully filled and exact.

// IsValidPlacement reports whether v could be placed at p: v in [0,9], p in
// bounds, no 8-neighbor holds v, no other cell in the same row holds v.
// Pure; the cell at p itself is ignored so re-checking a filled cell works.
func IsValidPlacement(g *Grid, p Position, v Cell) bool {
	if v < 0 || v > 9 || !g.InBounds(p) {
		return false
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Position{Row: p.Row + dr, Col: p.Col + dc}
			if g.InBounds(n) && g.At(n) == v {
				return false
			}
		}
	}
	for col := 0; col < g.Cols; col++ {
		if col == p.Col {
			continue
		}
		if g.At(Position{Row: p.Row, Col: col}) == v {
			return false
		}
	}
	return true
}

// DetectConflicts returns every other cell that clashes with the value at
// p: an 8-neighbor or same-row cell holding the same value. Empty cells
// never conflict. Used by clients to highlight errors.
func DetectConflicts(g *Grid, p Position) []Position {
	conflicts := make([]Position, 0, 4)
	if !g.InBounds(p) {
		return conflicts
	}
	v := g.At(p)
	if v == Empty {
		return conflicts
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Position{Row: p.Row + dr, Col: p.Col + dc}
			if g.InBounds(n) && g.At(n) == v {
				conflicts = append(conflicts, n)
			}
		}
	}
	for col := 0; col < g.Cols; col++ {
		if col == p.Col || col == p.Col-1 || col == p.Col+1 {
			continue // same-row neighbors already reported above
		}
		n := Position{Row: p.Row, Col: col}
		if g.At(n) == v {
			conflicts = append(conflicts, n)
		}
	}
	return conflicts
}

// IsColumnSumValid reports whether col is fully filled and sums exactly to
// its target. An incomplete column is never valid; "still reachable" is the
// solver's feasibility concern, not this check.
func IsColumnSumValid(g *Grid, col int, targetSums []int) bool {
	if col < 0 || col >= g.Cols || len(targetSums) != g.Cols {
		return false
	}
	sum, empty := g.ColumnSum(col)
	return empty == 0 && sum == targetSums[col]
}

// IsPuzzleComplete reports whether every cell is filled, no placement rule
// is violated anywhere, and every column hits its target sum.
func IsPuzzleComplete(g *Grid, targetSums []int) bool {
	if len(targetSums) != g.Cols {
		return false
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			p := Position{Row: row, Col: col}
			v := g.At(p)
			if v == Empty {
				return false
			}
			if !IsValidPlacement(g, p, v) {
				return false
			}
		}
	}
	for col := 0; col < g.Cols; col++ {
		if !IsColumnSumValid(g, col, targetSums) {
			return false
		}
	}
	return true
}

package tenner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPossibleValues(t *testing.T) {
	t.Parallel()

	// Single column, three rows: vertical neighbors must differ and the
	// column must still be able to reach its target.
	g := gridOf(t, []int{1}, []int{-1}, []int{-1})

	t.Run("filters by adjacency and sum reachability", func(t *testing.T) {
		// target 6, current 1: candidate v leaves deficit 5-v for one
		// remaining cell, so v >= -4 and 5-v <= 9 always holds; v != 1
		// (neighbor). Deficit must be >= 0: v <= 5.
		got := PossibleValues(&g, []int{6}, Position{1, 0})
		assert.Equal(t, []Cell{0, 2, 3, 4, 5}, got)
	})

	t.Run("filled cell has no candidates", func(t *testing.T) {
		assert.Empty(t, PossibleValues(&g, []int{6}, Position{0, 0}))
	})

	t.Run("exact match required for last empty cell", func(t *testing.T) {
		h := gridOf(t, []int{1}, []int{2}, []int{-1})
		assert.Equal(t, []Cell{3}, PossibleValues(&h, []int{6}, Position{2, 0}))
	})
}

func TestSolve(t *testing.T) {
	t.Parallel()

	t.Run("forced single column", func(t *testing.T) {
		g := gridOf(t, []int{1}, []int{2}, []int{-1})
		solved, err := Solve(g, []int{6})
		require.NoError(t, err)
		assert.Equal(t, []Cell{1, 2, 3}, solved.Cells)
	})

	t.Run("input grid is not mutated", func(t *testing.T) {
		g := gridOf(t, []int{1}, []int{2}, []int{-1})
		_, err := Solve(g, []int{6})
		require.NoError(t, err)
		assert.Equal(t, Empty, g.At(Position{2, 0}))
	})

	t.Run("no solution", func(t *testing.T) {
		// Deficit 9 on a single remaining cell that cannot take 9: the
		// neighbor above already holds it.
		g := gridOf(t, []int{0}, []int{9}, []int{-1})
		_, err := Solve(g, []int{18})
		assert.ErrorIs(t, err, ErrNoSolution)
	})

	t.Run("unreachable target sum", func(t *testing.T) {
		g := gridOf(t, []int{1}, []int{2}, []int{-1})
		_, err := Solve(g, []int{30})
		assert.ErrorIs(t, err, ErrNoSolution)
	})

	t.Run("dimension mismatch rejected before search", func(t *testing.T) {
		g := gridOf(t, []int{1}, []int{2}, []int{-1})
		_, err := Solve(g, []int{6, 6})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("empty grid with feasible sums", func(t *testing.T) {
		if testing.Short() {
			t.Skip()
		}
		// Ten columns force each row to be a permutation of 0..9, so the
		// targets must total 3*45 = 135.
		g := NewGrid(3, 10)
		sums := make([]int, 10)
		for i := range sums {
			sums[i] = 13 + i%2
		}
		solved, err := Solve(g, sums)
		require.NoError(t, err)
		assert.True(t, IsPuzzleComplete(&solved, sums))
	})
}

func TestCountSolutions(t *testing.T) {
	t.Parallel()

	t.Run("stops at the cutoff", func(t *testing.T) {
		// r0 + r2 = 4 around a fixed 2: the pairs (0,4), (4,0), (1,3),
		// (3,1) all work, so well over 2 solutions exist.
		g := gridOf(t, []int{-1}, []int{2}, []int{-1})
		count, err := CountSolutions(g, []int{6}, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("zero solutions", func(t *testing.T) {
		g := gridOf(t, []int{0}, []int{9}, []int{-1})
		count, err := CountSolutions(g, []int{18}, 2)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestHasUniqueSolution(t *testing.T) {
	t.Parallel()

	t.Run("unique", func(t *testing.T) {
		g := gridOf(t, []int{1}, []int{2}, []int{-1})
		unique, err := HasUniqueSolution(g, []int{6})
		require.NoError(t, err)
		assert.True(t, unique)
	})

	t.Run("interchangeable cells are ambiguous", func(t *testing.T) {
		// The two empty cells take values that swap cleanly (e.g. 1 and 3
		// around the fixed 2), so the puzzle cannot be unique.
		g := gridOf(t, []int{-1}, []int{2}, []int{-1})
		unique, err := HasUniqueSolution(g, []int{6})
		require.NoError(t, err)
		assert.False(t, unique)
	})

	t.Run("no solution is not unique", func(t *testing.T) {
		g := gridOf(t, []int{0}, []int{9}, []int{-1})
		unique, err := HasUniqueSolution(g, []int{18})
		require.NoError(t, err)
		assert.False(t, unique)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		g := gridOf(t, []int{1}, []int{2}, []int{-1})
		_, err := HasUniqueSolution(g, nil)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

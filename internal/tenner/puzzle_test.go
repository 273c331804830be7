package tenner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridJSON(t *testing.T) {
	t.Parallel()

	t.Run("empty cells marshal as null", func(t *testing.T) {
		g := gridOf(t, []int{1, -1}, []int{-1, 9})
		data, err := json.Marshal(g)
		require.NoError(t, err)
		assert.JSONEq(t, `[[1,null],[null,9]]`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		g := gridOf(t, []int{1, -1, 3}, []int{-1, 5, -1})
		data, err := json.Marshal(g)
		require.NoError(t, err)

		var back Grid
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, g, back)
	})

	t.Run("ragged input rejected", func(t *testing.T) {
		var g Grid
		assert.Error(t, json.Unmarshal([]byte(`[[1,2],[3]]`), &g))
	})

	t.Run("out of range value rejected", func(t *testing.T) {
		var g Grid
		assert.Error(t, json.Unmarshal([]byte(`[[12]]`), &g))
	})
}

func TestPuzzleCheck(t *testing.T) {
	t.Parallel()

	valid := func(t *testing.T) *Puzzle {
		t.Helper()
		return &Puzzle{
			Rows:       3,
			Cols:       1,
			Difficulty: Medium,
			TargetSums: []int{6},
			Initial:    gridOf(t, []int{1}, []int{2}, []int{-1}),
			Solution:   gridOf(t, []int{1}, []int{2}, []int{3}),
		}
	}

	t.Run("valid puzzle", func(t *testing.T) {
		assert.NoError(t, valid(t).Check())
	})

	t.Run("declared shape disagrees", func(t *testing.T) {
		p := valid(t)
		p.Rows = 4
		assert.ErrorIs(t, p.Check(), ErrDimensionMismatch)
	})

	t.Run("incomplete solution", func(t *testing.T) {
		p := valid(t)
		p.Solution.Clear(Position{2, 0})
		assert.Error(t, p.Check())
	})

	t.Run("initial disagrees with solution", func(t *testing.T) {
		p := valid(t)
		p.Initial.Set(Position{0, 0}, 4)
		assert.Error(t, p.Check())
	})

	t.Run("ambiguous initial grid", func(t *testing.T) {
		p := valid(t)
		p.Initial.Clear(Position{0, 0}) // leaves the interchangeable 1/3 pair open
		assert.Error(t, p.Check())
	})
}

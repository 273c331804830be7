package tenner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBatch(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	t.Parallel()

	params := Params{Rows: 5, Cols: 10, Difficulty: Easy}

	puzzles, err := GenerateBatch(context.Background(), params, 4, 99)
	require.NoError(t, err)
	require.Len(t, puzzles, 4)

	seen := make(map[string]bool)
	for _, p := range puzzles {
		require.NotNil(t, p)
		assert.NoError(t, p.Check())
		key := p.Solution.String()
		assert.False(t, seen[key], "batch produced a duplicate solution")
		seen[key] = true
	}
}

func TestGenerateBatchBadParams(t *testing.T) {
	t.Parallel()

	_, err := GenerateBatch(context.Background(), Params{Rows: 5, Cols: 10, Difficulty: "nope"}, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = GenerateBatch(context.Background(), Params{Rows: 5, Cols: 10, Difficulty: Easy}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestGenerateBatchCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateBatch(ctx, Params{Rows: 5, Cols: 10, Difficulty: Easy}, 2, 1)
	assert.Error(t, err)
}

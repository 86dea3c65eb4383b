package topicstab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermStability(t *testing.T) {
	a := RankingSet{{"cat", "dog"}, {"car", "bus"}}
	b := RankingSet{{"car", "bus"}, {"cat", "dog"}}
	res, err := TermStability(context.Background(), []RankingSet{a, b, a}, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Compared())
	assert.InDelta(t, 1.0, res.Summary().Mean, 1e-12)
}

func TestTermDifference(t *testing.T) {
	a := RankingSet{{"cat", "dog"}}
	b := RankingSet{{"cat", "fish"}}
	res, err := TermDifference(context.Background(), []RankingSet{a, b}, 2)
	require.NoError(t, err)
	require.Equal(t, 1, res.Compared())
	// {dog, fish} / (1 * 2)
	assert.InDelta(t, 1.0, res.Scores[0].Score, 1e-12)
}

package agreement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/similarity"
)

var (
	animals = core.RankingSet{{"cat", "dog"}, {"sun", "moon"}, {"red", "blue"}}
	shifted = core.RankingSet{{"dog", "cat"}, {"moon", "star"}, {"blue", "green"}}
)

func TestRankingSetAgreement_Scenario(t *testing.T) {
	ats := NewRankingSetAgreement(similarity.JaccardBinary{}, WithTop(2))
	res, err := ats.Compare(animals, shifted)
	require.NoError(t, err)

	assert.InDelta(t, (1.0+1.0/3+1.0/3)/3, res.Score, 1e-9)
	require.Len(t, res.Matches, 3)
	for i, m := range res.Matches {
		assert.Equal(t, i, m.TopicA)
		assert.Equal(t, i, m.TopicB)
	}
	assert.Zero(t, res.Unmatched)
}

func TestRankingSetAgreement_Properties(t *testing.T) {
	ats := NewRankingSetAgreement(nil)
	assert.Equal(t, "ats.jaccard", ats.Name())

	shuffled := core.RankingSet{animals[2], animals[0], animals[1]}
	s, err := ats.Similarity(animals, shuffled)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-12, "topic order is irrelevant")

	ab, err := ats.Similarity(animals, shifted)
	require.NoError(t, err)
	ba, err := ats.Similarity(shifted, animals)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-12)

	disjoint := core.RankingSet{{"x", "y"}, {"z", "w"}}
	s, err = ats.Similarity(animals, disjoint)
	require.NoError(t, err)
	assert.Zero(t, s)
}

func TestRankingSetAgreement_Top(t *testing.T) {
	a := core.RankingSet{{"a", "b", "c", "d"}}
	b := core.RankingSet{{"a", "b", "x", "y"}}

	s, err := NewRankingSetAgreement(nil, WithTop(2)).Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-12)

	s, err = NewRankingSetAgreement(nil, WithTop(0)).Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/6, s, 1e-12)
}

func TestRankingSetAgreement_Normalization(t *testing.T) {
	subset := animals[:2]

	matched := NewRankingSetAgreement(nil)
	res, err := matched.Compare(animals, subset)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Score, 1e-12)
	assert.Len(t, res.Matches, 2)
	assert.Equal(t, 1, res.Unmatched)

	larger := NewRankingSetAgreement(nil, WithNormalization(NormalizeLarger))
	s, err := larger.Similarity(animals, subset)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, s, 1e-12)
}

func TestRankingSetAgreement_Errors(t *testing.T) {
	ats := NewRankingSetAgreement(nil)
	for _, tt := range []struct {
		name string
		x, y core.RankingSet
	}{
		{"empty left", nil, animals},
		{"empty right", animals, core.RankingSet{}},
		{"duplicate term", core.RankingSet{{"cat", "cat", "dog"}}, animals},
		{"empty topic", animals, core.RankingSet{{}, {"sun"}}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ats.Score(context.Background(), tt.x, tt.y)
			assert.True(t, errors.Is(err, core.ErrInvalidInput))
		})
	}
}

func TestADSD(t *testing.T) {
	d := NewADSD(2, "")
	assert.Equal(t, BaseFirst, d.Base)

	s, err := d.Difference(animals, animals)
	require.NoError(t, err)
	assert.Zero(t, s)

	// 对称差 {sun, red, star, green}
	s, err = d.Score(context.Background(), animals, shifted)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/6, s, 1e-12)
}

func TestADSD_Base(t *testing.T) {
	subset := animals[:2]
	tests := []struct {
		base     Base
		forward  float64
		backward float64
	}{
		{BaseFirst, 2.0 / 6, 2.0 / 4},
		{BaseLarger, 2.0 / 6, 2.0 / 6},
		{BaseMean, 2.0 / 5, 2.0 / 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.base), func(t *testing.T) {
			d := NewADSD(2, tt.base)
			f, err := d.Difference(animals, subset)
			require.NoError(t, err)
			b, err := d.Difference(subset, animals)
			require.NoError(t, err)
			assert.InDelta(t, tt.forward, f, 1e-12)
			assert.InDelta(t, tt.backward, b, 1e-12)
		})
	}
}

func TestADSD_Errors(t *testing.T) {
	_, err := NewADSD(0, BaseFirst).Difference(animals, animals)
	assert.True(t, core.IsInvalidInput(err))

	_, err = NewADSD(2, BaseFirst).Difference(animals, nil)
	assert.True(t, core.IsInvalidInput(err))

	_, err = NewADSD(2, BaseFirst).Difference(core.RankingSet{{"cat", "cat"}}, animals)
	assert.True(t, core.IsInvalidInput(err))
}

func TestParsePolicies(t *testing.T) {
	n, err := ParseNormalization("")
	require.NoError(t, err)
	assert.Equal(t, NormalizeMatched, n)
	n, err = ParseNormalization("larger")
	require.NoError(t, err)
	assert.Equal(t, NormalizeLarger, n)
	_, err = ParseNormalization("smaller")
	assert.Error(t, err)

	b, err := ParseBase("mean")
	require.NoError(t, err)
	assert.Equal(t, BaseMean, b)
	_, err = ParseBase("median")
	assert.Error(t, err)
}

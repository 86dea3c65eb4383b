package factorize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/topicstab/artifact"
	"github.com/rushteam/topicstab/core"
)

func TestNormalizeAndTokenize(t *testing.T) {
	assert.Equal(t, "cafe creme", Normalize("Café Crème"))
	assert.Equal(t, "see  for details", StripURLs("see https://example.com/x?y=1 for details"))

	stop := stopSet([]string{"the"})
	got := Tokenize("the naive cafe a x2 b mp3", 2, stop)
	assert.Equal(t, []string{"naive", "cafe", "mp"}, got)
}

func TestLoadStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nThe\n\nÉtait\n"), 0o644))
	words, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "etait"}, words)
}

func testParseOptions() ParseOptions {
	return ParseOptions{MinDocLength: 10, MinDF: 2, MinTermLength: 2, Stopwords: []string{}}
}

func TestParseLines(t *testing.T) {
	input := strings.Join([]string{
		"apple banana cherry apple",
		"short",
		"banana cherry durian banana",
		"apple durian elderberry fig",
	}, "\n")
	c, err := ParseLines(strings.NewReader(input), testParseOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"00001", "00002", "00003"}, c.DocIDs)
	assert.Equal(t, []string{"apple", "banana", "cherry", "durian"}, c.Terms, "terms below min df are dropped")
	assert.Len(t, c.Documents, 3)
	assert.False(t, c.HasClasses())
}

func TestParseLines_NothingLeft(t *testing.T) {
	_, err := ParseLines(strings.NewReader("tiny\nx\n"), testParseOptions())
	assert.True(t, core.IsInvalidInput(err))
}

func TestParseDirectory(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"sport/a.txt":   "football match goal football\nhttp://spam.example.com\n",
		"sport/b.txt":   "football goal referee match",
		"science/c.txt": "physics atom match goal",
		"science/d.txt": "physics atom energy quantum",
		"science/_e.txt": "physics atom energy quantum ignored",
	}
	for name, body := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	c, err := ParseDirectory([]string{root}, testParseOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"science_c", "science_d", "sport_a", "sport_b"}, c.DocIDs)
	require.True(t, c.HasClasses())
	assert.Equal(t, []string{"sport_a", "sport_b"}, c.Classes["sport"])
	assert.NotContains(t, c.Documents[2], "spam")

	p, err := c.Classes.ToPartition(c.DocIDs)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, p.Labels)
}

func TestFoldBounds(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, foldBounds(10, 3))
}

func TestRankTerms(t *testing.T) {
	terms := []string{"a", "b", "c", "d"}
	got := rankTerms([]float64{0.2, 0, 0.9, 0.2}, terms, 0)
	assert.Equal(t, core.TermRanking{"c", "a", "d"}, got)
	assert.Equal(t, core.TermRanking{"c"}, rankTerms([]float64{0.2, 0, 0.9, 0.2}, terms, 1))
}

func TestTopicTerms(t *testing.T) {
	terms := []string{"atom", "goal", "match", "physics"}
	// W: terms × k，每列是一个 topic
	w := mat.NewDense(4, 2, []float64{
		0.7, 0.0,
		0.0, 0.9,
		0.1, 0.4,
		0.8, 0.0,
	})
	got := topicTerms(w, terms, 2)
	assert.Equal(t, core.RankingSet{
		{"physics", "atom"},
		{"goal", "match"},
	}, got)
}

func TestDominantTopics(t *testing.T) {
	h := mat.NewDense(2, 3, []float64{
		0.9, 0.1, 0.5,
		0.2, 0.8, 0.5,
	})
	assert.Equal(t, []int{0, 1, 0}, dominantTopics(h))
}

func TestGenerate(t *testing.T) {
	c := &core.Corpus{
		DocIDs:    []string{"d1", "d2", "d3", "d4", "d5", "d6"},
		Terms:     []string{"atom", "energy", "goal", "match", "physics", "referee"},
		Documents: []string{
			"physics atom energy",
			"atom energy physics physics",
			"energy atom",
			"goal match referee",
			"match goal goal",
			"referee match",
		},
	}
	dir := t.TempDir()
	opts := DefaultGenerateOptions()
	opts.K = 2
	opts.Runs = 2
	opts.Iterations = 50
	opts.Seed = 7
	opts.OutDir = dir

	members, err := Generate(context.Background(), c, opts)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "7_001", members[0].Name)
	for _, m := range members {
		assert.Equal(t, 2, m.Rankings.K())
		assert.Equal(t, 6, m.Partition.Len())
	}

	ranks, err := artifact.Discover(artifact.KindRanks, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "ranks_7_001.gob"),
		filepath.Join(dir, "ranks_7_002.gob"),
	}, ranks)
	parts, err := artifact.Discover(artifact.KindPartition, dir)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestGenerate_Folds(t *testing.T) {
	c := &core.Corpus{
		DocIDs:    []string{"d1", "d2", "d3", "d4", "d5"},
		Terms:     []string{"alpha", "beta", "gamma"},
		Documents: []string{"alpha beta", "beta gamma", "gamma alpha", "alpha alpha", "beta beta gamma"},
	}
	opts := DefaultGenerateOptions()
	opts.K = 2
	opts.Folds = 5
	opts.Iterations = 20

	members, err := Generate(context.Background(), c, opts)
	require.NoError(t, err)
	require.Len(t, members, 5)
	assert.Equal(t, "1000_01_03", members[2].Name)
	seen := map[string]int{}
	for _, m := range members {
		assert.Equal(t, 4, m.Partition.Len(), "each fold leaves one document out")
		for _, id := range m.Partition.DocIDs {
			seen[id]++
		}
	}
	for _, id := range c.DocIDs {
		assert.Equal(t, 4, seen[id], id)
	}
}

func TestGenerate_Validation(t *testing.T) {
	c := &core.Corpus{DocIDs: []string{"d1"}, Terms: []string{"a"}, Documents: []string{"a"}}
	tests := []struct {
		name   string
		mutate func(*GenerateOptions)
	}{
		{"k", func(o *GenerateOptions) { o.K = 0 }},
		{"runs", func(o *GenerateOptions) { o.Runs = 0 }},
		{"sample", func(o *GenerateOptions) { o.SampleRatio = 1.5 }},
		{"one fold", func(o *GenerateOptions) { o.Folds = 1 }},
		{"too many folds", func(o *GenerateOptions) { o.Folds = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultGenerateOptions()
			tt.mutate(&opts)
			_, err := Generate(context.Background(), c, opts)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

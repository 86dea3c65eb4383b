package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/topicstab/stats"
)

func TestSummaryTable(t *testing.T) {
	s := stats.Summarize([]float64{0.2, 0.4, 0.6, 0.8, 1.0, 0.0})
	tab := SummaryTable("stability", s)

	require.Len(t, tab.Rows, 5)
	assert.Equal(t, []string{"mean", "0.500"}, tab.Rows[0])
	assert.Equal(t, []string{"median", "0.500"}, tab.Rows[1])
	assert.Equal(t, []string{"min", "0.000"}, tab.Rows[3])
	assert.Equal(t, []string{"max", "1.000"}, tab.Rows[4])

	var buf bytes.Buffer
	require.NoError(t, tab.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "statistic,stability", lines[0])
	assert.Equal(t, "mean,0.500", lines[1])

	text := tab.String()
	assert.Contains(t, text, "statistic")
	assert.Contains(t, text, "sdev")
}

func TestTable_AddRowPads(t *testing.T) {
	tab := NewTable("model", "nmi", "ami")
	tab.AddRow("m1", "0.5")
	assert.Equal(t, []string{"m1", "0.5", ""}, tab.Rows[0])

	AppendSummary(tab, stats.Summary{Count: 1, Mean: 1}, stats.Summary{Count: 2, Mean: 0.25})
	assert.Equal(t, []string{"mean", "1.000", "0.250"}, tab.Rows[1])
}

func TestAppendSummary_Empty(t *testing.T) {
	tab := NewTable("statistic", "nmi", "ari")
	AppendSummary(tab, stats.Summarize(nil), stats.Summarize([]float64{0.4}))
	require.Len(t, tab.Rows, 5)
	for _, row := range tab.Rows {
		assert.Equal(t, NotAvailable, row[1], row[0])
		assert.NotEqual(t, NotAvailable, row[2], row[0])
	}
}

func TestMeanCell(t *testing.T) {
	assert.Equal(t, NotAvailable, MeanCell(nil))
	assert.Equal(t, "0.300", MeanCell([]float64{0.2, 0.4}))
}

func TestWriteHistogram(t *testing.T) {
	h, err := stats.NewHistogram([]float64{0, 0.05, 0.5, 1.0}, 0.5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, "NMI", h))
	assert.Equal(t, "NMI,Count,Fraction\n0.00,1,0.250\n0.50,2,0.500\n1.00,1,0.250\n", buf.String())

	path := filepath.Join(t.TempDir(), "hist.csv")
	require.NoError(t, SaveHistogram(path, "ATS", h))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ATS,Count,Fraction\n"))
}

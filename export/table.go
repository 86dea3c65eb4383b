// Package export 把评估结果渲染为终端表格与 CSV。
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rushteam/topicstab/stats"
)

// Table 是一个简单的二维表，首列左对齐。
type Table struct {
	Header []string
	Rows   [][]string
}

func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow 追加一行；列数不足时补空串。
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Header))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// WriteText 以对齐的纯文本形式输出。
func (t *Table) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Header, "\t"))
	sep := make([]string, len(t.Header))
	for i, h := range t.Header {
		sep[i] = strings.Repeat("-", max(len(h), 5))
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// String 返回 WriteText 的结果。
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.WriteText(&sb)
	return sb.String()
}

// WriteCSV 以 CSV 输出（含表头）。
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// SaveCSV 把表写入 path。
func (t *Table) SaveCSV(path string) error {
	return writeFile(path, t.WriteCSV)
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}

// NotAvailable 是空分布的统计量占位符。
const NotAvailable = "n/a"

// F3 按三位小数格式化分数。
func F3(v float64) string { return fmt.Sprintf("%.3f", v) }

// MeanCell 返回 values 的均值（三位小数），values 为空时返回 NotAvailable。
func MeanCell(values []float64) string {
	if len(values) == 0 {
		return NotAvailable
	}
	return F3(stats.Summarize(values).Mean)
}

// summaryRows 是汇总表的行名及取值顺序。
var summaryRows = []struct {
	name string
	get  func(stats.Summary) float64
}{
	{"mean", func(s stats.Summary) float64 { return s.Mean }},
	{"median", func(s stats.Summary) float64 { return s.Median }},
	{"sdev", func(s stats.Summary) float64 { return s.Std }},
	{"min", func(s stats.Summary) float64 { return s.Min }},
	{"max", func(s stats.Summary) float64 { return s.Max }},
}

// SummaryTable 生成 "statistic | <column>" 汇总表（mean / median / sdev / min / max）。
func SummaryTable(column string, s stats.Summary) *Table {
	t := NewTable("statistic", column)
	AppendSummary(t, s)
	return t
}

// AppendSummary 在 t 末尾追加汇总行，每个 Summary 占一列（从第二列开始）。
// Count 为 0 的 Summary 显示为 NotAvailable。
func AppendSummary(t *Table, sums ...stats.Summary) {
	for _, r := range summaryRows {
		row := []string{r.name}
		for _, s := range sums {
			if s.Count == 0 {
				row = append(row, NotAvailable)
				continue
			}
			row = append(row, F3(r.get(s)))
		}
		t.AddRow(row...)
	}
}

package export

import (
	"fmt"
	"io"

	"github.com/rushteam/topicstab/stats"
)

// WriteHistogram 输出直方图 CSV：表头 "<label>,Count,Fraction"，
// 每行 "%.2f,%d,%.3f"（箱上界、计数、占比）。
func WriteHistogram(w io.Writer, label string, h *stats.Histogram) error {
	if _, err := fmt.Fprintf(w, "%s,Count,Fraction\n", label); err != nil {
		return err
	}
	for _, b := range h.Bins {
		if _, err := fmt.Fprintf(w, "%.2f,%d,%.3f\n", b.Upper, b.Count, b.Fraction); err != nil {
			return err
		}
	}
	return nil
}

// SaveHistogram 把直方图 CSV 写入 path。
func SaveHistogram(path, label string, h *stats.Histogram) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteHistogram(w, label, h)
	})
}

package clustering

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rushteam/topicstab/core"
)

// LabelFunc 是基于对齐标签序列的指标函数。
type LabelFunc func(u, v []int) (float64, error)

var measures = map[string]LabelFunc{
	"nmi": NMI,
	"ami": AMI,
	"ari": ARI,
	"vi":  VI,
}

// Measures 返回支持的指标名称（排序）。
func Measures() []string {
	names := make([]string, 0, len(measures))
	for n := range measures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseMeasures 解析逗号分隔的指标列表，例如 "nmi,ami,ari"。
func ParseMeasures(s string) ([]string, error) {
	var out []string
	for _, m := range strings.Split(s, ",") {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, ok := measures[m]; !ok {
			return nil, fmt.Errorf("unknown validation measure %q (supported: %v)", m, Measures())
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no validation measure given")
	}
	return out, nil
}

// Measure 是作用在两个 partition 上的打分函数，可直接作为 harness.ScoreFunc 使用。
type Measure struct {
	Name      string
	Fn        LabelFunc
	Alignment Alignment
}

// NewMeasure 按名称创建 Measure。
func NewMeasure(name string, alignment Alignment) (*Measure, error) {
	fn, ok := measures[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown validation measure %q (supported: %v)", name, Measures())
	}
	return &Measure{Name: strings.ToLower(name), Fn: fn, Alignment: alignment}, nil
}

// Score 对齐两个 partition 后计算指标。指标内部出错时包装为 METRIC_COMPUTATION。
func (m *Measure) Score(_ context.Context, a, b core.Partition) (float64, error) {
	u, v, err := Align(a, b, m.Alignment)
	if err != nil {
		return 0, err
	}
	s, err := m.Fn(u, v)
	if err != nil {
		if core.IsDomainError(err) {
			return 0, err
		}
		return 0, core.MetricFailure(core.ModuleClustering, err, "%s failed", m.Name)
	}
	return s, nil
}

package stats

import (
	"fmt"
	"math"
)

// DefaultBinWidth 是默认的直方图分箱宽度。
const DefaultBinWidth = 0.05

// edgeEps 吸收浮点误差，保证落在边上的值归入下方的箱。
const edgeEps = 1e-9

// Bin 是直方图中的一个箱，覆盖 (Upper-width, Upper]；第一个箱只包含 <= 0 的值。
type Bin struct {
	Upper    float64
	Count    int
	Fraction float64
}

// Histogram 是固定宽度、右闭区间的直方图。
type Histogram struct {
	Width float64
	Total int
	Bins  []Bin
}

// NewHistogram 在 [0, 1] 上按 width 分箱；若有值超过 1，上界按整箱扩展到能覆盖最大值。
// 小于 0 的值归入第一个箱。所有箱的 Count 之和等于 len(values)。
func NewHistogram(values []float64, width float64) (*Histogram, error) {
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("histogram bin width must be positive, got %v", width)
	}
	upper := 1.0
	for _, v := range values {
		if v > upper {
			upper = v
		}
	}
	n := int(math.Ceil(upper/width - edgeEps))
	h := &Histogram{
		Width: width,
		Total: len(values),
		Bins:  make([]Bin, n+1),
	}
	for i := range h.Bins {
		h.Bins[i].Upper = float64(i) * width
	}
	for _, v := range values {
		h.Bins[binIndex(v, width, n)].Count++
	}
	if h.Total > 0 {
		for i := range h.Bins {
			h.Bins[i].Fraction = float64(h.Bins[i].Count) / float64(h.Total)
		}
	}
	return h, nil
}

func binIndex(v, width float64, last int) int {
	if v <= 0 {
		return 0
	}
	i := int(math.Ceil(v/width - edgeEps))
	if i < 1 {
		// 比 0 大但小于 edgeEps*width 的值仍属于第一个非零箱
		i = 1
	}
	if i > last {
		i = last
	}
	return i
}

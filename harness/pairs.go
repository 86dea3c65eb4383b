package harness

import "iter"

// Topology 决定 harness 比较哪些 pair。
type Topology int

const (
	// AllPairs 比较全部 C(r,2) 个无序 pair (i<j)。
	AllPairs Topology = iota
	// StarPairs 以下标 0 为参照，比较 (0,j)，j = 1..r-1（例如 ground truth 对每个 partition）。
	StarPairs
)

func (t Topology) String() string {
	if t == StarPairs {
		return "star"
	}
	return "all-pairs"
}

// Count 返回 r 个 artifact 在该拓扑下的 pair 总数。
func (t Topology) Count(r int) int {
	if r < 2 {
		return 0
	}
	if t == StarPairs {
		return r - 1
	}
	return r * (r - 1) / 2
}

// Pairs 惰性产出 pair，避免在 r 很大时一次性构造 O(r²) 的列表。
func (t Topology) Pairs(r int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if t == StarPairs {
			for j := 1; j < r; j++ {
				if !yield(0, j) {
					return
				}
			}
			return
		}
		for i := 0; i < r; i++ {
			for j := i + 1; j < r; j++ {
				if !yield(i, j) {
					return
				}
			}
		}
	}
}

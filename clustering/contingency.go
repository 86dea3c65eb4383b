package clustering

import (
	"math"
	"sort"
)

// contingency 是两个对齐标签序列的列联表。
type contingency struct {
	n       int
	nij     [][]int
	rowSums []int // a_i
	colSums []int // b_j
}

func newContingency(u, v []int) *contingency {
	uIdx := labelIndex(u)
	vIdx := labelIndex(v)

	c := &contingency{
		n:       len(u),
		nij:     make([][]int, len(uIdx)),
		rowSums: make([]int, len(uIdx)),
		colSums: make([]int, len(vIdx)),
	}
	for i := range c.nij {
		c.nij[i] = make([]int, len(vIdx))
	}
	for k := range u {
		i, j := uIdx[u[k]], vIdx[v[k]]
		c.nij[i][j]++
		c.rowSums[i]++
		c.colSums[j]++
	}
	return c
}

// labelIndex 把标签映射到稠密下标（按标签值升序，保证结果确定）。
func labelIndex(labels []int) map[int]int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	uniq := make([]int, 0, len(seen))
	for l := range seen {
		uniq = append(uniq, l)
	}
	sort.Ints(uniq)
	idx := make(map[int]int, len(uniq))
	for i, l := range uniq {
		idx[l] = i
	}
	return idx
}

// entropy 返回按计数给出的分布熵（自然对数）。
func entropy(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	nf := float64(n)
	h := 0.0
	for _, c := range counts {
		if c > 0 {
			p := float64(c) / nf
			h -= p * math.Log(p)
		}
	}
	return h
}

// mutualInfo 返回互信息 MI(U,V)（自然对数）。
func (c *contingency) mutualInfo() float64 {
	nf := float64(c.n)
	mi := 0.0
	for i, row := range c.nij {
		for j, nij := range row {
			if nij == 0 {
				continue
			}
			x := float64(nij)
			mi += x / nf * math.Log(nf*x/(float64(c.rowSums[i])*float64(c.colSums[j])))
		}
	}
	return math.Max(mi, 0)
}

// expectedMutualInfo 是随机置换模型下互信息的期望值（超几何分布）。
func (c *contingency) expectedMutualInfo() float64 {
	n := c.n
	nf := float64(n)
	lgN, _ := math.Lgamma(nf + 1)
	emi := 0.0
	for _, a := range c.rowSums {
		lgA, _ := math.Lgamma(float64(a) + 1)
		lgNA, _ := math.Lgamma(float64(n-a) + 1)
		for _, b := range c.colSums {
			lgB, _ := math.Lgamma(float64(b) + 1)
			lgNB, _ := math.Lgamma(float64(n-b) + 1)
			start := max(1, a+b-n)
			end := min(a, b)
			for nij := start; nij <= end; nij++ {
				x := float64(nij)
				term := x / nf * math.Log(nf*x/(float64(a)*float64(b)))
				lgNij, _ := math.Lgamma(x + 1)
				lgAN, _ := math.Lgamma(float64(a-nij) + 1)
				lgBN, _ := math.Lgamma(float64(b-nij) + 1)
				lgRest, _ := math.Lgamma(float64(n-a-b+nij) + 1)
				logP := lgA + lgB + lgNA + lgNB - lgN - lgNij - lgAN - lgBN - lgRest
				emi += term * math.Exp(logP)
			}
		}
	}
	return emi
}

// comb2 computes C(n, 2) = n*(n-1)/2
func comb2(n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(n) * float64(n-1) / 2.0
}

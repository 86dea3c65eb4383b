// Package assignment 求解稠密矩阵上的最大权二分匹配（Hungarian / Kuhn–Munkres）。
//
// topic 数量通常只有几十，O(n³) 的精确算法足够快。平局时按字典序
// （先行下标、再列下标）取最小的最优匹配，相同输入矩阵总是得到相同的匹配。
package assignment

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/topicstab/core"
)

// Pair 是一条匹配边：Row 行与 Col 列配对，Weight 为该格的原始权重。
type Pair struct {
	Row    int
	Col    int
	Weight float64
}

// tieEps 是判定两个匹配总权重相等的容差。
const tieEps = 1e-9

// MaxWeight 返回 rows×cols 矩阵上的最大权匹配，恰好包含 min(rows, cols) 条边，按 Row 升序。
//
// 内部在补齐为 n×n 的方阵上最小化 cost = 1 - weight，补齐的格子代价为常数，
// 不影响真实格子之间的最优性。存在多个最优匹配时取字典序最小者：
// 先让下标最小的行配到尽量小的列，再依次处理后面的行。
//
// 矩阵中出现 NaN 或 ±Inf 时返回 INVALID_INPUT。
func MaxWeight(w mat.Matrix) ([]Pair, error) {
	if w == nil {
		return nil, core.InvalidInputf(core.ModuleAssignment, "nil weight matrix")
	}
	rows, cols := w.Dims()
	if rows == 0 || cols == 0 {
		return nil, nil
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := w.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, core.InvalidInputf(core.ModuleAssignment, "non-finite weight %v at (%d,%d)", v, i, j)
			}
		}
	}

	n := max(rows, cols)
	weight := func(i, j int) float64 {
		if i < rows && j < cols {
			return w.At(i, j)
		}
		return 0
	}
	assign := lexFirst(n, rows, cols, weight)

	pairs := make([]Pair, 0, min(rows, cols))
	for i := 0; i < rows; i++ {
		j := assign[i]
		if j < cols {
			pairs = append(pairs, Pair{Row: i, Col: j, Weight: w.At(i, j)})
		}
	}
	return pairs, nil
}

// lexFirst 在所有最优匹配中选出字典序最小的一个。
// 行按升序固定：依次尝试可用的真实列（升序），最后尝试一个补齐列（即不匹配），
// 只要固定后剩余子矩阵的最优值仍能达到全局最优就保留该选择。
func lexFirst(n, rows, cols int, weight func(i, j int) float64) []int {
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	best := optimum(all, all, weight)

	assign := make([]int, n)
	free := append([]int(nil), all...)
	fixed := 0.0
	for i := 0; i < rows; i++ {
		rest := all[i+1:]
		choice, choiceTotal := -1, math.Inf(-1)
		for _, j := range candidates(free, cols) {
			total := fixed + weight(i, j) + optimum(rest, without(free, j), weight)
			if total >= best-tieEps {
				choice = j
				break
			}
			if total > choiceTotal {
				choice, choiceTotal = j, total
			}
		}
		assign[i] = choice
		fixed += weight(i, choice)
		free = without(free, choice)
	}
	return assign
}

// candidates 返回 free 中的真实列（升序），以及第一个补齐列。
func candidates(free []int, cols int) []int {
	out := make([]int, 0, len(free))
	for _, j := range free {
		if j < cols {
			out = append(out, j)
		}
	}
	for _, j := range free {
		if j >= cols {
			out = append(out, j)
			break
		}
	}
	return out
}

func without(s []int, v int) []int {
	out := make([]int, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// optimum 返回 rowIdx × colIdx 子方阵上最优匹配的总权重。
func optimum(rowIdx, colIdx []int, weight func(i, j int) float64) float64 {
	m := len(rowIdx)
	if m == 0 {
		return 0
	}
	assign := solve(m, func(a, b int) float64 {
		return 1 - weight(rowIdx[a], colIdx[b])
	})
	total := 0.0
	for a, b := range assign {
		total += weight(rowIdx[a], colIdx[b])
	}
	return total
}

// Total 返回匹配的总权重。
func Total(pairs []Pair) float64 {
	sum := 0.0
	for _, p := range pairs {
		sum += p.Weight
	}
	return sum
}

// solve 是 1-indexed 的势函数版 Hungarian，返回每一行（0-indexed）分配到的列。
func solve(n int, cost func(i, j int) float64) []int {
	inf := math.Inf(1)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)   // p[j]: 第 j 列当前匹配的行，0 表示未匹配
	way := make([]int, n+1) // 增广路径上的前驱列
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				// 严格小于：相等时保留下标更小的列（只影响求解路径，不保证字典序）
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	assign := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			assign[p[j]-1] = j - 1
		}
	}
	return assign
}

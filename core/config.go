package core

import "runtime"

// EvalConfig 是评估相关的配置接口，用于提供默认值。
type EvalConfig interface {
	// DefaultTop 返回比较时使用的 top-T 词项数
	DefaultTop() int

	// DefaultBinWidth 返回直方图的分箱宽度
	DefaultBinWidth() float64

	// DefaultWorkers 返回 harness 的默认并发数
	DefaultWorkers() int

	// DefaultMetric 返回默认的 topic 相似度指标名
	DefaultMetric() string
}

// DefaultEvalConfig 是默认的评估配置实现。
type DefaultEvalConfig struct{}

func (c *DefaultEvalConfig) DefaultTop() int {
	return 10
}

func (c *DefaultEvalConfig) DefaultBinWidth() float64 {
	return 0.05
}

func (c *DefaultEvalConfig) DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

func (c *DefaultEvalConfig) DefaultMetric() string {
	return "jaccard"
}

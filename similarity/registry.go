package similarity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/topicstab/pkg/conv"
)

// Builder 根据配置构建 Metric，配置来自 YAML/JSON 的 map。
type Builder func(cfg map[string]any) (Metric, error)

var (
	builders   = make(map[string]Builder)
	buildersMu sync.RWMutex
)

func init() {
	Register("jaccard", func(map[string]any) (Metric, error) { return JaccardBinary{}, nil })
	Register("aj", buildAverageJaccard)
}

func buildAverageJaccard(cfg map[string]any) (Metric, error) {
	depth := conv.ConfigGetInt64(cfg, "depth", 0)
	if depth < 0 {
		return nil, fmt.Errorf("aj: depth must be >= 0, got %d", depth)
	}
	return AverageJaccard{Depth: int(depth)}, nil
}

// Register 注册一种 Metric 的构建逻辑。
// 建议在实现所在包的 init 中调用，例如：func init() { similarity.Register("rbo", BuildRBO) }
func Register(name string, builder Builder) {
	if name == "" || builder == nil {
		return
	}
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[name] = builder
}

// SupportedTypes 返回已注册的 Metric 名称（排序），用于错误提示与校验。
func SupportedTypes() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Supported 报告 name 是否已注册。
func Supported(name string) bool {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	_, ok := builders[name]
	return ok
}

// Build 按名称构建 Metric。
func Build(name string, cfg map[string]any) (Metric, error) {
	buildersMu.RLock()
	builder, ok := builders[name]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown similarity metric %q (supported: %v)", name, SupportedTypes())
	}
	return builder(cfg)
}

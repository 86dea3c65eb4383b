package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("artifact", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Filter 是 artifact 选择表达式，使用 CEL (Common Expression Language) 实现。
// 表达式在 NewFilter 时编译一次，Match 可并发调用。
//
// 可用字段（artifact.*）：
//   - name：文件名（不含目录）
//   - path：完整路径
//   - kind："ranks" / "partition"
//   - topics：topic 数（ranks 为 k，partition 为簇数）
//   - terms：ranking 覆盖的不同词项数（partition 为 0）
//   - docs：文档数（ranks 为 0）
//
// 示例：
//   - `artifact.topics == 10`
//   - `artifact.name.startsWith("ranks_42_")`
//   - `artifact.kind == "partition" && artifact.docs > 1000`
type Filter struct {
	expr string
	prg  cel.Program
}

// NewFilter 编译表达式。空表达式匹配所有 artifact。
func NewFilter(expr string) (*Filter, error) {
	f := &Filter{expr: expr}
	if expr == "" {
		return f, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	f.prg = prg
	return f, nil
}

// String 返回原始表达式。
func (f *Filter) String() string { return f.expr }

// Match 对一个 artifact 的属性求值，表达式必须返回布尔值。
func (f *Filter) Match(attrs map[string]any) (bool, error) {
	if f == nil || f.prg == nil {
		return true, nil
	}
	out, _, err := f.prg.Eval(map[string]any{"artifact": attrs})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Package store 提供评估结果的持久化后端与 Recorder。
//
// 注意：接口定义在 core 包（core.Store / core.KeyValueStore），此包只包含实现。
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	kv, err := store.Open(ctx, "redis://localhost:6379/0")
package store

import (
	"context"
	"strings"

	"github.com/rushteam/topicstab/core"
)

// Open 按 URL 打开存储后端："memory" 或 redis:// / rediss:// 地址。
func Open(ctx context.Context, url string) (core.KeyValueStore, error) {
	switch {
	case url == "" || url == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisStoreFromURL(ctx, url)
	}
	return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeNotSupported, nil,
		"store: unsupported backend %q (use memory or redis://host:port/db)", url)
}

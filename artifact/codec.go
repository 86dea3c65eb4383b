// Package artifact 负责 artifact 文件的编解码与发现。
//
// 文件格式按扩展名决定：.gob（默认，二进制）、.json、.yaml/.yml。
package artifact

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/topicstab/core"
)

// DefaultExt 是 generate / parse 写出文件的默认扩展名。
const DefaultExt = ".gob"

var supportedExts = map[string]bool{
	".gob":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Supported 报告 path 的扩展名是否可编解码。
func Supported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// Encode 按扩展名把 v 写入 path，必要时创建父目录。
func Encode(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("artifact: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("artifact: create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gob":
		err = gob.NewEncoder(f).Encode(v)
	case ".json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(f)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	default:
		return core.InvalidInputf(core.ModuleArtifact, "unsupported file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", path, err)
	}
	return f.Close()
}

// Decode 按扩展名从 path 读取 v。
func Decode(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("artifact: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gob":
		err = gob.NewDecoder(f).Decode(v)
	case ".json":
		err = json.NewDecoder(f).Decode(v)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(v)
	default:
		return core.InvalidInputf(core.ModuleArtifact, "unsupported file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return core.WrapDomainError(core.ModuleArtifact, core.ErrorCodeInvalidInput, err, "artifact: decode %s", path)
	}
	return nil
}

package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind 是 artifact 类型，同时也是文件名前缀。
type Kind string

const (
	KindRanks     Kind = "ranks"
	KindPartition Kind = "partition"
)

// Discover 收集 paths 下的 artifact 文件：目录递归查找以 kind 为前缀、扩展名受支持的文件，
// 显式给出的文件原样收录。结果去重并排序；任一路径不存在时返回错误。
func Discover(kind Kind, paths ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("artifact: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.HasPrefix(d.Name(), string(kind)) && Supported(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("artifact: walk %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Package factorize 从原始文本构建语料，并用 NMF 生成 topic model 集成（ranks / partition 文件）。
package factorize

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"

	"github.com/rushteam/topicstab/core"
)

// ParseOptions 控制语料预处理。
type ParseOptions struct {
	// MinDocLength 是文档的最小字符数，更短的文档被丢弃
	MinDocLength int
	// MinDF 是词项至少出现的文档数
	MinDF int
	// MinTermLength 是词项最小长度
	MinTermLength int
	// Stopwords 为 nil 时使用 DefaultStopwords
	Stopwords []string
	Logger    *slog.Logger
}

// DefaultParseOptions 返回默认预处理参数。
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MinDocLength: 50, MinDF: 20, MinTermLength: 2}
}

func (o ParseOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o ParseOptions) stopwords() []string {
	if o.Stopwords == nil {
		return DefaultStopwords
	}
	return o.Stopwords
}

type rawDoc struct {
	id    string
	class string
	body  string
}

// ParseLines 读取每行一个文档的文本，文档 ID 为 5 位序号（00001 起）。
func ParseLines(r io.Reader, opts ParseOptions) (*core.Corpus, error) {
	var docs []rawDoc
	short := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		body := strings.TrimSpace(sc.Text())
		if len(body) < opts.MinDocLength {
			short++
			continue
		}
		docs = append(docs, rawDoc{id: fmt.Sprintf("%05d", len(docs)+1), body: body})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("factorize: read lines: %w", err)
	}
	opts.logger().Info("read documents", slog.Int("kept", len(docs)), slog.Int("short", short))
	return buildCorpus(docs, opts)
}

// ParseDirectory 递归读取目录下每个文件作为一个文档；文件所在目录名即类别标签，
// 文档 ID 为 "<类别>_<文件名>"。以 "." 或 "_" 开头的文件被忽略。
func ParseDirectory(roots []string, opts ParseOptions) (*core.Corpus, error) {
	var paths []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("factorize: walk %s: %w", root, err)
		}
	}
	sort.Strings(paths)
	opts.logger().Info("found documents", slog.Int("files", len(paths)))

	var docs []rawDoc
	short := 0
	for _, p := range paths {
		label := strings.ReplaceAll(filepath.Base(filepath.Dir(p)), " ", "_")
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if !strings.HasPrefix(id, label) {
			id = label + "_" + id
		}
		body, err := readText(p)
		if err != nil {
			return nil, err
		}
		if len(body) < opts.MinDocLength {
			short++
			continue
		}
		docs = append(docs, rawDoc{id: id, class: label, body: body})
	}
	opts.logger().Info("read documents", slog.Int("kept", len(docs)), slog.Int("short", short))
	return buildCorpus(docs, opts)
}

// readText 逐行读取并删除 URL，丢弃剩余长度 <= 1 的行。
func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("factorize: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := StripURLs(strings.TrimSpace(sc.Text()))
		if len(line) > 1 {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), sc.Err()
}

func buildCorpus(docs []rawDoc, opts ParseOptions) (*core.Corpus, error) {
	if len(docs) == 0 {
		return nil, core.InvalidInputf(core.ModuleCore, "no documents left after filtering (min length %d)", opts.MinDocLength)
	}
	stop := stopSet(opts.stopwords())

	tokens := make([][]string, len(docs))
	texts := make([]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		tokens[i] = Tokenize(Normalize(StripURLs(d.body)), opts.MinTermLength, stop)
		texts[i] = strings.Join(tokens[i], " ")
		seen := make(map[string]struct{}, len(tokens[i]))
		for _, t := range tokens[i] {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}

	vectoriser := nlp.NewCountVectoriser(opts.stopwords()...)
	vectoriser.Fit(texts...)

	terms := make([]string, 0, len(vectoriser.Vocabulary))
	for t := range vectoriser.Vocabulary {
		if df[t] >= opts.MinDF {
			terms = append(terms, t)
		}
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, core.InvalidInputf(core.ModuleCore, "no term appears in at least %d documents", opts.MinDF)
	}

	c := &core.Corpus{
		DocIDs:    make([]string, len(docs)),
		Terms:     terms,
		Documents: texts,
	}
	classes := make(core.ClassAssignment)
	for i, d := range docs {
		c.DocIDs[i] = d.id
		if d.class != "" {
			classes[d.class] = append(classes[d.class], d.id)
		}
	}
	if len(classes) >= 2 {
		c.Classes = classes
		opts.logger().Info("ground truth available", slog.Int("classes", len(classes)))
	} else {
		opts.logger().Warn("no ground truth available")
	}
	opts.logger().Info("built corpus", slog.Int("documents", len(c.DocIDs)), slog.Int("terms", len(terms)))
	return c, nil
}

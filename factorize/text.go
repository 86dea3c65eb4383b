package factorize

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var urlPattern = regexp.MustCompile(`https?[:;]?/?/?\S*`)

// StripURLs 删除文本中的 URL（http/https 及常见的残缺写法）。
func StripURLs(s string) string {
	return urlPattern.ReplaceAllString(s, "")
}

// Normalize 做 NFKD 分解后去掉组合附加符号（重音），并转小写。
func Normalize(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	return norm.NFC.String(s)
}

// Tokenize 把归一化文本切分为纯字母词项，丢弃短于 minLen 的词和停用词。
func Tokenize(s string, minLen int, stop map[string]struct{}) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < minLen {
			continue
		}
		if _, ok := stop[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// DefaultStopwords 是内置的英文停用词表。
var DefaultStopwords = strings.Fields(`
a about above after again against all am an and any are as at be because been before being
below between both but by can could did do does doing down during each few for from further
had has have having he her here hers herself him himself his how i if in into is it its itself
just me more most my myself no nor not now of off on once only or other our ours ourselves out
over own same she should so some such than that the their theirs them themselves then there
these they this those through to too under until up very was we were what when where which
while who whom why will with would you your yours yourself yourselves
`)

// LoadStopwords 读取停用词文件（每行一个，# 开头为注释）。
func LoadStopwords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stopwords: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, Normalize(w))
	}
	return words, sc.Err()
}

func stopSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

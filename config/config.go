// Package config 加载并校验评估配置（YAML/JSON），并据此构建 metric、agreement 计算器与筛选器。
//
// 示例（topicstab.yaml）：
//
//	top: 10
//	workers: 8
//	metric:
//	  type: aj
//	  config:
//	    depth: 10
//	ats:
//	  normalization: matched
//	adsd:
//	  base: first
//	partition:
//	  alignment: strict
//	measures: [nmi, ami, ari]
//	histogram:
//	  bin_width: 0.05
//	filter: 'artifact.topics == 10'
//	store:
//	  url: redis://localhost:6379/0
//	  ttl: 86400
//	  prefix: topicstab
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/topicstab/agreement"
	"github.com/rushteam/topicstab/clustering"
	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/pkg/dsl"
	"github.com/rushteam/topicstab/similarity"
)

// Config 是评估配置。
type Config struct {
	Top     int          `yaml:"top" json:"top"`
	Workers int          `yaml:"workers" json:"workers"`
	Metric  MetricConfig `yaml:"metric" json:"metric"`
	ATS     struct {
		Normalization string `yaml:"normalization" json:"normalization"`
	} `yaml:"ats" json:"ats"`
	ADSD struct {
		Base string `yaml:"base" json:"base"`
	} `yaml:"adsd" json:"adsd"`
	Partition struct {
		Alignment string `yaml:"alignment" json:"alignment"`
	} `yaml:"partition" json:"partition"`
	Measures  []string `yaml:"measures" json:"measures"`
	Histogram struct {
		BinWidth float64 `yaml:"bin_width" json:"bin_width"`
	} `yaml:"histogram" json:"histogram"`
	Filter string      `yaml:"filter" json:"filter"`
	Store  StoreConfig `yaml:"store" json:"store"`
}

// MetricConfig 选择 topic 相似度指标。
type MetricConfig struct {
	Type   string         `yaml:"type" json:"type"`     // jaccard / aj
	Config map[string]any `yaml:"config" json:"config"` // 指标特定配置
}

// StoreConfig 是结果存储配置，URL 为空时不记录。
type StoreConfig struct {
	URL    string `yaml:"url" json:"url"`
	TTL    int    `yaml:"ttl" json:"ttl"` // 秒
	Prefix string `yaml:"prefix" json:"prefix"`
}

// Default 返回默认配置。
func Default() *Config {
	var d core.EvalConfig = &core.DefaultEvalConfig{}
	cfg := &Config{
		Top:      d.DefaultTop(),
		Workers:  d.DefaultWorkers(),
		Metric:   MetricConfig{Type: d.DefaultMetric()},
		Measures: []string{"nmi"},
	}
	cfg.ATS.Normalization = string(agreement.NormalizeMatched)
	cfg.ADSD.Base = string(agreement.BaseFirst)
	cfg.Partition.Alignment = string(clustering.AlignStrict)
	cfg.Histogram.BinWidth = d.DefaultBinWidth()
	return cfg
}

// Load 按扩展名加载配置（.yaml/.yml 或 .json）。
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadFromJSON(path)
	case ".yaml", ".yml":
		return LoadFromYAML(path)
	}
	return nil, core.InvalidInputf(core.ModuleConfig, "unsupported config file %q (use .yaml or .json)", path)
}

// LoadFromYAML 从 YAML 文件加载配置，未出现的字段保留默认值。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置，未出现的字段保留默认值。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return cfg, nil
}

// Validate 校验取值范围，以及 metric / measure 类型均已注册；错误信息包含已支持列表。
func (c *Config) Validate() error {
	if c.Top < 0 {
		return core.InvalidInputf(core.ModuleConfig, "top must be >= 0, got %d", c.Top)
	}
	if c.Workers < 0 {
		return core.InvalidInputf(core.ModuleConfig, "workers must be >= 0, got %d", c.Workers)
	}
	if !similarity.Supported(c.Metric.Type) {
		return core.InvalidInputf(core.ModuleConfig, "unsupported metric %q (supported: %v)", c.Metric.Type, similarity.SupportedTypes())
	}
	if _, err := agreement.ParseNormalization(c.ATS.Normalization); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, err, "config: ats.normalization")
	}
	if _, err := agreement.ParseBase(c.ADSD.Base); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, err, "config: adsd.base")
	}
	if _, err := clustering.ParseAlignment(c.Partition.Alignment); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, err, "config: partition.alignment")
	}
	if _, err := clustering.ParseMeasures(strings.Join(c.Measures, ",")); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, err, "config: measures")
	}
	if c.Histogram.BinWidth <= 0 {
		return core.InvalidInputf(core.ModuleConfig, "histogram.bin_width must be > 0, got %v", c.Histogram.BinWidth)
	}
	if _, err := dsl.NewFilter(c.Filter); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, err, "config: filter")
	}
	if c.Store.TTL < 0 {
		return core.InvalidInputf(core.ModuleConfig, "store.ttl must be >= 0, got %d", c.Store.TTL)
	}
	return nil
}

// BuildMetric 按 metric 配置构建相似度指标。
func (c *Config) BuildMetric() (similarity.Metric, error) {
	return similarity.Build(c.Metric.Type, c.Metric.Config)
}

// BuildATS 构建 RankingSetAgreement。
func (c *Config) BuildATS(logger *slog.Logger) (*agreement.RankingSetAgreement, error) {
	metric, err := c.BuildMetric()
	if err != nil {
		return nil, err
	}
	norm, err := agreement.ParseNormalization(c.ATS.Normalization)
	if err != nil {
		return nil, err
	}
	return agreement.NewRankingSetAgreement(metric,
		agreement.WithTop(c.Top),
		agreement.WithNormalization(norm),
		agreement.WithLogger(logger),
	), nil
}

// BuildADSD 构建 ADSD 计算器。
func (c *Config) BuildADSD() (*agreement.ADSD, error) {
	base, err := agreement.ParseBase(c.ADSD.Base)
	if err != nil {
		return nil, err
	}
	return agreement.NewADSD(c.Top, base), nil
}

// BuildMeasures 构建 partition 指标（按配置顺序）。
func (c *Config) BuildMeasures() ([]*clustering.Measure, error) {
	names, err := clustering.ParseMeasures(strings.Join(c.Measures, ","))
	if err != nil {
		return nil, err
	}
	align, err := clustering.ParseAlignment(c.Partition.Alignment)
	if err != nil {
		return nil, err
	}
	out := make([]*clustering.Measure, 0, len(names))
	for _, n := range names {
		m, err := clustering.NewMeasure(n, align)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// BuildFilter 编译 artifact 筛选表达式。
func (c *Config) BuildFilter() (*dsl.Filter, error) {
	return dsl.NewFilter(c.Filter)
}

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/harness"
	"github.com/rushteam/topicstab/stats"
)

// DefaultPrefix 是 Recorder 的默认 key 前缀。
const DefaultPrefix = "topicstab"

// Recorder 把一次 harness 运行写入 KeyValueStore：
//
//	<prefix>:runs               zset  run id -> 创建时间（unix 秒）
//	<prefix>:<id>:summary       hash  kind / compared / possible / mean / ...
//	<prefix>:<id>:pairs         zset  "a|b" -> score
//	<prefix>:<id>:skipped       hash  "a|b" -> 错误信息
//	<prefix>:latest:<kind>      string 该评估类型最近一次的 run id
type Recorder struct {
	Store  core.KeyValueStore
	Prefix string
	// TTL 单位为秒，<= 0 表示不过期
	TTL    int
	Logger *slog.Logger
}

func NewRecorder(kv core.KeyValueStore, prefix string, ttl int) *Recorder {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Recorder{Store: kv, Prefix: prefix, TTL: ttl}
}

// StoredPair 是读回的单个 pair 分数。
type StoredPair struct {
	A     string
	B     string
	Score float64
}

// Run 是读回的一次运行。
type Run struct {
	ID       string
	Kind     string
	Created  time.Time
	Compared int
	Possible int
	Summary  stats.Summary
	Pairs    []StoredPair
	Skipped  map[string]string
}

func (r *Recorder) key(parts ...string) string {
	return r.Prefix + ":" + strings.Join(parts, ":")
}

func (r *Recorder) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func pairMember(a, b string) string { return a + "|" + b }

// Record 写入一次运行并返回 run id。kind 是评估类型（如 "ats"、"adsd"、"pnmi"）。
func (r *Recorder) Record(ctx context.Context, kind string, res *harness.Result) (string, error) {
	if res == nil {
		return "", core.InvalidInputf(core.ModuleStore, "nil result")
	}
	id := uuid.NewString()
	now := time.Now()
	sum := res.Summary()

	fields := map[string]string{
		"kind":     kind,
		"topology": res.Topology.String(),
		"created":  strconv.FormatInt(now.Unix(), 10),
		"compared": strconv.Itoa(res.Compared()),
		"possible": strconv.Itoa(res.Possible),
		"count":    strconv.Itoa(sum.Count),
		"mean":     formatFloat(sum.Mean),
		"median":   formatFloat(sum.Median),
		"std":      formatFloat(sum.Std),
		"min":      formatFloat(sum.Min),
		"max":      formatFloat(sum.Max),
		"p25":      formatFloat(sum.P25),
		"p75":      formatFloat(sum.P75),
	}
	summaryKey := r.key(id, "summary")
	for f, v := range fields {
		if err := r.Store.HSet(ctx, summaryKey, f, []byte(v)); err != nil {
			return "", fmt.Errorf("store %s: write summary: %w", r.Store.Name(), err)
		}
	}

	pairsKey := r.key(id, "pairs")
	for _, p := range res.Scores {
		if err := r.Store.ZAdd(ctx, pairsKey, p.Score, pairMember(res.Label(p.I), res.Label(p.J))); err != nil {
			return "", fmt.Errorf("store %s: write pair: %w", r.Store.Name(), err)
		}
	}

	skippedKey := r.key(id, "skipped")
	for _, f := range res.Skipped {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		if err := r.Store.HSet(ctx, skippedKey, pairMember(res.Label(f.I), res.Label(f.J)), []byte(msg)); err != nil {
			return "", fmt.Errorf("store %s: write skipped pair: %w", r.Store.Name(), err)
		}
	}

	if err := r.Store.ZAdd(ctx, r.key("runs"), float64(now.Unix()), id); err != nil {
		return "", fmt.Errorf("store %s: index run: %w", r.Store.Name(), err)
	}
	for _, k := range []string{summaryKey, pairsKey, skippedKey} {
		if err := r.Store.Expire(ctx, k, r.TTL); err != nil {
			return "", fmt.Errorf("store %s: expire %s: %w", r.Store.Name(), k, err)
		}
	}
	if err := r.Store.Set(ctx, r.key("latest", kind), []byte(id), r.TTL); err != nil {
		return "", fmt.Errorf("store %s: mark latest: %w", r.Store.Name(), err)
	}

	r.logger().Info("recorded evaluation run",
		slog.String("store", r.Store.Name()),
		slog.String("run", id),
		slog.String("kind", kind),
		slog.Int("pairs", res.Compared()),
	)
	return id, nil
}

// Runs 返回已记录的 run id，最新的在前。
func (r *Recorder) Runs(ctx context.Context) ([]string, error) {
	return r.Store.ZRange(ctx, r.key("runs"), 0, -1)
}

// Latest 返回 kind 最近一次记录的 run id；没有时返回 NOT_FOUND。
func (r *Recorder) Latest(ctx context.Context, kind string) (string, error) {
	id, err := r.Store.Get(ctx, r.key("latest", kind))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return "", core.WrapDomainError(core.ModuleStore, core.ErrorCodeNotFound, err, "store: no %s run recorded", kind)
		}
		return "", err
	}
	return string(id), nil
}

// Delete 删除一次运行的全部 key 并把它移出索引。
func (r *Recorder) Delete(ctx context.Context, id string) error {
	run, err := r.Load(ctx, id)
	if err != nil {
		return err
	}
	for _, k := range []string{r.key(id, "summary"), r.key(id, "pairs"), r.key(id, "skipped")} {
		if err := r.Store.Delete(ctx, k); err != nil {
			return fmt.Errorf("store %s: delete %s: %w", r.Store.Name(), k, err)
		}
	}
	if err := r.Store.ZRem(ctx, r.key("runs"), id); err != nil {
		return fmt.Errorf("store %s: unindex run: %w", r.Store.Name(), err)
	}
	if latest, err := r.Latest(ctx, run.Kind); err == nil && latest == id {
		if err := r.Store.Delete(ctx, r.key("latest", run.Kind)); err != nil {
			return fmt.Errorf("store %s: delete latest: %w", r.Store.Name(), err)
		}
	}
	r.logger().Info("deleted evaluation run", slog.String("store", r.Store.Name()), slog.String("run", id))
	return nil
}

// Load 读回一次运行（含全部 pair，按分数降序）。
func (r *Recorder) Load(ctx context.Context, id string) (*Run, error) {
	fields, err := r.Store.HGetAll(ctx, r.key(id, "summary"))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeNotFound, nil, "store: run %q not found", id)
	}
	run := &Run{ID: id, Kind: string(fields["kind"])}
	if ts, err := strconv.ParseInt(string(fields["created"]), 10, 64); err == nil {
		run.Created = time.Unix(ts, 0)
	}
	run.Compared, _ = strconv.Atoi(string(fields["compared"]))
	run.Possible, _ = strconv.Atoi(string(fields["possible"]))
	run.Summary = stats.Summary{
		Mean:   parseFloat(fields["mean"]),
		Median: parseFloat(fields["median"]),
		Std:    parseFloat(fields["std"]),
		Min:    parseFloat(fields["min"]),
		Max:    parseFloat(fields["max"]),
		P25:    parseFloat(fields["p25"]),
		P75:    parseFloat(fields["p75"]),
	}
	run.Summary.Count, _ = strconv.Atoi(string(fields["count"]))

	if run.Pairs, err = r.TopPairs(ctx, id, -1); err != nil {
		return nil, err
	}

	skipped, err := r.Store.HGetAll(ctx, r.key(id, "skipped"))
	if err != nil {
		return nil, err
	}
	run.Skipped = make(map[string]string, len(skipped))
	for k, v := range skipped {
		run.Skipped[k] = string(v)
	}
	return run, nil
}

// TopPairs 返回分数最高的 n 个 pair；n < 0 返回全部。
func (r *Recorder) TopPairs(ctx context.Context, id string, n int) ([]StoredPair, error) {
	if n == 0 {
		return nil, nil
	}
	stop := int64(n - 1)
	if n < 0 {
		stop = -1
	}
	key := r.key(id, "pairs")
	members, err := r.Store.ZRange(ctx, key, 0, stop)
	if err != nil {
		return nil, err
	}
	out := make([]StoredPair, 0, len(members))
	for _, m := range members {
		score, err := r.Store.ZScore(ctx, key, m)
		if err != nil {
			return nil, err
		}
		a, b, _ := strings.Cut(m, "|")
		out = append(out, StoredPair{A: a, B: b, Score: score})
	}
	return out, nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func parseFloat(b []byte) float64 {
	f, _ := strconv.ParseFloat(string(b), 64)
	return f
}

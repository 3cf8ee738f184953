package pipeline

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/schedulator/pkg/cache"
	"github.com/matzehuels/schedulator/pkg/cpm"
	"github.com/matzehuels/schedulator/pkg/dag"
	"github.com/matzehuels/schedulator/pkg/dag/topo"
	"github.com/matzehuels/schedulator/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching and logging behave the same way.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete read → analyze → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errorf("invalid options", err)
	}

	readStart := time.Now()
	records, err := r.Read(ctx, opts)
	if err != nil {
		return nil, err
	}
	readTime := time.Since(readStart)

	result, err := r.Analyze(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ReadTime = readTime

	if err := r.RenderAll(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// Read tokenizes the task file named by opts.Path.
func (r *Runner) Read(ctx context.Context, opts Options) ([]dag.Record, error) {
	if err := opts.ValidateForRead(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnReadStart(ctx, opts.Path)
	start := time.Now()

	records, err := ReadFile(opts.Path, opts.Input)
	hooks.OnReadComplete(ctx, opts.Path, len(records), time.Since(start), err)
	if err != nil {
		return nil, errorf("read", err)
	}

	r.Logger.Debug("read tasks", "path", opts.Path, "tasks", len(records))
	return records, nil
}

// Analyze builds, orders and schedules records.
// Domain errors (duplicates, unknown predecessors, cycles) are returned
// unwrapped from their stage so callers can match them with errors.As.
func (r *Runner) Analyze(ctx context.Context, records []dag.Record, opts Options) (*Result, error) {
	opts.SetAnalyzeDefaults()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(records))
	start := time.Now()

	res, err := r.analyze(records, opts)
	elapsed := time.Since(start)
	hooks.OnAnalyzeComplete(ctx, len(records), elapsed, err)
	if err != nil {
		r.Logger.Debug("analysis failed", "tasks", len(records), "error", err)
		return nil, errorf("analyze", err)
	}
	res.Stats.AnalyzeTime = elapsed

	r.Logger.Info("analyzed schedule",
		"run", res.RunID,
		"tasks", res.Stats.TaskCount,
		"edges", res.Stats.EdgeCount,
		"duration", res.Schedule.Duration,
		"critical", len(res.Schedule.CriticalPath),
		"elapsed", elapsed)
	return res, nil
}

func (r *Runner) analyze(records []dag.Record, opts Options) (*Result, error) {
	g, err := dag.Build(records)
	if err != nil {
		return nil, err
	}
	order, err := topo.Sort(g)
	if err != nil {
		return nil, err
	}
	s, err := cpm.Analyze(g, order, opts.AnalyzeOptions()...)
	if err != nil {
		return nil, err
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:     uuid.New(),
		Graph:     g,
		Order:     order,
		Schedule:  s,
		Paths:     s.CriticalPaths(opts.PathLimit),
		GraphHash: hash,
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			TaskCount: g.Len(),
			EdgeCount: g.EdgeCount(),
			Levels:    len(order.Levels()),
		},
	}, nil
}

// RenderAll renders every format in opts.Formats into res.Artifacts.
func (r *Runner) RenderAll(ctx context.Context, res *Result, opts Options) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if res.Artifacts == nil {
		res.Artifacts = make(map[string][]byte)
	}

	start := time.Now()
	for _, format := range opts.Formats {
		data, hit, err := r.RenderWithCacheInfo(ctx, res, format, opts)
		if err != nil {
			return err
		}
		res.Artifacts[format] = data
		if hit {
			res.CacheInfo.RenderHits = append(res.CacheInfo.RenderHits, format)
		}
	}
	res.Stats.RenderTime = time.Since(start)

	r.Logger.Debug("rendered outputs",
		"run", res.RunID,
		"formats", opts.Formats,
		"cached", res.CacheInfo.RenderHits,
		"elapsed", res.Stats.RenderTime)
	return nil
}

// RenderWithCacheInfo renders one format and reports whether it came from
// the cache. JSON and CSV are always rendered fresh.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, format string, opts Options) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	cached := cachedFormats[format]
	key := r.Keyer.ArtifactKey(res.GraphHash, cache.ArtifactKeyOpts{Format: format, Detailed: opts.Detailed})
	cacheHooks := observability.Cache()

	if cached && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := RenderFormat(ctx, res, format, opts.Detailed)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, errorf("render "+format, err)
	}

	if cached {
		ttl := opts.TTL
		if ttl == 0 {
			ttl = DefaultArtifactTTL
		}
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *Result, format string, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, res, format, opts)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type hashedTask struct {
	ID     string   `json:"id"`
	Weight int64    `json:"w"`
	After  []string `json:"after,omitempty"`
}

// GraphHash returns a content hash of g that ignores declaration order and
// source line numbers, so reformatting a file keeps its cached artifacts.
func GraphHash(g *dag.Graph) (string, error) {
	tasks := make([]hashedTask, 0, g.Len())
	for _, t := range g.Tasks() {
		tasks = append(tasks, hashedTask{ID: t.ID, Weight: t.Weight, After: g.Predecessors(t.ID)})
	}
	slices.SortFunc(tasks, func(a, b hashedTask) int { return cmp.Compare(a.ID, b.ID) })
	return cache.HashJSON(tasks)
}

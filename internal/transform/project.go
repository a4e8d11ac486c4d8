package transform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nau-media/qrlcapture/internal/cache"
	"github.com/nau-media/qrlcapture/internal/config"
	"github.com/nau-media/qrlcapture/internal/discover"
	"github.com/nau-media/qrlcapture/internal/rewrite"
)

// FileResult records the outcome of transforming one discovered file.
type FileResult struct {
	discover.FileInfo
	Output Output
	Edited bool
	Err    error
}

// ProjectOptions configures a Project run.
type ProjectOptions struct {
	// Write persists edited files back to disk. When false, Run only
	// reports what would change.
	Write bool
	// Cache is consulted (when non-nil) to skip files whose content hash
	// is unchanged since the last recorded run.
	Cache *cache.Store
	// Concurrency bounds the number of files processed at once. Zero
	// selects runtime.GOMAXPROCS(0) or Config.Concurrency, if set.
	Concurrency int
	// Config supplies extra ignore patterns and reserved-identifier
	// overrides (internal/config). Nil selects the rewriter's defaults
	// and no extra ignore patterns.
	Config *config.Config
}

// Project fans a directory tree's transform work out across goroutines,
// one per file (spec §4.G, §5): discovery and cache lookups are the only
// shared state, and each file's rewrite touches nothing another file's
// rewrite can observe.
type Project struct {
	RepoPath string
	Opts     ProjectOptions

	// RunID identifies one Project.Run invocation in logs, the way the
	// teacher's pipeline tags a run by project name.
	RunID string
}

// NewProject creates a Project for repoPath with a fresh run id.
func NewProject(repoPath string, opts ProjectOptions) *Project {
	if opts.Concurrency <= 0 {
		if opts.Config != nil && opts.Config.Concurrency > 0 {
			opts.Concurrency = opts.Config.Concurrency
		} else {
			opts.Concurrency = runtime.GOMAXPROCS(0)
		}
	}
	return &Project{RepoPath: repoPath, Opts: opts, RunID: uuid.NewString()}
}

// reservedNames returns the rewriter's reserved identifiers, applying the
// Project's Config override (if any).
func (p *Project) reservedNames() rewrite.ReservedNames {
	return p.Opts.Config.ReservedNames()
}

// discoverOptions builds the discover.Options reflecting the Project's
// Config, if any.
func (p *Project) discoverOptions() *discover.Options {
	if p.Opts.Config == nil || len(p.Opts.Config.Ignore) == 0 {
		return nil
	}
	return &discover.Options{Patterns: p.Opts.Config.Ignore}
}

// Run discovers candidate files under RepoPath and transforms each one
// concurrently, bounded by Opts.Concurrency. It never aborts the walk on a
// single file's error; every file's outcome (including its error, if any)
// is returned, and Run's own error is non-nil only if discovery itself
// failed.
func (p *Project) Run(ctx context.Context) ([]FileResult, error) {
	slog.Info("transform.start", "run_id", p.RunID, "path", p.RepoPath)

	files, err := discover.Discover(ctx, p.RepoPath, p.discoverOptions())
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	slog.Info("transform.discovered", "run_id", p.RunID, "files", len(files))

	results := make([]FileResult, len(files))
	var mu sync.Mutex // guards cache reads/writes only; results is index-partitioned

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Opts.Concurrency)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{FileInfo: f, Err: err}
				return nil
			}
			results[i] = p.transformOne(f, &mu)
			return nil
		})
	}
	// g.Wait's error is always nil here: transformOne never returns an
	// error through the group, only through each FileResult.
	_ = g.Wait()

	edited := 0
	for _, r := range results {
		if r.Err != nil {
			slog.Error("transform.file_failed", "run_id", p.RunID, "file", r.RelPath, "err", r.Err.Error())
			continue
		}
		if r.Edited {
			edited++
		}
	}
	slog.Info("transform.done", "run_id", p.RunID, "edited", edited, "total", len(files))
	return results, nil
}

func (p *Project) transformOne(f discover.FileInfo, mu *sync.Mutex) FileResult {
	source, err := os.ReadFile(f.Path)
	if err != nil {
		return FileResult{FileInfo: f, Err: fmt.Errorf("read %s: %w", f.RelPath, err)}
	}
	hash := cache.ContentHash(source)

	if p.Opts.Cache != nil {
		mu.Lock()
		edited, hit, lookupErr := p.Opts.Cache.Lookup(f.Path, hash)
		mu.Unlock()
		if lookupErr == nil && hit {
			slog.Debug("transform.cache_hit", "run_id", p.RunID, "file", f.RelPath)
			return FileResult{FileInfo: f, Edited: edited}
		}
	}

	out, err := TransformWithReserved(string(source), f.Path, p.reservedNames())
	if err != nil {
		return FileResult{FileInfo: f, Err: fmt.Errorf("transform %s: %w", f.RelPath, err)}
	}
	edited := out.Code != ""

	if p.Opts.Cache != nil {
		mu.Lock()
		_ = p.Opts.Cache.Record(f.Path, hash, edited)
		mu.Unlock()
	}

	if edited && p.Opts.Write {
		if err := os.WriteFile(f.Path, []byte(out.Code), 0o644); err != nil {
			return FileResult{FileInfo: f, Output: out, Edited: edited, Err: fmt.Errorf("write %s: %w", f.RelPath, err)}
		}
	}

	return FileResult{FileInfo: f, Output: out, Edited: edited}
}

// Package watcher implements the CLI's watch mode: adaptive-interval
// polling that re-runs the transform whenever a source file under the
// watched directory changes — adapted from the teacher's multi-project
// StoreRouter poller down to the single directory tree qrlcapture's CLI
// operates on.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/nau-media/qrlcapture/internal/discover"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// RunFunc is invoked whenever the watched tree changes.
type RunFunc func(ctx context.Context, repoPath string) error

// Watcher polls a directory tree for file changes and triggers RunFunc.
type Watcher struct {
	RepoPath string
	RunFn    RunFunc

	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
}

// New creates a Watcher over repoPath. runFn is called once per detected
// change, and again is not attempted until it returns (successfully or
// not) — a run failure keeps the old snapshot so the next tick retries.
func New(repoPath string, runFn RunFunc) *Watcher {
	return &Watcher{RepoPath: repoPath, RunFn: runFn}
}

// Run blocks until ctx is cancelled, polling at baseInterval but skipping
// ticks until the adaptive interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			if !w.nextPoll.IsZero() && now.Before(w.nextPoll) {
				continue
			}
			w.poll(ctx)
		}
	}
}

// poll captures a snapshot of the file tree and compares it with the
// previous one. The first poll only captures a baseline; subsequent polls
// trigger RunFn when anything changed.
func (w *Watcher) poll(ctx context.Context) {
	if _, err := os.Stat(w.RepoPath); err != nil {
		slog.Warn("watcher.root_gone", "path", w.RepoPath)
		w.nextPoll = time.Now().Add(maxInterval)
		return
	}

	snap, err := captureSnapshot(ctx, w.RepoPath)
	if err != nil {
		slog.Warn("watcher.snapshot", "path", w.RepoPath, "err", err.Error())
		w.nextPoll = time.Now().Add(w.interval)
		return
	}

	interval := pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "path", w.RepoPath, "files", len(snap))
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	if snapshotsEqual(w.snapshot, snap) {
		w.interval = interval
		w.nextPoll = time.Now().Add(interval)
		return
	}

	slog.Info("watcher.changed", "path", w.RepoPath, "files", len(snap))
	if err := w.RunFn(ctx, w.RepoPath); err != nil {
		slog.Warn("watcher.run_failed", "path", w.RepoPath, "err", err.Error())
		w.nextPoll = time.Now().Add(interval)
		return
	}

	w.snapshot = snap
	w.interval = pollInterval(len(snap))
	w.nextPoll = time.Now().Add(w.interval)
}

// captureSnapshot walks the file tree using discover.Discover and captures
// mtime+size for each candidate file.
func captureSnapshot(ctx context.Context, rootPath string) (map[string]fileSnapshot, error) {
	files, err := discover.Discover(ctx, rootPath, nil)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
	return snap, nil
}

// snapshotsEqual reports whether two snapshots have identical files with
// identical mtime and size.
func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

// pollInterval computes the adaptive interval from file count: 1s base
// plus 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nau-media/qrlcapture/internal/config"
	"github.com/nau-media/qrlcapture/internal/transform"
	"github.com/nau-media/qrlcapture/internal/watcher"
)

var (
	watchConfigPath  string
	watchConcurrency int
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-run the transform whenever a file under <dir> changes",
	Long: `watch polls <dir> at an adaptive interval and re-applies the rewrite
(writing results back to disk) whenever it detects a file change.

Example:
  qrlcapture watch ./src`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "", "path to a .qrlcapturerc.toml file (default: <dir>/.qrlcapturerc.toml)")
	watchCmd.Flags().IntVar(&watchConcurrency, "concurrency", 0, "max files transformed concurrently (default: GOMAXPROCS)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	repoPath := args[0]

	cfg, err := loadWatchConfig(cmd, repoPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cacheStore, err := openCache(cfg)
	if err != nil {
		slog.Warn("watch.cache_unavailable", "err", err.Error())
	} else {
		defer cacheStore.Close()
	}

	opts := transform.ProjectOptions{
		Write:       true,
		Concurrency: watchConcurrency,
		Config:      cfg,
		Cache:       cacheStore,
	}

	runFn := func(ctx context.Context, root string) error {
		proj := transform.NewProject(root, opts)
		results, err := proj.Run(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.RelPath, r.Err)
				continue
			}
			if r.Edited {
				fmt.Printf("%s\n", r.RelPath)
			}
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("watch.started", "path", repoPath)
	watcher.New(repoPath, runFn).Run(ctx)
	slog.Info("watch.stopped", "path", repoPath)
	return nil
}

func loadWatchConfig(cmd *cobra.Command, repoPath string) (*config.Config, error) {
	if watchConfigPath != "" {
		return config.LoadFile(watchConfigPath)
	}
	return config.Load(repoPath, cmd.Flags())
}

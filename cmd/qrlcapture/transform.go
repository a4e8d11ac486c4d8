package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nau-media/qrlcapture/internal/cache"
	"github.com/nau-media/qrlcapture/internal/config"
	"github.com/nau-media/qrlcapture/internal/transform"
)

var (
	transformWrite       bool
	transformConfigPath  string
	transformNoCache     bool
	transformConcurrency int
)

var transformCmd = &cobra.Command{
	Use:   "transform <dir>",
	Short: "Rewrite useInlineTask call sites under a directory tree",
	Long: `transform walks <dir>, applying the capture rewrite to every eligible
useInlineTask call site it finds.

Examples:
  qrlcapture transform .
  qrlcapture transform ./src --write
  qrlcapture transform ./src --config ./custom.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().BoolVar(&transformWrite, "write", false, "write rewritten files back to disk")
	transformCmd.Flags().StringVar(&transformConfigPath, "config", "", "path to a .qrlcapturerc.toml file (default: <dir>/.qrlcapturerc.toml)")
	transformCmd.Flags().BoolVar(&transformNoCache, "no-cache", false, "disable the incremental content-hash cache")
	transformCmd.Flags().IntVar(&transformConcurrency, "concurrency", 0, "max files transformed concurrently (default: GOMAXPROCS)")
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	repoPath := args[0]

	cfg, err := loadTransformConfig(cmd, repoPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts := transform.ProjectOptions{
		Write:       transformWrite,
		Concurrency: transformConcurrency,
		Config:      cfg,
	}

	if !transformNoCache {
		store, err := openCache(cfg)
		if err != nil {
			slog.Warn("transform.cache_unavailable", "err", err.Error())
		} else {
			opts.Cache = store
			defer store.Close()
		}
	}

	proj := transform.NewProject(repoPath, opts)
	results, err := proj.Run(context.Background())
	if err != nil {
		return err
	}

	edited := 0
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.RelPath, r.Err)
			continue
		}
		if r.Edited {
			edited++
			fmt.Printf("%s\n", r.RelPath)
		}
	}

	fmt.Printf("%d file(s) edited, %d file(s) failed, %d file(s) scanned\n", edited, failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to transform", failed)
	}
	return nil
}

func loadTransformConfig(cmd *cobra.Command, repoPath string) (*config.Config, error) {
	if transformConfigPath != "" {
		return config.LoadFile(transformConfigPath)
	}
	return config.Load(repoPath, cmd.Flags())
}

func openCache(cfg *config.Config) (*cache.Store, error) {
	path := ""
	if cfg != nil {
		path = cfg.CachePath
	}
	if path == "" {
		var err error
		path, err = cache.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return cache.Open(path)
}

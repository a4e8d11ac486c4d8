// Package discover walks a project tree and selects the files the capture
// transformer should look at: the driver's file filter (spec §4.G).
package discover

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nau-media/qrlcapture/internal/lang"
)

// HookIdentifier is the substring the driver cheaply greps for before
// paying for a parse, and the callee name the rewriter matches call sites
// against. A file that never mentions it cannot contain an inline-task
// call site.
const HookIdentifier = "useInlineTask"

// vendorDirs are directory names skipped outright, regardless of depth.
var vendorDirs = map[string]bool{
	".git": true, "node_modules": true, "bower_components": true,
	"dist": true, "build": true, "out": true, ".next": true,
	".turbo": true, ".cache": true, ".vscode": true, ".idea": true,
	"coverage": true, ".nyc_output": true, ".yarn": true, ".pnpm-store": true,
}

// FileInfo represents a discovered candidate source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to repo root
	Language lang.Language // detected dialect
}

// Options configures discovery.
type Options struct {
	// IgnoreFile is an optional path to a newline-delimited glob-pattern
	// ignore file (like .gitignore), evaluated in addition to vendorDirs.
	IgnoreFile string
	// Patterns are extra glob patterns to skip, supplied directly (e.g.
	// internal/config's Ignore list) rather than read from a file.
	Patterns []string
}

func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if vendorDirs[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks repoPath and returns every file that (1) has a registered
// script extension, (2) is not under a vendor directory, and (3) mentions
// the hook identifier as a raw substring. Condition (3) is the same
// cheap pre-filter the bundler interface (§6) applies before parsing.
func Discover(ctx context.Context, repoPath string, opts *Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var extraIgnore []string
	if opts != nil && opts.IgnoreFile != "" {
		extraIgnore, _ = loadIgnoreFile(opts.IgnoreFile)
	} else {
		extraIgnore, _ = loadIgnoreFile(filepath.Join(repoPath, ".qrlcaptureignore"))
	}
	if opts != nil {
		extraIgnore = append(extraIgnore, opts.Patterns...)
	}

	var files []FileInfo

	err = filepath.Walk(repoPath, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(repoPath, path)

		if info.IsDir() {
			if shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		l, ok := lang.LanguageForExtension(ext)
		if !ok {
			return nil
		}

		mentionsHook, err := fileMentionsHook(path)
		if err != nil || !mentionsHook {
			return nil
		}

		files = append(files, FileInfo{
			Path:     path,
			RelPath:  filepath.ToSlash(rel),
			Language: l,
		})
		return nil
	})

	return files, err
}

// fileMentionsHook reports whether a file's raw bytes contain the hook
// identifier, without parsing it. This mirrors the bundler interface's
// `code.includes("useInlineTask")` short-circuit (spec §6).
func fileMentionsHook(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Contains(data, []byte(HookIdentifier)), nil
}

// MentionsHook exposes the same substring check for in-memory buffers, used
// by the bundler-interface Transform entry point (internal/transform).
func MentionsHook(code string) bool {
	return strings.Contains(code, HookIdentifier)
}

// IsVendorPath reports whether any path component of p is a vendor
// directory the driver must reject (spec §4.G, §6).
func IsVendorPath(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if vendorDirs[part] {
			return true
		}
	}
	return false
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}

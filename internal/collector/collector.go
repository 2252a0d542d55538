package collector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Collector gathers the diff context and the current content of changed
// files of interest. Read-only against the filesystem and the VCS.
type Collector struct {
	runner   Runner
	exts     map[string]bool
	maxBytes int
	workers  int

	readFile func(string) ([]byte, error)
}

// New creates a collector from the review configuration.
func New(cfg config.ReviewConfig) *Collector {
	exts := make(map[string]bool, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts[strings.ToLower(e)] = true
	}

	workers := cfg.ContentWorkers
	if workers <= 0 {
		workers = 4
	}

	return &Collector{
		runner:   &ExecRunner{},
		exts:     exts,
		maxBytes: cfg.MaxFileBytes,
		workers:  workers,
		readFile: os.ReadFile,
	}
}

// Collect produces the diff context against origin/<base> and a mapping from
// each changed path of interest to its current content. A nil content entry
// means the file could not be read; that never fails the run.
func (c *Collector) Collect(ctx context.Context, base string) (domain.DiffContext, map[string]*string, error) {
	rangeSpec := fmt.Sprintf("origin/%s...HEAD", base)

	diff, err := c.runner.Output(ctx, "git", "diff", rangeSpec)
	if err != nil {
		return domain.DiffContext{}, nil, fmt.Errorf("git diff %s: %w", rangeSpec, err)
	}

	names, err := c.runner.Output(ctx, "git", "diff", "--name-only", rangeSpec)
	if err != nil {
		return domain.DiffContext{}, nil, fmt.Errorf("git diff --name-only %s: %w", rangeSpec, err)
	}

	paths := c.FilterPaths(splitLines(names))

	contents := make([]*string, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, path := range paths {
		g.Go(func() error {
			contents[i] = c.loadContent(path)
			return nil
		})
	}
	g.Wait()

	byPath := make(map[string]*string, len(paths))
	for i, path := range paths {
		byPath[path] = contents[i]
	}

	return domain.DiffContext{Diff: diff, Paths: paths}, byPath, nil
}

// FilterPaths applies the configured extension allow-list, preserving order.
func (c *Collector) FilterPaths(paths []string) []string {
	var kept []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if c.exts[strings.ToLower(filepath.Ext(p))] {
			kept = append(kept, p)
		}
	}
	return kept
}

// loadContent reads the current content of one file. Missing, unreadable or
// oversized files map to nil rather than an error.
func (c *Collector) loadContent(path string) *string {
	data, err := c.readFile(path)
	if err != nil {
		slog.Warn("read changed file failed", "path", path, "error", err)
		return nil
	}
	if c.maxBytes > 0 && len(data) > c.maxBytes {
		slog.Warn("changed file skipped, too large", "path", path, "bytes", len(data))
		return nil
	}
	s := string(data)
	return &s
}

func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

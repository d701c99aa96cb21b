package cli

import (
	"context"
	"crypto/md5"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/pkg/adapters/file"
)

// DefaultWatchInterval is how often WatchForms polls the definitions directory.
const DefaultWatchInterval = time.Second

// WatchForms republishes every definition in dir whenever a definition file
// is added, removed or modified, until ctx is done. A reload that fails
// keeps the previously published forms and is only logged.
func WatchForms(ctx context.Context, eng *formwork.Engine, dir string, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	last, err := fingerprint(dir)
	if err != nil {
		return err
	}
	logger.Info("Watching form definitions", "dir", dir, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		sum, err := fingerprint(dir)
		if err != nil {
			logger.Warn("Watcher scan failed", "dir", dir, "err", err)
			continue
		}
		if sum == last {
			continue
		}
		last = sum

		if err := eng.LoadAll(ctx, file.NewLoader(dir)); err != nil {
			logger.Error("Reload failed, keeping previous forms", "dir", dir, "err", err)
			continue
		}
		logger.Info("Change detected, forms reloaded", "forms", eng.Forms())
	}
}

// fingerprint hashes the name, size and modification time of every
// definition file in dir.
func fingerprint(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	h := md5.New()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := file.FormID(entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%s|%d|%d\n", filepath.Base(entry.Name()), info.Size(), info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

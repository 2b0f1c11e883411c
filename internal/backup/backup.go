// Package backup writes periodic snapshots of the household ledger to a
// local directory. Snapshots are the same JSON document the export endpoint
// serves; with a passphrase configured they are encrypted at rest.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Config holds backup settings. An empty Dir disables backups entirely.
type Config struct {
	Dir        string
	Interval   time.Duration
	Passphrase string
	Keep       int
}

// Exporter provides the bytes to snapshot.
type Exporter interface {
	Export() ([]byte, error)
}

// Manager runs the snapshot loop.
type Manager struct {
	cfg    Config
	source Exporter
	logger *slog.Logger
}

func NewManager(cfg Config, source Exporter, logger *slog.Logger) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Keep <= 0 {
		cfg.Keep = 14
	}
	return &Manager{cfg: cfg, source: source, logger: logger}
}

// Enabled reports whether a backup directory is configured.
func (m *Manager) Enabled() bool {
	return m.cfg.Dir != ""
}

// Run writes snapshots on the configured interval until ctx is canceled.
// Failures are logged and the loop keeps going.
func (m *Manager) Run(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Snapshot(); err != nil {
				m.logger.Error("snapshot failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Snapshot writes one backup file and prunes old ones.
func (m *Manager) Snapshot() error {
	data, err := m.source.Export()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	name := "choreboard-" + time.Now().UTC().Format("20060102-150405") + ".json"
	if m.cfg.Passphrase != "" {
		data, err = Encrypt(data, m.cfg.Passphrase)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		name += ".enc"
	}

	if err := os.MkdirAll(m.cfg.Dir, 0700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(m.cfg.Dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	m.logger.Info("snapshot written", "path", path, "bytes", len(data))

	return m.prune()
}

// prune keeps the newest cfg.Keep snapshots and deletes the rest. Names
// embed a UTC timestamp, so lexical order is chronological.
func (m *Manager) prune() error {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return fmt.Errorf("read backup dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "choreboard-") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= m.cfg.Keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-m.cfg.Keep] {
		if err := os.Remove(filepath.Join(m.cfg.Dir, name)); err != nil {
			m.logger.Warn("prune failed", "file", name, "error", err)
		}
	}
	return nil
}

// Package workspace manages the per request scratch directories that
// uploads and generated statements are written to.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run is one request's private directory tree
type Run struct {
	ID       string
	Dir      string
	InputDir string
	OutDir   string
}

type Manager struct {
	root   string
	logger *zap.Logger
}

func New(root string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if root == "" {
		root = filepath.Join(os.TempDir(), "soa-work")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work root %s: %w", root, err)
	}
	return &Manager{root: root, logger: logger}, nil
}

func (m *Manager) Root() string {
	return m.root
}

// Create makes <root>/<prefix>-<uuid> with input and output subfolders
func (m *Manager) Create(prefix string) (*Run, error) {
	id := uuid.New().String()
	dir := filepath.Join(m.root, prefix+"-"+id)
	run := &Run{
		ID:       id,
		Dir:      dir,
		InputDir: filepath.Join(dir, "input"),
		OutDir:   filepath.Join(dir, "output"),
	}
	for _, d := range []string{run.InputDir, run.OutDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to create run directory: %w", err)
		}
	}
	return run, nil
}

// Remove deletes a run tree; failures are logged and otherwise ignored
func (m *Manager) Remove(run *Run) {
	if run == nil {
		return
	}
	if err := os.RemoveAll(run.Dir); err != nil {
		m.logger.Warn("failed to remove run directory", zap.String("dir", run.Dir), zap.Error(err))
	}
}

// SaveInput writes an uploaded file into the run's input folder
func (run *Run) SaveInput(name string, data []byte) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	path := filepath.Join(run.InputDir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Sweep removes run directories last modified before now-maxAge
func (m *Manager) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		dir := filepath.Join(m.root, e.Name())
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("failed to sweep run directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

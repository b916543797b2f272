// Package dotdir manages the .datapilot/ and ~/.datapilot directories.
//
// The directory holds the config.toml and, by default, the sample SQLite
// database.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the datapilot directory.
	dirName = ".datapilot"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .datapilot/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.datapilot/ dir
//  3. Home ~/.datapilot/ dir
//  4. If none found, attempt to create ~/.datapilot/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating datapilot directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// DatabasePath joins the resolved directory with the database file name.
// Absolute paths are returned unchanged so config can point anywhere.
func (m *Manager) DatabasePath(overrideDir, file string) (string, error) {
	if filepath.IsAbs(file) || file == ":memory:" {
		return file, nil
	}
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, file), nil
}

// localDirExists checks whether a .datapilot/ directory exists in the
// current working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}

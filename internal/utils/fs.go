package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DirStatus describes a directory candidate for writing config files.
type DirStatus struct {
	Exists   bool
	Writable bool
	Err      error
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// AbsPath returns path made absolute, or path itself when that fails.
func AbsPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ExecutableDir returns the directory holding the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// CheckDir creates dir when missing and probes it for write access.
func CheckDir(dir string) DirStatus {
	if err := EnsureDir(dir); err != nil {
		log.Warnf("Cannot create directory %s: %v", dir, err)
		return DirStatus{Err: err}
	}
	return DirStatus{Exists: true, Writable: canWrite(dir)}
}

func canWrite(dir string) bool {
	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dir, err)
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}

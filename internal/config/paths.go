package config

import (
	"os"
	"path/filepath"
	"strings"
)

// BaseDir returns the directory relative runtime paths are resolved against:
// the working directory, or the executable's directory when that is unknown.
func BaseDir() string {
	if wd, err := os.Getwd(); err == nil && strings.TrimSpace(wd) != "" {
		return wd
	}
	if exe, err := os.Executable(); err == nil && strings.TrimSpace(exe) != "" {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	return "."
}

// ResolveRuntimePath resolves raw (or fallbackSubdir when raw is empty) to a clean absolute path.
func ResolveRuntimePath(raw string, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallbackSubdir)
	}
	if target == "" {
		return BaseDir()
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(BaseDir(), target)
}

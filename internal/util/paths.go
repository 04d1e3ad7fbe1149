package util

import (
	"os"
	"path/filepath"
)

// VarPath returns the provided path elements joined by a slash and
// appended to the end of $COMPUTE_MANAGER_DIR, which defaults to /var/lib/compute-manager.
func VarPath(path ...string) string {
	varDir := os.Getenv("COMPUTE_MANAGER_DIR")
	if varDir == "" {
		varDir = "/var/lib/compute-manager"
	}

	items := []string{varDir}
	items = append(items, path...)
	return filepath.Join(items...)
}

// LogPath returns the directory that compute manager should put logs under. If COMPUTE_MANAGER_DIR is
// set, this path is $COMPUTE_MANAGER_DIR/logs, otherwise it is /var/log.
func LogPath(path ...string) string {
	varDir := os.Getenv("COMPUTE_MANAGER_DIR")
	logDir := "/var/log"
	if varDir != "" {
		logDir = filepath.Join(varDir, "logs")
	}

	items := []string{logDir}
	items = append(items, path...)
	return filepath.Join(items...)
}

// RunPath returns the directory that compute manager should put runtime data under.
// If COMPUTE_MANAGER_DIR is set, this path is $COMPUTE_MANAGER_DIR/run, otherwise it is /run/compute-manager.
func RunPath(path ...string) string {
	varDir := os.Getenv("COMPUTE_MANAGER_DIR")
	runDir := "/run/compute-manager"
	if varDir != "" {
		runDir = filepath.Join(varDir, "run")
	}

	items := []string{runDir}
	items = append(items, path...)
	return filepath.Join(items...)
}

// IsDir returns true if the given path is a directory.
func IsDir(name string) bool {
	stat, err := os.Stat(name)
	if err != nil {
		return false
	}

	return stat.IsDir()
}

// IsUnixSocket returns true if the given path is either a Unix socket
// or a symbolic link pointing at a Unix socket.
func IsUnixSocket(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeSocket) == os.ModeSocket
}

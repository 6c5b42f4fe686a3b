// Package runtimepath resolves where the running daemon keeps its socket,
// pid file and log.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "tabletile"

// Dir returns the per-user runtime directory. XDG_RUNTIME_DIR wins, then
// /run/user/<uid>, then a private directory under /tmp.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/%s-runtime-%d", appName, uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	return runtimeFile(appName + ".sock")
}

// PIDPath returns the pid file written by a detached daemon.
func PIDPath() (string, error) {
	return runtimeFile(appName + ".pid")
}

// LogPath returns the log file used by a detached daemon, under the XDG
// state directory so it survives logout.
func LogPath() (string, error) {
	if xdg.StateHome == "" {
		return "", fmt.Errorf("cannot determine state directory")
	}
	dir := filepath.Join(xdg.StateHome, appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state dir: %w", err)
	}
	return filepath.Join(dir, "daemon.log"), nil
}

func runtimeFile(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

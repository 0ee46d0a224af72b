// Package sandbox confines file access to pre-authorized directories.
// The red command enables it in restricted mode so that loads and saves
// stay inside the working directory.
package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Common sandbox errors.
var (
	ErrAccessDenied = errors.New("access denied: path not in sandbox")
	ErrReadOnly     = errors.New("write access denied: sandbox is read-only")
)

// Permission represents file access permissions.
type Permission uint8

const (
	PermNone  Permission = 0
	PermRead  Permission = 1 << iota // Can read files
	PermWrite                        // Can write/create files
)

// PathRule defines access rules for a path prefix.
type PathRule struct {
	Path       string     // Path prefix (resolved to absolute)
	Permission Permission // Allowed operations
}

// Sandbox provides controlled filesystem access.
type Sandbox struct {
	mu      sync.RWMutex
	rules   []PathRule
	enabled bool
}

// Config holds sandbox configuration.
type Config struct {
	// Paths to allow access to (with permissions)
	AllowedPaths []PathRule
	// Allow access to current working directory
	AllowCwd bool
	// Default permission for cwd if AllowCwd is true
	CwdPermission Permission
}

// Global sandbox instance, disabled until Init is called.
var globalSandbox = &Sandbox{enabled: false}

// Init enables the global sandbox with the given configuration.
func Init(cfg *Config) error {
	globalSandbox.mu.Lock()
	defer globalSandbox.mu.Unlock()

	globalSandbox.rules = nil
	globalSandbox.enabled = true

	if cfg.AllowCwd {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		perm := cfg.CwdPermission
		if perm == PermNone {
			perm = PermRead | PermWrite
		}
		globalSandbox.rules = append(globalSandbox.rules, PathRule{
			Path:       filepath.Clean(cwd),
			Permission: perm,
		})
	}

	for _, rule := range cfg.AllowedPaths {
		absPath, err := filepath.Abs(rule.Path)
		if err != nil {
			continue
		}
		globalSandbox.rules = append(globalSandbox.rules, PathRule{
			Path:       absPath,
			Permission: rule.Permission,
		})
	}

	return nil
}

// Restrict confines access to the current working directory.
func Restrict() error {
	return Init(&Config{AllowCwd: true})
}

// Disable disables the sandbox (allows all operations).
func Disable() {
	globalSandbox.mu.Lock()
	defer globalSandbox.mu.Unlock()
	globalSandbox.enabled = false
}

// IsEnabled returns whether the sandbox is enabled.
func IsEnabled() bool {
	globalSandbox.mu.RLock()
	defer globalSandbox.mu.RUnlock()
	return globalSandbox.enabled
}

// checkAccess verifies if the given path can be accessed with the requested permission.
func checkAccess(path string, perm Permission) error {
	globalSandbox.mu.RLock()
	defer globalSandbox.mu.RUnlock()

	if !globalSandbox.enabled {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return ErrAccessDenied
	}
	absPath = filepath.Clean(absPath)

	for _, rule := range globalSandbox.rules {
		remainder, ok := strings.CutPrefix(absPath, rule.Path)
		if !ok {
			continue
		}
		if remainder != "" && !strings.HasPrefix(remainder, string(filepath.Separator)) {
			continue
		}
		if rule.Permission&perm == perm {
			return nil
		}
		if perm&PermWrite != 0 && rule.Permission&PermWrite == 0 {
			return ErrReadOnly
		}
	}

	return ErrAccessDenied
}

// ReadFile reads a file within the sandbox.
func ReadFile(path string) ([]byte, error) {
	if err := checkAccess(path, PermRead); err != nil {
		return nil, err
	}
	return os.ReadFile(path) // #nosec G304 -- sandbox checkAccess enforces allowed paths
}

// WriteFile writes data to a file within the sandbox.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := checkAccess(path, PermWrite); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// Stat returns file info within the sandbox.
func Stat(path string) (os.FileInfo, error) {
	if err := checkAccess(path, PermRead); err != nil {
		return nil, err
	}
	return os.Stat(path)
}

// Package fs provides filesystem operations that respect sandbox boundaries.
// File loads and saves should use this package instead of direct os calls.
package fs

import (
	"os"

	"github.com/rcarmo/go-red/pkg/sandbox"
)

// ReadFile reads an entire file.
func ReadFile(path string) ([]byte, error) {
	return sandbox.ReadFile(path)
}

// WriteFile writes data to a file.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return sandbox.WriteFile(path, data, perm)
}

// Stat returns file info.
func Stat(path string) (os.FileInfo, error) {
	return sandbox.Stat(path)
}

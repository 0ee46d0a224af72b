package red

import (
	"errors"
	"fmt"
	iofs "io/fs"

	"github.com/rcarmo/go-red/pkg/core/fs"
	"github.com/rcarmo/go-red/pkg/core/textutil"
	"github.com/rcarmo/go-red/pkg/editor"
)

var errNotFound = errors.New("no such file")

// fileStorage loads and saves buffers through the sandbox-aware fs package.
type fileStorage struct{}

// Load returns the lines of path and its size in bytes.
func (fileStorage) Load(path string) ([]string, int64, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%s: %w", path, errNotFound)
		}
		return nil, 0, fmt.Errorf("%w: %w", editor.ErrProtected, err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%s: %w", path, editor.ErrIsFolder)
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", editor.ErrProtected, err)
	}
	return textutil.SplitLines(string(data)), int64(len(data)), nil
}

// Save writes lines joined by newlines, without a trailing one.
func (fileStorage) Save(path string, lines []string) (int64, error) {
	data := []byte(textutil.JoinLines(lines))
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local persists uploads verbatim under a single directory, overwriting on
// file-name collision.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local { return &Local{dir: dir} }

// Save writes the payload under the given file name and returns the local
// path. The directory is created on first use.
func (s *Local) Save(_ context.Context, fileName string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload %s: %w", path, err)
	}
	return path, nil
}

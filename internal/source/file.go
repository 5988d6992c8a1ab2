package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the collection export from a local file.
type FileSource struct {
	path string
}

// NewFileSource returns a FileSource reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the file. The context is only checked before reading.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileSource) String() string {
	return s.path
}

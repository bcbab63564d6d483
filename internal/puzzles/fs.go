package puzzles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const docExt = ".json"

// FSStore reads one {id}.json document per puzzle from a directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) *FSStore { return &FSStore{dir: dir} }

func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) ListIdentifiers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListUnavailable, err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != docExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), docExt))
	}
	return ids, nil
}

func (s *FSStore) Load(ctx context.Context, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	b, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read puzzle %s: %w", id, err)
	}
	return Decode(id, b)
}

// Path is the document file for id. It does not check existence.
func (s *FSStore) Path(id string) string {
	return filepath.Join(s.dir, id+docExt)
}

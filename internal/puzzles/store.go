package puzzles

import (
	"context"
	"strings"
)

// Store is the read-only puzzle repository.
type Store interface {
	ListIdentifiers(ctx context.Context) ([]string, error)
	Load(ctx context.Context, id string) (*Document, error)
}

// validID rejects identifiers that could escape the data directory or
// the /data/ path segment.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

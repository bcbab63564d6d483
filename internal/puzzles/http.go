package puzzles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultListPath = "/api/puzzles"
	DataPrefix      = "/data/"
	maxBody         = 8 << 20
)

// HTTPStore reads puzzles from a server exposing the list endpoint and the
// /data/{id}.json documents.
type HTTPStore struct {
	base     string
	listPath string
	client   *http.Client
	group    singleflight.Group
}

func NewHTTPStore(base, listPath string, client *http.Client) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	if listPath == "" {
		listPath = DefaultListPath
	}
	return &HTTPStore{
		base:     strings.TrimRight(base, "/"),
		listPath: "/" + strings.TrimLeft(listPath, "/"),
		client:   client,
	}
}

func (s *HTTPStore) ListIdentifiers(ctx context.Context) ([]string, error) {
	body, status, err := s.get(ctx, s.base+s.listPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrListUnavailable, status)
	}
	ids, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListUnavailable, err)
	}
	return ids, nil
}

// Load fetches one document. Concurrent loads of the same identifier share
// a single request.
func (s *HTTPStore) Load(ctx context.Context, id string) (*Document, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	ch := s.group.DoChan(id, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), id)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Document), nil
	}
}

func (s *HTTPStore) fetch(ctx context.Context, id string) (*Document, error) {
	body, status, err := s.get(ctx, s.base+DataPrefix+url.PathEscape(id)+docExt)
	if err != nil {
		return nil, fmt.Errorf("fetch puzzle %s: %w", id, err)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case status != http.StatusOK:
		return nil, fmt.Errorf("fetch puzzle %s: status %d", id, status)
	}
	return Decode(id, body)
}

func (s *HTTPStore) get(ctx context.Context, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

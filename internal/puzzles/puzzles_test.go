package puzzles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcview/internal/grid"
)

const sampleDoc = `{
  "train": [{"input": [[1,1,1],[1,1,1],[1,1,1]], "output": [[2,2,2],[2,2,2],[2,2,2]]}],
  "test": [{"input": [[1,1],[1,1]], "output": [[2,2],[2,2]]}]
}`

func writeDoc(t *testing.T, dir, id, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(body), 0o644))
}

func TestDecodeValidDocument(t *testing.T) {
	doc, err := Decode("p1", []byte(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, "p1", doc.ID)
	require.Len(t, doc.Train, 1)
	assert.Equal(t, 3, doc.Train[0].Input.RowCount())
	assert.Equal(t, "22\n22", doc.Answer().String())
	assert.Equal(t, "11\n11", doc.TestInput().String())
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"empty train":    `{"train": [], "test": [{"input": [[1]], "output": [[1]]}]}`,
		"missing test":   `{"train": [{"input": [[1]], "output": [[1]]}]}`,
		"ragged grid":    `{"train": [{"input": [[1,2],[1]], "output": [[1]]}], "test": [{"input": [[1]], "output": [[1]]}]}`,
		"value too big":  `{"train": [{"input": [[10]], "output": [[1]]}], "test": [{"input": [[1]], "output": [[1]]}]}`,
		"missing output": `{"train": [{"input": [[1]]}], "test": [{"input": [[1]], "output": [[1]]}]}`,
		"empty grid":     `{"train": [{"input": [], "output": [[1]]}], "test": [{"input": [[1]], "output": [[1]]}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := Decode("bad", []byte(body))
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestDecodeKeepsGridError(t *testing.T) {
	_, err := Decode("bad", []byte(`{"train": [{"input": [[1,2],[1]], "output": [[1]]}], "test": [{"input": [[1]], "output": [[1]]}]}`))
	assert.ErrorIs(t, err, grid.ErrRagged)
}

func TestFSStoreListAndLoad(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b", sampleDoc)
	writeDoc(t, dir, "a", sampleDoc)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	store := NewFSStore(dir)
	ids, err := store.ListIdentifiers(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	doc, err := store.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", doc.ID)
}

func TestFSStoreEmptyDirectory(t *testing.T) {
	ids, err := NewFSStore(t.TempDir()).ListIdentifiers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestFSStoreErrors(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "broken", `{"train": 1}`)
	store := NewFSStore(dir)
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load(ctx, "broken")
	assert.ErrorIs(t, err, ErrMalformedDocument)

	_, err = NewFSStore(filepath.Join(dir, "nope")).ListIdentifiers(ctx)
	assert.ErrorIs(t, err, ErrListUnavailable)
}

func TestHTTPStore(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/puzzles", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"puzzles":["p1","p2"]}`))
	})
	mux.HandleFunc("/data/p1.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleDoc))
	})
	mux.HandleFunc("/data/bad.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"train": []}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := NewHTTPStore(srv.URL+"/", "", srv.Client())
	ctx := context.Background()

	ids, err := store.ListIdentifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	doc, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", doc.ID)
	assert.EqualValues(t, 1, hits.Load())

	_, err = store.Load(ctx, "p2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load(ctx, "bad")
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestHTTPStoreListUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	store := NewHTTPStore(srv.URL, "/list", srv.Client())
	_, err := store.ListIdentifiers(context.Background())
	assert.ErrorIs(t, err, ErrListUnavailable)

	srv.Close()
	_, err = store.ListIdentifiers(context.Background())
	assert.ErrorIs(t, err, ErrListUnavailable)
}

func TestHTTPStoreEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"puzzles":[]}`))
	}))
	defer srv.Close()
	ids, err := NewHTTPStore(srv.URL, "", srv.Client()).ListIdentifiers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestWatcherReportsNewDocuments(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan struct{}, 4)
	w, err := NewWatcher(dir, 20*time.Millisecond, func() { changed <- struct{}{} }, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	writeDoc(t, dir, "fresh", sampleDoc)

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the new document")
	}
}

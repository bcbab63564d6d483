package puzzles

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"arcview/internal/grid"
)

var (
	ErrListUnavailable   = errors.New("puzzle list unavailable")
	ErrNotFound          = errors.New("puzzle not found")
	ErrMalformedDocument = errors.New("malformed puzzle document")
)

type Example struct {
	Input  *grid.Grid `json:"input"`
	Output *grid.Grid `json:"output"`
}

// Document is one puzzle: training pairs plus the held-out test pair. Only
// Test[0] is used, and Test[0].Output is the answer key.
type Document struct {
	ID    string    `json:"-"`
	Train []Example `json:"train"`
	Test  []Example `json:"test"`
}

func (d *Document) Validate() error {
	if len(d.Train) == 0 {
		return errors.New("train must have at least one example")
	}
	if len(d.Test) == 0 {
		return errors.New("test must have at least one example")
	}
	for i, ex := range d.Train {
		if err := ex.validate(); err != nil {
			return fmt.Errorf("train[%d]: %w", i, err)
		}
	}
	for i, ex := range d.Test {
		if err := ex.validate(); err != nil {
			return fmt.Errorf("test[%d]: %w", i, err)
		}
	}
	return nil
}

func (e Example) validate() error {
	if e.Input == nil || e.Input.RowCount() == 0 {
		return errors.New("input is missing")
	}
	if e.Output == nil || e.Output.RowCount() == 0 {
		return errors.New("output is missing")
	}
	return nil
}

// TestInput is the grid the user solves against.
func (d *Document) TestInput() *grid.Grid { return d.Test[0].Input }

// Answer is the stored test output.
func (d *Document) Answer() *grid.Grid { return d.Test[0].Output }

// Decode parses and validates a puzzle document. Nothing is returned unless
// every grid satisfies the rectangular [0,9] invariant.
func Decode(id string, data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, id, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, id, err)
	}
	doc.ID = id
	return &doc, nil
}

func Encode(doc *Document) ([]byte, error) {
	return json.Marshal(doc)
}

type listResponse struct {
	Puzzles []string `json:"puzzles"`
}

// EncodeList renders the list endpoint body.
func EncodeList(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(listResponse{Puzzles: ids})
}

func decodeList(data []byte) ([]string, error) {
	var resp listResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Puzzles == nil {
		return []string{}, nil
	}
	return resp.Puzzles, nil
}

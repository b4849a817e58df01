// Package render — JSON renderer.
// Serializes the document as a kind-tagged block list plus a summary of
// block kinds and highlighted phrases, for clients that draw their own UI.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/astropipe/core"
)

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// documentJSON is the top-level JSON output.
type documentJSON struct {
	Metadata core.DocumentMeta `json:"metadata"`
	Blocks   []any             `json:"blocks"`
	Summary  summaryJSON       `json:"summary"`
}

// summaryJSON counts blocks per kind and highlights per category.
type summaryJSON struct {
	Blocks     map[string]int `json:"blocks"`
	Highlights map[string]int `json:"highlights"`
}

// Render converts the document and metadata into JSON.
func (r *JSONRenderer) Render(doc core.Document, meta core.DocumentMeta) ([]byte, error) {
	out := documentJSON{
		Metadata: meta,
		Blocks:   make([]any, 0, len(doc.Blocks)),
		Summary: summaryJSON{
			Blocks:     map[string]int{},
			Highlights: map[string]int{},
		},
	}

	for _, b := range doc.Blocks {
		env, err := envelope(b)
		if err != nil {
			return nil, err
		}
		out.Blocks = append(out.Blocks, env)
		out.Summary.Blocks[b.BlockKind().String()]++
		if n, ok := b.(core.NarrativeBlock); ok {
			countHighlights(n.Nodes, out.Summary.Highlights)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// envelope tags a block with its kind; the block's own fields are promoted.
func envelope(b core.Block) (any, error) {
	kind := b.BlockKind()
	switch v := b.(type) {
	case core.VerdictPillBlock:
		return struct {
			Kind core.Kind `json:"kind"`
			core.VerdictPillBlock
		}{kind, v}, nil
	case core.KeyAlignmentsBlock:
		return struct {
			Kind core.Kind `json:"kind"`
			core.KeyAlignmentsBlock
		}{kind, v}, nil
	case core.NarrativeBlock:
		return struct {
			Kind core.Kind `json:"kind"`
			core.NarrativeBlock
		}{kind, v}, nil
	case core.TimelineBlock:
		return struct {
			Kind core.Kind `json:"kind"`
			core.TimelineBlock
		}{kind, v}, nil
	default:
		return nil, fmt.Errorf("unsupported block type %T", b)
	}
}

func countHighlights(nodes []core.Node, counts map[string]int) {
	for _, n := range nodes {
		if n.Type == core.NodeHighlight {
			counts[string(n.Category)]++
		}
		countHighlights(n.Children, counts)
	}
}

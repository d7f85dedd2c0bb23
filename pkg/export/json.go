// Package export serializes canonical state-machine graphs for downstream
// consumers.
//
// Three formats are supported:
//
//   - JSON: the primary interchange format, with round-trip fidelity
//   - BSON: for consumers that store graphs in document databases
//   - DOT: Graphviz source for quick visual inspection (no layout is
//     computed here; that is the renderer's concern)
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/flowlens/flowlens/pkg/statemachine"
)

// MarshalJSON converts a processed graph to indented JSON bytes.
// The graph is already deterministically ordered, so output is stable.
func MarshalJSON(sm *statemachine.ProcessedStateMachine) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(sm, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes a processed graph as JSON to an io.Writer.
func WriteJSON(sm *statemachine.ProcessedStateMachine, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sm); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteJSONFile writes a processed graph to a JSON file.
// The file is created with 0644 permissions.
func WriteJSONFile(sm *statemachine.ProcessedStateMachine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(sm, f)
}

// ReadJSON decodes a processed graph from an io.Reader.
// Use ReadJSONFile for files or pass bytes.NewReader for in-memory data.
func ReadJSON(r io.Reader) (*statemachine.ProcessedStateMachine, error) {
	var sm statemachine.ProcessedStateMachine
	if err := json.NewDecoder(r).Decode(&sm); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &sm, nil
}

// ReadJSONFile reads a JSON file and returns the decoded processed graph.
func ReadJSONFile(path string) (*statemachine.ProcessedStateMachine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Package snapshot loads graph snapshot documents: the JSON export of
// the host's node and edge collections that Halo's CLI and server
// operate on.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/halo-viz/halo-go/internal/graph"
)

// Snapshot is one decoded graph document. Nodes keeps the container
// shape the document used (sequence, mapping, or bare record); the
// graph builder handles all three.
type Snapshot struct {
	Nodes  any
	Edges  []graph.EdgeRef
	Tags   map[string][]string
	Active string
}

// snapshotSchema checks document structure before decode. The nodes
// field is intentionally left untyped: sequence, mapping, and record
// shapes are all legal.
var snapshotSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"nodes": {},
		"edges": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"source": {Type: "string"},
					"target": {Type: "string"},
				},
				Required: []string{"source", "target"},
			},
		},
		"tags": {
			Type: "object",
			AdditionalProperties: &jsonschema.Schema{
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
		"active": {Type: "string"},
	},
	Required: []string{"nodes"},
}

// document is the decoded wire shape.
type document struct {
	Nodes  json.RawMessage     `json:"nodes"`
	Edges  []graph.EdgeRef     `json:"edges"`
	Tags   map[string][]string `json:"tags"`
	Active string              `json:"active"`
}

// Load reads and validates a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Parse validates and decodes a snapshot document.
func Parse(data []byte) (*Snapshot, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	resolved, err := snapshotSchema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot schema: %w", err)
	}
	if err := resolved.Validate(raw); err != nil {
		return nil, fmt.Errorf("validating snapshot: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	// Nodes stays in its document shape; individual malformed entries
	// are the builder's problem and are skipped there.
	var nodes any
	if len(doc.Nodes) > 0 {
		if err := json.Unmarshal(doc.Nodes, &nodes); err != nil {
			return nil, fmt.Errorf("decoding snapshot nodes: %w", err)
		}
	}

	return &Snapshot{
		Nodes:  nodes,
		Edges:  doc.Edges,
		Tags:   doc.Tags,
		Active: doc.Active,
	}, nil
}

// TagLookup returns a lookup over the snapshot's tag map.
func (s *Snapshot) TagLookup() func(nodeID string) []string {
	return func(nodeID string) []string {
		return s.Tags[nodeID]
	}
}

package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// Snapshot is the canonical serialization format for a goal graph: the raw
// node/edge list as supplied by the persistence layer, before normalization.
// Used for API responses, file exchange between CLI commands, and tests.
type Snapshot struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Build normalizes the snapshot into a Graph.
func (s Snapshot) Build() *Graph { return Build(s.Nodes, s.Edges) }

// MarshalSnapshot converts a snapshot to indented JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeSnapshotTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot deserializes JSON bytes to a Snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeSnapshotTo(s, f)
}

// ReadSnapshotFile reads a JSON file and returns the decoded snapshot.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readSnapshotFrom(f)
}

// WriteSnapshot writes a snapshot as JSON to an io.Writer.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	return writeSnapshotTo(s, w)
}

// ReadSnapshot decodes a JSON snapshot from an io.Reader.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	return readSnapshotFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeSnapshotTo(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readSnapshotFrom(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}

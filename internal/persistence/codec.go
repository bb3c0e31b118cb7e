package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/petrijr/blockflow/pkg/api"
)

// EncodeSnapshot serializes a snapshot to the JSON document stored in a slot.
func EncodeSnapshot(snap api.Snapshot) ([]byte, error) {
	if snap.Nodes == nil {
		snap.Nodes = []api.Node{}
	}
	if snap.Edges == nil {
		snap.Edges = []api.Edge{}
	}
	return json.Marshal(snap)
}

// DecodeSnapshot parses a stored JSON document. Any parse failure, and a
// document without nodes, edges or metadata, is reported as
// ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (api.Snapshot, error) {
	var raw struct {
		Nodes    *[]api.Node   `json:"nodes"`
		Edges    *[]api.Edge   `json:"edges"`
		Metadata *api.Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return api.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if raw.Nodes == nil || raw.Edges == nil || raw.Metadata == nil {
		return api.Snapshot{}, fmt.Errorf("%w: missing nodes, edges or metadata", ErrCorruptSnapshot)
	}
	return api.Snapshot{
		Nodes:    *raw.Nodes,
		Edges:    *raw.Edges,
		Metadata: *raw.Metadata,
	}, nil
}

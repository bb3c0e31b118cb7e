package api

import "time"

// Metadata describes a persisted snapshot.
type Metadata struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	LastSaved time.Time `json:"lastSaved"`
}

// Snapshot is the durable form of a whole workflow graph. Nodes keep only
// {id, type, position, data}; edges keep only {id, source, target, label}.
type Snapshot struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

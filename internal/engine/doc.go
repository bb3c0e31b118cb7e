// Package engine implements the persistence controller: it turns a workflow
// graph into a snapshot, writes it to a SnapshotStore, tracks the save
// status and debounces automatic saves.
package engine

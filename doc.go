// Package blockflow validates and persists workflow graphs built in a visual
// block editor.
//
// A workflow is a directed graph of typed blocks (start, form, conditional,
// api call, end) joined by edges. blockflow does not execute workflows; it
// checks that a graph is well formed and keeps the last good version of it
// in a durable slot so an editing session can be restored later.
//
// # Core Concepts
//
//  1. Validate
//  2. SnapshotStore
//  3. Controller
//  4. Editor
//  5. GraphBuilder
//
// # Validate
//
// Validate is a pure function of (nodes, edges). It returns findings in a
// fixed order: start cardinality, end cardinality, api nodes, form nodes,
// conditional nodes, connectivity. Every finding has a stable id built from
// the check name and the node (and field) it concerns, e.g.
// "form-node-field-invalid-name-node_3-f1". Findings of type "error" block
// saving; "info" findings are advisory.
//
// CanAddNode answers whether another start or end block may be added.
//
// # SnapshotStore
//
// A SnapshotStore is a get/set/delete slot keyed by name. Backends:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite (embedded durability)
//   - Postgres
//   - Redis (optional expiry)
//   - MongoDB
//
// The stored value is a JSON document {nodes, edges, metadata}.
//
// # Controller
//
// The Controller writes snapshots and tracks the save status:
//
//	idle -> saving -> saved
//	           \----> error
//
// Every save starts in saving. A failed write ends in error and is never
// followed by saved. Load treats a missing or corrupt slot as "no snapshot".
// Autosave is debounced: only the last call within the delay runs, and only
// if the findings passed with it are empty.
//
// # Editor
//
// Editor is the session a UI shell drives. It owns the graph, recomputes
// findings 300ms after the last edit, autosaves 2s after the last change and
// offers the snapshot found at open time for restoring:
//
//	ed, err := blockflow.OpenEditor(ctx, store, blockflow.DefaultConfig(),
//	    blockflow.NewLoggingObserver(nil))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ed.Close()
//
//	start, _ := ed.AddNode(blockflow.KindStart, blockflow.Position{X: 250, Y: 50})
//	end, _ := ed.AddNode(blockflow.KindEnd, blockflow.Position{X: 250, Y: 250})
//	_, _ = ed.Connect(start.ID, "", end.ID)
//
//	if ed.SaveEnabled() {
//	    _, err = ed.Save(ctx)
//	}
//
// # GraphBuilder
//
// GraphBuilder assembles graphs in code for tests, fixtures and the CLI:
//
//	nodes, edges := blockflow.NewGraph().
//	    Start("s").API("a", "GET", "https://example.com").End("e").
//	    Chain("s", "a", "e").
//	    Build()
//
// # Observability
//
// Observer receives validation and save lifecycle callbacks.
// NewLoggingObserver logs them with log/slog, BasicMetrics counts them and
// pkg/metrics exports them to Prometheus.
//
// For examples, see the /examples directory.
package blockflow

package blockflow

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/petrijr/blockflow/internal/debounce"
	"github.com/petrijr/blockflow/internal/engine"
	"github.com/petrijr/blockflow/internal/validation"
	"github.com/petrijr/blockflow/pkg/api"
)

// Editor is an in-memory editing session over one workflow graph. It owns
// the graph, republishes findings a short while after each edit and
// autosaves clean graphs through its Controller.
//
// Typical usage:
//
//	ed, err := blockflow.OpenEditor(ctx, store, blockflow.DefaultConfig(), nil)
//	if snap := ed.PendingSnapshot(); snap != nil {
//	    ed.Restore() // or ed.Discard(ctx)
//	}
//	start, _ := ed.AddNode(blockflow.KindStart, blockflow.Position{X: 250, Y: 50})
//	...
//	defer ed.Close()
//
// All methods are safe for concurrent use. Timer callbacks run on their own
// goroutines.
type Editor struct {
	cfg        Config
	controller *engine.Controller
	observer   api.Observer
	validation *debounce.Debouncer
	validate   []validation.Option

	mu       sync.Mutex
	nodes    []api.Node
	edges    []api.Edge
	findings []api.Finding
	nextID   int
	pending  *api.Snapshot
	closed   bool
}

// OpenEditor starts a session on store. A snapshot already in the slot is
// kept as the pending snapshot until Restore or Discard.
func OpenEditor(ctx context.Context, store SnapshotStore, cfg Config, obs Observer) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = api.NoopObserver{}
	}

	e := &Editor{
		cfg:        cfg,
		controller: engine.NewController(cfg.controllerConfig(store, obs)),
		observer:   obs,
		validation: debounce.New(cfg.ValidationDelay),
		validate:   []validation.Option{validation.WithDanglingEdges(cfg.ReportDanglingEdges)},
		nodes:      []api.Node{},
		edges:      []api.Edge{},
	}
	e.findings = validation.Validate(e.nodes, e.edges, e.validate...)

	if snap, ok := e.controller.Load(ctx); ok && snap.Nodes != nil && snap.Edges != nil {
		e.pending = snap
	}
	return e, nil
}

// Config returns the configuration the editor was opened with.
func (e *Editor) Config() Config {
	return e.cfg
}

// Controller returns the persistence controller behind the editor.
func (e *Editor) Controller() *Controller {
	return e.controller
}

// Nodes returns a copy of the current nodes in order.
func (e *Editor) Nodes() []Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneNodes(e.nodes)
}

// Edges returns a copy of the current edges in order.
func (e *Editor) Edges() []Edge {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]api.Edge{}, e.edges...)
}

// Node returns the node with the given id.
func (e *Editor) Node(id string) (Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(id)
	if i < 0 {
		return Node{}, false
	}
	return e.nodes[i].Clone(), true
}

// CanAddNode reports whether AddNode(kind) would currently succeed.
func (e *Editor) CanAddNode(kind Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return kind.Valid() && validation.CanAddNode(kind, e.nodes)
}

// AddNode appends a node of the given kind with its default payload. Ids are
// "node_<n>" from a counter that only grows.
func (e *Editor) AddNode(kind Kind, pos Position) (Node, error) {
	if !kind.Valid() {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return Node{}, ErrEditorClosed
	}
	if !validation.CanAddNode(kind, e.nodes) {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeLimit, kind)
	}

	n := api.Node{
		ID:       "node_" + strconv.Itoa(e.nextID),
		Kind:     kind,
		Position: pos,
		Data:     api.DefaultData(kind),
	}
	e.nextID++
	e.nodes = append(e.nodes, n)
	e.changedLocked()
	return n.Clone(), nil
}

// MoveNode changes the canvas position of a node.
func (e *Editor) MoveNode(id string, pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEditorClosed
	}
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	e.nodes[i].Position = pos
	e.changedLocked()
	return nil
}

// UpdateNode replaces the payload of a node. The payload must be of the
// node's kind. A conditional node keeps exactly its true and false routes;
// only their labels and conditions are taken from data.
func (e *Editor) UpdateNode(id string, data NodeData) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEditorClosed
	}
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if data == nil || data.Kind() != e.nodes[i].Kind {
		return fmt.Errorf("%w: node %s is %s", ErrKindMismatch, id, e.nodes[i].Kind)
	}

	if cd, ok := data.(api.ConditionalData); ok {
		cd.Routes = fixedRoutes(cd.Routes)
		data = cd
	}

	updated := e.nodes[i]
	updated.Data = data
	e.nodes[i] = updated.Clone()
	e.changedLocked()
	return nil
}

// fixedRoutes returns the true and false routes, taking label and condition
// from the matching entries of routes.
func fixedRoutes(routes []api.Route) []api.Route {
	out := api.DefaultRoutes()
	for i := range out {
		for _, r := range routes {
			if r.ID == out[i].ID {
				out[i].Label = r.Label
				out[i].Condition = r.Condition
				break
			}
		}
	}
	return out
}

// DeleteNode removes a node and every edge touching it.
func (e *Editor) DeleteNode(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEditorClosed
	}
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	nodes := make([]api.Node, 0, len(e.nodes)-1)
	nodes = append(nodes, e.nodes[:i]...)
	e.nodes = append(nodes, e.nodes[i+1:]...)

	edges := make([]api.Edge, 0, len(e.edges))
	for _, ed := range e.edges {
		if !ed.Touches(id) {
			edges = append(edges, ed)
		}
	}
	e.edges = edges
	e.changedLocked()
	return nil
}

// Connect adds an edge from source to target. sourceHandle picks the output
// of a conditional source ("true" or "false") and may be empty. Connecting
// the same endpoints through the same handle twice returns the existing edge.
func (e *Editor) Connect(source, sourceHandle, target string) (Edge, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return Edge{}, ErrEditorClosed
	}
	si := e.indexOf(source)
	if si < 0 {
		return Edge{}, fmt.Errorf("%w: %s", ErrUnknownNode, source)
	}
	if e.indexOf(target) < 0 {
		return Edge{}, fmt.Errorf("%w: %s", ErrUnknownNode, target)
	}

	edge := newEdge(e.nodes[si], sourceHandle, target)
	for _, existing := range e.edges {
		if existing.ID == edge.ID {
			return existing, nil
		}
	}

	e.edges = append(e.edges, edge)
	e.changedLocked()
	return edge, nil
}

// DeleteEdge removes the edge with the given id. Unknown ids are ignored.
func (e *Editor) DeleteEdge(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEditorClosed
	}
	for i, ed := range e.edges {
		if ed.ID == id {
			edges := make([]api.Edge, 0, len(e.edges)-1)
			edges = append(edges, e.edges[:i]...)
			e.edges = append(edges, e.edges[i+1:]...)
			e.changedLocked()
			return nil
		}
	}
	return nil
}

// changedLocked restarts both the validation and the autosave delay. The
// autosave is gated on the findings of the graph it will write, not on the
// published ones, which lag by the validation delay. Callers hold e.mu.
func (e *Editor) changedLocked() {
	e.validation.Schedule(e.publishFindings)
	gate := validation.Validate(e.nodes, e.edges, e.validate...)
	e.controller.Autosave(context.Background(), e.nodes, e.edges, gate)
}

// publishFindings recomputes and publishes the findings of the current graph.
func (e *Editor) publishFindings() {
	start := time.Now()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	findings := validation.Validate(e.nodes, e.edges, e.validate...)
	e.findings = findings
	e.mu.Unlock()

	e.observer.OnValidated(context.Background(), findings, time.Since(start))
}

// ValidateNow drops a pending validation pass, publishes the findings of the
// current graph immediately and returns them.
func (e *Editor) ValidateNow() []Finding {
	e.validation.Cancel()
	e.publishFindings()
	return e.Findings()
}

// Findings returns the last published findings.
func (e *Editor) Findings() []Finding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]api.Finding{}, e.findings...)
}

// FindingsFor returns the published findings scoped to one node.
func (e *Editor) FindingsFor(nodeID string) []Finding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return validation.ForNode(e.findings, nodeID)
}

// SaveEnabled reports whether a manual save is allowed: the graph has at
// least one node and one edge and the published findings hold no error.
func (e *Editor) SaveEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return saveAllowed(e.nodes, e.edges, e.findings)
}

func saveAllowed(nodes []api.Node, edges []api.Edge, findings []api.Finding) bool {
	return len(nodes) > 0 && len(edges) > 0 && !validation.HasBlocking(findings)
}

// Save writes the current graph right away. The graph is revalidated first;
// ErrSaveBlocked is returned if a manual save is not allowed. A failed write
// leaves the status in error and returns the write error.
func (e *Editor) Save(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Snapshot{}, ErrEditorClosed
	}
	nodes, edges := cloneNodes(e.nodes), append([]api.Edge{}, e.edges...)
	findings := validation.Validate(nodes, edges, e.validate...)
	e.mu.Unlock()

	if !saveAllowed(nodes, edges, findings) {
		return Snapshot{}, ErrSaveBlocked
	}
	return e.controller.Save(ctx, nodes, edges)
}

// Status returns the current save status.
func (e *Editor) Status() SaveStatus {
	return e.controller.Status()
}

// PendingSnapshot returns the snapshot found in the slot when the editor was
// opened, until it is restored or discarded. Nil when there is none.
func (e *Editor) PendingSnapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Restore replaces the graph with the pending snapshot and resumes node
// numbering after the highest saved "node_<n>" id. It returns false when
// there is no pending snapshot.
func (e *Editor) Restore() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false, ErrEditorClosed
	}
	if e.pending == nil {
		return false, nil
	}

	e.nodes = cloneNodes(e.pending.Nodes)
	e.edges = append([]api.Edge{}, e.pending.Edges...)
	e.nextID = nextNodeNumber(e.nodes, e.nextID)
	e.pending = nil
	e.changedLocked()
	return true, nil
}

// nextNodeNumber returns one past the largest n of the "node_<n>" ids, or
// current if that is larger. Ids of another shape are ignored, as is a
// number too large to increment.
func nextNodeNumber(nodes []api.Node, current int) int {
	next := current
	for _, n := range nodes {
		num, ok := strings.CutPrefix(n.ID, "node_")
		if !ok {
			continue
		}
		v, err := strconv.Atoi(num)
		if err != nil || v == math.MaxInt {
			continue
		}
		if v+1 > next {
			next = v + 1
		}
	}
	return next
}

// Discard deletes the stored snapshot and forgets the pending one.
func (e *Editor) Discard(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEditorClosed
	}
	e.pending = nil
	e.mu.Unlock()

	return e.controller.Discard(ctx)
}

// FormFieldNames returns the trimmed, non-empty field names of every form
// node in node order. Conditional nodes offer them as fields to evaluate.
func (e *Editor) FormFieldNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var names []string
	for _, n := range e.nodes {
		if n.Kind != api.KindForm {
			continue
		}
		for _, f := range n.Form().Fields {
			if name := strings.TrimSpace(f.Name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// Close cancels the pending validation pass and autosave. Later mutations
// return ErrEditorClosed. Close is idempotent.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.validation.Stop()
	e.controller.Close()
}

func (e *Editor) indexOf(id string) int {
	for i, n := range e.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func cloneNodes(nodes []api.Node) []api.Node {
	out := make([]api.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

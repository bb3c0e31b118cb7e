package blockflow

import (
	"fmt"

	"github.com/petrijr/blockflow/pkg/api"
)

// GraphBuilder provides a fluent API for assembling workflow graphs in code:
//
//	nodes, edges := blockflow.NewGraph().
//	    Start("start").
//	    Form("signup", "Signup", blockflow.TextField("f1", "email", "Email", true)).
//	    API("hook", "POST", "https://example.com/hook").
//	    End("end").
//	    Chain("start", "signup", "hook", "end").
//	    Build()
//
// Nodes are laid out top to bottom in the order they are added. The builder
// panics on empty or duplicate ids and on edges to unknown nodes.
type GraphBuilder struct {
	nodes []api.Node
	edges []api.Edge
	index map[string]int
}

// NewGraph creates an empty GraphBuilder.
func NewGraph() *GraphBuilder {
	return &GraphBuilder{index: make(map[string]int)}
}

// Node appends n as is.
func (b *GraphBuilder) Node(n Node) *GraphBuilder {
	if n.ID == "" {
		panic("blockflow: node id must not be empty")
	}
	if _, dup := b.index[n.ID]; dup {
		panic(fmt.Sprintf("blockflow: duplicate node id %q", n.ID))
	}
	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return b
}

func (b *GraphBuilder) add(id string, data NodeData) *GraphBuilder {
	return b.Node(api.Node{
		ID:       id,
		Kind:     data.Kind(),
		Position: api.Position{X: 250, Y: 50 + 100*float64(len(b.nodes))},
		Data:     data,
	})
}

// Start appends a start node.
func (b *GraphBuilder) Start(id string) *GraphBuilder {
	return b.add(id, api.DefaultData(api.KindStart))
}

// End appends an end node.
func (b *GraphBuilder) End(id string) *GraphBuilder {
	return b.add(id, api.DefaultData(api.KindEnd))
}

// Form appends a form node with the given custom name and fields.
func (b *GraphBuilder) Form(id, customName string, fields ...Field) *GraphBuilder {
	return b.add(id, api.FormData{
		Label:      "Form",
		CustomName: customName,
		Fields:     append([]api.Field{}, fields...),
	})
}

// API appends an API call node.
func (b *GraphBuilder) API(id string, method Method, url string) *GraphBuilder {
	return b.add(id, api.APIData{
		Label:  "API Call",
		URL:    url,
		Method: method,
	})
}

// Conditional appends a conditional node with the default true/false routes.
func (b *GraphBuilder) Conditional(id, customName, field string, op Operator, value string) *GraphBuilder {
	return b.add(id, api.ConditionalData{
		Label:           "Conditional",
		CustomName:      customName,
		FieldToEvaluate: field,
		Operator:        op,
		Value:           value,
		Routes:          api.DefaultRoutes(),
	})
}

// Edge connects source to target.
func (b *GraphBuilder) Edge(source, target string) *GraphBuilder {
	return b.connect(source, "", target)
}

// Route connects the given output ("true" or "false") of a conditional node
// to target. The edge label is the route label.
func (b *GraphBuilder) Route(source, handle, target string) *GraphBuilder {
	return b.connect(source, handle, target)
}

// Chain connects each id to the next one.
func (b *GraphBuilder) Chain(ids ...string) *GraphBuilder {
	for i := 1; i < len(ids); i++ {
		b.connect(ids[i-1], "", ids[i])
	}
	return b
}

func (b *GraphBuilder) connect(source, handle, target string) *GraphBuilder {
	src, ok := b.index[source]
	if !ok {
		panic(fmt.Sprintf("blockflow: edge from unknown node %q", source))
	}
	if _, ok := b.index[target]; !ok {
		panic(fmt.Sprintf("blockflow: edge to unknown node %q", target))
	}
	b.edges = append(b.edges, newEdge(b.nodes[src], handle, target))
	return b
}

// Nodes returns a copy of the nodes added so far.
func (b *GraphBuilder) Nodes() []Node {
	out := make([]api.Node, len(b.nodes))
	for i, n := range b.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns a copy of the edges added so far.
func (b *GraphBuilder) Edges() []Edge {
	return append([]api.Edge{}, b.edges...)
}

// Build returns the nodes and edges.
func (b *GraphBuilder) Build() ([]Node, []Edge) {
	return b.Nodes(), b.Edges()
}

// TextField returns a string form field.
func TextField(id, name, label string, required bool) Field {
	return api.Field{ID: id, Name: name, Label: label, Type: api.FieldString, Required: required}
}

// DropdownField returns a dropdown form field with the given options.
func DropdownField(id, name, label string, options ...string) Field {
	return api.Field{ID: id, Name: name, Label: label, Type: api.FieldDropdown, Options: options}
}

// newEdge builds the edge created by connecting source (through handle) to
// target. A conditional source labels the edge with the route label, falling
// back to the handle id.
func newEdge(source api.Node, handle, target string) api.Edge {
	label := ""
	if source.Kind == api.KindConditional && handle != "" {
		label, _ = source.Conditional().RouteLabel(handle)
		if label == "" {
			label = handle
		}
	}
	return api.Edge{
		ID:           "xy-edge__" + source.ID + handle + "-" + target,
		Source:       source.ID,
		Target:       target,
		SourceHandle: handle,
		Label:        label,
	}
}

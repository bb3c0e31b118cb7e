package validation

import (
	"github.com/petrijr/blockflow/pkg/api"
)

// Option configures a validation pass.
type Option func(*options)

type options struct {
	danglingEdges bool
}

// WithDanglingEdges enables the dangling-edge check: every edge whose source
// or target is not the id of a node yields an error finding.
func WithDanglingEdges(enabled bool) Option {
	return func(o *options) {
		o.danglingEdges = enabled
	}
}

// Validate returns the ordered findings for the graph.
func Validate(nodes []api.Node, edges []api.Edge, opts ...Option) []api.Finding {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	findings := make([]api.Finding, 0, 4)

	if f, ok := checkCardinality(nodes, api.KindStart); ok {
		findings = append(findings, f)
	}
	if f, ok := checkCardinality(nodes, api.KindEnd); ok {
		findings = append(findings, f)
	}

	byKind := groupByKind(nodes)
	for _, n := range byKind[api.KindAPI] {
		findings = append(findings, checkAPINode(n)...)
	}
	for _, n := range byKind[api.KindForm] {
		findings = append(findings, checkFormNode(n)...)
	}
	for _, n := range byKind[api.KindConditional] {
		findings = append(findings, checkConditionalNode(n)...)
	}

	findings = append(findings, checkConnectivity(nodes, edges)...)

	if o.danglingEdges {
		findings = append(findings, checkDanglingEdges(nodes, edges)...)
	}

	return findings
}

// CanAddNode reports whether a node of the given kind may be added without
// breaking the single-start / single-end rule.
func CanAddNode(kind api.Kind, nodes []api.Node) bool {
	switch kind {
	case api.KindStart, api.KindEnd:
		for _, n := range nodes {
			if n.Kind == kind {
				return false
			}
		}
	}
	return true
}

// HasBlocking reports whether any finding has error severity.
func HasBlocking(findings []api.Finding) bool {
	for _, f := range findings {
		if f.Blocking() {
			return true
		}
	}
	return false
}

// ForNode returns the findings scoped to the given node id, in order.
func ForNode(findings []api.Finding, nodeID string) []api.Finding {
	var out []api.Finding
	for _, f := range findings {
		if f.NodeID == nodeID {
			out = append(out, f)
		}
	}
	return out
}

func groupByKind(nodes []api.Node) map[api.Kind][]api.Node {
	groups := make(map[api.Kind][]api.Node)
	for _, n := range nodes {
		groups[n.Kind] = append(groups[n.Kind], n)
	}
	return groups
}

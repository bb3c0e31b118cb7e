package validation

import (
	"fmt"

	"github.com/petrijr/blockflow/pkg/api"
)

const connectMessage = "All nodes must be properly connected"

// checkCardinality flags a missing start/end node (info) or more than one
// (error, blamed on the last one in node order).
func checkCardinality(nodes []api.Node, kind api.Kind) (api.Finding, bool) {
	var last string
	count := 0
	for _, n := range nodes {
		if n.Kind == kind {
			count++
			last = n.ID
		}
	}

	switch {
	case count > 1:
		return api.Finding{
			ID:      fmt.Sprintf("multiple-%s-nodes", kind),
			Type:    api.SeverityError,
			Message: fmt.Sprintf("Workflow must have exactly one %s block", kind),
			NodeID:  last,
		}, true
	case count == 0:
		return api.Finding{
			ID:      fmt.Sprintf("no-%s-node", kind),
			Type:    api.SeverityInfo,
			Message: fmt.Sprintf("Workflow must have a %s block", kind),
		}, true
	}
	return api.Finding{}, false
}

// checkConnectivity yields "no-edges" for an edgeless graph, otherwise a
// single "unconnected-nodes" finding when some node is not an endpoint of
// any edge.
func checkConnectivity(nodes []api.Node, edges []api.Edge) []api.Finding {
	if len(edges) == 0 {
		return []api.Finding{{
			ID:      "no-edges",
			Type:    api.SeverityInfo,
			Message: connectMessage,
		}}
	}

	connected := make(map[string]struct{}, len(edges)*2)
	for _, e := range edges {
		connected[e.Source] = struct{}{}
		connected[e.Target] = struct{}{}
	}

	for _, n := range nodes {
		if _, ok := connected[n.ID]; !ok {
			return []api.Finding{{
				ID:      "unconnected-nodes",
				Type:    api.SeverityError,
				Message: connectMessage,
			}}
		}
	}
	return nil
}

func checkDanglingEdges(nodes []api.Node, edges []api.Edge) []api.Finding {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}

	var findings []api.Finding
	for _, e := range edges {
		_, okSrc := ids[e.Source]
		_, okDst := ids[e.Target]
		if okSrc && okDst {
			continue
		}
		findings = append(findings, api.Finding{
			ID:      "dangling-edge-" + e.ID,
			Type:    api.SeverityError,
			Message: fmt.Sprintf("Edge %s references a missing node.", e.ID),
		})
	}
	return findings
}

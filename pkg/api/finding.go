package api

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityError blocks saving.
	SeverityError Severity = "error"
	// SeverityInfo is advisory only.
	SeverityInfo Severity = "info"
)

// Finding is a single validation result. ID is stable and reconstructible
// from the check name and the ids of the node (and field / option) it
// concerns, e.g. "api-node-missing-url-node_2".
type Finding struct {
	ID      string   `json:"id"`
	Type    Severity `json:"type"`
	Message string   `json:"message"`
	NodeID  string   `json:"nodeId,omitempty"`
}

// Blocking reports whether the finding prevents a manual save.
func (f Finding) Blocking() bool {
	return f.Type == SeverityError
}

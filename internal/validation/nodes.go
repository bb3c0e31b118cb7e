package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/petrijr/blockflow/pkg/api"
)

var (
	urlPattern       = regexp.MustCompile(`^https?://.+`)
	fieldNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

const (
	minCustomName  = 3
	minFieldLabel  = 2
	minFieldName   = 2
	minOptionText  = 2
	minOptionCount = 2
)

func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func nodeError(id, nodeID, msg string) api.Finding {
	return api.Finding{
		ID:      id,
		Type:    api.SeverityError,
		Message: msg,
		NodeID:  nodeID,
	}
}

// checkAPINode reports at most one URL finding: missing wins over invalid.
func checkAPINode(n api.Node) []api.Finding {
	d := n.API()
	if strings.TrimSpace(d.URL) == "" {
		return []api.Finding{nodeError("api-node-missing-url-"+n.ID, n.ID, "API Node - URL is missing.")}
	}
	if !urlPattern.MatchString(d.URL) {
		return []api.Finding{nodeError("api-node-invalid-url-"+n.ID, n.ID, "API Node - invalid URL format.")}
	}
	return nil
}

func checkFormNode(n api.Node) []api.Finding {
	d := n.Form()
	var findings []api.Finding

	if trimmedLen(d.CustomName) < minCustomName {
		findings = append(findings, nodeError(
			"form-node-custom-name-too-short-"+n.ID, n.ID,
			"Form Node - Custom name must be at least 3 characters long.",
		))
	}

	if len(d.Fields) == 0 {
		return append(findings, nodeError(
			"form-node-missing-fields-"+n.ID, n.ID,
			"Form Node - At least one field is required.",
		))
	}

	for i, field := range d.Fields {
		findings = append(findings, checkFormField(n.ID, i, field)...)
	}
	return findings
}

func checkFormField(nodeID string, index int, field api.Field) []api.Finding {
	var findings []api.Finding
	key := nodeID + "-" + field.ID
	pos := index + 1

	if trimmedLen(field.Label) < minFieldLabel {
		findings = append(findings, nodeError(
			"form-node-field-missing-label-"+key, nodeID,
			fmt.Sprintf("Form Node - Field %d label must be at least 2 characters long.", pos),
		))
	}

	// Length wins over the character check.
	if trimmedLen(field.Name) < minFieldName {
		findings = append(findings, nodeError(
			"form-node-field-missing-name-"+key, nodeID,
			fmt.Sprintf("Form Node - Field %d name must be at least 2 characters long.", pos),
		))
	} else if !fieldNamePattern.MatchString(field.Name) {
		findings = append(findings, nodeError(
			"form-node-field-invalid-name-"+key, nodeID,
			fmt.Sprintf("Form Node - Field %d name contains invalid characters.", pos),
		))
	}

	if field.Type != api.FieldDropdown {
		return findings
	}

	if len(field.Options) < minOptionCount {
		findings = append(findings, nodeError(
			"form-node-field-dropdown-insufficient-options-"+key, nodeID,
			fmt.Sprintf("Form Node - Field %d dropdown must have at least 2 options.", pos),
		))
	}
	for oi, opt := range field.Options {
		if trimmedLen(opt) < minOptionText {
			findings = append(findings, nodeError(
				fmt.Sprintf("form-node-field-dropdown-empty-option-%s-%d", key, oi), nodeID,
				fmt.Sprintf("Form Node - Field %d dropdown option %d must be at least 2 characters long.", pos, oi+1),
			))
		}
	}
	return findings
}

func checkConditionalNode(n api.Node) []api.Finding {
	d := n.Conditional()
	var findings []api.Finding

	if trimmedLen(d.CustomName) < minCustomName {
		findings = append(findings, nodeError(
			"conditional-node-custom-name-too-short-"+n.ID, n.ID,
			"Conditional Node - Custom name must be at least 3 characters long.",
		))
	}
	if strings.TrimSpace(d.FieldToEvaluate) == "" {
		findings = append(findings, nodeError(
			"conditional-node-missing-field-to-evaluate-"+n.ID, n.ID,
			"Conditional Node - Field to evaluate is required.",
		))
	}
	// is_empty compares against nothing, so it needs no value.
	if d.Operator != api.OpIsEmpty && strings.TrimSpace(d.Value) == "" {
		findings = append(findings, nodeError(
			"conditional-node-missing-value-"+n.ID, n.ID,
			"Conditional Node - Value is required.",
		))
	}
	return findings
}

package store

import (
	"fmt"
	"strings"

	"expertree/pkg/domain"
)

// Validate checks the minimal structural requirements of a document and
// returns a ValidationError describing the first violation.
func Validate(doc *domain.Document) error {
	if doc.Metadata.ExpertType == "" {
		return &domain.ValidationError{Reason: "metadata.expert_type is required"}
	}
	if len(doc.ConversationFlow) == 0 {
		return &domain.ValidationError{Reason: "conversation_flow must contain at least one node"}
	}
	for i, node := range doc.ConversationFlow {
		if node.NodeID == "" {
			return &domain.ValidationError{Reason: fmt.Sprintf("node at index %d has no node_id", i)}
		}
	}
	if doc.FindNode(domain.RootNodeID) == nil {
		return &domain.ValidationError{Reason: "no node with node_id \"root\""}
	}
	return nil
}

// validateRaw applies the same shape checks to the untyped parse result, so
// that wrong-typed fields surface as validation failures rather than opaque
// decode errors.
func validateRaw(m map[string]any) error {
	meta, ok := m["metadata"]
	if !ok {
		return &domain.ValidationError{Reason: "metadata is required"}
	}
	metaMap, ok := meta.(map[string]any)
	if !ok {
		return &domain.ValidationError{Reason: "metadata must be an object"}
	}
	if expert, ok := metaMap["expert_type"].(string); !ok || expert == "" {
		return &domain.ValidationError{Reason: "metadata.expert_type is required"}
	}

	flow, ok := m["conversation_flow"]
	if !ok {
		return &domain.ValidationError{Reason: "conversation_flow is required"}
	}
	nodes, ok := flow.([]any)
	if !ok {
		return &domain.ValidationError{Reason: "conversation_flow must be a sequence"}
	}
	hasRoot := false
	for i, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			return &domain.ValidationError{Reason: fmt.Sprintf("node at index %d is not an object", i)}
		}
		id, ok := node["node_id"].(string)
		if !ok || id == "" {
			return &domain.ValidationError{Reason: fmt.Sprintf("node at index %d has no node_id", i)}
		}
		if id == domain.RootNodeID {
			hasRoot = true
		}
	}
	if !hasRoot {
		return &domain.ValidationError{Reason: "no node with node_id \"root\""}
	}

	if history, ok := m["conversation_history"]; ok {
		if _, ok := history.([]any); !ok {
			return &domain.ValidationError{Reason: "conversation_history must be a sequence"}
		}
	}
	return nil
}

// CheckGraph reports non-fatal graph problems: duplicate node ids, edges that
// point at missing nodes, and nodes unreachable from root. Documents with
// these defects still load; the validate command surfaces them for authors.
func CheckGraph(doc *domain.Document) []string {
	var problems []string

	seen := map[string]bool{}
	for _, node := range doc.ConversationFlow {
		if seen[node.NodeID] {
			problems = append(problems, fmt.Sprintf("duplicate node_id %q", node.NodeID))
		}
		seen[node.NodeID] = true
	}

	targets := func(n *domain.Node) []string {
		var out []string
		for _, opt := range n.Options {
			out = append(out, opt.NextNode)
		}
		if n.DefaultNextNode != "" {
			out = append(out, n.DefaultNextNode)
		}
		return out
	}

	for _, node := range doc.ConversationFlow {
		for _, target := range targets(&node) {
			if target != "" && doc.FindNode(target) == nil {
				problems = append(problems, fmt.Sprintf("node %q links to missing node %q", node.NodeID, target))
			}
		}
	}

	// Crawl from root to find orphans.
	visited := map[string]bool{}
	queue := []string{domain.RootNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		if node := doc.FindNode(id); node != nil {
			queue = append(queue, targets(node)...)
		}
	}
	for _, node := range doc.ConversationFlow {
		if !visited[node.NodeID] {
			problems = append(problems, fmt.Sprintf("node %q is unreachable from root", node.NodeID))
		}
	}

	return problems
}

// DescribeProblems formats CheckGraph output as a single bullet list.
func DescribeProblems(problems []string) string {
	return "- " + strings.Join(problems, "\n- ")
}

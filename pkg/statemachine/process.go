package statemachine

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/flowlens/flowlens/pkg/errors"
)

// edgeLabelMaxLen caps how much raw condition text leaks into an edge label
// before truncation.
const edgeLabelMaxLen = 30

var (
	// Matches equality comparisons like input.role == 'executive' or
	// status == "approved"; the quoted value becomes the edge label.
	equalityPattern = regexp.MustCompile(`==\s*['"]([^'"]+)['"]`)

	// Matches a bare boolean token anywhere in a condition.
	booleanPattern = regexp.MustCompile(`(?i)\b(true|false)\b`)
)

// Process converts a raw state-machine document into the canonical graph.
//
// The document is treated as untrusted: unknown fields are ignored, aliased
// fields are reconciled, malformed sub-records are skipped. Only structural
// breakage fails the call - a nil document (ErrCodeInvalidDocument) or a
// missing/mis-typed states mapping (ErrCodeInvalidStates). There is no
// partial output: either the full canonical graph is returned or an error.
//
// Output is deterministic. States are processed in sorted id order, so the
// same document always yields a deep-equal result.
func Process(doc map[string]any) (*ProcessedStateMachine, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document is not an object")
	}
	rawStates, ok := fieldValue(doc, "states")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStates, "document has no states mapping")
	}
	states, ok := rawStates.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStates, "states must be a mapping of state id to state")
	}

	journeys := NormalizeJourneys(doc)

	dc := docContext{
		initialState: stringField(doc, "initialState", "initial_state"),
		finalStates:  stringListField(doc, "finalStates", "final_states"),
	}

	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]ProcessedNode, 0, len(ids))
	var edges []ProcessedEdge
	for _, id := range ids {
		// A state whose value is not a record still names a state; it
		// becomes a node with defaults so the node set always mirrors the
		// states mapping's key set.
		state := asMap(states[id])
		if state == nil {
			state = map[string]any{}
		}
		nodes = append(nodes, buildNode(id, state, dc, journeys))
		edges = append(edges, buildEdges(id, state)...)
	}

	return &ProcessedStateMachine{
		Nodes: nodes,
		Edges: edges,
		Metadata: Metadata{
			Name:             stringField(doc, "name"),
			Version:          stringField(doc, "version"),
			Description:      stringField(doc, "description"),
			InitialState:     dc.initialState,
			FinalStates:      dc.finalStates,
			TotalStates:      len(nodes),
			TotalTransitions: len(edges),
			Journeys:         journeys,
		},
	}, nil
}

// docContext carries the document-level declarations a node needs for its
// membership tests.
type docContext struct {
	initialState string
	finalStates  []string
}

// buildNode builds one canonical node from a raw state record. Pure function
// of its inputs.
func buildNode(id string, state map[string]any, dc docContext, journeys []ProcessedJourneyDefinition) ProcessedNode {
	ctrl := resolveControlAttributes(state)

	var transitions []ProcessedTransition
	if list := rawTransitions(state); len(list) > 0 {
		transitions = make([]ProcessedTransition, 0, len(list))
		for _, t := range list {
			transitions = append(transitions, normalizeTransition(t))
		}
	}

	return ProcessedNode{
		ID:             id,
		Label:          formatLabel(id),
		Type:           stringField(state, "type"),
		Description:    stringField(state, "description"),
		IsInitial:      id == dc.initialState,
		IsFinal:        slices.Contains(dc.finalStates, id),
		JourneyPaths:   assignJourneyPaths(id, state, journeys),
		RelevantChunks: collectRelevantChunks(state),
		Metadata: NodeMetadata{
			Functions:         nodeFunctions(state),
			NextState:         stringField(state, "nextState", "next_state"),
			ControlAttribute:  ctrl.primary,
			ControlAttributes: ctrl.all,
			Transitions:       transitions,
		},
	}
}

// nodeFunctions resolves the plural functions field, falling back to a
// singleton list from the singular spelling.
func nodeFunctions(state map[string]any) []string {
	if fns := stringListField(state, "functions"); len(fns) > 0 {
		return fns
	}
	if fn := stringField(state, "function"); fn != "" {
		return []string{fn}
	}
	return nil
}

// buildEdges builds one canonical edge per outgoing raw transition of the
// given state. Edge ids are positional: "{source}-{target}-{index}".
func buildEdges(sourceID string, state map[string]any) []ProcessedEdge {
	list := rawTransitions(state)
	if len(list) == 0 {
		return nil
	}

	edges := make([]ProcessedEdge, 0, len(list))
	for i, raw := range list {
		t := normalizeTransition(raw)
		edges = append(edges, ProcessedEdge{
			ID:                    fmt.Sprintf("%s-%s-%d", sourceID, t.Target, i),
			Source:                sourceID,
			Target:                t.Target,
			Label:                 edgeLabel(t),
			Condition:             t.Condition,
			Action:                t.Action,
			ControlAttribute:      t.ControlAttribute,
			ControlAttributeValue: t.ControlAttributeValue,
		})
	}
	return edges
}

// edgeLabel resolves a human-readable edge label through a fallback chain:
// the explicit control-attribute value, the quoted value of an equality
// comparison, a bare boolean token, the condition text truncated, and
// finally - for empty conditions - the formatted target label.
func edgeLabel(t ProcessedTransition) string {
	if t.ControlAttributeValue != "" {
		return t.ControlAttributeValue
	}
	if t.Condition == "" {
		return formatLabel(t.Target)
	}
	if m := equalityPattern.FindStringSubmatch(t.Condition); m != nil {
		return m[1]
	}
	if m := booleanPattern.FindStringSubmatch(t.Condition); m != nil {
		return strings.ToLower(m[1])
	}
	if runes := []rune(t.Condition); len(runes) > edgeLabelMaxLen {
		return string(runes[:edgeLabelMaxLen])
	}
	return t.Condition
}

package statemachine

import (
	"slices"
	"sort"
)

// =============================================================================
// Canonical Graph Model
// =============================================================================

// ProcessedStateMachine is the canonical graph produced by [Process].
// It is the single contract downstream consumers rely on: the rendering
// layer reads Nodes and Edges, the review tracker keys its own per-node
// state off stable node IDs, and journey-aware UIs read Metadata.Journeys
// together with each node's JourneyPaths.
type ProcessedStateMachine struct {
	Nodes    []ProcessedNode `json:"nodes" bson:"nodes"`
	Edges    []ProcessedEdge `json:"edges" bson:"edges"`
	Metadata Metadata        `json:"metadata" bson:"metadata"`
}

// Metadata carries document-level summary data for the canonical graph.
type Metadata struct {
	Name             string                       `json:"name,omitempty" bson:"name,omitempty"`
	Version          string                       `json:"version,omitempty" bson:"version,omitempty"`
	Description      string                       `json:"description,omitempty" bson:"description,omitempty"`
	InitialState     string                       `json:"initialState,omitempty" bson:"initial_state,omitempty"`
	FinalStates      []string                     `json:"finalStates,omitempty" bson:"final_states,omitempty"`
	TotalStates      int                          `json:"totalStates" bson:"total_states"`
	TotalTransitions int                          `json:"totalTransitions" bson:"total_transitions"`
	Journeys         []ProcessedJourneyDefinition `json:"journeys,omitempty" bson:"journeys,omitempty"`
}

// ProcessedNode is one vertex of the canonical graph. Its ID equals the
// state's key in the raw states mapping and is globally unique by
// construction.
type ProcessedNode struct {
	ID             string         `json:"id" bson:"id"`
	Label          string         `json:"label" bson:"label"`
	Type           string         `json:"type,omitempty" bson:"type,omitempty"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	IsInitial      bool           `json:"isInitial" bson:"is_initial"`
	IsFinal        bool           `json:"isFinal" bson:"is_final"`
	JourneyPaths   []string       `json:"journeyPaths" bson:"journey_paths"`
	RelevantChunks []RelevantChunk `json:"relevantChunks,omitempty" bson:"relevant_chunks,omitempty"`
	Metadata       NodeMetadata   `json:"metadata" bson:"metadata"`
}

// NodeMetadata holds the node-local view of optional raw-state fields.
type NodeMetadata struct {
	Functions         []string              `json:"functions,omitempty" bson:"functions,omitempty"`
	NextState         string                `json:"nextState,omitempty" bson:"next_state,omitempty"`
	ControlAttribute  string                `json:"controlAttribute,omitempty" bson:"control_attribute,omitempty"`
	ControlAttributes []string              `json:"controlAttributes,omitempty" bson:"control_attributes,omitempty"`
	Transitions       []ProcessedTransition `json:"transitions,omitempty" bson:"transitions,omitempty"`
}

// ProcessedTransition is one canonicalized outgoing transition as seen from
// its source node. The same normalization feeds [ProcessedEdge], so the two
// views never diverge on a given transition's fields.
type ProcessedTransition struct {
	Condition             string `json:"condition" bson:"condition"`
	Target                string `json:"target" bson:"target"`
	Action                string `json:"action" bson:"action"`
	ControlAttribute      string `json:"controlAttribute,omitempty" bson:"control_attribute,omitempty"`
	ControlAttributeValue string `json:"controlAttributeValue,omitempty" bson:"control_attribute_value,omitempty"`
}

// ProcessedEdge is one directed, labeled connection of the canonical graph.
// The ID is derived from source, target and the transition's position within
// its source state's transition list, which makes it unique: two transitions
// from the same source to the same target always differ in position.
type ProcessedEdge struct {
	ID                    string `json:"id" bson:"id"`
	Source                string `json:"source" bson:"source"`
	Target                string `json:"target" bson:"target"`
	Label                 string `json:"label" bson:"label"`
	Condition             string `json:"condition" bson:"condition"`
	Action                string `json:"action" bson:"action"`
	ControlAttribute      string `json:"controlAttribute,omitempty" bson:"control_attribute,omitempty"`
	ControlAttributeValue string `json:"controlAttributeValue,omitempty" bson:"control_attribute_value,omitempty"`
}

// ProcessedJourneyDefinition is one canonicalized journey record: a named
// cross-cutting grouping of states representing an end-to-end applicant
// path through the machine.
type ProcessedJourneyDefinition struct {
	ID                string   `json:"id" bson:"id"`
	Label             string   `json:"label" bson:"label"`
	Intent            string   `json:"intent" bson:"intent"`
	ExampleScenario   string   `json:"exampleScenario,omitempty" bson:"example_scenario,omitempty"`
	SuggestedJourney  string   `json:"suggestedJourney,omitempty" bson:"suggested_journey,omitempty"`
	Description       string   `json:"description,omitempty" bson:"description,omitempty"`
	SeedStates        []string `json:"seedStates,omitempty" bson:"seed_states,omitempty"`
	RoutinePrefixes   []string `json:"routinePrefixes,omitempty" bson:"routine_prefixes,omitempty"`
	ConditionKeywords []string `json:"conditionKeywords,omitempty" bson:"condition_keywords,omitempty"`
	PathStates        []string `json:"pathStates,omitempty" bson:"path_states,omitempty"`
}

// RelevantChunk is an annotated snippet of source-document text associated
// with a state, used to ground UI explanations in the original policy text.
// Chunks are unique per node on (language, text, referenceId, section,
// source); colliding entries merge their tags instead of duplicating.
type RelevantChunk struct {
	Language    string   `json:"language" bson:"language"`
	Text        string   `json:"text" bson:"text"`
	ReferenceID string   `json:"referenceId,omitempty" bson:"reference_id,omitempty"`
	Source      string   `json:"source,omitempty" bson:"source,omitempty"`
	Section     string   `json:"section,omitempty" bson:"section,omitempty"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// =============================================================================
// Consumer Helpers
// =============================================================================

// DanglingTargets returns the sorted, deduplicated set of edge targets that
// do not resolve to a declared state. The pipeline deliberately tolerates
// these (the raw schema never guaranteed referential integrity); consumers
// that want to surface them can.
func (sm *ProcessedStateMachine) DanglingTargets() []string {
	known := make(map[string]struct{}, len(sm.Nodes))
	for _, n := range sm.Nodes {
		known[n.ID] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, e := range sm.Edges {
		if e.Target == "" {
			continue
		}
		if _, ok := known[e.Target]; ok {
			continue
		}
		if _, ok := seen[e.Target]; ok {
			continue
		}
		seen[e.Target] = struct{}{}
		out = append(out, e.Target)
	}
	sort.Strings(out)
	return out
}

// NodesByJourney returns the nodes whose JourneyPaths include the given
// journey id, preserving node order.
func (sm *ProcessedStateMachine) NodesByJourney(journeyID string) []ProcessedNode {
	var out []ProcessedNode
	for _, n := range sm.Nodes {
		if slices.Contains(n.JourneyPaths, journeyID) {
			out = append(out, n)
		}
	}
	return out
}

// Node returns the node with the given id, or false if no such state was
// declared.
func (sm *ProcessedStateMachine) Node(id string) (ProcessedNode, bool) {
	for _, n := range sm.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return ProcessedNode{}, false
}

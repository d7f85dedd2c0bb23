package statemachine

import (
	"reflect"
	"testing"

	"github.com/flowlens/flowlens/pkg/errors"
)

// sampleDocument mimics a real mixed-convention policy document: camelCase
// and snake_case fields side by side, a legacy bilingual chunk, and explicit
// journey definitions.
func sampleDocument() map[string]any {
	return map[string]any{
		"name":         "trade_license_review",
		"version":      "2.3",
		"description":  "Trade license application flow",
		"initialState": "entry_point",
		"finalStates":  []any{"application_approved", "application_rejected"},
		"journeys": []any{
			map[string]any{
				"id":              "new_trade_name",
				"label":           "New Trade Name",
				"seedStates":      []any{"collect_trade_name"},
				"routinePrefixes": []any{"routine1_"},
			},
			map[string]any{
				"id":          "existing_trade_name",
				"path_states": []any{"verify_existing_name"},
			},
		},
		"states": map[string]any{
			"entry_point": map[string]any{
				"type":        "start",
				"description": "Application entry",
				"transitions": []any{
					map[string]any{"condition": "", "target": "collect_trade_name"},
				},
			},
			"collect_trade_name": map[string]any{
				"type":             "task",
				"controlAttribute": "trade_name",
				"function":         "validateTradeName",
				"transitions": []any{
					map[string]any{
						"condition": "input.valid == true",
						"target":    "verify_existing_name",
						"action":    "persist_name",
					},
					map[string]any{
						"condition":             "input.role == 'executive'",
						"target":                "application_approved",
						"controlAttributeValue": "fast_track",
					},
				},
				"relevantChunks": []any{
					map[string]any{
						"chunk_id":            "c1",
						"arabic_original":     map[string]any{"text": "نص السياسة"},
						"english_translation": map[string]any{"text": "Policy text"},
						"pages_arabic":        []any{float64(3)},
					},
				},
			},
			"verify_existing_name": map[string]any{
				"type":       "decision",
				"next_state": "application_approved",
				"functions":  []any{"lookupRegistry", "compareNames"},
				"transitions": []any{
					map[string]any{"condition": "registry.match == false", "target": "application_rejected"},
				},
			},
			"application_approved": map[string]any{"type": "end"},
			"application_rejected": map[string]any{"type": "end"},
		},
	}
}

func TestProcessStructuralFailures(t *testing.T) {
	tests := []struct {
		name     string
		doc      map[string]any
		wantCode errors.Code
	}{
		{"NilDocument", nil, errors.ErrCodeInvalidDocument},
		{"MissingStates", map[string]any{"name": "x"}, errors.ErrCodeInvalidStates},
		{"StatesNotAMapping", map[string]any{"states": []any{"a"}}, errors.ErrCodeInvalidStates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(tt.doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestProcessCardinality(t *testing.T) {
	sm, err := Process(sampleDocument())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got, want := len(sm.Nodes), 5; got != want {
		t.Errorf("nodes = %d, want %d", got, want)
	}
	if got, want := len(sm.Edges), 4; got != want {
		t.Errorf("edges = %d, want %d", got, want)
	}
	if sm.Metadata.TotalStates != len(sm.Nodes) {
		t.Errorf("totalStates = %d, want %d", sm.Metadata.TotalStates, len(sm.Nodes))
	}
	if sm.Metadata.TotalTransitions != len(sm.Edges) {
		t.Errorf("totalTransitions = %d, want %d", sm.Metadata.TotalTransitions, len(sm.Edges))
	}

	seen := make(map[string]bool)
	for _, e := range sm.Edges {
		if seen[e.ID] {
			t.Errorf("duplicate edge id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestProcessIdempotence(t *testing.T) {
	first, err := Process(sampleDocument())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	second, err := Process(sampleDocument())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("processing the same document twice must yield deep-equal output")
	}
}

func TestProcessNodeDerivation(t *testing.T) {
	sm, err := Process(sampleDocument())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	entry, ok := sm.Node("entry_point")
	if !ok {
		t.Fatal("entry_point node missing")
	}
	if !entry.IsInitial {
		t.Error("entry_point should be initial")
	}
	if entry.Label != "Entry Point" {
		t.Errorf("label = %q, want %q", entry.Label, "Entry Point")
	}
	// Universal entry state joins every defined journey.
	if want := []string{"new_trade_name", "existing_trade_name"}; !reflect.DeepEqual(entry.JourneyPaths, want) {
		t.Errorf("journeyPaths = %v, want %v", entry.JourneyPaths, want)
	}

	approved, _ := sm.Node("application_approved")
	if !approved.IsFinal {
		t.Error("application_approved should be final")
	}
	if approved.IsInitial {
		t.Error("application_approved should not be initial")
	}
	if approved.JourneyPaths == nil {
		t.Error("journeyPaths must be empty, not nil")
	}

	collect, _ := sm.Node("collect_trade_name")
	if collect.Metadata.ControlAttribute != "trade_name" {
		t.Errorf("controlAttribute = %q", collect.Metadata.ControlAttribute)
	}
	if want := []string{"validateTradeName"}; !reflect.DeepEqual(collect.Metadata.Functions, want) {
		t.Errorf("functions = %v, want %v", collect.Metadata.Functions, want)
	}
	if len(collect.RelevantChunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(collect.RelevantChunks))
	}
	if collect.RelevantChunks[0].Language != "ar" || collect.RelevantChunks[1].Language != "en" {
		t.Errorf("bilingual expansion languages = %q, %q",
			collect.RelevantChunks[0].Language, collect.RelevantChunks[1].Language)
	}

	verify, _ := sm.Node("verify_existing_name")
	if verify.Metadata.NextState != "application_approved" {
		t.Errorf("nextState = %q", verify.Metadata.NextState)
	}
	if want := []string{"lookupRegistry", "compareNames"}; !reflect.DeepEqual(verify.Metadata.Functions, want) {
		t.Errorf("functions = %v, want %v", verify.Metadata.Functions, want)
	}
	// pathStates membership via the second journey definition.
	if want := []string{"existing_trade_name"}; !reflect.DeepEqual(verify.JourneyPaths, want) {
		t.Errorf("journeyPaths = %v, want %v", verify.JourneyPaths, want)
	}
}

func TestProcessEdgeDerivation(t *testing.T) {
	sm, err := Process(sampleDocument())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	byID := make(map[string]ProcessedEdge)
	for _, e := range sm.Edges {
		byID[e.ID] = e
	}

	// Empty condition falls back to the formatted target label.
	e, ok := byID["entry_point-collect_trade_name-0"]
	if !ok {
		t.Fatal("missing entry edge")
	}
	if e.Label != "Collect Trade Name" {
		t.Errorf("label = %q, want %q", e.Label, "Collect Trade Name")
	}

	// Boolean token in the condition.
	e = byID["collect_trade_name-verify_existing_name-0"]
	if e.Label != "true" {
		t.Errorf("label = %q, want %q", e.Label, "true")
	}
	if e.Action != "persist_name" {
		t.Errorf("action = %q", e.Action)
	}

	// Explicit control-attribute value wins over everything.
	e = byID["collect_trade_name-application_approved-1"]
	if e.Label != "fast_track" {
		t.Errorf("label = %q, want %q", e.Label, "fast_track")
	}

	// Boolean false.
	e = byID["verify_existing_name-application_rejected-0"]
	if e.Label != "false" {
		t.Errorf("label = %q, want %q", e.Label, "false")
	}
}

func TestEdgeLabel(t *testing.T) {
	tests := []struct {
		name string
		t    ProcessedTransition
		want string
	}{
		{
			name: "ControlAttributeValueWins",
			t:    ProcessedTransition{ControlAttributeValue: "executive", Condition: "x == 'y'"},
			want: "executive",
		},
		{
			name: "EqualityDoubleQuotes",
			t:    ProcessedTransition{Condition: `input.role == "executive"`},
			want: "executive",
		},
		{
			name: "EqualitySingleQuotes",
			t:    ProcessedTransition{Condition: "status == 'approved'"},
			want: "approved",
		},
		{
			name: "BareTrueToken",
			t:    ProcessedTransition{Condition: "input.confirmed == True"},
			want: "true",
		},
		{
			name: "TruncatedCondition",
			t:    ProcessedTransition{Condition: "a very long condition that goes on and on"},
			want: "a very long condition that goe",
		},
		{
			name: "ShortConditionVerbatim",
			t:    ProcessedTransition{Condition: "x > 3"},
			want: "x > 3",
		},
		{
			name: "EmptyConditionUsesTarget",
			t:    ProcessedTransition{Target: "final_review"},
			want: "Final Review",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := edgeLabel(tt.t); got != tt.want {
				t.Errorf("edgeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"collect_beneficiary_info", "Collect Beneficiary Info"},
		{"entry_point", "Entry Point"},
		{"single", "Single"},
		{"", ""},
		{"__double__underscores__", "Double Underscores"},
	}
	for _, tt := range tests {
		if got := formatLabel(tt.in); got != tt.want {
			t.Errorf("formatLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDanglingTargets(t *testing.T) {
	doc := map[string]any{
		"states": map[string]any{
			"a": map[string]any{
				"transitions": []any{
					map[string]any{"target": "b"},
					map[string]any{"target": "ghost"},
					map[string]any{"target": "ghost"},
				},
			},
			"b": map[string]any{},
		},
	}
	sm, err := Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if want := []string{"ghost"}; !reflect.DeepEqual(sm.DanglingTargets(), want) {
		t.Errorf("DanglingTargets() = %v, want %v", sm.DanglingTargets(), want)
	}
}

func TestProcessToleratesMalformedStates(t *testing.T) {
	doc := map[string]any{
		"states": map[string]any{
			"good": map[string]any{"type": "task"},
			"bad":  "not a record",
		},
	}
	sm, err := Process(doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// A malformed state still names a state: the node set mirrors the
	// states mapping's key set exactly.
	if len(sm.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(sm.Nodes))
	}
	bad, ok := sm.Node("bad")
	if !ok {
		t.Fatal("bad node missing")
	}
	if bad.Label != "Bad" {
		t.Errorf("label = %q", bad.Label)
	}
}

func TestNodesByJourney(t *testing.T) {
	sm, err := Process(sampleDocument())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := sm.NodesByJourney("existing_trade_name")
	ids := make([]string, 0, len(got))
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	if want := []string{"entry_point", "verify_existing_name"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("NodesByJourney ids = %v, want %v", ids, want)
	}
}

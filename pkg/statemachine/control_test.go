package statemachine

import (
	"reflect"
	"testing"
)

func TestResolveControlAttributes(t *testing.T) {
	tests := []struct {
		name        string
		state       map[string]any
		wantPrimary string
		wantAll     []string
	}{
		{
			name:  "Empty",
			state: map[string]any{},
		},
		{
			name: "SingularCamelWinsOverPlural",
			state: map[string]any{
				"controlAttribute":   "x",
				"control_attributes": []any{"y", "z"},
			},
			wantPrimary: "x",
			wantAll:     []string{"x", "y", "z"},
		},
		{
			name: "SingularSnakeBeatsPluralCamel",
			state: map[string]any{
				"control_attribute": "snake",
				"controlAttributes": []any{"camel"},
			},
			wantPrimary: "snake",
			wantAll:     []string{"snake", "camel"},
		},
		{
			name: "PluralCamelFirstElement",
			state: map[string]any{
				"controlAttributes":  []any{"a", "b"},
				"control_attributes": []any{"c"},
			},
			wantPrimary: "a",
			wantAll:     []string{"a", "b", "c"},
		},
		{
			name: "PluralSnakeLastResort",
			state: map[string]any{
				"control_attributes": []any{"only"},
			},
			wantPrimary: "only",
			wantAll:     []string{"only"},
		},
		{
			name: "WhitespaceSingularFallsThrough",
			state: map[string]any{
				"controlAttribute":  "   ",
				"controlAttributes": []any{" trimmed "},
			},
			wantPrimary: "trimmed",
			wantAll:     []string{"trimmed"},
		},
		{
			name: "DuplicatesCollapse",
			state: map[string]any{
				"controlAttribute":   "x",
				"controlAttributes":  []any{"x", "y"},
				"control_attributes": []any{"y", "x"},
			},
			wantPrimary: "x",
			wantAll:     []string{"x", "y"},
		},
		{
			name: "NonStringEntriesSkipped",
			state: map[string]any{
				"controlAttributes": []any{42, "real"},
			},
			wantPrimary: "real",
			wantAll:     []string{"real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveControlAttributes(tt.state)
			if got.primary != tt.wantPrimary {
				t.Errorf("primary = %q, want %q", got.primary, tt.wantPrimary)
			}
			if !reflect.DeepEqual(got.all, tt.wantAll) {
				t.Errorf("all = %v, want %v", got.all, tt.wantAll)
			}
		})
	}
}

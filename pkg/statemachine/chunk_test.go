package statemachine

import (
	"reflect"
	"testing"
)

func TestCollectRelevantChunks(t *testing.T) {
	tests := []struct {
		name  string
		state map[string]any
		want  []RelevantChunk
	}{
		{
			name:  "Absent",
			state: map[string]any{},
			want:  nil,
		},
		{
			name:  "EmptyListReturnsNil",
			state: map[string]any{"relevantChunks": []any{}},
			want:  nil,
		},
		{
			name:  "SingleScalar",
			state: map[string]any{"relevantChunks": "A plain snippet"},
			want:  []RelevantChunk{{Language: "en", Text: "A plain snippet"}},
		},
		{
			name: "FlatMixedList",
			state: map[string]any{
				"relevant_chunks": []any{
					"bare string",
					map[string]any{"text": "from record", "language": "Arabic", "reference_id": "r1"},
					map[string]any{"content": "aliased text", "tags": []any{"t1"}},
					42,
				},
			},
			want: []RelevantChunk{
				{Language: "en", Text: "bare string"},
				{Language: "ar", Text: "from record", ReferenceID: "r1"},
				{Language: "en", Text: "aliased text", Tags: []string{"t1"}},
			},
		},
		{
			name: "WhitespaceOnlyTextDiscarded",
			state: map[string]any{
				"relevantChunks": []any{
					map[string]any{"text": "   "},
					map[string]any{"value": "kept"},
				},
			},
			want: []RelevantChunk{{Language: "en", Text: "kept"}},
		},
		{
			name: "LanguageKeyedMap",
			state: map[string]any{
				"relevantChunks": map[string]any{
					"en": []any{"hello"},
					"ar": []any{map[string]any{"text": "مرحبا"}},
				},
			},
			want: []RelevantChunk{
				{Language: "ar", Text: "مرحبا"},
				{Language: "en", Text: "hello"},
			},
		},
		{
			name: "BilingualPairExpansion",
			state: map[string]any{
				"relevantChunks": []any{
					map[string]any{
						"chunk_id":            "c1",
						"arabic_original":     map[string]any{"text": "نص عربي"},
						"english_translation": map[string]any{"text": "Hello"},
						"pages_arabic":        []any{float64(12)},
					},
				},
			},
			want: []RelevantChunk{
				{Language: "ar", Text: "نص عربي", ReferenceID: "c1", Source: "Page 12", Section: "Page 12"},
				{Language: "en", Text: "Hello", ReferenceID: "c1", Source: "Page 12", Section: "Page 12"},
			},
		},
		{
			name: "BilingualWithSimilarityAndMultiplePages",
			state: map[string]any{
				"relevantChunks": []any{
					map[string]any{
						"chunk_id":            "c2",
						"arabic_original":     map[string]any{"text": "عربي"},
						"english_translation": map[string]any{"text": "English"},
						"pages_arabic":        []any{float64(12), float64(14)},
						"similarity":          0.87,
					},
				},
			},
			want: []RelevantChunk{
				{Language: "ar", Text: "عربي", ReferenceID: "c2", Source: "Page 12, 14", Section: "Page 12, 14", Tags: []string{"similarity: 0.87"}},
				{Language: "en", Text: "English", ReferenceID: "c2", Source: "Page 12, 14", Section: "Page 12, 14", Tags: []string{"similarity: 0.87"}},
			},
		},
		{
			name: "DedupMergesTags",
			state: map[string]any{
				"relevantChunks": []any{
					map[string]any{"text": "same", "language": "en", "tags": []any{"a"}},
					map[string]any{"text": "same", "language": "english", "tags": []any{"b", "a"}},
				},
			},
			want: []RelevantChunk{
				{Language: "en", Text: "same", Tags: []string{"a", "b"}},
			},
		},
		{
			name: "DifferentReferenceIDsStayDistinct",
			state: map[string]any{
				"relevantChunks": []any{
					map[string]any{"text": "same", "id": "r1"},
					map[string]any{"text": "same", "id": "r2"},
				},
			},
			want: []RelevantChunk{
				{Language: "en", Text: "same", ReferenceID: "r1"},
				{Language: "en", Text: "same", ReferenceID: "r2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectRelevantChunks(tt.state)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("collectRelevantChunks() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "en"},
		{"en", "en"},
		{"EN", "en"},
		{"english", "en"},
		{"en-US", "en"},
		{"ar", "ar"},
		{"Arabic", "ar"},
		{"ar-AE", "ar"},
		{"fr", "fr"},
		{"  De  ", "de"},
	}
	for _, tt := range tests {
		if got := normalizeLanguage(tt.in); got != tt.want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

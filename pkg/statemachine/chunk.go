package statemachine

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// The relevantChunks field is the most shape-polymorphic part of the raw
// schema. Documents have been observed carrying it as:
//
//   - a flat list of strings and/or records
//   - a list of bilingual pair records (chunk_id + arabic_original +
//     english_translation, with optional page numbers and similarity score)
//   - a language-keyed map whose values are lists, records or strings
//   - a single scalar string
//
// collectRelevantChunks dispatches on shape and funnels every variant into
// the same canonical chunk record. Shape detection stays inside this file;
// the rest of the pipeline only ever sees []RelevantChunk.

// collectRelevantChunks walks a state's relevantChunks/relevant_chunks field
// and produces a deduplicated list of annotated text snippets. Fragments
// that trim to nothing are discarded, unrecognized entries are skipped, and
// entries colliding on (language, text, referenceId, section, source) merge
// their tags instead of duplicating. Returns nil when nothing usable was
// found, never an empty slice.
func collectRelevantChunks(state map[string]any) []RelevantChunk {
	raw, ok := fieldValue(state, "relevantChunks", "relevant_chunks")
	if !ok || raw == nil {
		return nil
	}

	c := newChunkCollector()
	switch v := raw.(type) {
	case string:
		c.add(RelevantChunk{Text: v})
	case []any:
		for _, entry := range v {
			c.collectEntry(entry, "")
		}
	case map[string]any:
		if isBilingualPair(v) || isChunkRecord(v) {
			c.collectEntry(v, "")
		} else {
			c.collectLanguageMap(v)
		}
	}
	return c.list()
}

// collectLanguageMap handles the language-keyed map shape, where each key
// names the language of its values. Keys are visited in sorted order so the
// output is deterministic regardless of map iteration.
func (c *chunkCollector) collectLanguageMap(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, lang := range keys {
		switch v := m[lang].(type) {
		case string:
			c.add(RelevantChunk{Language: lang, Text: v})
		case []any:
			for _, entry := range v {
				c.collectEntry(entry, lang)
			}
		case map[string]any:
			c.collectEntry(v, lang)
		}
	}
}

// collectEntry normalizes one list entry: a bare string, a bilingual pair
// record, or a plain chunk record. Anything else is skipped silently; this
// is a best-effort normalizer, not a validator.
func (c *chunkCollector) collectEntry(entry any, langHint string) {
	switch v := entry.(type) {
	case string:
		c.add(RelevantChunk{Language: langHint, Text: v})
	case map[string]any:
		if isBilingualPair(v) {
			c.collectBilingual(v)
			return
		}
		c.collectRecord(v, langHint)
	}
}

// collectRecord normalizes a plain chunk record, accepting the known aliases
// for each field.
func (c *chunkCollector) collectRecord(m map[string]any, langHint string) {
	text := stringField(m, "text", "content", "value")
	if text == "" {
		return
	}
	lang := stringField(m, "language", "lang")
	if lang == "" {
		lang = langHint
	}
	c.add(RelevantChunk{
		Language:    lang,
		Text:        text,
		ReferenceID: stringField(m, "referenceId", "reference_id", "id", "chunk_id"),
		Source:      stringField(m, "source", "src", "sourceDocument", "source_document"),
		Section:     stringField(m, "section", "sectionTitle", "section_title"),
		Tags:        stringListField(m, "tags"),
	})
}

// collectBilingual expands a bilingual pair record into one Arabic and one
// English chunk sharing the same reference id, page annotation and
// similarity tag.
func (c *chunkCollector) collectBilingual(m map[string]any) {
	refID := stringField(m, "chunk_id", "chunkId", "id")
	pageRef := formatPageRef(m["pages_arabic"])

	var tags []string
	if sim := formatSimilarity(m["similarity"]); sim != "" {
		tags = []string{"similarity: " + sim}
	}

	if text := trimmed(asMap(m["arabic_original"])["text"]); text != "" {
		c.add(RelevantChunk{
			Language:    "ar",
			Text:        text,
			ReferenceID: refID,
			Source:      pageRef,
			Section:     pageRef,
			Tags:        tags,
		})
	}
	if text := trimmed(asMap(m["english_translation"])["text"]); text != "" {
		c.add(RelevantChunk{
			Language:    "en",
			Text:        text,
			ReferenceID: refID,
			Source:      pageRef,
			Section:     pageRef,
			Tags:        tags,
		})
	}
}

// formatPageRef renders a raw page-number list as "Page 12" or
// "Page 12, 14". Returns "" when no usable page numbers are present.
func formatPageRef(v any) string {
	list, ok := v.([]any)
	if !ok {
		return ""
	}
	var pages []string
	for _, p := range list {
		switch n := p.(type) {
		case float64:
			pages = append(pages, formatNumber(n))
		case int:
			pages = append(pages, strconv.Itoa(n))
		case string:
			if s := strings.TrimSpace(n); s != "" {
				pages = append(pages, s)
			}
		}
	}
	if len(pages) == 0 {
		return ""
	}
	return "Page " + strings.Join(pages, ", ")
}

// formatSimilarity renders a similarity score compactly ("0.87", not
// "0.870000"). Returns "" when the value is not a number or string.
func formatSimilarity(v any) string {
	switch n := v.(type) {
	case float64:
		return formatNumber(n)
	case int:
		return strconv.Itoa(n)
	case string:
		return strings.TrimSpace(n)
	}
	return ""
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// isBilingualPair reports whether m carries the legacy bilingual shape.
func isBilingualPair(m map[string]any) bool {
	_, ar := m["arabic_original"]
	_, en := m["english_translation"]
	return ar || en
}

// isChunkRecord reports whether m looks like a plain chunk record rather
// than a language-keyed map.
func isChunkRecord(m map[string]any) bool {
	for _, k := range []string{"text", "content", "value"} {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// normalizeLanguage maps free-form language annotations onto short codes:
// anything starting with "ar" (or the word "arabic") becomes "ar", anything
// starting with "en" becomes "en", everything else passes through lowercased.
// An unspecified language defaults to "en".
func normalizeLanguage(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	switch {
	case l == "":
		return "en"
	case l == "arabic" || strings.HasPrefix(l, "ar"):
		return "ar"
	case l == "english" || strings.HasPrefix(l, "en"):
		return "en"
	}
	return l
}

// =============================================================================
// Dedup Collector
// =============================================================================

// chunkCollector accumulates chunks keyed on the composite identity
// (language, text, referenceId, section, source), preserving first-insertion
// order. The dedup state is local to one collection pass; nothing is shared
// across states or calls.
type chunkCollector struct {
	order []string
	byKey map[string]*RelevantChunk
}

func newChunkCollector() *chunkCollector {
	return &chunkCollector{byKey: make(map[string]*RelevantChunk)}
}

// add normalizes and inserts one chunk. Whitespace-only text is discarded.
// On a key collision the new entry's tags are unioned into the existing
// chunk's tag list.
func (c *chunkCollector) add(ch RelevantChunk) {
	ch.Text = strings.TrimSpace(ch.Text)
	if ch.Text == "" {
		return
	}
	ch.Language = normalizeLanguage(ch.Language)

	key := strings.Join([]string{ch.Language, ch.Text, ch.ReferenceID, ch.Section, ch.Source}, "::")
	if existing, ok := c.byKey[key]; ok {
		existing.Tags = dedupe(append(existing.Tags, ch.Tags...))
		return
	}
	ch.Tags = dedupe(ch.Tags)
	c.byKey[key] = &ch
	c.order = append(c.order, key)
}

// list returns the collected chunks in insertion order, or nil when empty.
func (c *chunkCollector) list() []RelevantChunk {
	if len(c.order) == 0 {
		return nil
	}
	out := make([]RelevantChunk, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.byKey[key])
	}
	return out
}

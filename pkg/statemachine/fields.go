package statemachine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// The raw schema spells most fields two or more ways (camelCase vs
// snake_case, singular vs plural). Every lookup goes through these helpers
// so the alias precedence lives in exactly one place per call site: keys are
// tried in order and the first present, correctly-typed value wins.

// fieldValue returns the first present value among keys, with ok reporting
// whether any key existed at all.
func fieldValue(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// stringField returns the first non-empty trimmed string among keys.
// Non-string values are skipped.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := trimmed(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// stringListField returns the trimmed non-empty strings of the first list
// found among keys. A single string value is accepted as a one-element list.
func stringListField(m map[string]any, keys ...string) []string {
	v, ok := fieldValue(m, keys...)
	if !ok {
		return nil
	}
	return stringList(v)
}

// stringList coerces v into a list of trimmed non-empty strings.
// Non-string elements are skipped.
func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, e := range t {
			if s := trimmed(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		var out []string
		for _, e := range t {
			if s := strings.TrimSpace(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

// trimmed returns v trimmed of surrounding whitespace if it is a string,
// otherwise the empty string.
func trimmed(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// dedupe removes duplicates from vals preserving first-occurrence order.
func dedupe(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(vals))
	out := vals[:0:0]
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// asMap returns v as a map[string]any, or nil if it is anything else.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// formatLabel derives a human-readable label from a snake_case identifier:
// segments are split on underscores and title-cased, joined by spaces.
// "collect_beneficiary_info" becomes "Collect Beneficiary Info".
func formatLabel(id string) string {
	parts := strings.Split(id, "_")
	out := parts[:0:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		out = append(out, string(unicode.ToUpper(r))+p[size:])
	}
	return strings.Join(out, " ")
}

package statemachine

import (
	"math"
	"slices"
	"sort"
	"strings"
)

// Journey membership is resolved through layered tiers. All matching tiers
// contribute to the result (union, not first-match), except the legacy
// prefix fallback which only fires for documents that define no journeys at
// all. Each tier is a named step so it can be reasoned about and tested in
// isolation.

// Gateway states every applicant passes through regardless of which journey
// their case follows. When a document defines journeys, these states belong
// to all of them.
var universalEntryStates = map[string]struct{}{
	"entry_point":                         {},
	"customer_application_type_selection": {},
}

// legacyJourneyPrefixes maps historical state-id prefixes to journey ids for
// documents predating explicit journey definitions.
var legacyJourneyPrefixes = []struct {
	prefix  string
	journey string
}{
	{"routine1_", "new_trade_name"},
	{"routine2_", "existing_trade_name"},
	{"routine3_", "existing_trade_license"},
}

// assignJourneyPaths resolves the ordered, deduplicated list of journey ids
// a state belongs to. The result is never nil: a state matching nothing gets
// an empty slice.
func assignJourneyPaths(stateID string, state map[string]any, journeys []ProcessedJourneyDefinition) []string {
	var collected []string
	collected = append(collected, explicitJourneyPaths(state)...)
	collected = append(collected, journeyIDReference(state, journeys)...)
	collected = append(collected, definitionMatches(stateID, journeys)...)

	if len(journeys) == 0 && len(collected) == 0 {
		collected = append(collected, legacyPrefixJourney(stateID)...)
	}
	if len(journeys) > 0 {
		if _, ok := universalEntryStates[stateID]; ok {
			for _, j := range journeys {
				collected = append(collected, j.ID)
			}
		}
	}

	return orderJourneyPaths(dedupe(collected), journeys)
}

// explicitJourneyPaths is tier 1: ids listed verbatim in the state's
// journeyPaths/journey_paths field.
func explicitJourneyPaths(state map[string]any) []string {
	return stringListField(state, "journeyPaths", "journey_paths")
}

// journeyIDReference is tier 2: a journey_id/journeyId value. A string is a
// journey id directly; a number is a 1-based index into the normalized
// journey list and is silently ignored when out of range.
func journeyIDReference(state map[string]any, journeys []ProcessedJourneyDefinition) []string {
	v, ok := fieldValue(state, "journey_id", "journeyId")
	if !ok {
		return nil
	}
	switch id := v.(type) {
	case string:
		if s := strings.TrimSpace(id); s != "" {
			return []string{s}
		}
	case float64:
		if id == math.Trunc(id) {
			if idx := int(id); idx >= 1 && idx <= len(journeys) {
				return []string{journeys[idx-1].ID}
			}
		}
	case int:
		if id >= 1 && id <= len(journeys) {
			return []string{journeys[id-1].ID}
		}
	}
	return nil
}

// definitionMatches is tier 3: for every journey, the state joins it when its
// id appears in the journey's seedStates or pathStates, or failing that when
// the id starts with one of the journey's routinePrefixes.
func definitionMatches(stateID string, journeys []ProcessedJourneyDefinition) []string {
	var out []string
	for _, j := range journeys {
		if slices.Contains(j.SeedStates, stateID) || slices.Contains(j.PathStates, stateID) {
			out = append(out, j.ID)
			continue
		}
		for _, prefix := range j.RoutinePrefixes {
			if strings.HasPrefix(stateID, prefix) {
				out = append(out, j.ID)
				break
			}
		}
	}
	return out
}

// legacyPrefixJourney is tier 4: the routine1_/routine2_/routine3_ prefix
// convention from documents that predate journey definitions.
func legacyPrefixJourney(stateID string) []string {
	for _, l := range legacyJourneyPrefixes {
		if strings.HasPrefix(stateID, l.prefix) {
			return []string{l.journey}
		}
	}
	return nil
}

// orderJourneyPaths orders collected ids deterministically: journeys known
// to the normalized list keep that list's order, and any id not found there
// comes after them, sorted lexicographically among themselves.
func orderJourneyPaths(ids []string, journeys []ProcessedJourneyDefinition) []string {
	position := make(map[string]int, len(journeys))
	for i, j := range journeys {
		position[j.ID] = i
	}

	known := make([]string, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		if _, ok := position[id]; ok {
			known = append(known, id)
		} else {
			unknown = append(unknown, id)
		}
	}

	sort.Slice(known, func(a, b int) bool { return position[known[a]] < position[known[b]] })
	sort.Strings(unknown)
	return append(known, unknown...)
}

package statemachine

// NormalizeJourneys canonicalizes the raw journey-definition list of a
// document into typed, deduplicated records. The list may live under
// "journeys" or "journeyDefinitions" (first spelling wins when both are
// present). Entries lacking a non-empty id are dropped; everything else is
// normalized best-effort and never rejected.
func NormalizeJourneys(doc map[string]any) []ProcessedJourneyDefinition {
	raw, ok := fieldValue(doc, "journeys", "journeyDefinitions", "journey_definitions")
	if !ok {
		return nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}

	var out []ProcessedJourneyDefinition
	for _, e := range entries {
		entry := asMap(e)
		if entry == nil {
			continue
		}
		j, ok := normalizeJourney(entry)
		if !ok {
			continue
		}
		out = append(out, j)
	}
	return out
}

func normalizeJourney(entry map[string]any) (ProcessedJourneyDefinition, bool) {
	id := stringField(entry, "id")
	if id == "" {
		return ProcessedJourneyDefinition{}, false
	}

	label := stringField(entry, "label", "name", "title")
	if label == "" {
		label = stringField(entry, "suggestedJourney", "suggested_journey")
	}
	if label == "" {
		label = formatLabel(id)
	}

	intent := stringField(entry, "intent")
	if intent == "" {
		intent = label
	}

	// seedStates is the union of the explicit field and its entryStates
	// alias, not a first-match lookup.
	seeds := stringListField(entry, "seedStates", "seed_states")
	seeds = append(seeds, stringListField(entry, "entryStates", "entry_states")...)

	return ProcessedJourneyDefinition{
		ID:                id,
		Label:             label,
		Intent:            intent,
		ExampleScenario:   stringField(entry, "exampleScenario", "example_scenario"),
		SuggestedJourney:  stringField(entry, "suggestedJourney", "suggested_journey"),
		Description:       stringField(entry, "description"),
		SeedStates:        dedupe(seeds),
		RoutinePrefixes:   dedupe(stringListField(entry, "routinePrefixes", "routine_prefixes")),
		ConditionKeywords: dedupe(stringListField(entry, "conditionKeywords", "condition_keywords")),
		PathStates:        dedupe(stringListField(entry, "pathStates", "path_states")),
	}, true
}

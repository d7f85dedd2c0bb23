package statemachine

// normalizeTransition canonicalizes one raw transition record. Condition,
// target and action are trimmed strings (empty when absent or not a string);
// the optional control attribute name/value accept either field spelling and
// are included only when the trimmed value is non-empty.
//
// Both the node-local metadata view and the graph-level edges are built from
// this function, so the two can never diverge in canonicalization.
func normalizeTransition(raw any) ProcessedTransition {
	// A non-map entry still occupies a position in its state's transition
	// list; it canonicalizes to the zero transition rather than vanishing,
	// keeping edge count equal to transition count.
	m := asMap(raw)
	if m == nil {
		return ProcessedTransition{}
	}
	return ProcessedTransition{
		Condition:             trimmed(m["condition"]),
		Target:                trimmed(m["target"]),
		Action:                trimmed(m["action"]),
		ControlAttribute:      stringField(m, "controlAttribute", "control_attribute"),
		ControlAttributeValue: stringField(m, "controlAttributeValue", "control_attribute_value"),
	}
}

// rawTransitions returns the state's transition list, or nil when absent or
// not a list.
func rawTransitions(state map[string]any) []any {
	list, _ := state["transitions"].([]any)
	return list
}

package statemachine

// controlAttributes is the reconciled view of the several raw fields that
// can express a state's control attribute.
type controlAttributes struct {
	primary string
	all     []string
}

// resolveControlAttributes reconciles the four spellings a document may use
// for a state's control attribute into one primary value plus a deduplicated
// set. The precedence chain is the sole source of truth for which convention
// wins when a document supplies more than one:
//
//	controlAttribute -> control_attribute ->
//	controlAttributes[0] -> control_attributes[0]
//
// The full set is the union of the resolved primary candidate and every
// entry of both plural lists, in that enumeration order. When the chain
// produces nothing but the set is non-empty, the primary falls back to the
// set's first member.
func resolveControlAttributes(state map[string]any) controlAttributes {
	pluralCamel := stringListField(state, "controlAttributes")
	pluralSnake := stringListField(state, "control_attributes")

	primary := stringField(state, "controlAttribute", "control_attribute")
	if primary == "" && len(pluralCamel) > 0 {
		primary = pluralCamel[0]
	}
	if primary == "" && len(pluralSnake) > 0 {
		primary = pluralSnake[0]
	}

	var all []string
	if primary != "" {
		all = append(all, primary)
	}
	all = append(all, pluralCamel...)
	all = append(all, pluralSnake...)
	all = dedupe(all)

	if primary == "" && len(all) > 0 {
		primary = all[0]
	}

	return controlAttributes{primary: primary, all: all}
}

// Package statemachine converts externally-authored policy state-machine
// documents into a canonical, render-ready directed graph.
//
// The input schema is not controlled by this system. It has accreted several
// historical conventions - camelCase vs snake_case field names, singular vs
// plural variants, implicit vs explicit journey membership, and a handful of
// shapes for bilingual source-text annotations. The pipeline reconciles all
// of them into one unambiguous model with deterministic identifiers and
// deduplicated metadata.
//
// The entry point is [Process]:
//
//	doc, err := loader.LoadFile("machine.json")
//	if err != nil {
//	    return err
//	}
//	sm, err := statemachine.Process(doc)
//	if err != nil {
//	    return err
//	}
//	for _, n := range sm.Nodes {
//	    fmt.Println(n.ID, n.JourneyPaths)
//	}
//
// Process is a pure, synchronous transformation: the same raw document always
// yields a deep-equal canonical graph, and it may be called concurrently
// without coordination. Malformed sub-records (a journey entry without an id,
// a text fragment that trims to nothing) are silently skipped; only a
// structurally broken document - not an object, or a missing states mapping -
// fails the whole call with a typed error from pkg/errors.
package statemachine

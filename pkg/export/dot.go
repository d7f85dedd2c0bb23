package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/flowlens/flowlens/pkg/statemachine"
)

// journeyPalette cycles through fill colors for journey grouping. Graphviz
// X11 color names, light enough for black text.
var journeyPalette = []string{
	"lightblue", "lightyellow", "lightpink", "lightcyan",
	"lavender", "mistyrose", "honeydew", "papayawhip",
}

// DOTOptions configures DOT emission.
type DOTOptions struct {
	// ColorByJourney fills each node with the color of its first journey.
	// Nodes outside every journey stay white.
	ColorByJourney bool
}

// ToDOT converts a processed graph to Graphviz DOT source. Initial and final
// states get distinct shapes; edges carry their resolved labels. No layout
// is computed - the output is plain DOT for an external renderer.
func ToDOT(sm *statemachine.ProcessedStateMachine, opts DOTOptions) string {
	colors := journeyColors(sm.Metadata.Journeys)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range sm.Nodes {
		attrs := nodeAttrs(n, opts, colors)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range sm.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n statemachine.ProcessedNode, opts DOTOptions, colors map[string]string) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Label)}

	switch {
	case n.IsInitial:
		attrs = append(attrs, "shape=oval", "penwidth=2")
	case n.IsFinal:
		attrs = append(attrs, "shape=doubleoctagon")
	}

	if opts.ColorByJourney && len(n.JourneyPaths) > 0 {
		if color, ok := colors[n.JourneyPaths[0]]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
		}
	}
	return attrs
}

func journeyColors(journeys []statemachine.ProcessedJourneyDefinition) map[string]string {
	colors := make(map[string]string, len(journeys))
	for i, j := range journeys {
		colors[j.ID] = journeyPalette[i%len(journeyPalette)]
	}
	return colors
}

package accel

import (
	"fmt"
	"sort"
	"strings"
)

// SummaryTable renders a human-readable digest of an elaborated graph:
// instance counts by kind, top-level port count, and edge count. It is
// the CLI's one reporting surface onto a Graph; nothing in package
// accel depends on it.
func SummaryTable(g Graph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Datapath %q ===\n", g.Name)
	fmt.Fprintf(&b, "Top-level ports     : %d\n", len(g.TopPorts))
	fmt.Fprintf(&b, "Instances           : %d\n", len(g.Instances))

	counts := map[BlockKind]int{}
	for _, inst := range g.Instances {
		counts[inst.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&b, "  %-16s: %d\n", k, counts[BlockKind(k)])
	}
	fmt.Fprintf(&b, "Connections         : %d\n", len(g.Edges))
	return b.String()
}

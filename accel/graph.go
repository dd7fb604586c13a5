package accel

import (
	"fmt"
	"sort"
)

// BlockKind tags each instance in the produced module graph with the
// kind of block it wraps, collapsing the deep inheritance hierarchy a
// dynamically-typed elaborator would otherwise use into one flat enum.
type BlockKind string

const (
	BlockMLB           BlockKind = "MLB"
	BlockBuffer        BlockKind = "Buffer"
	BlockEMIF          BlockKind = "EMIF"
	BlockActivation    BlockKind = "Activation"
	BlockInterconnect  BlockKind = "Interconnect"
	BlockWrapper       BlockKind = "Wrapper"
)

// PortRef addresses one port on one named instance of the module graph.
// The zero Instance ("") refers to a top-level port of the enclosing
// module.
type PortRef struct {
	Instance string
	Port     string
}

func (r PortRef) String() string {
	if r.Instance == "" {
		return r.Port
	}
	return r.Instance + "." + r.Port
}

// Edge is one bit-exact connection: the half-open bit range [FromLo,
// FromHi) of From is wired to the half-open bit range [ToLo, ToHi) of
// To. FromHi-FromLo always equals ToHi-ToLo.
type Edge struct {
	From PortRef
	To   PortRef
	Lo   int
	Hi   int
}

// Instance is one named component in the produced graph: an MLB,
// buffer, activation function, interconnect fabric, or wrapper, along
// with the ports it exposes at this level.
type Instance struct {
	Name  string
	Kind  BlockKind
	Ports []Port
}

// Graph is the complete, immutable module graph the elaborator
// produces: a tree of named instances with named typed ports, and the
// set of bit-exact connections between them. It is the sole artifact
// passed to downstream HDL emission.
type Graph struct {
	Name      string
	TopPorts  []Port
	Instances []Instance
	Edges     []Edge
}

// builder accumulates instances and edges during elaboration and
// finalizes into an immutable Graph. It is the Go analogue of the
// mutable per-construct-call accumulation the source language permits;
// here, nothing outside this file ever appends to a Graph's slices
// after build returns.
type builder struct {
	name      string
	topPorts  []Port
	topSeen   map[string]bool
	instances []Instance
	edges     []Edge
}

func newBuilder(name string) *builder {
	return &builder{name: name, topSeen: map[string]bool{}}
}

func (b *builder) addInstance(inst Instance) {
	b.instances = append(b.instances, inst)
}

// addTopPort adds a top-level port if it doesn't already exist, and
// returns whether it was newly added.
func (b *builder) addTopPort(p Port) bool {
	if b.topSeen[p.Name] {
		return false
	}
	b.topSeen[p.Name] = true
	b.topPorts = append(b.topPorts, p)
	return true
}

func (b *builder) connect(from, to PortRef, lo, hi int) {
	b.edges = append(b.edges, Edge{From: from, To: to, Lo: lo, Hi: hi})
}

func (b *builder) tieZero(to PortRef, lo, hi int) {
	b.edges = append(b.edges, Edge{From: PortRef{Port: "ZERO"}, To: to, Lo: lo, Hi: hi})
}

func (b *builder) build() Graph {
	return Graph{
		Name:      b.name,
		TopPorts:  b.topPorts,
		Instances: b.instances,
		Edges:     b.edges,
	}
}

// PortsByPrefix returns, for the given instance name, every port whose
// name matches "<prefix>_<integer-suffix>", sorted by the integer
// suffix. This is the deterministic replacement for the source
// language's "scan all attributes named X_N" idiom (spec.md §9): a
// precomputed side table rather than a live reflective scan.
func (g Graph) PortsByPrefix(instanceName, prefix string) []Port {
	var inst *Instance
	for i := range g.Instances {
		if g.Instances[i].Name == instanceName {
			inst = &g.Instances[i]
			break
		}
	}
	if inst == nil {
		return nil
	}
	type indexed struct {
		idx  int
		port Port
	}
	var matches []indexed
	for _, p := range inst.Ports {
		var n int
		if _, err := fmt.Sscanf(p.Name, prefix+"_%d", &n); err == nil && p.Name == portName(prefix, n) {
			matches = append(matches, indexed{n, p})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].idx < matches[j].idx })
	out := make([]Port, len(matches))
	for i, m := range matches {
		out[i] = m.port
	}
	return out
}

// Fanout returns every edge whose From matches ref.
func (g Graph) Fanout(ref PortRef) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == ref {
			out = append(out, e)
		}
	}
	return out
}

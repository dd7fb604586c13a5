package mapper

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/tiledml/accelgen/accel"
)

// EnumeratorError is the enumerator's one fatal error kind. Unlike the
// elaborator's closed set of ElaborationError kinds, find_mappings has
// exactly one failure mode that stops the search outright; an empty
// feasible set is not an error, it's a return value.
type EnumeratorError struct {
	Msg string
}

func (e *EnumeratorError) Error() string {
	return "InvalidWorkload: " + e.Msg
}

// apAxisOrder assigns each of the five access-pattern weights to the
// workload axis it penalizes. PX and PY describe output spatial
// position, not an operand sweep, so they carry no access-pattern
// weight and are excluded from this correspondence.
var apAxisOrder = []accel.WorkloadAxis{accel.AxisRX, accel.AxisRY, accel.AxisE, accel.AxisB, accel.AxisC}

// Option configures an optional FindMappings input.
type Option func(*options)

type options struct {
	suggested *accel.Mapping
	preloadO  bool
	preloadI  bool
}

// WithSuggestedSolution seeds the search with a caller-supplied mapping.
// Its score is folded into the result regardless of whether it would
// otherwise pass the MAC-budget, hardware-bound, or access-pattern
// filters.
func WithSuggestedSolution(m accel.Mapping) Option {
	return func(o *options) { o.suggested = &m }
}

// WithPreloadOutput restricts the search to mappings whose outer factor
// on the output-channel axis is 1, modelling a partial-sum buffer that
// holds the whole output tile on chip.
func WithPreloadOutput() Option {
	return func(o *options) { o.preloadO = true }
}

// WithPreloadInput restricts the search to mappings whose outer factor
// on the input-channel axis is 1, modelling an input buffer that holds
// the whole input tile on chip.
func WithPreloadInput() Option {
	return func(o *options) { o.preloadI = true }
}

// FindMappings enumerates every admissible outer/inner/temporal
// factorization of workload w that fits within macBudget MAC units and
// hwb's native projection bounds. In hard mode (soft=false) a mapping
// whose inner factorization mismatches hwb.AccessPatterns by any amount
// is rejected outright; in soft mode every such mapping is admitted
// with its throughput discounted by the mismatch. It returns the
// admissible mappings in generation order and the highest throughput
// figure among them (0 if the set is empty).
func FindMappings(hwb accel.HWBSpec, w accel.Workload, macBudget int, soft bool, opts ...Option) ([]accel.Mapping, int, error) {
	if macBudget < 1 {
		return nil, 0, &EnumeratorError{Msg: fmt.Sprintf("MAC budget must be >= 1, got %d", macBudget)}
	}
	for _, a := range accel.WorkloadAxisOrder {
		if w.Get(a) <= 0 {
			return nil, 0, &EnumeratorError{Msg: fmt.Sprintf("workload axis %s must be positive, got %d", a, w.Get(a))}
		}
	}

	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var admissible []accel.Mapping
	best := 0
	for _, m := range enumerate(w) {
		usedMACs := product(m.Inner, accel.WorkloadAxisOrder)
		if usedMACs > macBudget {
			continue
		}
		if cfg.preloadO && m.Outer[accel.AxisE] != 1 {
			continue
		}
		if cfg.preloadI && m.Outer[accel.AxisC] != 1 {
			continue
		}
		if !fitsHardwareBound(m.Inner, hwb.PossibleProj) {
			continue
		}
		cost := accessPatternCost(m.Inner, hwb.AccessPatterns)
		if !soft && cost != 0 {
			continue
		}
		admissible = append(admissible, m)
		if score := throughput(m, usedMACs, macBudget, cost); score > best {
			best = score
		}
	}

	if cfg.suggested != nil {
		usedMACs := product(cfg.suggested.Inner, accel.WorkloadAxisOrder)
		cost := accessPatternCost(cfg.suggested.Inner, hwb.AccessPatterns)
		admissible = append(admissible, *cfg.suggested)
		if score := throughput(*cfg.suggested, usedMACs, macBudget, cost); score > best {
			best = score
		}
	}

	logrus.Infof("find_mappings: %d admissible mapping(s), best throughput %d", len(admissible), best)
	return admissible, best, nil
}

// enumerate generates every (AO,AI,AT) combination across all seven
// workload axes, iterating the axes in accel.WorkloadAxisOrder and, for
// each axis, its divisor triples in lexicographic order of (AO,AI).
func enumerate(w accel.Workload) []accel.Mapping {
	triplesByAxis := make([][][3]int, len(accel.WorkloadAxisOrder))
	for i, a := range accel.WorkloadAxisOrder {
		triplesByAxis[i] = factorTriples(w.Get(a))
	}

	var out []accel.Mapping
	outer := map[accel.WorkloadAxis]int{}
	inner := map[accel.WorkloadAxis]int{}
	temporal := map[accel.WorkloadAxis]int{}

	var rec func(i int)
	rec = func(i int) {
		if i == len(accel.WorkloadAxisOrder) {
			out = append(out, accel.Mapping{
				Outer:    cloneMap(outer),
				Inner:    cloneMap(inner),
				Temporal: cloneMap(temporal),
			})
			return
		}
		axis := accel.WorkloadAxisOrder[i]
		for _, t := range triplesByAxis[i] {
			outer[axis], inner[axis], temporal[axis] = t[0], t[1], t[2]
			rec(i + 1)
		}
	}
	rec(0)
	return out
}

// factorTriples returns every (ao, ai, at) with ao*ai*at == n, ordered
// lexicographically by (ao, ai).
func factorTriples(n int) [][3]int {
	var triples [][3]int
	for ao := 1; ao <= n; ao++ {
		if n%ao != 0 {
			continue
		}
		rem := n / ao
		for ai := 1; ai <= rem; ai++ {
			if rem%ai != 0 {
				continue
			}
			triples = append(triples, [3]int{ao, ai, rem / ai})
		}
	}
	return triples
}

func cloneMap(m map[accel.WorkloadAxis]int) map[accel.WorkloadAxis]int {
	out := make(map[accel.WorkloadAxis]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func product(factors map[accel.WorkloadAxis]int, axes []accel.WorkloadAxis) int {
	p := 1
	for _, a := range axes {
		p *= factors[a]
	}
	return p
}

// fitsHardwareBound checks an inner factorization against a hardware
// block's native possible_projections bound, applying the folding
// rules of spec §4.3/§4.8: an axis whose requested inner factor
// exceeds its native bound may fold the overflow into a neighbour axis
// only when that neighbour's own native bound is exactly 1 (it has no
// competing native use). URW folds into URN; URN, UB, and UE fold into
// UG. A nil bound means the hardware imposes no limit.
//
// Workload axes correspond to projection axes as RX->URW (weight x
// extent), RY->URN (weight y extent), E->UE (output channels), B->UB
// (batch); C (input channels) stands in for UG (groups), the one
// projection axis left once the other four are spoken for. PX and PY
// have no projection-axis counterpart.
func fitsHardwareBound(inner map[accel.WorkloadAxis]int, bound *accel.ProjectionBound) bool {
	if bound == nil {
		return true
	}
	get := func(wa accel.WorkloadAxis) int {
		if v, ok := inner[wa]; ok {
			return v
		}
		return 1
	}
	urw, urn, ue, ub := get(accel.AxisRX), get(accel.AxisRY), get(accel.AxisE), get(accel.AxisB)

	urwOverflows := urw > bound.URW
	if urwOverflows {
		if urn > bound.URN {
			return false // both overflow: order-dependent, reject per spec §9
		}
		if bound.URN != 1 {
			return false
		}
	}

	urnOverflows := urn > bound.URN
	ubOverflows := ub > bound.UB
	ueOverflows := ue > bound.UE
	if (urnOverflows || ubOverflows || ueOverflows) && bound.UG != 1 {
		return false
	}
	if get(accel.AxisC) > bound.UG {
		return false // UG has no axis to fold into
	}
	return true
}

// accessPatternCost is the weighted sum of mismatches between an inner
// factorization and hwb's access pattern preferences: weight AP_k
// (k corresponding to RX, RY, E, B, C in turn) contributes its full
// value whenever that axis's inner factor is non-trivial.
func accessPatternCost(inner map[accel.WorkloadAxis]int, ap accel.AccessPatterns) int {
	weights := []float64{float64(ap.AP1), float64(ap.AP2), float64(ap.AP3), float64(ap.AP4), float64(ap.AP5)}
	mismatch := make([]float64, len(apAxisOrder))
	for i, wa := range apAxisOrder {
		if v, ok := inner[wa]; ok && v > 1 {
			mismatch[i] = 1
		}
	}
	return int(floats.Dot(weights, mismatch))
}

// throughput is the enumerator's deterministic scalar figure: it grows
// with utilization (usedMACs/macBudget) and shrinks with temporal
// replay count and access-pattern cost, scaled for integer resolution.
// The exact formula is this implementation's own reconstruction — the
// original constraint_evaluation module was not available to ground it
// against, see DESIGN.md.
func throughput(m accel.Mapping, usedMACs, macBudget, cost int) int {
	cycles := product(m.Temporal, accel.WorkloadAxisOrder) * (1 + cost)
	if cycles == 0 {
		cycles = 1
	}
	return (usedMACs * usedMACs * 1000) / (cycles * macBudget)
}

package accel

// VarProduct multiplies the Value of p's factor record across each named
// axis. Fabrics read factors through Projection.Factor (directly for
// loop bounds, or via this and the other functions in this file) rather
// than indexing p.Factors directly.
func VarProduct(p Projection, axes []Axis) int {
	product := 1
	for _, a := range axes {
		product *= p.Factor(a).Value
	}
	return product
}

// StreamCount returns the number of distinct streams dtype needs at the
// outer fabric boundary: the preloaded bus count if dtype is named in
// p.Preload, otherwise the product of the axes that vary dtype's value
// (W: URW,URN,UE,UG; I: URN,UB,UG; O: UE,UB,UG).
func StreamCount(p Projection, dtype Datatype) int {
	if pl, ok := p.PreloadFor(dtype); ok {
		return pl.BusCount
	}
	switch dtype {
	case W:
		return VarProduct(p, []Axis{URW, URN, UE, UG})
	case I:
		return VarProduct(p, []Axis{URN, UB, UG})
	case O:
		return VarProduct(p, []Axis{UE, UB, UG})
	}
	return 0
}

// ChainLength returns the length of the MLB-to-MLB cascade chain used
// for dtype: URW for W and I, URW*URN for O.
func ChainLength(p Projection, dtype Datatype) int {
	switch dtype {
	case W, I:
		return VarProduct(p, []Axis{URW})
	case O:
		return VarProduct(p, []Axis{URW, URN})
	}
	return 0
}

// OverallIdx computes the canonical mixed-radix encoding of a point in
// the unrolled iteration space. The radix order is fixed (AxisOrder):
// URW innermost, UG outermost. An axis missing from idxs contributes 0.
// Every supplied index must be strictly less than its axis's factor
// value, or OverallIdx panics — a caller passing an out-of-range index
// is an elaborator bug, not a data error.
func OverallIdx(p Projection, idxs map[Axis]int) int {
	product := 1
	total := 0
	for _, axis := range AxisOrder {
		if idx, ok := idxs[axis]; ok {
			val := p.Factor(axis).Value
			if idx < 0 || idx >= val {
				panic("accel: index out of range for axis " + string(axis))
			}
			total += product * idx
			product *= val
		}
	}
	return total
}

// subAxisValue returns the radix size of one sub-axis of p (e.g. the
// {URN, SubY} radix is p.Factor(URN).Y).
func subAxisValue(p Projection, as AxisSub) int {
	fr := p.Factor(as.Axis)
	switch as.Sub {
	case SubX:
		return fr.X
	case SubY:
		return fr.Y
	case SubChans:
		return fr.Chans
	case SubBatches:
		return fr.Batches
	default:
		return fr.Value
	}
}

// OverallIdxNew is the sub-axis generalization of OverallIdx: order gives
// the caller-supplied radix order (innermost first), subIdxs gives the
// supplied index for each AxisSub present, and defaults supplies the
// index to use for any AxisSub in order that subIdxs omits.
func OverallIdxNew(p Projection, subIdxs map[AxisSub]int, order []AxisSub, defaults map[AxisSub]int) int {
	product := 1
	total := 0
	for _, as := range order {
		idx, ok := subIdxs[as]
		if !ok {
			idx, ok = defaults[as]
		}
		if !ok {
			idx = 0
		}
		val := subAxisValue(p, as)
		if idx < 0 || idx >= val {
			panic("accel: sub-axis index out of range for " + string(as.Axis) + "." + string(as.Sub))
		}
		total += product * idx
		product *= val
	}
	return total
}

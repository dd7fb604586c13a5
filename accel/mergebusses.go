package accel

// MergeBussesConfig packs NumIns narrow lanes into NumOuts wider buses.
type MergeBussesConfig struct {
	InWidth   int
	NumIns    int
	OutWidth  int
	NumOuts   int
	InsPerOut int // 0 means derive as OutWidth/InWidth
}

// MergeBusses packs NumIns lanes of width InWidth into NumOuts buses of
// width OutWidth. Only min(InsPerOut*NumOuts, NumIns) lanes are wired;
// unused high bits of every output bus, and every output bus beyond the
// needed count, are tied to zero (spec.md §4.6; truncation of any
// excess lanes follows the source per spec.md §9 Open Questions).
func MergeBusses(cfg MergeBussesConfig) (Graph, []Warning, error) {
	insPerOut := cfg.InsPerOut
	if insPerOut == 0 {
		insPerOut = cfg.OutWidth / cfg.InWidth
	}
	if insPerOut <= 0 {
		return Graph{}, nil, elabErr(ErrStreamWidthMismatch, "ins_per_out must be positive")
	}

	b := newBuilder("MergeBusses")
	for i := 0; i < cfg.NumIns; i++ {
		b.addTopPort(Port{Name: portName("input", i), Width: cfg.InWidth, Direction: DirIn, Type: PortO})
	}
	for i := 0; i < cfg.NumOuts; i++ {
		b.addTopPort(Port{Name: portName("output", i), Width: cfg.OutWidth, Direction: DirOut, Type: PortO})
	}

	wiredOuts := map[int]int{} // output bus idx -> highest bit wired
	maxWiredIn := insPerOut * cfg.NumOuts
	for in := 0; in < cfg.NumIns && in < maxWiredIn; in++ {
		busIdx := in / insPerOut
		start := (in % insPerOut) * cfg.InWidth
		end := start + cfg.InWidth
		b.connect(PortRef{Port: portName("input", in)}, PortRef{Port: portName("output", busIdx)}, start, end)
		if end > wiredOuts[busIdx] {
			wiredOuts[busIdx] = end
		}
	}

	for i := 0; i < cfg.NumOuts; i++ {
		outPort := portName("output", i)
		hi, wired := wiredOuts[i]
		if !wired {
			b.tieZero(PortRef{Port: outPort}, 0, cfg.OutWidth)
			continue
		}
		if hi < cfg.OutWidth {
			b.tieZero(PortRef{Port: outPort}, hi, cfg.OutWidth)
		}
	}

	return b.build(), nil, nil
}

// PackBusValues computes the actual packed output words MergeBusses
// would drive for a given set of input lane values — useful for testing
// the wiring scheme numerically (spec.md §8's elaboration scenario)
// without walking the Graph's edges.
func PackBusValues(cfg MergeBussesConfig, inputs []int) []int {
	insPerOut := cfg.InsPerOut
	if insPerOut == 0 {
		insPerOut = cfg.OutWidth / cfg.InWidth
	}
	outputs := make([]int, cfg.NumOuts)
	maxWiredIn := insPerOut * cfg.NumOuts
	if maxWiredIn > len(inputs) {
		maxWiredIn = len(inputs)
	}
	if maxWiredIn > cfg.NumIns {
		maxWiredIn = cfg.NumIns
	}
	mask := (1 << uint(cfg.InWidth)) - 1
	for in := 0; in < maxWiredIn; in++ {
		busIdx := in / insPerOut
		shift := (in % insPerOut) * cfg.InWidth
		outputs[busIdx] |= (inputs[in] & mask) << uint(shift)
	}
	return outputs
}

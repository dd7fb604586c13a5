package accel

import "math"

// WeightInterconnectConfig carries everything WeightInterconnect needs:
// the instantiated buffer/MLB counts and widths, and the projection that
// governs how weight streams are distributed across them.
type WeightInterconnectConfig struct {
	BufferWidth    int
	MLBWidth       int
	MLBWidthUsed   int
	NumBuffers     int
	NumMLBs        int
	NumWeightIns   int // number of weight-input sub-slices per MLB, for dilation
	Projection     Projection
}

// WeightInterconnect wires per-MLB weight ports to weight-buffer ports
// per spec.md §4.3. Streaming is the default contract; when the
// projection's PRELOAD names W, the preload chain contract is used
// instead.
func WeightInterconnect(cfg WeightInterconnectConfig) (Graph, []Warning, error) {
	if pl, ok := cfg.Projection.PreloadFor(W); ok {
		return weightInterconnectPreload(cfg, pl)
	}
	return weightInterconnectStreaming(cfg)
}

func weightInterconnectStreaming(cfg WeightInterconnectConfig) (Graph, []Warning, error) {
	p := cfg.Projection
	if cfg.MLBWidthUsed > cfg.MLBWidth {
		return Graph{}, nil, elabErr(ErrStreamWidthMismatch,
			"mlb_width_used %d exceeds mlb_width %d", cfg.MLBWidthUsed, cfg.MLBWidth)
	}
	streamsPerBuffer := cfg.BufferWidth / cfg.MLBWidthUsed
	if streamsPerBuffer <= 0 {
		return Graph{}, nil, elabErr(ErrBufferTooNarrow, "insufficiently wide weight buffer")
	}
	needMLBs := VarProduct(p, []Axis{UG, UE, UB, URN, URW})
	if cfg.NumMLBs < needMLBs {
		return Graph{}, nil, elabErr(ErrInsufficientMLBs,
			"have %d MLBs, need %d", cfg.NumMLBs, needMLBs)
	}
	needBuffers := int(math.Ceil(float64(VarProduct(p, []Axis{UG, UE, URN, URW})) / float64(streamsPerBuffer)))
	if cfg.NumBuffers < needBuffers {
		return Graph{}, nil, elabErr(ErrInsufficientBuffers,
			"have %d weight buffers, need %d", cfg.NumBuffers, needBuffers)
	}

	b := newBuilder("WeightInterconnect")
	for i := 0; i < cfg.NumBuffers; i++ {
		b.addTopPort(Port{Name: portName("inputs_from_buffer", i), Width: cfg.BufferWidth, Direction: DirIn, Type: PortDATA})
	}

	wired := map[int]bool{}
	dilx := cfg.Projection.Dilation.X
	for ug := 0; ug < p.Factor(UG).Value; ug++ {
		for ue := 0; ue < p.Factor(UE).Value; ue++ {
			for ub := 0; ub < p.Factor(UB).Value; ub++ {
				for urn := 0; urn < p.Factor(URN).Value; urn++ {
					for urw := 0; urw < p.Factor(URW).Value; urw++ {
						idxs := map[Axis]int{URW: urw, URN: urn, UB: ub, UE: ue, UG: ug}
						outIdx := OverallIdx(p, idxs)
						wired[outIdx] = true
						outPort := portName("outputs_to_mlb", outIdx)
						b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortW})
						b.addTopPort(Port{Name: portName("inputs_from_mlb", outIdx), Width: cfg.MLBWidth, Direction: DirIn, Type: PortW})

						streamIdx := OverallIdx(p, map[Axis]int{URW: urw, URN: urn, UE: ue, UG: ug})
						inputBusIdx := streamIdx / streamsPerBuffer
						sectionIdx := streamIdx % streamsPerBuffer
						lo := sectionIdx * cfg.MLBWidthUsed
						hi := lo + cfg.MLBWidthUsed

						if dilx > 1 && cfg.NumWeightIns > 0 {
							wireDilatedWeightSlice(b, outPort, inputBusIdx, lo, hi, cfg, p, urw)
						} else {
							b.connect(PortRef{Port: portName("inputs_from_buffer", inputBusIdx)},
								PortRef{Port: outPort}, lo, hi)
						}

						// UB=0 of each weight-sharing group mirrors the buffer slice
						// back out for readback.
						if ub == 0 {
							bufPort := portName("outputs_to_buffer", streamIdx)
							if b.addTopPort(Port{Name: bufPort, Width: cfg.MLBWidthUsed, Direction: DirOut, Type: PortW}) {
								b.connect(PortRef{Port: portName("inputs_from_buffer", inputBusIdx)},
									PortRef{Port: bufPort}, lo, hi)
							}
						}
					}
				}
			}
		}
	}

	for i := 0; i < cfg.NumMLBs; i++ {
		outPort := portName("outputs_to_mlb", i)
		if !wired[i] {
			b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortW})
			b.tieZero(PortRef{Port: outPort}, 0, cfg.MLBWidth)
		}
		b.addTopPort(Port{Name: portName("inputs_from_mlb", i), Width: cfg.MLBWidth, Direction: DirIn, Type: PortW})
	}

	return b.build(), nil, nil
}

// wireDilatedWeightSlice partitions the MLB's weight port into sub-
// slices of width mlb_width_used/(inner.URW.x*num_weight_ins) and
// connects a sub-slice iff (inner.URW.x*urw + weight_x) mod dilx == 0,
// tying the rest to zero (spec.md §4.3 dilation).
func wireDilatedWeightSlice(b *builder, outPort string, inputBusIdx, lo, hi int, cfg WeightInterconnectConfig, p Projection, urw int) {
	innerURWx := 1
	if p.Inner != nil {
		innerURWx = p.Inner.Factor(URW).X
	}
	if innerURWx < 1 {
		innerURWx = 1
	}
	denom := innerURWx * cfg.NumWeightIns
	if denom <= 0 {
		denom = 1
	}
	subWidth := cfg.MLBWidthUsed / denom
	if subWidth <= 0 {
		subWidth = cfg.MLBWidthUsed
	}
	dilx := cfg.Projection.Dilation.X
	bufPort := portName("inputs_from_buffer", inputBusIdx)
	for sub := 0; sub*subWidth < cfg.MLBWidthUsed; sub++ {
		subLo := lo + sub*subWidth
		subHi := subLo + subWidth
		if subHi > hi {
			subHi = hi
		}
		weightX := sub % innerURWx
		if (innerURWx*urw+weightX)%dilx == 0 {
			b.connect(PortRef{Port: bufPort}, PortRef{Port: outPort}, subLo, subHi)
		} else {
			b.tieZero(PortRef{Port: outPort}, subLo, subHi)
		}
	}
}

func weightInterconnectPreload(cfg WeightInterconnectConfig, pl PreloadEntry) (Graph, []Warning, error) {
	p := cfg.Projection
	needMLBs := VarProduct(p, []Axis{UG, UE, UB, URN, URW})
	if cfg.NumMLBs < needMLBs {
		return Graph{}, nil, elabErr(ErrInsufficientMLBs,
			"have %d MLBs, need %d", cfg.NumMLBs, needMLBs)
	}
	if cfg.MLBWidthUsed*pl.BusCount > cfg.NumBuffers*cfg.BufferWidth {
		return Graph{}, nil, elabErr(ErrPreloadBudgetExceeded,
			"mlb_width_used(%d)*preload_bus_count(%d) exceeds num_buffers(%d)*buffer_width(%d)",
			cfg.MLBWidthUsed, pl.BusCount, cfg.NumBuffers, cfg.BufferWidth)
	}

	b := newBuilder("WeightInterconnect")
	for i := 0; i < cfg.NumBuffers; i++ {
		b.addTopPort(Port{Name: portName("inputs_from_buffer", i), Width: cfg.BufferWidth, Direction: DirIn, Type: PortDATA})
	}

	mlb := 0
	for chain := 0; chain < cfg.NumBuffers && mlb < needMLBs; chain++ {
		// Each chain's own length is the ceiling of what's left over the
		// chains still to come, so the M mod B remainder spreads across
		// the first few chains instead of piling onto one.
		chainLen := int(math.Ceil(float64(needMLBs-mlb) / float64(cfg.NumBuffers-chain)))
		bufPort := portName("inputs_from_buffer", chain)
		head := mlb
		for n := 0; n < chainLen && mlb < needMLBs; n++ {
			idx := mlb
			outPort := portName("outputs_to_mlb", idx)
			b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortW})
			b.addTopPort(Port{Name: portName("inputs_from_mlb", idx), Width: cfg.MLBWidth, Direction: DirIn, Type: PortW})
			if idx == head {
				b.connect(PortRef{Port: bufPort}, PortRef{Port: outPort}, 0, cfg.MLBWidthUsed)
			} else {
				prevIn := portName("inputs_from_mlb", idx-1)
				b.connect(PortRef{Port: prevIn}, PortRef{Port: outPort}, 0, cfg.MLBWidthUsed)
			}
			mlb++
		}
		tail := mlb - 1
		tailOut := portName("outputs_to_buffer", chain)
		b.addTopPort(Port{Name: tailOut, Width: cfg.MLBWidthUsed, Direction: DirOut, Type: PortW})
		b.connect(PortRef{Port: portName("inputs_from_mlb", tail)}, PortRef{Port: tailOut}, 0, cfg.MLBWidthUsed)
	}
	for i := 0; i < cfg.NumMLBs; i++ {
		outPort := portName("outputs_to_mlb", i)
		if i >= needMLBs {
			b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortW})
			b.tieZero(PortRef{Port: outPort}, 0, cfg.MLBWidth)
			b.addTopPort(Port{Name: portName("inputs_from_mlb", i), Width: cfg.MLBWidth, Direction: DirIn, Type: PortW})
		}
	}
	return b.build(), nil, nil
}


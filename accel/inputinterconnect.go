package accel

import "math"

// InputInterconnectConfig carries the instantiated buffer/MLB counts and
// widths for the input fabric, plus muxing parameters for the URN.y/UB.y
// raster-step multiplexing described in spec.md §4.4.
type InputInterconnectConfig struct {
	BufferWidth  int
	MLBWidth     int
	MLBWidthUsed int
	NumBuffers   int
	NumMLBs      int
	Projection   Projection

	// IvaluesPerBuf is not read by InputInterconnect: the y-mux
	// candidates are taken in value order (see the mux branch below)
	// without calling BufferIdxToYIdx.
	IvaluesPerBuf int
}

// muxSize is UB.y * URN.y * inner.UB.y * inner.URN.y (spec.md §4.4): the
// number of distinct tile rows one input lane may be driven from.
func inputMuxSize(p Projection) int {
	innerUBy, innerURNy := 1, 1
	if p.Inner != nil {
		innerUBy = p.Inner.Factor(UB).Y
		innerURNy = p.Inner.Factor(URN).Y
	}
	return p.Factor(UB).Y * p.Factor(URN).Y * innerUBy * innerURNy
}

// InputInterconnect wires per-MLB input ports to input-buffer ports with
// the URW cascade shift-register chain and, when the projection unrolls
// URN.y or UB.y, a per-raster-step y-mux per spec.md §4.4.
func InputInterconnect(cfg InputInterconnectConfig) (Graph, []Warning, error) {
	p := cfg.Projection
	if cfg.MLBWidthUsed > cfg.MLBWidth {
		return Graph{}, nil, elabErr(ErrStreamWidthMismatch,
			"mlb_width_used %d exceeds mlb_width %d", cfg.MLBWidthUsed, cfg.MLBWidth)
	}
	effectiveBufferWidth := MaxInputBusWidth(cfg.BufferWidth, p, I)
	streamsPerBuffer := effectiveBufferWidth / cfg.MLBWidthUsed
	if streamsPerBuffer <= 0 {
		return Graph{}, nil, elabErr(ErrBufferTooNarrow, "insufficiently wide input buffer")
	}
	needMLBs := VarProduct(p, []Axis{UG, UE, UB, URN, URW})
	if cfg.NumMLBs < needMLBs {
		return Graph{}, nil, elabErr(ErrInsufficientMLBs,
			"have %d MLBs, need %d", cfg.NumMLBs, needMLBs)
	}
	needBuffers := int(math.Ceil(float64(VarProduct(p, []Axis{UG, UB, URN})) / float64(streamsPerBuffer)))
	if cfg.NumBuffers < needBuffers {
		return Graph{}, nil, elabErr(ErrInsufficientBuffers,
			"have %d input buffers, need %d", cfg.NumBuffers, needBuffers)
	}

	muxSize := inputMuxSize(p)
	if muxSize > 1 && needBuffers%muxSize != 0 && needBuffers > 1 {
		return Graph{}, nil, elabErr(ErrStreamWidthMismatch,
			"input mux size %d inconsistent with %d required buffers", muxSize, needBuffers)
	}

	b := newBuilder("InputInterconnect")
	for i := 0; i < cfg.NumBuffers; i++ {
		b.addTopPort(Port{Name: portName("inputs_from_buffer", i), Width: cfg.BufferWidth, Direction: DirIn, Type: PortDATA})
	}
	if muxSize > 1 {
		b.addTopPort(Port{Name: "urn_sel", Width: bitsFor(muxSize), Direction: DirIn, Type: PortC})
	}

	dily := p.Dilation.Y
	wired := map[int]bool{}
	for ug := 0; ug < p.Factor(UG).Value; ug++ {
		for ue := 0; ue < p.Factor(UE).Value; ue++ {
			for ub := 0; ub < p.Factor(UB).Value; ub++ {
				for urn := 0; urn < p.Factor(URN).Value; urn++ {
					for urw := 0; urw < p.Factor(URW).Value; urw++ {
						idxs := map[Axis]int{URW: urw, URN: urn, UB: ub, UE: ue, UG: ug}
						mlbIdx := OverallIdx(p, idxs)
						wired[mlbIdx] = true
						outPort := portName("outputs_to_mlb", mlbIdx)
						b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortI})
						b.addTopPort(Port{Name: portName("inputs_from_mlb", mlbIdx), Width: cfg.MLBWidth, Direction: DirIn, Type: PortI})

						if urw > 0 {
							// Cascade: share the previous MLB's input.
							prevIdx := OverallIdx(p, map[Axis]int{URW: urw - 1, URN: urn, UB: ub, UE: ue, UG: ug})
							prevIn := portName("inputs_from_mlb", prevIdx)
							connectOrZeroDilated(b, prevIn, outPort, 0, cfg.MLBWidthUsed, dily, urn, urw)
							continue
						}

						streamIdx := OverallIdx(p, map[Axis]int{URN: urn, UB: ub, UG: ug})
						if muxSize <= 1 {
							inputBusIdx := streamIdx / streamsPerBuffer
							sectionIdx := streamIdx % streamsPerBuffer
							lo := sectionIdx * cfg.MLBWidthUsed
							bufPort := portName("inputs_from_buffer", inputBusIdx)
							connectOrZeroDilated(b, bufPort, outPort, lo, cfg.MLBWidthUsed, dily, urn, urw)
						} else {
							// One mux output port per input stream
							// (URN, UB, UG index) with muxSize candidate
							// ports; candidate sel of stream s is the
							// value at index s*muxSize+sel across the
							// buffers. The top-level urn_sel port is
							// exposed, but the graph records no select
							// logic between the candidates and the mux
							// output.
							muxPort := portName("input_mux", streamIdx)
							b.addTopPort(Port{Name: muxPort, Width: cfg.MLBWidthUsed, Direction: DirOut, Type: PortI})
							for sel := 0; sel < muxSize; sel++ {
								candIdx := streamIdx*muxSize + sel
								inputBusIdx := candIdx / streamsPerBuffer
								sectionIdx := candIdx % streamsPerBuffer
								lo := sectionIdx * cfg.MLBWidthUsed
								hi := lo + cfg.MLBWidthUsed
								candPort := portName(muxPort+"_cand", sel)
								b.addTopPort(Port{Name: candPort, Width: cfg.MLBWidthUsed, Direction: DirIn, Type: PortI})
								b.connect(PortRef{Port: portName("inputs_from_buffer", inputBusIdx)},
									PortRef{Port: candPort}, lo, hi)
							}
							connectOrZeroDilated(b, muxPort, outPort, 0, cfg.MLBWidthUsed, dily, urn, urw)
						}
					}
				}
			}
		}
	}

	for i := 0; i < cfg.NumMLBs; i++ {
		outPort := portName("outputs_to_mlb", i)
		if !wired[i] {
			b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortI})
			b.tieZero(PortRef{Port: outPort}, 0, cfg.MLBWidth)
		}
		b.addTopPort(Port{Name: portName("inputs_from_mlb", i), Width: cfg.MLBWidth, Direction: DirIn, Type: PortI})
	}

	return b.build(), nil, nil
}

// connectOrZeroDilated wires the width-bit slice of src starting at srcLo
// to dst, except when y-dilation requires the r-th tapped value to be zeroed:
// connected iff (urn*reqdURW + urw) mod dily == 0. reqdURW is taken to be
// 1 here: each URN step advances the tap by one dilated URW unit, so the
// per-step contribution to the dilation phase is a single unit rather
// than a multiple of it (see DESIGN.md's open-question entry on this).
func connectOrZeroDilated(b *builder, src, dst string, srcLo, width, dily, urn, urw int) {
	const reqdURW = 1
	if dily <= 1 || (urn*reqdURW+urw)%dily == 0 {
		b.connect(PortRef{Port: src}, PortRef{Port: dst}, srcLo, srcLo+width)
		return
	}
	b.tieZero(PortRef{Port: dst}, 0, width)
}

// bitsFor returns the number of bits needed to select among n choices.
func bitsFor(n int) int {
	if n <= 1 {
		return 1
	}
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	return bits
}

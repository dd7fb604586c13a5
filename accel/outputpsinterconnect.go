package accel

// OutputPSInterconnectConfig carries the instantiated MLB/activation
// counts and widths for the partial-sum fabric.
type OutputPSInterconnectConfig struct {
	AFWidth      int
	MLBWidth     int
	MLBWidthUsed int
	NumAFs       int
	NumMLBs      int
	Projection   Projection
	PSLoad       bool // whether the chain head loads from a PS-input buffer
}

// OutputPSInterconnect forwards the partial sum along chains of
// URW*URN MLBs (fixed UB/UE/UG), optionally loading the chain head from
// a PS buffer, and slices the chain tail into activation-function
// inputs, per spec.md §4.5.
func OutputPSInterconnect(cfg OutputPSInterconnectConfig) (Graph, []Warning, error) {
	p := cfg.Projection
	if cfg.MLBWidthUsed > cfg.MLBWidth {
		return Graph{}, nil, elabErr(ErrStreamWidthMismatch,
			"mlb_width_used %d exceeds mlb_width %d", cfg.MLBWidthUsed, cfg.MLBWidth)
	}
	if cfg.AFWidth <= 0 || cfg.MLBWidthUsed%cfg.AFWidth != 0 {
		return Graph{}, nil, elabErr(ErrStreamWidthMismatch,
			"activation input width %d must divide mlb_width_used %d", cfg.AFWidth, cfg.MLBWidthUsed)
	}
	actsPerStream := cfg.MLBWidthUsed / cfg.AFWidth
	if actsPerStream <= 0 {
		return Graph{}, nil, elabErr(ErrStreamWidthMismatch, "activation function width too wide")
	}
	needMLBs := VarProduct(p, []Axis{UG, UE, UB, URN, URW})
	if cfg.NumMLBs < needMLBs {
		return Graph{}, nil, elabErr(ErrInsufficientMLBs,
			"have %d MLBs, need %d", cfg.NumMLBs, needMLBs)
	}
	needAFs := VarProduct(p, []Axis{UG, UB, UE}) * actsPerStream
	if cfg.NumAFs < needAFs {
		return Graph{}, nil, elabErr(ErrInsufficientMLBs,
			"have %d activation functions, need %d", cfg.NumAFs, needAFs)
	}

	b := newBuilder("OutputPSInterconnect")
	for i := 0; i < cfg.NumAFs; i++ {
		b.addTopPort(Port{Name: portName("outputs_to_afs", i), Width: cfg.AFWidth, Direction: DirOut, Type: PortO})
	}
	if cfg.PSLoad {
		needLoadBufs := VarProduct(p, []Axis{UG, UB, UE})
		for i := 0; i < needLoadBufs; i++ {
			b.addTopPort(Port{Name: portName("ps_load", i), Width: cfg.MLBWidthUsed, Direction: DirIn, Type: PortO})
		}
	}

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
						inPort := portName("inputs_from_mlb", mlbIdx)
						b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortO})
						b.addTopPort(Port{Name: inPort, Width: cfg.MLBWidth, Direction: DirIn, Type: PortO})

						last := urw == p.Factor(URW).Value-1 && urn == p.Factor(URN).Value-1
						if last {
							streamIdx := OverallIdx(p, map[Axis]int{UB: ub, UE: ue, UG: ug})
							outputBusIdx := streamIdx * actsPerStream
							for part := 0; part < actsPerStream; part++ {
								afPort := portName("outputs_to_afs", outputBusIdx+part)
								lo := part * cfg.AFWidth
								hi := lo + cfg.AFWidth
								b.connect(PortRef{Port: inPort}, PortRef{Port: afPort}, lo, hi)
							}
						}

						if urw > 0 || urn > 0 {
							var prevIdx int
							if urw > 0 {
								prevIdx = OverallIdx(p, map[Axis]int{URW: urw - 1, URN: urn, UB: ub, UE: ue, UG: ug})
							} else {
								prevIdx = OverallIdx(p, map[Axis]int{URW: p.Factor(URW).Value - 1, URN: urn - 1, UB: ub, UE: ue, UG: ug})
							}
							prevIn := portName("inputs_from_mlb", prevIdx)
							b.connect(PortRef{Port: prevIn}, PortRef{Port: outPort}, 0, cfg.MLBWidthUsed)
						} else if cfg.PSLoad {
							streamIdx := OverallIdx(p, map[Axis]int{UB: ub, UE: ue, UG: ug})
							b.connect(PortRef{Port: portName("ps_load", streamIdx)}, PortRef{Port: outPort}, 0, cfg.MLBWidthUsed)
						} else {
							b.tieZero(PortRef{Port: outPort}, 0, cfg.MLBWidthUsed)
						}
					}
				}
			}
		}
	}

	for i := 0; i < cfg.NumMLBs; i++ {
		outPort := portName("outputs_to_mlb", i)
		if !wired[i] {
			b.addTopPort(Port{Name: outPort, Width: cfg.MLBWidth, Direction: DirOut, Type: PortO})
			b.tieZero(PortRef{Port: outPort}, 0, cfg.MLBWidth)
		}
		b.addTopPort(Port{Name: portName("inputs_from_mlb", i), Width: cfg.MLBWidth, Direction: DirIn, Type: PortO})
	}

	return b.build(), nil, nil
}

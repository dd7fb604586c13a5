package accel

import (
	"github.com/sirupsen/logrus"
)

// DatapathConfig is everything BuildDatapath needs: the MLB spec, the
// three buffer specs (weight/input/output), and the list of projections
// to multiplex between.
type DatapathConfig struct {
	MLBSpec     HWBSpec
	WeightSpec  HWBSpec
	InputSpec   HWBSpec
	OutputSpec  HWBSpec
	Projections []Projection
}

type projStats struct {
	proj            Projection
	macCount        int
	innerBusCounts  map[Datatype]int
	innerDataWidths map[Datatype]int
	innerBusWidths  map[Datatype]int
	mlbCount        int
	outerBusCounts  map[Datatype]int
	totalBusCounts  map[Datatype]int
	bufferCounts    map[Datatype]int
}

var macDatatypes = []Datatype{W, I, O}

func computeProjStats(cfg DatapathConfig, proj Projection) (projStats, error) {
	inner := proj.Inner
	if inner == nil {
		inner = &proj
	}
	outer := proj.Outer
	if outer == nil {
		outer = &proj
	}

	ps := projStats{
		proj:            proj,
		innerBusCounts:  map[Datatype]int{},
		innerDataWidths: map[Datatype]int{},
		innerBusWidths:  map[Datatype]int{},
		outerBusCounts:  map[Datatype]int{},
		totalBusCounts:  map[Datatype]int{},
		bufferCounts:    map[Datatype]int{},
	}
	ps.macCount = VarProduct(*inner, []Axis{UG, UE, UB, URN, URW})
	for _, dt := range macDatatypes {
		ps.innerBusCounts[dt] = StreamCount(*inner, dt)
		ps.innerDataWidths[dt] = proj.StreamInfo[dt]
		ps.innerBusWidths[dt] = ps.innerBusCounts[dt] * ps.innerDataWidths[dt]
	}
	if ps.macCount > cfg.MLBSpec.MACInfo.NumUnits {
		return ps, elabErr(ErrProjectionExceedsHW,
			"inner projection needs %d MACs, hardware has %d", ps.macCount, cfg.MLBSpec.MACInfo.NumUnits)
	}
	for _, dt := range macDatatypes {
		portType := PortType(dt)
		if ps.innerBusWidths[dt] > cfg.MLBSpec.SumWidth(portType) {
			return ps, elabErr(ErrProjectionExceedsHW,
				"inner bus width for %s (%d) exceeds MLB port width (%d)", dt, ps.innerBusWidths[dt], cfg.MLBSpec.SumWidth(portType))
		}
		if ps.innerDataWidths[dt] > cfg.MLBSpec.MACInfo.DataWidths[dt] {
			return ps, elabErr(ErrProjectionExceedsHW,
				"inner data width for %s (%d) exceeds MAC data width (%d)", dt, ps.innerDataWidths[dt], cfg.MLBSpec.MACInfo.DataWidths[dt])
		}
	}

	ps.mlbCount = VarProduct(*outer, []Axis{UG, UE, UB, URN, URW})
	for _, dt := range macDatatypes {
		ps.outerBusCounts[dt] = StreamCount(*outer, dt)
		ps.totalBusCounts[dt] = ps.outerBusCounts[dt] * ps.innerBusCounts[dt]
	}

	bufSpecs := map[Datatype]HWBSpec{W: cfg.WeightSpec, I: cfg.InputSpec, O: cfg.OutputSpec}
	for _, dt := range []Datatype{W, I} {
		n, err := NumBuffersReqd(bufSpecs[dt], ps.outerBusCounts[dt], ps.innerBusWidths[dt], 0)
		if err != nil {
			return ps, err
		}
		ps.bufferCounts[dt] = n
	}
	n, err := NumBuffersReqd(bufSpecs[O], ps.outerBusCounts[O]*ps.innerBusCounts[O], ps.innerDataWidths[I], 0)
	if err != nil {
		return ps, err
	}
	ps.bufferCounts[O] = n
	return ps, nil
}

// BuildDatapath elaborates the complete datapath for one or more
// projections against one MLB and three buffer specs: shared pools sized
// to the per-projection maximum of each resource, one interconnect of
// each kind per projection (with its internal edges), and, for more than
// one projection, top-level sel and addr_sel ports. No edges join the
// interconnects to the pools, and sel and addr_sel drive nothing in the
// returned graph; no multiplexers between projections are recorded.
func BuildDatapath(cfg DatapathConfig) (Graph, []Warning, error) {
	if len(cfg.Projections) == 0 {
		return Graph{}, nil, elabErr(ErrPortTypeMissing, "at least one projection is required")
	}
	logrus.Infof("constructing datapath with MLB block %s (%d projection(s))", cfg.MLBSpec.BlockName, len(cfg.Projections))

	stats := make([]projStats, len(cfg.Projections))
	for i, proj := range cfg.Projections {
		ps, err := computeProjStats(cfg, proj)
		if err != nil {
			return Graph{}, nil, err
		}
		stats[i] = ps
	}

	maxMLBs := 0
	maxBufs := map[Datatype]int{}
	maxActs := 0
	for _, ps := range stats {
		if ps.mlbCount > maxMLBs {
			maxMLBs = ps.mlbCount
		}
		for _, dt := range macDatatypes {
			if ps.bufferCounts[dt] > maxBufs[dt] {
				maxBufs[dt] = ps.bufferCounts[dt]
			}
		}
		if ps.totalBusCounts[O] > maxActs {
			maxActs = ps.totalBusCounts[O]
		}
	}

	actFunc := cfg.Projections[0].ActivationFunction
	if actFunc != "" && !KnownActivationFunctions[actFunc] {
		return Graph{}, nil, elabErr(ErrUnknownActivationFunc, "%q", actFunc)
	}
	maxInW, maxOutW := 0, 0
	for _, ps := range stats {
		if ps.innerDataWidths[O] > maxInW {
			maxInW = ps.innerDataWidths[O]
		}
		if ps.innerDataWidths[I] > maxOutW {
			maxOutW = ps.innerDataWidths[I]
		}
	}

	b := newBuilder("Datapath")
	b.addInstance(BuildHWBWrapper(cfg.MLBSpec, maxMLBs, "mlb_modules"))
	b.addInstance(BuildHWBWrapper(cfg.WeightSpec, maxBufs[W], "weight_modules"))
	b.addInstance(BuildHWBWrapper(cfg.InputSpec, maxBufs[I], "input_act_modules"))
	b.addInstance(BuildHWBWrapper(cfg.OutputSpec, maxBufs[O], "output_act_modules"))
	b.addInstance(BuildActivationWrapper(maxActs, actFunc, maxInW, maxOutW))

	selWidth := bitsFor(len(cfg.Projections))
	if len(cfg.Projections) > 1 {
		b.addTopPort(Port{Name: "sel", Width: selWidth, Direction: DirIn, Type: PortC})
		b.addTopPort(Port{Name: "addr_sel", Width: len(cfg.Projections), Direction: DirIn, Type: PortC})
	}

	for i, ps := range stats {
		wIC, _, err := WeightInterconnect(WeightInterconnectConfig{
			BufferWidth:  cfg.WeightSpec.SumWidth(PortDATAOUT, DirOut),
			MLBWidth:     cfg.MLBSpec.SumWidth(PortW, DirIn),
			MLBWidthUsed: ps.innerBusWidths[W],
			NumBuffers:   maxBufs[W],
			NumMLBs:      maxMLBs,
			Projection:   outerOf(ps.proj),
		})
		if err != nil {
			return Graph{}, nil, err
		}
		iIC, _, err := InputInterconnect(InputInterconnectConfig{
			BufferWidth:  cfg.InputSpec.SumWidth(PortDATAOUT, DirOut),
			MLBWidth:     cfg.MLBSpec.SumWidth(PortI, DirIn),
			MLBWidthUsed: ps.innerBusWidths[I],
			NumBuffers:   maxBufs[I],
			NumMLBs:      maxMLBs,
			Projection:   outerOf(ps.proj),
		})
		if err != nil {
			return Graph{}, nil, err
		}
		oIC, _, err := OutputPSInterconnect(OutputPSInterconnectConfig{
			AFWidth:      ps.innerDataWidths[O],
			MLBWidth:     cfg.MLBSpec.SumWidth(PortO, DirIn),
			MLBWidthUsed: ps.innerBusWidths[O],
			NumAFs:       maxActs,
			NumMLBs:      maxMLBs,
			Projection:   outerOf(ps.proj),
		})
		if err != nil {
			return Graph{}, nil, err
		}
		mb, _, err := MergeBusses(MergeBussesConfig{
			InWidth: ps.innerDataWidths[I], NumIns: ps.totalBusCounts[O],
			OutWidth: cfg.OutputSpec.SumWidth(PortDATAIN, DirIn), NumOuts: maxBufs[O],
		})
		if err != nil {
			return Graph{}, nil, err
		}

		suffix := portName("proj", i)
		b.addInstance(Instance{Name: "weight_interconnect_" + suffix, Kind: BlockInterconnect, Ports: wIC.TopPorts})
		b.addInstance(Instance{Name: "input_interconnect_" + suffix, Kind: BlockInterconnect, Ports: iIC.TopPorts})
		b.addInstance(Instance{Name: "output_ps_interconnect_" + suffix, Kind: BlockInterconnect, Ports: oIC.TopPorts})
		b.addInstance(Instance{Name: "output_interconnect_" + suffix, Kind: BlockInterconnect, Ports: mb.TopPorts})

		for _, e := range wIC.Edges {
			b.connect(scoped("weight_interconnect_"+suffix, e.From), scoped("weight_interconnect_"+suffix, e.To), e.Lo, e.Hi)
		}
		for _, e := range iIC.Edges {
			b.connect(scoped("input_interconnect_"+suffix, e.From), scoped("input_interconnect_"+suffix, e.To), e.Lo, e.Hi)
		}
		for _, e := range oIC.Edges {
			b.connect(scoped("output_ps_interconnect_"+suffix, e.From), scoped("output_ps_interconnect_"+suffix, e.To), e.Lo, e.Hi)
		}
		for _, e := range mb.Edges {
			b.connect(scoped("output_interconnect_"+suffix, e.From), scoped("output_interconnect_"+suffix, e.To), e.Lo, e.Hi)
		}
	}

	logrus.Infof("datapath elaborated: %d MLBs, buffers W=%d I=%d O=%d, %d activation functions",
		maxMLBs, maxBufs[W], maxBufs[I], maxBufs[O], maxActs)

	return b.build(), nil, nil
}

func outerOf(p Projection) Projection {
	if p.Outer != nil {
		return *p.Outer
	}
	return p
}

// scoped rewrites an interconnect-local PortRef (Instance=="") into one
// scoped under the interconnect's instance name within the enclosing
// Datapath graph; references to the zero-value "ZERO" tie-off sentinel
// pass through unchanged.
func scoped(instance string, ref PortRef) PortRef {
	if ref.Port == "ZERO" {
		return ref
	}
	return PortRef{Instance: instance, Port: ref.Port}
}

package accel

// Axis names one of the five loop-unrolling dimensions a projection
// distributes across the MLB array.
type Axis string

const (
	URW Axis = "URW"
	URN Axis = "URN"
	UE  Axis = "UE"
	UB  Axis = "UB"
	UG  Axis = "UG"
)

// AxisOrder is the fixed mixed-radix encoding order used by OverallIdx:
// URW innermost, UG outermost.
var AxisOrder = []Axis{URW, URN, UB, UE, UG}

// Datatype is one of the three operand streams an MLB carries.
type Datatype string

const (
	W Datatype = "W"
	I Datatype = "I"
	O Datatype = "O"
)

// FactorRecord is the unrolling factor assigned to one axis. Sub-axis
// fields decompose Value for addressing purposes and default to 1 when
// the axis does not carry that sub-axis (see Projection.Factor).
type FactorRecord struct {
	Value   int
	X       int // URW only
	Y       int // URW, URN, UB
	Chans   int // URN only
	Batches int // UB only
}

// SubAxis names a decomposition of a FactorRecord's Value.
type SubAxis string

const (
	SubNone    SubAxis = ""
	SubX       SubAxis = "x"
	SubY       SubAxis = "y"
	SubChans   SubAxis = "chans"
	SubBatches SubAxis = "batches"
)

// AxisSub pairs an Axis with one of its sub-axes for use in the
// compound-projection radix order (overall_idx_new's input_order).
type AxisSub struct {
	Axis Axis
	Sub  SubAxis
}

// InputOrder is the radix order for the input fabric's y/channel/batch
// muxing, in the form OverallIdxNew takes as its order argument: URW.x,
// URN.chans, UB.batches, URN.y, UB.y, UG, UE. No fabric in this package
// passes it to OverallIdxNew.
var InputOrder = []AxisSub{
	{URW, SubX},
	{URN, SubChans},
	{UB, SubBatches},
	{URN, SubY},
	{UB, SubY},
	{UG, SubNone},
	{UE, SubNone},
}

// PreloadEntry describes one datatype that is preloaded rather than
// streamed, and how many external buses carry it.
type PreloadEntry struct {
	Dtype     Datatype
	BusCount  int
}

// Dilation holds the x/y dilation factors applied to the weight and
// input fabrics.
type Dilation struct {
	X int
	Y int
}

// Projection assigns an unrolling factor to each of the five loop
// dimensions plus ancillary stream/activation/preload/dilation info.
// Compound (multi-level) projections nest an Inner and Outer projection
// of the same shape.
type Projection struct {
	Factors            map[Axis]FactorRecord
	StreamInfo         map[Datatype]int
	ActivationFunction string
	Preload            []PreloadEntry
	Dilation           Dilation

	Inner *Projection
	Outer *Projection
}

// Factor returns the factor record for axis a, defaulting missing
// sub-axis fields to 1.
func (p Projection) Factor(a Axis) FactorRecord {
	fr, ok := p.Factors[a]
	if !ok {
		return FactorRecord{Value: 1, X: 1, Y: 1, Chans: 1, Batches: 1}
	}
	if fr.X == 0 {
		fr.X = 1
	}
	if fr.Y == 0 {
		fr.Y = 1
	}
	if fr.Chans == 0 {
		fr.Chans = 1
	}
	if fr.Batches == 0 {
		fr.Batches = 1
	}
	return fr
}

// PreloadFor returns the preload entry for dtype, if any.
func (p Projection) PreloadFor(dtype Datatype) (PreloadEntry, bool) {
	for _, pl := range p.Preload {
		if pl.Dtype == dtype {
			return pl, true
		}
	}
	return PreloadEntry{}, false
}

// Direction is a port's signal direction relative to its owning instance.
type Direction string

const (
	DirIn  Direction = "in"
	DirOut Direction = "out"
)

// PortType partitions hardware ports into the closed set the elaborator
// understands.
type PortType string

const (
	PortCLK     PortType = "CLK"
	PortRESET   PortType = "RESET"
	PortC       PortType = "C"
	PortADDRESS PortType = "ADDRESS"
	PortWEN     PortType = "WEN"
	PortDATA    PortType = "DATA"
	PortW       PortType = "W"
	PortI       PortType = "I"
	PortO       PortType = "O"
	PortWEN2    PortType = "W_EN"
	PortIEN     PortType = "I_EN"
	PortACCEN   PortType = "ACC_EN"
	PortMODE    PortType = "MODE"
	PortAvalon  PortType = "AVALON"
	// DATAOUT/DATAIN are buffer-specific semantic widths, modeled as
	// their own port types since buffers expose both a streaming DATA
	// direction and this finer DATAOUT/DATAIN split.
	PortDATAOUT PortType = "DATAOUT"
	PortDATAIN  PortType = "DATAIN"
)

// Port is one named, typed, directional, fixed-width port on a hardware
// block or module instance.
type Port struct {
	Name      string
	Width     int
	Direction Direction
	Type      PortType
}

// MACInfo describes the MAC array inside one MLB.
type MACInfo struct {
	NumUnits   int
	DataWidths map[Datatype]int
}

// AccessPatterns is the five-weight summary of how an MLB prefers to
// sweep operands, consulted only by the mapping enumerator.
type AccessPatterns struct {
	AP1, AP2, AP3, AP4, AP5 int
}

// ProjectionBound is the per-axis upper bound a piece of hardware
// natively supports; a requested factor exceeding it must be absorbed by
// the folding rules in the mapper.
type ProjectionBound struct {
	URW, URN, UB, UE, UG int
}

// HWBSpec is a hardware-block specification: an MLB, a buffer, an EMIF,
// or similar, as loaded from a hwb YAML file.
type HWBSpec struct {
	BlockName         string
	SimulationModel   string
	MACInfo           MACInfo
	AccessPatterns    AccessPatterns
	Ports             []Port
	PossibleProj      *ProjectionBound
	OutputAccumulator bool
}

// PortsOfType returns the ports on spec matching type t and one of dirs
// (both directions if dirs is empty), in declaration order.
func (h HWBSpec) PortsOfType(t PortType, dirs ...Direction) []Port {
	var out []Port
	for _, p := range h.Ports {
		if p.Type != t {
			continue
		}
		if len(dirs) == 0 {
			out = append(out, p)
			continue
		}
		for _, d := range dirs {
			if p.Direction == d {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// SumWidth returns the total width of ports on spec matching type t and
// one of dirs (both by default).
func (h HWBSpec) SumWidth(t PortType, dirs ...Direction) int {
	sum := 0
	for _, p := range h.PortsOfType(t, dirs...) {
		sum += p.Width
	}
	return sum
}

// WorkloadAxis names one of the seven convolutional loop-nest axes a
// Mapping factorizes.
type WorkloadAxis string

const (
	AxisB  WorkloadAxis = "B"
	AxisC  WorkloadAxis = "C"
	AxisE  WorkloadAxis = "E"
	AxisPX WorkloadAxis = "PX"
	AxisPY WorkloadAxis = "PY"
	AxisRX WorkloadAxis = "RX"
	AxisRY WorkloadAxis = "RY"
)

// WorkloadAxisOrder is the fixed iteration order find_mappings uses when
// generating factorizations.
var WorkloadAxisOrder = []WorkloadAxis{AxisB, AxisC, AxisE, AxisPX, AxisPY, AxisRX, AxisRY}

// Workload is the seven-dimensional shape of one convolution to be
// mapped onto the hardware.
type Workload struct {
	B, C, E, PX, PY, RX, RY int
}

// Get returns the extent of workload axis a.
func (w Workload) Get(a WorkloadAxis) int {
	switch a {
	case AxisB:
		return w.B
	case AxisC:
		return w.C
	case AxisE:
		return w.E
	case AxisPX:
		return w.PX
	case AxisPY:
		return w.PY
	case AxisRX:
		return w.RX
	case AxisRY:
		return w.RY
	}
	return 0
}

// Mapping is one admissible outer/inner/temporal factorization of a
// Workload: for every axis A, Outer[A]*Inner[A]*Temporal[A] == workload[A].
type Mapping struct {
	Outer    map[WorkloadAxis]int
	Inner    map[WorkloadAxis]int
	Temporal map[WorkloadAxis]int
}

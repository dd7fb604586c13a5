package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tiledml/accelgen/accel"
)

// portFile is one port entry in an hwb YAML file.
type portFile struct {
	Name      string `yaml:"name"`
	Width     int    `yaml:"width"`
	Direction string `yaml:"direction"`
	Type      string `yaml:"type"`
}

type possibleProjectionsFile struct {
	URW int `yaml:"urw"`
	URN int `yaml:"urn"`
	UB  int `yaml:"ub"`
	UE  int `yaml:"ue"`
	UG  int `yaml:"ug"`
}

type macInfoFile struct {
	NumUnits   int            `yaml:"num_units"`
	DataWidths map[string]int `yaml:"data_widths"`
}

type accessPatternsFile struct {
	AP1 int `yaml:"ap1"`
	AP2 int `yaml:"ap2"`
	AP3 int `yaml:"ap3"`
	AP4 int `yaml:"ap4"`
	AP5 int `yaml:"ap5"`
}

// hwbFile is the on-disk schema of a hardware-block spec file, validated
// with strict field checking so a misspelled key fails loudly instead of
// silently defaulting.
type hwbFile struct {
	BlockName          string                   `yaml:"block_name"`
	SimulationModel    string                   `yaml:"simulation_model"`
	MACInfo            macInfoFile              `yaml:"mac_info"`
	AccessPatterns     accessPatternsFile        `yaml:"access_patterns"`
	Ports              []portFile               `yaml:"ports"`
	PossibleProjection *possibleProjectionsFile `yaml:"possible_projections"`
	OutputAccumulator  bool                     `yaml:"output_accumulator"`
}

func (h hwbFile) toSpec() (accel.HWBSpec, error) {
	dataWidths := map[accel.Datatype]int{}
	for dt, w := range h.MACInfo.DataWidths {
		dataWidths[accel.Datatype(dt)] = w
	}
	ports := make([]accel.Port, len(h.Ports))
	for i, p := range h.Ports {
		dir := accel.Direction(p.Direction)
		if dir != accel.DirIn && dir != accel.DirOut {
			return accel.HWBSpec{}, fmt.Errorf("port %q: direction must be \"in\" or \"out\", got %q", p.Name, p.Direction)
		}
		ports[i] = accel.Port{Name: p.Name, Width: p.Width, Direction: dir, Type: accel.PortType(p.Type)}
	}
	spec := accel.HWBSpec{
		BlockName:       h.BlockName,
		SimulationModel: h.SimulationModel,
		MACInfo:         accel.MACInfo{NumUnits: h.MACInfo.NumUnits, DataWidths: dataWidths},
		AccessPatterns: accel.AccessPatterns{
			AP1: h.AccessPatterns.AP1, AP2: h.AccessPatterns.AP2, AP3: h.AccessPatterns.AP3,
			AP4: h.AccessPatterns.AP4, AP5: h.AccessPatterns.AP5,
		},
		Ports:             ports,
		OutputAccumulator: h.OutputAccumulator,
	}
	if h.PossibleProjection != nil {
		spec.PossibleProj = &accel.ProjectionBound{
			URW: h.PossibleProjection.URW, URN: h.PossibleProjection.URN,
			UB: h.PossibleProjection.UB, UE: h.PossibleProjection.UE, UG: h.PossibleProjection.UG,
		}
	}
	return spec, nil
}

type factorFile struct {
	Value   int `yaml:"value"`
	X       int `yaml:"x"`
	Y       int `yaml:"y"`
	Chans   int `yaml:"chans"`
	Batches int `yaml:"batches"`
}

type preloadEntryFile struct {
	Dtype    string `yaml:"dtype"`
	BusCount int    `yaml:"bus_count"`
}

type dilationFile struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// projectionFile is the on-disk schema of a projection file. Inner, when
// present, nests a second projectionFile describing the within-one-MLB
// component of a compound projection.
type projectionFile struct {
	Factors            map[string]factorFile `yaml:"factors"`
	StreamInfo         map[string]int        `yaml:"stream_info"`
	ActivationFunction string                `yaml:"activation_function"`
	Preload            []preloadEntryFile    `yaml:"preload"`
	Dilation           dilationFile          `yaml:"dilation"`
	Inner              *projectionFile       `yaml:"inner"`
}

func (p projectionFile) toProjection() accel.Projection {
	factors := map[accel.Axis]accel.FactorRecord{}
	for axis, f := range p.Factors {
		factors[accel.Axis(axis)] = accel.FactorRecord{Value: f.Value, X: f.X, Y: f.Y, Chans: f.Chans, Batches: f.Batches}
	}
	streamInfo := map[accel.Datatype]int{}
	for dt, w := range p.StreamInfo {
		streamInfo[accel.Datatype(dt)] = w
	}
	var preload []accel.PreloadEntry
	for _, pl := range p.Preload {
		preload = append(preload, accel.PreloadEntry{Dtype: accel.Datatype(pl.Dtype), BusCount: pl.BusCount})
	}
	proj := accel.Projection{
		Factors:            factors,
		StreamInfo:         streamInfo,
		ActivationFunction: p.ActivationFunction,
		Preload:            preload,
		Dilation:           accel.Dilation{X: p.Dilation.X, Y: p.Dilation.Y},
	}
	if proj.Dilation.X == 0 {
		proj.Dilation.X = 1
	}
	if proj.Dilation.Y == 0 {
		proj.Dilation.Y = 1
	}
	if p.Inner != nil {
		inner := p.Inner.toProjection()
		proj.Inner = &inner
		// Outer is left nil: every consumer (computeProjStats, outerOf)
		// already treats a nil Outer as "this projection is its own
		// outer component", so a self-pointer would be redundant and,
		// worse, would go stale across the value copy this function
		// returns.
	}
	return proj
}

// workloadFile is the on-disk schema of a workload file.
type workloadFile struct {
	B  int `yaml:"b"`
	C  int `yaml:"c"`
	E  int `yaml:"e"`
	PX int `yaml:"px"`
	PY int `yaml:"py"`
	RX int `yaml:"rx"`
	RY int `yaml:"ry"`
}

func (w workloadFile) toWorkload() accel.Workload {
	return accel.Workload{B: w.B, C: w.C, E: w.E, PX: w.PX, PY: w.PY, RX: w.RX, RY: w.RY}
}

func decodeStrict(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func loadHWBFile(path string) (accel.HWBSpec, error) {
	var f hwbFile
	if err := decodeStrict(path, &f); err != nil {
		return accel.HWBSpec{}, err
	}
	return f.toSpec()
}

func loadProjectionFiles(paths []string) ([]accel.Projection, error) {
	projections := make([]accel.Projection, len(paths))
	for i, path := range paths {
		var f projectionFile
		if err := decodeStrict(path, &f); err != nil {
			return nil, err
		}
		projections[i] = f.toProjection()
	}
	return projections, nil
}

func loadWorkloadFile(path string) (accel.Workload, error) {
	var f workloadFile
	if err := decodeStrict(path, &f); err != nil {
		return accel.Workload{}, err
	}
	return f.toWorkload(), nil
}

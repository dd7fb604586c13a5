package accel

import (
	"strconv"
	"strings"
	"testing"
)

// preloadChainLengths walks each buffer's chain from its head (the MLB it
// drives directly) to its tail (the MLB with no further inputs_from_mlb
// successor) and returns the number of MLBs on each chain, indexed by
// buffer/chain number.
func preloadChainLengths(t *testing.T, g Graph, numBuffers int) []int {
	t.Helper()
	driveFrom := map[string]string{} // edge.From.Port -> edge.To.Port
	for _, e := range g.Edges {
		driveFrom[e.From.Port] = e.To.Port
	}
	lengths := make([]int, numBuffers)
	for chain := 0; chain < numBuffers; chain++ {
		cur, ok := driveFrom[portName("inputs_from_buffer", chain)]
		count := 0
		for ok && strings.HasPrefix(cur, "outputs_to_mlb_") {
			count++
			idx, err := strconv.Atoi(strings.TrimPrefix(cur, "outputs_to_mlb_"))
			if err != nil {
				t.Fatalf("chain %d: %v", chain, err)
			}
			cur, ok = driveFrom[portName("inputs_from_mlb", idx)]
		}
		lengths[chain] = count
	}
	return lengths
}

func TestWeightInterconnect_Streaming(t *testing.T) {
	p := simpleProjection(2, 2, 1, 1, 1)
	cfg := WeightInterconnectConfig{
		BufferWidth: 32, MLBWidth: 8, MLBWidthUsed: 8,
		NumBuffers: 2, NumMLBs: 4, Projection: p,
	}
	g, _, err := WeightInterconnect(cfg)
	if err != nil {
		t.Fatalf("WeightInterconnect: %v", err)
	}
	if len(g.TopPorts) == 0 {
		t.Fatal("expected top ports")
	}
}

func TestWeightInterconnect_Preload_EveryMLBOnExactlyOneChain(t *testing.T) {
	// GIVEN a projection that preloads W over 2 buses, with 5 used MLBs
	p := simpleProjection(5, 1, 1, 1, 1)
	p.Preload = []PreloadEntry{{Dtype: W, BusCount: 2}}
	cfg := WeightInterconnectConfig{
		BufferWidth: 64, MLBWidth: 8, MLBWidthUsed: 8,
		NumBuffers: 2, NumMLBs: 5, Projection: p,
	}
	g, _, err := WeightInterconnect(cfg)
	if err != nil {
		t.Fatalf("WeightInterconnect: %v", err)
	}
	// WHEN counting how many times each MLB's input is driven
	driveCount := map[string]int{}
	for _, e := range g.Edges {
		if e.From.Port == "ZERO" {
			continue
		}
		driveCount[e.To.Port]++
	}
	M, B := 5, 2
	chainLen := (M + B - 1) / B // ceil(M/B)
	for i := 0; i < M; i++ {
		port := portName("outputs_to_mlb", i)
		// THEN every MLB lies on exactly one chain: its input is driven
		// by exactly one source (buffer head or previous MLB tail)
		if driveCount[port] != 1 {
			t.Errorf("MLB %d: input driven %d times, want 1", i, driveCount[port])
		}
	}
	// AND every chain has length chainLen or chainLen-1, with the M mod B
	// remainder spread across the first chains rather than piled onto one
	for chain, length := range preloadChainLengths(t, g, B) {
		if length != chainLen && length != chainLen-1 {
			t.Errorf("chain %d: length %d, want %d or %d", chain, length, chainLen, chainLen-1)
		}
	}
}

func TestWeightInterconnect_Preload_RemainderSpreadAcrossChains(t *testing.T) {
	// GIVEN M=7 MLBs preloaded over B=3 buffers: naive ceil(7/3)=3 greedily
	// filled would produce chains [3,3,1], violating the length invariant
	M, B := 7, 3
	p := simpleProjection(M, 1, 1, 1, 1)
	p.Preload = []PreloadEntry{{Dtype: W, BusCount: B}}
	cfg := WeightInterconnectConfig{
		BufferWidth: 64, MLBWidth: 8, MLBWidthUsed: 8,
		NumBuffers: B, NumMLBs: M, Projection: p,
	}
	g, _, err := WeightInterconnect(cfg)
	if err != nil {
		t.Fatalf("WeightInterconnect: %v", err)
	}
	chainLen := (M + B - 1) / B // ceil(7/3) = 3
	total := 0
	for chain, length := range preloadChainLengths(t, g, B) {
		// THEN every chain has length chainLen or chainLen-1, never less
		if length != chainLen && length != chainLen-1 {
			t.Errorf("chain %d: length %d, want %d or %d", chain, length, chainLen, chainLen-1)
		}
		total += length
	}
	if total != M {
		t.Errorf("chains cover %d MLBs, want %d", total, M)
	}
}

func TestWeightInterconnect_Dilation_ZeroedLaneCount(t *testing.T) {
	// GIVEN a projection with x-dilation of 2 and inner URW.x = 4
	p := simpleProjection(1, 1, 1, 1, 1)
	p.Dilation = Dilation{X: 2, Y: 1}
	p.Inner = &Projection{Factors: map[Axis]FactorRecord{
		URW: {Value: 1, X: 4},
	}}
	cfg := WeightInterconnectConfig{
		BufferWidth: 32, MLBWidth: 8, MLBWidthUsed: 8,
		NumBuffers: 1, NumMLBs: 1, NumWeightIns: 1, Projection: p,
	}
	g, _, err := WeightInterconnect(cfg)
	if err != nil {
		t.Fatalf("WeightInterconnect: %v", err)
	}
	// WHEN counting zeroed sub-lanes on outputs_to_mlb_0
	zeroed := 0
	for _, e := range g.Edges {
		if e.From.Port == "ZERO" && e.To.Port == "outputs_to_mlb_0" {
			zeroed++
		}
	}
	// THEN exactly floor(N*(dilx-1)/dilx) sub-lanes are tied to zero,
	// where N = inner.URW.x * num_weight_ins
	N := 4 * 1
	want := (N * (2 - 1)) / 2
	if zeroed != want {
		t.Errorf("zeroed sub-lanes: got %d, want %d", zeroed, want)
	}
}

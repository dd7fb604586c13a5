package accel

import "testing"

func simpleProjection(urw, urn, ue, ub, ug int) Projection {
	return Projection{
		Factors: map[Axis]FactorRecord{
			URW: {Value: urw},
			URN: {Value: urn},
			UE:  {Value: ue},
			UB:  {Value: ub},
			UG:  {Value: ug},
		},
		StreamInfo: map[Datatype]int{W: 4, I: 4, O: 8},
	}
}

func TestVarProduct(t *testing.T) {
	// GIVEN a projection with distinct factors per axis
	p := simpleProjection(2, 3, 4, 5, 1)
	// WHEN multiplying a subset of axes
	got := VarProduct(p, []Axis{URW, URN, UE})
	// THEN the result is their product
	if want := 2 * 3 * 4; got != want {
		t.Errorf("VarProduct: got %d, want %d", got, want)
	}
}

func TestStreamCount_MatchesWiredMLBPortCount(t *testing.T) {
	// GIVEN a projection and a WeightInterconnect built from it
	p := simpleProjection(2, 2, 2, 2, 1)
	cfg := WeightInterconnectConfig{
		BufferWidth: 64, MLBWidth: 8, MLBWidthUsed: 8,
		NumBuffers: 4, NumMLBs: VarProduct(p, []Axis{URW, URN, UB, UE, UG}),
		Projection: p,
	}
	g, _, err := WeightInterconnect(cfg)
	if err != nil {
		t.Fatalf("WeightInterconnect: %v", err)
	}
	// WHEN counting distinct buffer slices driving outputs_to_mlb ports
	drivers := map[string]bool{}
	for _, e := range g.Edges {
		if e.From.Port != "" && e.From.Port != "ZERO" {
			// keys as "buffer:lo:hi" uniquely identify a wired slice
			drivers[portKey(e.From.Port, e.Lo, e.Hi)] = true
		}
	}
	// THEN the number of distinct slices equals stream_count(p, W)
	want := StreamCount(p, W)
	if len(drivers) != want {
		t.Errorf("distinct wired weight slices: got %d, want %d", len(drivers), want)
	}
}

func portKey(name string, lo, hi int) string {
	return name + ":" + itoaHelper(lo) + ":" + itoaHelper(hi)
}

func itoaHelper(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func TestOverallIdx_FixedRadixOrder(t *testing.T) {
	// GIVEN a projection where URW is innermost and UG outermost
	p := simpleProjection(2, 3, 1, 1, 1)
	// WHEN encoding index URW=1, URN=2
	got := OverallIdx(p, map[Axis]int{URW: 1, URN: 2})
	// THEN URW varies fastest: idx = urw + urn*URW.value
	want := 1 + 2*2
	if got != want {
		t.Errorf("OverallIdx: got %d, want %d", got, want)
	}
}

func TestOverallIdx_MissingAxisContributesZero(t *testing.T) {
	p := simpleProjection(2, 3, 1, 1, 1)
	got := OverallIdx(p, map[Axis]int{URN: 1})
	if want := 1 * 2; got != want {
		t.Errorf("OverallIdx: got %d, want %d", got, want)
	}
}

func TestOverallIdx_OutOfRangePanics(t *testing.T) {
	// GIVEN a projection where URW has only 2 values
	p := simpleProjection(2, 1, 1, 1, 1)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for out-of-range index")
		}
	}()
	// WHEN an index >= the axis value is supplied, THEN it panics
	OverallIdx(p, map[Axis]int{URW: 5})
}

func TestChainLength(t *testing.T) {
	p := simpleProjection(3, 2, 1, 1, 1)
	if got := ChainLength(p, W); got != 3 {
		t.Errorf("chain length W: got %d, want 3", got)
	}
	if got := ChainLength(p, O); got != 6 {
		t.Errorf("chain length O: got %d, want 6", got)
	}
}

func TestStreamCount_PreloadOverridesProduct(t *testing.T) {
	p := simpleProjection(2, 2, 2, 2, 1)
	p.Preload = []PreloadEntry{{Dtype: W, BusCount: 3}}
	if got := StreamCount(p, W); got != 3 {
		t.Errorf("preloaded stream count: got %d, want 3", got)
	}
}

package accel

import "testing"

func bufSpec(dataOutWidth int) HWBSpec {
	return HWBSpec{
		BlockName: "buf",
		Ports: []Port{
			{Name: "data_out", Width: dataOutWidth, Direction: DirOut, Type: PortDATAOUT},
		},
	}
}

func TestNumBuffersReqd(t *testing.T) {
	// GIVEN a buffer with 64-bit DATAOUT and streams of width 8
	got, err := NumBuffersReqd(bufSpec(64), 10, 8, 0)
	if err != nil {
		t.Fatalf("NumBuffersReqd: %v", err)
	}
	// WHEN 10 streams must be carried (8 fit per buffer)
	// THEN ceil(10/8) = 2 buffers are required
	if got != 2 {
		t.Errorf("got %d buffers, want 2", got)
	}
}

func TestNumBuffersReqd_TooNarrow(t *testing.T) {
	// GIVEN a buffer narrower than a single stream
	_, err := NumBuffersReqd(bufSpec(4), 1, 8, 0)
	// THEN it fails with BufferTooNarrow
	if err == nil {
		t.Fatal("expected error")
	}
	ee, ok := err.(*ElaborationError)
	if !ok || ee.Kind != ErrBufferTooNarrow {
		t.Errorf("got %v, want ErrBufferTooNarrow", err)
	}
}

func TestMaxInputBusWidth_CapsAtPowerOfTwoSlice(t *testing.T) {
	p := Projection{Factors: map[Axis]FactorRecord{
		UB:  {Value: 1, Y: 3},
		URN: {Value: 1, Y: 1},
	}}
	got := MaxInputBusWidth(96, p, I)
	if 96%got != 0 {
		t.Errorf("returned width %d does not divide buffer width 96", got)
	}
}

func TestBufferIdxToYIdx(t *testing.T) {
	p := Projection{Factors: map[Axis]FactorRecord{
		UB:  {Value: 1, Y: 4},
		URN: {Value: 1, Y: 1},
	}}
	got := BufferIdxToYIdx(p, 4, 1)
	want := []int{0, 1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("BufferIdxToYIdx[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

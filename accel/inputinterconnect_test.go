package accel

import "testing"

func TestInputInterconnect_URWCascadeConnected(t *testing.T) {
	// GIVEN a projection with URW=3 (a cascade chain of length 3)
	p := simpleProjection(3, 1, 1, 1, 1)
	cfg := InputInterconnectConfig{
		BufferWidth: 32, MLBWidth: 8, MLBWidthUsed: 8,
		NumBuffers: 1, NumMLBs: 3, Projection: p,
	}
	g, _, err := InputInterconnect(cfg)
	if err != nil {
		t.Fatalf("InputInterconnect: %v", err)
	}
	// WHEN checking every adjacent pair in the chain
	for k := 0; k < 2; k++ {
		from := portName("inputs_from_mlb", k)
		to := portName("outputs_to_mlb", k+1)
		found := false
		for _, e := range g.Edges {
			if e.From.Port == from && e.To.Port == to && e.Lo == 0 && e.Hi == cfg.MLBWidthUsed {
				found = true
			}
		}
		// THEN bits [0:mlb_width_used) are connected between the two
		if !found {
			t.Errorf("cascade link %d -> %d not found", k, k+1)
		}
	}
}

func TestInputInterconnect_InsufficientMLBs(t *testing.T) {
	p := simpleProjection(2, 2, 1, 1, 1)
	cfg := InputInterconnectConfig{
		BufferWidth: 32, MLBWidth: 8, MLBWidthUsed: 8,
		NumBuffers: 1, NumMLBs: 2, Projection: p,
	}
	_, _, err := InputInterconnect(cfg)
	if err == nil {
		t.Fatal("expected InsufficientMLBs error")
	}
	if ee, ok := err.(*ElaborationError); !ok || ee.Kind != ErrInsufficientMLBs {
		t.Errorf("got %v, want ErrInsufficientMLBs", err)
	}
}

package accel

import "math"

// NumBuffersReqd computes how many buffers of the given spec's DATAOUT
// width are needed to carry streamCount streams of streamWidth bits
// each. maxBusWidth, if non-zero, further caps the usable slice of each
// buffer (see MaxInputBusWidth). Returns ErrBufferTooNarrow if not even
// one stream fits in a single buffer.
func NumBuffersReqd(bufSpec HWBSpec, streamCount, streamWidth, maxBusWidth int) (int, error) {
	dataOutWidth := bufSpec.SumWidth(PortDATAOUT, DirOut)
	cap := dataOutWidth
	if maxBusWidth > 0 && maxBusWidth < cap {
		cap = maxBusWidth
	}
	streamsPerBuffer := cap / streamWidth
	if streamsPerBuffer <= 0 {
		return 0, elabErr(ErrBufferTooNarrow,
			"buffer DATAOUT width %d (capped %d) cannot carry a stream of width %d",
			dataOutWidth, cap, streamWidth)
	}
	return int(math.Ceil(float64(streamCount) / float64(streamsPerBuffer))), nil
}

// MaxInputBusWidth caps the usable part of a wide input buffer at the
// largest power-of-two slice that divides cleanly across all input
// y-axes the projection requires (UB.y and URN.y), so that a single
// logical value is never split across two buffers.
func MaxInputBusWidth(bufferWidth int, proj Projection, dtype Datatype) int {
	if dtype != I {
		return bufferWidth
	}
	ySpan := proj.Factor(UB).Y * proj.Factor(URN).Y
	if ySpan <= 1 {
		return bufferWidth
	}
	// Fall back to the full width if no power-of-two slice divides
	// cleanly; the caller's NumBuffersReqd will reject it later if it
	// genuinely doesn't fit.
	if bufferWidth%ySpan != 0 {
		return bufferWidth
	}
	best := bufferWidth
	for cand := 1; cand <= bufferWidth; cand *= 2 {
		if bufferWidth%cand == 0 && (bufferWidth/cand)%ySpan == 0 {
			best = cand
		}
	}
	return best
}

// BufferIdxToYIdx returns, for each of the ibufCount input buffers, the
// y-coordinate of the input-tile row that buffer stores, given that each
// buffer holds ivaluesPerBuf values laid out with y varying fastest
// (value index modulo UB.y*URN.y).
func BufferIdxToYIdx(proj Projection, ibufCount, ivaluesPerBuf int) []int {
	ySpan := proj.Factor(UB).Y * proj.Factor(URN).Y
	if ySpan <= 0 {
		ySpan = 1
	}
	out := make([]int, ibufCount)
	for i := 0; i < ibufCount; i++ {
		valueIdx := i * ivaluesPerBuf
		out[i] = valueIdx % ySpan
	}
	return out
}

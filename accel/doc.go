// Package accel elaborates tiled ML-accelerator datapaths from a hardware
// block (MLB) spec, a set of buffer specs, and one or more projections.
//
// # Reading Guide
//
// Start with these files to understand the elaborator:
//   - types.go: Projection, FactorRecord, HWBSpec, Port
//   - graph.go: the module Graph the elaborator produces
//   - projection.go: the pure index arithmetic every fabric is built on
//   - busarith.go: buffer/stream count and width arithmetic
//   - weightinterconnect.go, inputinterconnect.go, outputpsinterconnect.go,
//     mergebusses.go: the four interconnect fabrics
//   - datapath.go: composes the fabrics with wrapped MLB/buffer/activation
//     pools into one module graph
//
// The independent mapping-enumeration service lives in accel/mapper.
//
// # Determinism
//
// Every exported function here is pure: given identical inputs it produces
// structurally identical output (same instance names, same port names, same
// connection set). There is no shared mutable state and no background
// goroutines; elaboration is a one-shot call.
package accel

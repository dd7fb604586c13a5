// Package mapper enumerates, filters, and scores outer/inner/temporal
// factorizations of a seven-axis convolutional workload against one
// hardware block's MAC budget, native projection bounds, and access
// pattern preferences.
//
// FindMappings is independent of package accel's elaborator: it never
// builds a module graph, only accel.Mapping values and a throughput
// score. A caller typically runs the enumerator first to pick a
// mapping, then turns that mapping into a Projection for the elaborator.
package mapper

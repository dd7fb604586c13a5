package accel

import "strconv"

// portName builds the conventional "<prefix>_<index>" port name used
// throughout the fabrics, e.g. outputs_to_mlb_3.
func portName(prefix string, idx int) string {
	return prefix + "_" + strconv.Itoa(idx)
}

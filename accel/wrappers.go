package accel

// BuildHWBWrapper returns one wrapper Instance named wrapperName that
// stands for count copies of spec; it records no per-copy sub-instances,
// only the wrapper's ports, per spec.md §4.7's control-port lifting
// rule: input ports of type C or ADDRESS appear once, shared across all
// copies; CLK and RESET ports are left out; every other port is
// duplicated once per copy as "<name>_<i>".
func BuildHWBWrapper(spec HWBSpec, count int, wrapperName string) Instance {
	var ports []Port
	seen := map[string]bool{}
	for _, p := range spec.Ports {
		if p.Direction == DirIn && (p.Type == PortC || p.Type == PortADDRESS) {
			if !seen[p.Name] {
				seen[p.Name] = true
				ports = append(ports, p)
			}
		}
	}
	for i := 0; i < count; i++ {
		for _, p := range spec.Ports {
			if p.Type == PortCLK || p.Type == PortRESET {
				continue
			}
			if p.Direction == DirIn && (p.Type == PortC || p.Type == PortADDRESS) {
				continue // already lifted, shared across all instances
			}
			ports = append(ports, Port{Name: portName(p.Name, i), Width: p.Width, Direction: p.Direction, Type: p.Type})
		}
	}
	return Instance{Name: wrapperName, Kind: BlockWrapper, Ports: ports}
}

// BuildActivationWrapper instantiates count activation function units.
// It does not check function; BuildDatapath rejects any name outside
// KnownActivationFunctions with UnknownActivationFunction before calling
// it. Activation arithmetic itself is not modelled here.
func BuildActivationWrapper(count int, function string, inputWidth, outputWidth int) Instance {
	var ports []Port
	for i := 0; i < count; i++ {
		ports = append(ports,
			Port{Name: portName("activation_function_in", i), Width: inputWidth, Direction: DirIn, Type: PortO},
			Port{Name: portName("activation_function_out", i), Width: outputWidth, Direction: DirOut, Type: PortI},
		)
	}
	return Instance{Name: "activation_function_modules", Kind: BlockActivation, Ports: ports}
}

// KnownActivationFunctions is the closed set of activation functions
// this module can provide a behavioral model for.
var KnownActivationFunctions = map[string]bool{"RELU": true}

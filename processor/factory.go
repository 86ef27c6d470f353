package processor

import "github.com/noisecore/engine/engineerr"

// NodeDescription is the static description of a graph node: its kind
// and declared ports, handed to a concrete Processor's Setup via Spec.
type NodeDescription struct {
	Kind  string
	Ports []Port
}

// NodeParameters is the optional initial parameter set applied via
// SetParameters immediately after Setup.
type NodeParameters map[string]float64

// Kinds implemented in-core. Anything else (ladspa, lv2, csound,
// sample_player, custom_csound, ...) is an external collaborator and
// returns a Configuration error here: the core only specifies the
// Processor contract for those, it does not implement them.
const (
	KindNull = "null"
	KindGain = "gain"
	KindMixer = "mixer"
)

// Create builds a Processor instance for the given NodeDescription and
// optional parameters. Unknown/external kinds return a Configuration
// error, which is fatal at setup.
func Create(desc NodeDescription, params NodeParameters) (Processor, error) {
	var p Processor
	switch desc.Kind {
	case KindNull:
		p = NewNull()
	case KindGain, KindMixer:
		p = NewGain()
	default:
		return nil, engineerr.Configuration("processor: unknown kind %q (external collaborator)", desc.Kind)
	}
	if err := p.Setup(Spec{Name: desc.Kind, Ports: desc.Ports}); err != nil {
		return nil, engineerr.Configuration("processor: setup failed for %q: %v", desc.Kind, err)
	}
	if len(params) > 0 {
		p.SetParameters(params)
	}
	return p, nil
}

// Package backend abstracts audio period framing: the thing that owns
// begin_block/end_block/output and actually moves samples in or out of
// the process. Concrete device backends (PortAudio) are collaborators;
// this package specifies the contract plus Null, wavfile and datastream
// variants that are useful without real hardware.
package backend

import (
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/enginelog"
)

// Host is the minimal back-reference a Backend needs into its owning
// Realm, narrow enough to avoid backend importing realm. Grounded on
// noisicore/backend.h's `setup(VM* vm)`, adapted to Go's preference for
// small, locally-defined interfaces over a concrete back-pointer type.
type Host interface {
	// ComponentID identifies the owning Realm for log correlation.
	ComponentID() string
}

// Settings configures a Backend at creation time.
type Settings struct {
	// DatastreamAddress is the IPC endpoint for streamed audio; empty if
	// none.
	DatastreamAddress string
	// TimeScale is the playback rate multiplier; 1.0 = realtime.
	TimeScale float64
}

// Backend owns audio period framing and the actual I/O.
type Backend interface {
	// Setup prepares the backend for a run. Errors here are Resource
	// kind and are fatal: the driver refuses to start.
	Setup(host Host) error
	// Cleanup releases backend resources. Called on a control thread
	// after the audio thread is drained.
	Cleanup() error
	// BeginBlock is called by the driver at the start of every period.
	BeginBlock(ctxt *block.Context) error
	// EndBlock is called by the driver at the end of every period.
	EndBlock(ctxt *block.Context) error
	// Output hands a rendered sample buffer to the backend for the
	// named channel. Unknown channel names may be dropped with a
	// warning, never an error.
	Output(ctxt *block.Context, channel string, samples []float64) error
	// SendMessage is safe to call from the control thread.
	SendMessage(msg []byte)
	// Stop requests the driver loop to exit at the next block boundary.
	Stop()
	// Stopped reports whether Stop has been called.
	Stopped() bool
	// Release permits teardown of host resources after Cleanup.
	Release()
}

// Factory creates a Backend by name, the
// `create(host_system, name, settings) -> Backend` factory collaborators
// call to obtain one. It knows "null", "wavfile" and "datastream"; it does
// not create a PortAudio backend, which exists only in builds with the
// portaudio tag and is constructed with NewPortAudio.
func Factory(name string, settings Settings, log enginelog.Logger) (Backend, error) {
	if log == nil {
		log = enginelog.Silent{}
	}
	switch name {
	case "null":
		return NewNull(settings, log), nil
	case "wavfile":
		return NewWavFile(settings, log)
	case "datastream":
		return NewDatastream(settings, log)
	default:
		return nil, unknownBackendError(name)
	}
}

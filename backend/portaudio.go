//go:build portaudio

package backend

import (
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/engineerr"
	"github.com/noisecore/engine/enginelog"
)

// PortAudio is a Backend driving the default system output device,
// grounded on the teacher's portaudio/portaudio.go Sink. Built only
// with the "portaudio" build tag, since it links against the system
// PortAudio library.
type PortAudio struct {
	settings    Settings
	log         enginelog.Logger
	numChannels int
	sampleRate  int

	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []float32
	stopped atomic.Bool
}

// NewPortAudio constructs a PortAudio backend for the given format.
func NewPortAudio(settings Settings, log enginelog.Logger, sampleRate, numChannels int) *PortAudio {
	if log == nil {
		log = enginelog.Silent{}
	}
	return &PortAudio{settings: settings, log: log, sampleRate: sampleRate, numChannels: numChannels}
}

func (p *PortAudio) Setup(host Host) error {
	if err := portaudio.Initialize(); err != nil {
		return engineerr.Resource("backend/portaudio: initialize: %v", err)
	}
	return nil
}

func (p *PortAudio) openStream(blockSize int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream != nil {
		return nil
	}
	p.buf = make([]float32, blockSize*p.numChannels)
	stream, err := portaudio.OpenDefaultStream(0, p.numChannels, float64(p.sampleRate), blockSize, &p.buf)
	if err != nil {
		return engineerr.Resource("backend/portaudio: open stream: %v", err)
	}
	if err := stream.Start(); err != nil {
		return engineerr.Resource("backend/portaudio: start stream: %v", err)
	}
	p.stream = stream
	return nil
}

func (p *PortAudio) Cleanup() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var merr engineerr.Multi
	if p.stream != nil {
		merr = merr.Add(p.stream.Stop())
		merr = merr.Add(p.stream.Close())
		p.stream = nil
	}
	merr = merr.Add(portaudio.Terminate())
	return merr.Err()
}

func (p *PortAudio) BeginBlock(ctxt *block.Context) error {
	return p.openStream(ctxt.BlockSize)
}

func (p *PortAudio) EndBlock(ctxt *block.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return nil
	}
	return p.stream.Write()
}

// Output writes samples for channel into the interleaved device buffer
// at the channel's fixed index (0=left, 1=right, ...), dropping unknown
// channels with a warning.
func (p *PortAudio) Output(ctxt *block.Context, channel string, samples []float64) error {
	idx := channelIndex(channel)
	if idx < 0 || idx >= p.numChannels {
		p.log.Warn("backend/portaudio: dropping unknown channel", channel)
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range samples {
		p.buf[i*p.numChannels+idx] = float32(s)
	}
	return nil
}

func (p *PortAudio) SendMessage([]byte) {}

func (p *PortAudio) Stop() { p.stopped.Store(true) }

func (p *PortAudio) Stopped() bool { return p.stopped.Load() }

func (p *PortAudio) Release() {}

func channelIndex(channel string) int {
	switch channel {
	case "left":
		return 0
	case "right":
		return 1
	default:
		return -1
	}
}

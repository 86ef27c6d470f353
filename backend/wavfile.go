package backend

import (
	"os"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/engineerr"
	"github.com/noisecore/engine/enginelog"
)

// channelOrder fixes the stable channel->track mapping a WavFile writes,
// since a Program may call OUTPUT with free-form channel names.
var channelOrder = []string{"left", "right"}

// WavFile is a Backend that writes every block's OUTPUT buffers to a
// stereo .wav file, standing in for
// noisicaa/audioproc/source/wavfile.py's sample-file backend. Grounded
// on the teacher's wav/wav.go Sink, rebuilt against this module's
// Backend contract instead of phono's pipe.Sink.
type WavFile struct {
	settings   Settings
	log        enginelog.Logger
	path       string
	sampleRate int
	numChannels int

	file    *os.File
	encoder *wav.Encoder
	ib      *audio.IntBuffer
	stopped atomic.Bool
}

// WavFileOption configures a WavFile backend before Setup.
type WavFileOption func(*WavFile)

// WithWavPath sets the output file path.
func WithWavPath(path string) WavFileOption {
	return func(w *WavFile) { w.path = path }
}

// WithWavFormat sets sample rate and channel count for the output file.
func WithWavFormat(sampleRate, numChannels int) WavFileOption {
	return func(w *WavFile) {
		w.sampleRate = sampleRate
		w.numChannels = numChannels
	}
}

// NewWavFile constructs a WavFile backend. Settings.DatastreamAddress is
// ignored; use WithWavPath to set the destination.
func NewWavFile(settings Settings, log enginelog.Logger, opts ...WavFileOption) (*WavFile, error) {
	if log == nil {
		log = enginelog.Silent{}
	}
	w := &WavFile{settings: settings, log: log, sampleRate: 44100, numChannels: 2, path: "out.wav"}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

func (w *WavFile) Setup(host Host) error {
	f, err := os.Create(w.path)
	if err != nil {
		return engineerr.Resource("backend/wavfile: create %q: %v", w.path, err)
	}
	w.file = f
	w.encoder = wav.NewEncoder(f, w.sampleRate, 16, w.numChannels, 1)
	w.ib = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: w.numChannels, SampleRate: w.sampleRate},
		SourceBitDepth: 16,
	}
	return nil
}

func (w *WavFile) Cleanup() error {
	var merr engineerr.Multi
	if w.encoder != nil {
		merr = merr.Add(w.encoder.Close())
	}
	if w.file != nil {
		merr = merr.Add(w.file.Close())
	}
	return merr.Err()
}

func (w *WavFile) BeginBlock(ctxt *block.Context) error { return nil }

func (w *WavFile) EndBlock(ctxt *block.Context) error { return nil }

// Output writes interleaved 16-bit PCM for the named channel. Channels
// are mapped to tracks by channelOrder; unknown channel names are
// dropped with a log warning rather than an error.
func (w *WavFile) Output(ctxt *block.Context, channel string, samples []float64) error {
	idx := -1
	for i, name := range channelOrder[:w.numChannels] {
		if name == channel {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.log.Warn("backend/wavfile: dropping unknown channel", channel)
		return nil
	}
	data := make([]int, len(samples)*w.numChannels)
	for i, s := range samples {
		data[i*w.numChannels+idx] = int(s * 32767)
	}
	w.ib.Data = data
	return w.encoder.Write(w.ib)
}

func (w *WavFile) SendMessage([]byte) {}

func (w *WavFile) Stop() { w.stopped.Store(true) }

func (w *WavFile) Stopped() bool { return w.stopped.Load() }

func (w *WavFile) Release() {}

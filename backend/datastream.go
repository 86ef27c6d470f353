package backend

import (
	"encoding/binary"
	"math"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/noisecore/engine/block"
	"github.com/noisecore/engine/engineerr"
	"github.com/noisecore/engine/enginelog"
)

// Datastream streams OUTPUT buffers to a remote sink over a websocket,
// using a per-block header plus channel-labeled PCM frames when
// Settings.DatastreamAddress is set. Exact serialization is a
// collaborator's own choice; this is one concrete, minimal framing: a
// little-endian header (block_size, sample_rate, sample_pos as
// uint32/uint32/uint64) followed for each Output call by the channel
// name length, the channel name, and float32-native PCM.
type Datastream struct {
	settings   Settings
	log        enginelog.Logger
	sampleRate int

	mu      sync.Mutex
	conn    *websocket.Conn
	stopped atomic.Bool
}

// DatastreamOption configures a Datastream backend before Setup.
type DatastreamOption func(*Datastream)

// WithDatastreamSampleRate sets the sample rate written into every
// block header.
func WithDatastreamSampleRate(sampleRate int) DatastreamOption {
	return func(d *Datastream) { d.sampleRate = sampleRate }
}

// NewDatastream constructs a Datastream backend. settings.DatastreamAddress
// must be a ws:// or wss:// URL.
func NewDatastream(settings Settings, log enginelog.Logger, opts ...DatastreamOption) (*Datastream, error) {
	if settings.DatastreamAddress == "" {
		return nil, engineerr.Configuration("backend/datastream: datastream_address is empty")
	}
	if _, err := url.Parse(settings.DatastreamAddress); err != nil {
		return nil, engineerr.Configuration("backend/datastream: invalid address %q: %v", settings.DatastreamAddress, err)
	}
	if log == nil {
		log = enginelog.Silent{}
	}
	d := &Datastream{settings: settings, log: log, sampleRate: 44100}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

func (d *Datastream) Setup(host Host) error {
	conn, _, err := websocket.DefaultDialer.Dial(d.settings.DatastreamAddress, nil)
	if err != nil {
		return engineerr.Resource("backend/datastream: dial %q: %v", d.settings.DatastreamAddress, err)
	}
	d.conn = conn
	return nil
}

func (d *Datastream) Cleanup() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	if d.conn != nil {
		err = d.conn.Close()
		d.conn = nil
	}
	return err
}

// BeginBlock writes the per-block header: block_size, sample_rate,
// sample_pos.
func (d *Datastream) BeginBlock(ctxt *block.Context) error {
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], uint32(ctxt.BlockSize))
	binary.LittleEndian.PutUint32(header[4:8], uint32(d.sampleRate))
	binary.LittleEndian.PutUint64(header[8:16], uint64(ctxt.SamplePos))
	return d.write(header)
}

func (d *Datastream) EndBlock(ctxt *block.Context) error { return nil }

// Output writes one channel-labeled PCM frame: a uint8 name length, the
// name bytes, then float32-native samples.
func (d *Datastream) Output(ctxt *block.Context, channel string, samples []float64) error {
	buf := make([]byte, 1+len(channel)+4*len(samples))
	buf[0] = byte(len(channel))
	copy(buf[1:], channel)
	off := 1 + len(channel)
	for _, s := range samples {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(s)))
		off += 4
	}
	return d.write(buf)
}

// SendMessage ships an opaque control-thread message over the same
// socket. Thread-safe: guarded by mu, unlike the audio-thread path.
func (d *Datastream) SendMessage(msg []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		_ = d.conn.WriteMessage(websocket.BinaryMessage, msg)
	}
}

func (d *Datastream) Stop() { d.stopped.Store(true) }

func (d *Datastream) Stopped() bool { return d.stopped.Load() }

func (d *Datastream) Release() {}

func (d *Datastream) write(p []byte) error {
	if d.conn == nil {
		return nil
	}
	return d.conn.WriteMessage(websocket.BinaryMessage, p)
}

package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// SampleSource fills dst with interleaved stereo float32 frames.
type SampleSource interface {
	Process(dst []float32)
}

// Output is a running device stream.
type Output interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// Backend selects the device library.
type Backend string

const (
	BackendEbiten Backend = "ebiten"
	BackendOto    Backend = "oto"
)

var ErrUnknownBackend = errors.New("audio: unknown backend")

// DefaultBufferSize is the device buffer requested from oto.
const DefaultBufferSize = 20 * time.Millisecond

// Open creates an output for source on the chosen backend. bufferSize is
// only honoured by oto; zero selects DefaultBufferSize.
func Open(backend Backend, sampleRate int, source SampleSource, bufferSize time.Duration) (Output, error) {
	switch backend {
	case BackendEbiten, "":
		return NewPlayer(sampleRate, source)
	case BackendOto:
		if bufferSize <= 0 {
			bufferSize = DefaultBufferSize
		}
		return NewOtoPlayer(sampleRate, source, bufferSize)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// StreamReader adapts a SampleSource to the io.Reader both device libraries
// pull from: little-endian float32, two channels.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i, s := range r.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * 8, nil
}

func (r *StreamReader) Close() error { return nil }

package synth

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/cbegin/radiosauce-go/internal/control"
	"github.com/cbegin/radiosauce-go/internal/effects"
	"github.com/cbegin/radiosauce-go/internal/voice"
)

// BlockSize is the largest number of frames rendered against one control
// snapshot.
const BlockSize = 512

const DefaultPolyphony = 8

var (
	ErrInvalidSampleRate = errors.New("synth: invalid sample rate")
	ErrNoPlayableVoice   = errors.New("synth: voice cannot play sauce")
)

type Params struct {
	Polyphony int
	Seed      int64
}

func DefaultParams() Params {
	return Params{Polyphony: DefaultPolyphony, Seed: 1}
}

// Engine owns the voice pool and master effects. NoteOn, NoteOff and
// ProcessBlock belong to the audio goroutine; other goroutines reach the
// engine only through Store and Requests.
type Engine struct {
	sampleRate int
	params     Params
	store      *control.Store
	requests   *control.Requests
	rng        *rand.Rand
	voices     []*voice.Voice
	fx         *effects.Chain
	snap       control.Snapshot
	blocks     uint64
}

func New(sampleRate int, params Params) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if params.Polyphony <= 0 {
		params.Polyphony = DefaultPolyphony
	}
	voices := make([]*voice.Voice, params.Polyphony)
	for i := range voices {
		voices[i] = voice.New(sampleRate, params.Seed+int64(i)+1)
	}
	if err := checkVoices(voices, voice.SoundSauce); err != nil {
		return nil, err
	}
	e := &Engine{
		sampleRate: sampleRate,
		params:     params,
		store:      control.NewStore(),
		requests:   &control.Requests{},
		rng:        rand.New(rand.NewSource(params.Seed)),
		voices:     voices,
		fx:         effects.NewChain(sampleRate),
	}
	e.snap = e.store.Snapshot()
	return e, nil
}

// checkVoices verifies once, at assembly, that every voice renders kind.
func checkVoices(voices []*voice.Voice, kind voice.SoundKind) error {
	for i, v := range voices {
		if !v.CanPlay(kind) {
			return fmt.Errorf("%w: voice %d is %s, want %s", ErrNoPlayableVoice, i, v.Kind(), kind)
		}
	}
	return nil
}

func (e *Engine) SampleRate() int { return e.sampleRate }

// Store is the live parameter store. Safe for concurrent use.
func (e *Engine) Store() *control.Store { return e.store }

// Requests is the pending style/randomize slot. Safe for concurrent use.
func (e *Engine) Requests() *control.Requests { return e.requests }

// Snapshot returns the resolved controls used by the most recent block.
func (e *Engine) Snapshot() control.Snapshot { return e.snap }

// Blocks counts rendered control blocks.
func (e *Engine) Blocks() uint64 { return e.blocks }

// NoteOn starts note on the first free voice. A note that is already
// sounding retriggers its voice. It reports false when the note was dropped,
// either because the pool is full or because note is outside 0..127.
func (e *Engine) NoteOn(note int, velocity float64) bool {
	if !voice.ValidNote(note) {
		return false
	}
	for _, v := range e.voices {
		if v.Active() && v.Note() == note {
			v.StartNote(note, velocity)
			return true
		}
	}
	for _, v := range e.voices {
		if !v.Active() {
			v.StartNote(note, velocity)
			return true
		}
	}
	return false
}

// NoteOff stops every voice holding note.
func (e *Engine) NoteOff(note int, allowTailOff bool) {
	for _, v := range e.voices {
		if !v.Active() || v.Note() != note {
			continue
		}
		if allowTailOff && v.Releasing() {
			continue
		}
		v.StopNote(allowTailOff)
	}
}

func (e *Engine) AllNotesOff(allowTailOff bool) {
	for _, v := range e.voices {
		if v.Active() {
			v.StopNote(allowTailOff)
		}
	}
}

func (e *Engine) ActiveVoices() int {
	n := 0
	for _, v := range e.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

// ProcessBlock overwrites the interleaved stereo dst with the next
// len(dst)/2 frames. Long buffers are rendered in BlockSize pieces, each
// against its own snapshot.
func (e *Engine) ProcessBlock(dst []float32) {
	frames := len(dst) / 2
	for off := 0; off < frames; off += BlockSize {
		n := min(BlockSize, frames-off)
		e.renderBlock(dst[2*off:2*(off+n)], n)
	}
}

func (e *Engine) renderBlock(buf []float32, n int) {
	if q, ok := e.requests.Take(); ok {
		q.Apply(e.store, e.rng)
	}
	e.snap = control.ResolveMacros(e.store.Snapshot())
	vp := e.snap.VoiceParams()
	for _, v := range e.voices {
		v.SetControls(vp)
	}
	e.fx.SetParameters(e.snap.EffectParams())

	clear(buf)
	for _, v := range e.voices {
		v.RenderNextBlock(buf, 0, n)
	}
	e.fx.ProcessBlock(buf)
	e.blocks++
}

// Reset silences all voices and clears effect memory.
func (e *Engine) Reset() {
	e.AllNotesOff(false)
	e.fx.Reset()
}

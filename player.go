package radiosauce

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/radiosauce-go/internal/audio"
	intctl "github.com/cbegin/radiosauce-go/internal/control"
	intfx "github.com/cbegin/radiosauce-go/internal/effects"
	intsynth "github.com/cbegin/radiosauce-go/internal/synth"
	intvoice "github.com/cbegin/radiosauce-go/internal/voice"
)

// Backend names a real-time output library.
type Backend = intaudio.Backend

const (
	BackendEbiten = intaudio.BackendEbiten
	BackendOto    = intaudio.BackendOto
)

// Style indices accepted by SetStyle.
const (
	StylePopGloss = intctl.StylePopGloss
	StyleTrap808  = intctl.StyleTrap808
	StyleRnBSilk  = intctl.StyleRnBSilk
	NumStyles     = intctl.NumStyles
)

// Master EQ bands for SetEQBand.
const (
	EQLow  = intfx.EQLow
	EQMid  = intfx.EQMid
	EQHigh = intfx.EQHigh
)

// NoteQueueSize bounds the note events waiting for the audio goroutine.
const NoteQueueSize = 256

var (
	ErrInvalidSampleRate = intsynth.ErrInvalidSampleRate
	ErrUnknownParam      = intctl.ErrUnknownParam
	ErrNoteQueueFull     = errors.New("radiosauce: note queue full")
	ErrInvalidNote       = errors.New("radiosauce: note outside 0..127")
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	polyphony  int
	seed       int64
	sampleTap  func([]float32)
	backend    Backend
	bufferSize time.Duration
	style      int
	params     map[string]float32
	newSauce   bool
}

func defaultPlayerConfig() playerConfig {
	p := intsynth.DefaultParams()
	return playerConfig{
		polyphony: p.Polyphony,
		seed:      p.Seed,
		backend:   BackendEbiten,
		style:     -1,
	}
}

// WithPolyphony sets the number of voices. Notes beyond it are dropped.
func WithPolyphony(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.polyphony = n
	}
}

// WithSeed fixes the noise, FM and randomize sequences.
func WithSeed(seed int64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.seed = seed
	}
}

// WithSampleTap installs a callback invoked with each generated stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

func WithBackend(b Backend) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = b
	}
}

// WithBufferSize sets the device buffer for backends that support it.
func WithBufferSize(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.bufferSize = d
	}
}

// WithStyle applies a style before the first block.
func WithStyle(style int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.style = style
	}
}

// WithParam presets a named control before the first block. It is applied
// after WithStyle.
func WithParam(name string, v float32) PlayerOption {
	return func(cfg *playerConfig) {
		if cfg.params == nil {
			cfg.params = map[string]float32{}
		}
		cfg.params[name] = v
	}
}

// WithNewSauce randomizes the patch at the first block, on top of any
// style or params.
func WithNewSauce() PlayerOption {
	return func(cfg *playerConfig) {
		cfg.newSauce = true
	}
}

type noteEvent struct {
	note     int
	velocity float64
	on       bool
	tail     bool
}

// Player runs the synth against a live audio device. Note and control
// methods may be called from any goroutine.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	engine     *intsynth.Engine
	notes      chan noteEvent
	audio      intaudio.Output
	backend    Backend
	bufferSize time.Duration
	sampleTap  func([]float32)
	masterEQ   *intfx.MasterEQ
	volume     atomic.Uint64
	dropped    atomic.Uint64
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	engine, err := newEngine(sampleRate, cfg)
	if err != nil {
		return nil, err
	}
	p := &Player{
		sampleRate: sampleRate,
		engine:     engine,
		notes:      make(chan noteEvent, NoteQueueSize),
		backend:    cfg.backend,
		bufferSize: cfg.bufferSize,
		sampleTap:  cfg.sampleTap,
		masterEQ:   intfx.NewMasterEQ(sampleRate),
	}
	p.volume.Store(math.Float64bits(1))
	return p, nil
}

func newEngine(sampleRate int, cfg playerConfig) (*intsynth.Engine, error) {
	engine, err := intsynth.New(sampleRate, intsynth.Params{
		Polyphony: cfg.polyphony,
		Seed:      cfg.seed,
	})
	if err != nil {
		return nil, err
	}
	if cfg.style >= 0 {
		intctl.ApplyStyle(engine.Store(), cfg.style)
	}
	for name, v := range cfg.params {
		if err := engine.Store().SetByName(name, v); err != nil {
			return nil, err
		}
	}
	if cfg.newSauce {
		engine.Requests().RequestNewSauce()
	}
	return engine, nil
}

func (p *Player) SampleRate() int { return p.sampleRate }

// Process renders the next interleaved stereo buffer. It is the audio
// goroutine's entry point and drains pending note events first.
func (p *Player) Process(dst []float32) {
	p.drainNotes()
	p.engine.ProcessBlock(dst)
	p.masterEQ.ProcessBlock(dst)
	if v := p.MasterVolume(); v != 1 {
		g := float32(v)
		for i := range dst {
			dst[i] *= g
		}
	}
	if p.sampleTap != nil {
		p.sampleTap(dst)
	}
}

func (p *Player) drainNotes() {
	for {
		select {
		case ev := <-p.notes:
			if ev.on {
				if !p.engine.NoteOn(ev.note, ev.velocity) {
					p.dropped.Add(1)
				}
			} else {
				p.engine.NoteOff(ev.note, ev.tail)
			}
		default:
			return
		}
	}
}

func (p *Player) send(ev noteEvent) error {
	select {
	case p.notes <- ev:
		return nil
	default:
		p.dropped.Add(1)
		return ErrNoteQueueFull
	}
}

// NoteOn queues a note start for the next block. velocity is 0..1. Notes
// outside 0..127 are rejected with ErrInvalidNote and counted as dropped.
func (p *Player) NoteOn(note int, velocity float64) error {
	if !intvoice.ValidNote(note) {
		p.dropped.Add(1)
		return fmt.Errorf("%w: %d", ErrInvalidNote, note)
	}
	return p.send(noteEvent{note: note, velocity: velocity, on: true})
}

// NoteOff queues a note stop. Without tail off the voice is cut at once.
func (p *Player) NoteOff(note int, allowTailOff bool) error {
	if !intvoice.ValidNote(note) {
		return fmt.Errorf("%w: %d", ErrInvalidNote, note)
	}
	return p.send(noteEvent{note: note, tail: allowTailOff})
}

// DroppedNotes counts notes lost to a full queue or a full voice pool.
func (p *Player) DroppedNotes() uint64 { return p.dropped.Load() }

// TriggerNewSauce asks the audio goroutine to randomize the patch at the
// next block boundary.
func (p *Player) TriggerNewSauce() {
	p.engine.Requests().RequestNewSauce()
}

// SetStyle asks for a style to be applied at the next block boundary.
func (p *Player) SetStyle(style int) {
	p.engine.Requests().RequestStyle(style)
}

// Style reports the style index last applied.
func (p *Player) Style() int {
	return int(p.engine.Store().Get(intctl.Style))
}

// SetParam sets a named control, clamped to its range.
func (p *Player) SetParam(name string, v float32) error {
	return p.engine.Store().SetByName(name, v)
}

func (p *Player) Param(name string) (float32, error) {
	id, ok := intctl.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return p.engine.Store().Get(id), nil
}

// ParamNames lists every control name in parameter order.
func ParamNames() []string {
	names := make([]string, 0, intctl.NumParams)
	for id := intctl.ID(0); id < intctl.NumParams; id++ {
		names = append(names, id.String())
	}
	return names
}

// StyleName returns the display name of a style index.
func StyleName(style int) string { return intctl.StyleName(style) }

func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 || math.IsNaN(volume) {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.volume.Store(math.Float64bits(volume))
}

func (p *Player) MasterVolume() float64 {
	return math.Float64frombits(p.volume.Load())
}

// SetEQBand sets a master EQ band gain in dB, clamped to +/-12.
func (p *Player) SetEQBand(band int, gainDB float32) {
	p.masterEQ.SetGainDB(band, gainDB)
}

func (p *Player) EQBand(band int) float32 {
	return p.masterEQ.GainDB(band)
}

// Start opens the audio device on first use and begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		out, err := intaudio.Open(p.backend, p.sampleRate, p, p.bufferSize)
		if err != nil {
			return fmt.Errorf("open %s output: %w", p.backend, err)
		}
		p.audio = out
	}
	p.audio.Play()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

// Stop closes the device. The player can be started again.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Close()
	p.audio = nil
	return err
}

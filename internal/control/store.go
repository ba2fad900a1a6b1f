package control

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cbegin/radiosauce-go/internal/effects"
	"github.com/cbegin/radiosauce-go/internal/envelope"
	"github.com/cbegin/radiosauce-go/internal/filter"
)

var ErrUnknownParam = errors.New("control: unknown parameter")

// Store holds the live control values. Each parameter is one atomic word
// holding float32 bits, so any goroutine may Set while the audio goroutine
// takes Snapshots. A Snapshot taken between two Sets of different parameters
// may see only the first; callers that need a consistent set go through the
// Requests slot instead.
type Store struct {
	vals [NumParams]atomic.Uint32
}

// NewStore returns a store holding Defaults.
func NewStore() *Store {
	s := &Store{}
	s.Load(Defaults())
	return s
}

// Set clamps v into the parameter range and stores it. Unknown ids are
// ignored.
func (s *Store) Set(id ID, v float32) {
	if id < 0 || id >= NumParams {
		return
	}
	s.vals[id].Store(math.Float32bits(infos[id].Clamp(v)))
}

func (s *Store) Get(id ID) float32 {
	if id < 0 || id >= NumParams {
		return 0
	}
	return math.Float32frombits(s.vals[id].Load())
}

// SetByName sets a parameter by its control name.
func (s *Store) SetByName(name string, v float32) error {
	id, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	s.Set(id, v)
	return nil
}

// Snapshot copies every parameter into an immutable value.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	for i := range s.vals {
		snap.v[i] = math.Float32frombits(s.vals[i].Load())
	}
	return snap
}

// Load writes every value of snap into the store.
func (s *Store) Load(snap Snapshot) {
	for i := range s.vals {
		s.Set(ID(i), snap.v[i])
	}
}

// Snapshot is a complete control set as seen by one render block.
type Snapshot struct {
	v [NumParams]float32
}

// Defaults returns each parameter's default value.
func Defaults() Snapshot {
	var snap Snapshot
	for i, s := range infos {
		snap.v[i] = s.Default
	}
	return snap
}

func (s Snapshot) Get(id ID) float32 {
	if id < 0 || id >= NumParams {
		return 0
	}
	return s.v[id]
}

// With returns a copy of s with id set to the clamped value v.
func (s Snapshot) With(id ID, v float32) Snapshot {
	if id >= 0 && id < NumParams {
		s.v[id] = infos[id].Clamp(v)
	}
	return s
}

func (s Snapshot) Bool(id ID) bool { return s.Get(id) >= 0.5 }

func (s Snapshot) Int(id ID) int { return int(math.Round(float64(s.Get(id)))) }

// VoiceParams is the per-voice slice of a Snapshot.
type VoiceParams struct {
	OscMorph   float64
	SubLevel   float64
	NoiseLevel float64
	FMAmount   float64
	Drive      float64

	FilterMode filter.Mode
	Cutoff     float64
	Resonance  float64
	FiltEnvAmt float64

	AmpEnv    envelope.Params
	FilterEnv envelope.Params
}

func (s Snapshot) VoiceParams() VoiceParams {
	f := func(id ID) float64 { return float64(s.v[id]) }
	return VoiceParams{
		OscMorph:   f(OscMorph),
		SubLevel:   f(SubLevel),
		NoiseLevel: f(NoiseLevel),
		FMAmount:   f(FMAmount),
		Drive:      f(Drive),
		FilterMode: filter.ModeFromIndex(s.Int(FilterType)),
		Cutoff:     f(Cutoff),
		Resonance:  f(Resonance),
		FiltEnvAmt: f(FiltEnvAmt),
		AmpEnv: envelope.Params{
			Attack: f(AmpA), Decay: f(AmpD), Sustain: f(AmpS), Release: f(AmpR),
		},
		FilterEnv: envelope.Params{
			Attack: f(FilA), Decay: f(FilD), Sustain: f(FilS), Release: f(FilR),
		},
	}
}

// EffectParams is the master bus slice of a Snapshot.
func (s Snapshot) EffectParams() effects.Params {
	return effects.Params{
		ChorusMix:      s.v[ChorusMix],
		DelayTimeMs:    float64(s.v[DelayTime]),
		DelayFeedback:  s.v[DelayFdbk],
		DelayMix:       s.v[DelayMix],
		ReverbMix:      s.v[ReverbMix],
		CrushAmount:    s.v[CrushAmt],
		CompAmount:     s.v[CompAmt],
		Width:          s.v[Width],
		LimiterEnabled: s.Bool(LimitOn),
	}
}

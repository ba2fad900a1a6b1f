package voice

import (
	"math"
	"math/rand"

	"github.com/cbegin/radiosauce-go/internal/control"
	"github.com/cbegin/radiosauce-go/internal/envelope"
	"github.com/cbegin/radiosauce-go/internal/filter"
	"github.com/cbegin/radiosauce-go/internal/osc"
)

// SoundKind names the sounds a voice knows how to render.
type SoundKind int

const (
	SoundSauce SoundKind = iota
)

func (k SoundKind) String() string {
	if k == SoundSauce {
		return "sauce"
	}
	return "unknown"
}

// FMRangeHz is the largest per-sample pitch deviation at fmAmount 1.
const FMRangeHz = 15.0

// NoNote is reported by Note when the voice is free.
const NoNote = -1

// MIDI note range accepted by StartNote.
const (
	MinNote = 0
	MaxNote = 127
)

// ValidNote reports whether note is a MIDI note number.
func ValidNote(note int) bool { return note >= MinNote && note <= MaxNote }

// Voice is one monophonic sauce pipeline: morph oscillator, sub oscillator,
// noise, noise FM, envelope swept filter, drive and amplitude envelope.
type Voice struct {
	sampleRate float64
	main       *osc.Morph
	sub        *osc.Morph
	filter     *filter.SVF
	ampEnv     *envelope.ADSR
	filEnv     *envelope.ADSR
	rng        *rand.Rand

	params   control.VoiceParams
	note     int
	velocity float64
	noteHz   float64
	active   bool
}

// New creates a free voice. seed fixes the noise and FM sequence.
func New(sampleRate int, seed int64) *Voice {
	v := &Voice{
		sampleRate: float64(sampleRate),
		main:       osc.New(sampleRate),
		sub:        osc.New(sampleRate),
		filter:     filter.NewSVF(sampleRate, 1),
		ampEnv:     envelope.New(sampleRate),
		filEnv:     envelope.New(sampleRate),
		rng:        rand.New(rand.NewSource(seed)),
		note:       NoNote,
	}
	v.SetControls(control.Defaults().VoiceParams())
	return v
}

func (v *Voice) Kind() SoundKind { return SoundSauce }

// CanPlay reports whether the voice renders sounds of kind k.
func (v *Voice) CanPlay(k SoundKind) bool { return k == SoundSauce }

// SetControls installs the parameters used by the following renders.
func (v *Voice) SetControls(p control.VoiceParams) {
	v.params = p
	v.main.SetMorph(p.OscMorph)
	v.sub.SetMorph(0)
	v.filter.SetMode(p.FilterMode)
	v.filter.SetResonance(p.Resonance)
	v.ampEnv.SetParameters(p.AmpEnv)
	v.filEnv.SetParameters(p.FilterEnv)
}

func (v *Voice) Controls() control.VoiceParams { return v.params }

// StartNote binds the voice to note and triggers both envelopes from their
// current level. Notes outside MinNote..MaxNote are clamped; callers that
// look voices up by note should reject them with ValidNote first. Velocity is
// clamped and kept but does not scale the output.
func (v *Voice) StartNote(note int, velocity float64) {
	note = min(max(note, MinNote), MaxNote)
	v.note = note
	v.velocity = clamp(velocity, 0, 1)
	v.noteHz = NoteHz(note)
	v.main.SetFrequency(v.noteHz)
	v.sub.SetFrequency(v.noteHz * 0.5)
	v.ampEnv.NoteOn()
	v.filEnv.NoteOn()
	v.active = true
}

// StopNote releases the envelopes. Without tail off the voice is freed
// immediately and renders nothing more.
func (v *Voice) StopNote(allowTailOff bool) {
	v.ampEnv.NoteOff()
	v.filEnv.NoteOff()
	if !allowTailOff {
		v.free()
	}
}

func (v *Voice) free() {
	v.active = false
	v.note = NoNote
	v.ampEnv.Reset()
	v.filEnv.Reset()
}

func (v *Voice) Active() bool { return v.active }

// Note returns the bound note or NoNote.
func (v *Voice) Note() int { return v.note }

func (v *Voice) Velocity() float64 { return v.velocity }

// Releasing reports whether the voice is sounding its release tail.
func (v *Voice) Releasing() bool {
	return v.active && v.ampEnv.Stage() == envelope.StageRelease
}

// RenderNextBlock adds n frames of the voice into the interleaved stereo dst,
// starting at frame start. The voice frees itself when the amplitude envelope
// finishes its release.
func (v *Voice) RenderNextBlock(dst []float32, start, n int) {
	if !v.active {
		return
	}
	p := &v.params
	for i := start; i < start+n; i++ {
		dev := (v.rng.Float64()*2 - 1) * p.FMAmount * FMRangeHz
		v.main.SetFrequency(v.noteHz + dev)

		y := v.main.Process() + v.sub.Process()*p.SubLevel
		y += (v.rng.Float64()*2 - 1) * p.NoiseLevel

		v.filter.SetCutoff(filter.ModulatedCutoff(p.Cutoff, p.FiltEnvAmt, v.filEnv.Next()))
		y = v.filter.ProcessSample(0, y)

		y = math.Tanh(y * (1 + p.Drive*6))
		y *= v.ampEnv.Next()

		s := float32(y)
		dst[2*i] += s
		dst[2*i+1] += s

		if !v.ampEnv.Active() {
			v.free()
			return
		}
	}
}

// NoteHz converts a MIDI note number to equal tempered frequency.
func NoteHz(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

func clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

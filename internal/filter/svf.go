package filter

import (
	"math"

	"github.com/cwbudde/algo-approx"
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Mode selects which SVF output is returned.
type Mode int

const (
	Lowpass Mode = iota
	Bandpass
	Highpass
)

// ModeFromIndex maps the filterType control (0=LP, 1=BP, 2=HP) to a Mode.
func ModeFromIndex(i int) Mode {
	switch i {
	case 1:
		return Bandpass
	case 2:
		return Highpass
	default:
		return Lowpass
	}
}

const (
	// MinCutoff is the lowest cutoff the filter will run at.
	MinCutoff = 1.0
	// maxCutoffRatio keeps the cutoff strictly below Nyquist.
	maxCutoffRatio = 0.49
	minResonance   = 0.01
)

// SVF is a zero-delay-feedback (TPT) state variable filter with two
// integrator registers per channel.
type SVF struct {
	sampleRate float64
	mode       Mode
	cutoff     float64
	resonance  float64

	g, k       float64
	a1, a2, a3 float64

	ic1eq []float64
	ic2eq []float64
}

func NewSVF(sampleRate int, channels int) *SVF {
	if channels < 1 {
		channels = 1
	}
	s := &SVF{
		sampleRate: float64(sampleRate),
		ic1eq:      make([]float64, channels),
		ic2eq:      make([]float64, channels),
		resonance:  1 / math.Sqrt2,
	}
	s.SetCutoff(1000)
	return s
}

func (s *SVF) SetMode(m Mode) { s.mode = m }
func (s *SVF) Mode() Mode     { return s.mode }

// Cutoff returns the clamped cutoff currently in use.
func (s *SVF) Cutoff() float64 { return s.cutoff }

// SetCutoff clamps hz into [MinCutoff, 0.49*sampleRate].
func (s *SVF) SetCutoff(hz float64) {
	hz = ClampCutoff(hz, s.sampleRate)
	if hz == s.cutoff && s.g != 0 {
		return
	}
	s.cutoff = hz
	s.g = math.Tan(math.Pi * hz / s.sampleRate)
	s.update()
}

// SetResonance sets Q. The damping term is 1/Q, so Q is floored above zero.
func (s *SVF) SetResonance(q float64) {
	if q < minResonance || math.IsNaN(q) {
		q = minResonance
	}
	if q == s.resonance && s.k != 0 {
		return
	}
	s.resonance = q
	s.update()
}

func (s *SVF) update() {
	s.k = 1 / s.resonance
	s.a1 = 1 / (1 + s.g*(s.g+s.k))
	s.a2 = s.g * s.a1
	s.a3 = s.g * s.a2
}

func (s *SVF) Reset() {
	for i := range s.ic1eq {
		s.ic1eq[i] = 0
		s.ic2eq[i] = 0
	}
}

// ProcessSample filters one sample on the given channel.
func (s *SVF) ProcessSample(ch int, x float64) float64 {
	ic1, ic2 := s.ic1eq[ch], s.ic2eq[ch]
	v3 := x - ic2
	v1 := s.a1*ic1 + s.a2*v3
	v2 := ic2 + s.a2*ic1 + s.a3*v3
	s.ic1eq[ch] = dspcore.FlushDenormals(2*v1 - ic1)
	s.ic2eq[ch] = dspcore.FlushDenormals(2*v2 - ic2)

	switch s.mode {
	case Bandpass:
		return v1
	case Highpass:
		return x - s.k*v1 - v2
	default:
		return v2
	}
}

// ClampCutoff keeps hz inside the stable range for sampleRate.
func ClampCutoff(hz, sampleRate float64) float64 {
	if math.IsNaN(hz) || hz < MinCutoff {
		return MinCutoff
	}
	if hi := sampleRate * maxCutoffRatio; hz > hi {
		return hi
	}
	return hz
}

// ModulatedCutoff applies the envelope law base * 2^(envAmt*(envLevel-0.5)).
// envAmt is a bipolar depth in octaves; envLevel 0.5 leaves base unchanged.
// The result is not clamped.
func ModulatedCutoff(base, envAmt, envLevel float64) float64 {
	if envAmt == 0 {
		return base
	}
	return base * float64(pow2(float32(envAmt*(envLevel-0.5))))
}

func pow2(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

package osc

import "math"

const twoPi = math.Pi * 2

// Morph is a naive sine/saw/square oscillator with a continuous blend control.
// morph 0 is sine, 0.5 is saw, 1 is square. Saw and square are not
// band-limited.
type Morph struct {
	sampleRate float64
	phase      float64 // [0, 2pi)
	freq       float64
	morph      float64
}

func New(sampleRate int) *Morph {
	return &Morph{sampleRate: float64(sampleRate), freq: 100}
}

func (o *Morph) SetFrequency(hz float64) { o.freq = hz }

func (o *Morph) Frequency() float64 { return o.freq }

// SetMorph sets the blend position, clamped to [0,1].
func (o *Morph) SetMorph(m float64) {
	if m < 0 {
		m = 0
	}
	if m > 1 {
		m = 1
	}
	o.morph = m
}

func (o *Morph) Phase() float64 { return o.phase }

// Reset zeros the phase.
func (o *Morph) Reset() { o.phase = 0 }

// Process advances the phase by one sample and returns the blended wave.
func (o *Morph) Process() float64 {
	o.phase += twoPi * o.freq / o.sampleRate
	if o.phase >= twoPi || o.phase < 0 {
		o.phase = math.Mod(o.phase, twoPi)
		if o.phase < 0 {
			o.phase += twoPi
		}
		if o.phase >= twoPi {
			o.phase = 0
		}
	}

	s := math.Sin(o.phase)
	saw := o.phase/math.Pi - 1
	sq := 1.0
	if s < 0 {
		sq = -1
	}

	m := o.morph * 2
	if m <= 1 {
		return s + (saw-s)*m
	}
	return saw + (sq-saw)*(m-1)
}

package lfo

import "math"

// Waveform selects the LFO shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
)

// LFO is a low-frequency oscillator that produces one modulation value per
// sample. Phase is kept in cycles, [0, 1).
type LFO struct {
	depth    float64 // output is scaled to [-depth, +depth]
	rateHz   float64
	waveform Waveform
	phase    float64
	offset   float64 // phase offset in cycles, applied at read time
}

// Set configures the LFO. Unknown waveforms fall back to sine.
func (l *LFO) Set(depth, rateHz float64, waveform Waveform) {
	l.depth = depth
	l.rateHz = rateHz
	if waveform != WaveTriangle {
		waveform = WaveSine
	}
	l.waveform = waveform
}

// SetOffset shifts the read phase by the given fraction of a cycle. Two LFOs
// with the same rate and different offsets keep that distance.
func (l *LFO) SetOffset(cycles float64) {
	l.offset = cycles - math.Floor(cycles)
}

// Sample returns the value at the current phase and advances by one sample.
// It returns 0 if depth or rate is zero.
func (l *LFO) Sample(sampleRate float64) float64 {
	if l.depth == 0 || l.rateHz == 0 || sampleRate == 0 {
		return 0
	}
	p := l.phase + l.offset
	if p >= 1 {
		p -= 1
	}

	var v float64
	switch l.waveform {
	case WaveTriangle:
		if p < 0.5 {
			v = 4*p - 1
		} else {
			v = 3 - 4*p
		}
	default:
		v = math.Sin(2 * math.Pi * p)
	}

	l.phase += l.rateHz / sampleRate
	for l.phase >= 1 {
		l.phase -= 1
	}
	return v * l.depth
}

func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

// Reset zeros the phase; the offset is kept.
func (l *LFO) Reset() {
	l.phase = 0
}

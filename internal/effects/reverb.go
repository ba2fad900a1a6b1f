package effects

import (
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Reverb is a stereo Schroeder/Moorer network: eight damped comb filters in
// parallel followed by four allpass filters per channel. The right channel's
// delay lengths are offset by a small stereo spread.
type Reverb struct {
	combsL, combsR     [8]combFilter
	allpassL, allpassR [4]allpassFilter
	params             ReverbParams
	wet1, wet2         float32
	dry                float32
}

// ReverbParams controls the reverb voicing. All values are 0..1.
type ReverbParams struct {
	RoomSize float32
	Damping  float32
	Wet      float32
	Dry      float32
	Width    float32
}

func DefaultReverbParams() ReverbParams {
	return ReverbParams{RoomSize: 0.45, Damping: 0.35, Wet: 0, Dry: 1, Width: 1}
}

const (
	reverbInputGain = 0.015
	reverbWetScale  = 3
	roomScale       = 0.28
	roomOffset      = 0.7
	dampScale       = 0.4
	stereoSpread    = 23
)

// Tunings in samples at 44.1kHz.
var (
	combTunings    = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [4]int{556, 441, 341, 225}
)

type combFilter struct {
	buf   []float32
	pos   int
	fb    float32
	damp  float32
	store float32
}

type allpassFilter struct {
	buf []float32
	pos int
	fb  float32
}

// NewReverb creates a reverb with delay lengths scaled to sampleRate.
func NewReverb(sampleRate int, p ReverbParams) *Reverb {
	scale := float64(sampleRate) / 44100.0
	length := func(n int) int {
		return maxInt(int(float64(n)*scale), 1)
	}
	r := &Reverb{}
	for i, n := range combTunings {
		r.combsL[i] = combFilter{buf: make([]float32, length(n))}
		r.combsR[i] = combFilter{buf: make([]float32, length(n+stereoSpread))}
	}
	for i, n := range allpassTunings {
		r.allpassL[i] = allpassFilter{buf: make([]float32, length(n)), fb: 0.5}
		r.allpassR[i] = allpassFilter{buf: make([]float32, length(n+stereoSpread)), fb: 0.5}
	}
	r.SetParams(p)
	return r
}

// SetParams clamps and applies p. Delay memory is preserved.
func (r *Reverb) SetParams(p ReverbParams) {
	p.RoomSize = clamp(p.RoomSize, 0, 1)
	p.Damping = clamp(p.Damping, 0, 1)
	p.Wet = clamp(p.Wet, 0, 1)
	p.Dry = clamp(p.Dry, 0, 1)
	p.Width = clamp(p.Width, 0, 1)
	r.params = p

	wet := p.Wet * reverbWetScale
	r.wet1 = 0.5 * wet * (1 + p.Width)
	r.wet2 = 0.5 * wet * (1 - p.Width)
	r.dry = p.Dry

	fb := p.RoomSize*roomScale + roomOffset
	damp := p.Damping * dampScale
	for i := range r.combsL {
		r.combsL[i].fb, r.combsL[i].damp = fb, damp
		r.combsR[i].fb, r.combsR[i].damp = fb, damp
	}
}

func (r *Reverb) Params() ReverbParams { return r.params }

func (r *Reverb) Process(l, r2 float32) (float32, float32) {
	in := (l + r2) * reverbInputGain
	var outL, outR float32
	for i := range r.combsL {
		outL += r.combsL[i].process(in)
		outR += r.combsR[i].process(in)
	}
	for i := range r.allpassL {
		outL = r.allpassL[i].process(outL)
		outR = r.allpassR[i].process(outR)
	}
	return l*r.dry + outL*r.wet1 + outR*r.wet2,
		r2*r.dry + outR*r.wet1 + outL*r.wet2
}

func (r *Reverb) Reset() {
	for i := range r.combsL {
		r.combsL[i].reset()
		r.combsR[i].reset()
	}
	for i := range r.allpassL {
		r.allpassL[i].reset()
		r.allpassR[i].reset()
	}
}

func (c *combFilter) process(in float32) float32 {
	out := c.buf[c.pos]
	c.store = float32(dspcore.FlushDenormals(float64(out*(1-c.damp) + c.store*c.damp)))
	c.buf[c.pos] = in + c.store*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *combFilter) reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.pos = 0
	c.store = 0
}

func (a *allpassFilter) process(in float32) float32 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (a *allpassFilter) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.pos = 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package effects

import (
	"github.com/cwbudde/algo-dsp/dsp/delay"

	"github.com/cbegin/radiosauce-go/internal/lfo"
)

// Chorus implements a stereo modulated delay. The right channel's LFO runs a
// quarter cycle ahead of the left so the two sides decorrelate.
type Chorus struct {
	sampleRate float64
	lineL      *delay.Line
	lineR      *delay.Line
	size       int
	centre     float32 // base delay in samples
	lfoL, lfoR lfo.LFO
	feedback   float32
	wet        float32
}

// ChorusParams mirrors the fixed voicing of the master chorus.
type ChorusParams struct {
	CentreMs float64 // base delay time
	Depth    float64 // 0..1, scales MaxSweepMs
	RateHz   float64
	Feedback float32
	Mix      float32
}

// MaxSweepMs is the delay sweep at Depth 1.
const MaxSweepMs = 5.0

func DefaultChorusParams() ChorusParams {
	return ChorusParams{CentreMs: 7, Depth: 0.5, RateHz: 0.25, Feedback: 0.1}
}

// NewChorus creates a chorus with room for CentreMs + MaxSweepMs of delay.
func NewChorus(sampleRate int, p ChorusParams) *Chorus {
	sr := float64(sampleRate)
	size := int((p.CentreMs+MaxSweepMs)*sr/1000.0) + 4
	c := &Chorus{
		sampleRate: sr,
		lineL:      newLine(size),
		lineR:      newLine(size),
		size:       size,
	}
	c.lfoR.SetOffset(0.25)
	c.SetParams(p)
	return c
}

// SetParams updates the voicing without clearing the delay memory.
func (c *Chorus) SetParams(p ChorusParams) {
	maxCentre := float64(c.size-3)*1000/c.sampleRate - MaxSweepMs
	if p.CentreMs > maxCentre {
		p.CentreMs = maxCentre
	}
	if p.CentreMs < MaxSweepMs {
		p.CentreMs = MaxSweepMs
	}
	depth := clamp(float32(p.Depth), 0, 1)
	sweep := float64(depth) * MaxSweepMs * c.sampleRate / 1000.0
	c.centre = float32(p.CentreMs * c.sampleRate / 1000.0)
	c.lfoL.Set(sweep/2, p.RateHz, lfo.WaveSine)
	c.lfoR.Set(sweep/2, p.RateHz, lfo.WaveSine)
	c.feedback = clamp(p.Feedback, 0, 0.9)
	c.wet = clamp(p.Mix, 0, 1)
}

// SetMix sets the wet/dry balance, clamped to [0,1].
func (c *Chorus) SetMix(mix float32) {
	c.wet = clamp(mix, 0, 1)
}

func (c *Chorus) Process(l, r float32) (float32, float32) {
	delL := float32(c.lineL.ReadFractional(float64(c.centre) + c.lfoL.Sample(c.sampleRate)))
	delR := float32(c.lineR.ReadFractional(float64(c.centre) + c.lfoR.Sample(c.sampleRate)))

	c.lineL.Write(float64(l + delL*c.feedback))
	c.lineR.Write(float64(r + delR*c.feedback))
	return l*(1-c.wet) + delL*c.wet, r*(1-c.wet) + delR*c.wet
}

func (c *Chorus) Reset() {
	c.lineL.Reset()
	c.lineR.Reset()
	c.lfoL.Reset()
	c.lfoR.Reset()
}

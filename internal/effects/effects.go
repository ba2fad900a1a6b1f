package effects

// Effector processes stereo audio one frame at a time.
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Params is the master effects control set. Ranges are enforced by
// SetParameters.
type Params struct {
	ChorusMix      float32 // 0..1
	DelayTimeMs    float64 // clamped to the delay line capacity
	DelayFeedback  float32 // 0..MaxFeedback
	DelayMix       float32 // 0..1, smoothed
	ReverbMix      float32 // 0..1
	CrushAmount    float32 // 0..1
	CompAmount     float32 // 0..1, makeup into the soft clipper
	Width          float32 // 0..1, smoothed, 0.5 neutral
	LimiterEnabled bool
}

// Chain is the fixed master effects topology:
//
//	chorus -> reverb -> per frame {crush -> delay -> soft clip -> width} -> limiter
//
// Chorus and reverb run across the whole block before the per-frame stage.
type Chain struct {
	block []Effector // chorus, reverb

	chorus    *Chorus
	reverb    *Reverb
	crusher   Crusher
	delay     *Delay
	saturator *Saturator
	delayMix  *Smoother
	width     *Smoother
	limitOn   bool
	primed    bool
}

func NewChain(sampleRate int) *Chain {
	c := &Chain{
		chorus:    NewChorus(sampleRate, DefaultChorusParams()),
		reverb:    NewReverb(sampleRate, DefaultReverbParams()),
		delay:     NewDelay(sampleRate),
		saturator: NewSaturator(),
		delayMix:  NewSmoother(sampleRate, RampSeconds),
		width:     NewSmoother(sampleRate, RampSeconds),
		limitOn:   true,
	}
	c.block = []Effector{c.chorus, c.reverb}
	c.width.SetImmediate(0.5)
	return c
}

// SetParameters applies p for the next ProcessBlock. The first call after
// NewChain or Reset jumps the smoothed values to their targets; later calls
// ramp over RampSeconds.
func (c *Chain) SetParameters(p Params) {
	c.chorus.SetMix(p.ChorusMix)

	rp := c.reverb.Params()
	rp.Wet = clamp(p.ReverbMix, 0, 1)
	rp.Dry = 1 - rp.Wet
	c.reverb.SetParams(rp)

	c.crusher.SetAmount(p.CrushAmount)
	c.delay.SetTimeMs(p.DelayTimeMs)
	c.delay.SetFeedback(p.DelayFeedback)
	c.saturator.SetAmount(p.CompAmount)
	c.limitOn = p.LimiterEnabled

	mix := clamp(p.DelayMix, 0, 1)
	width := clamp(p.Width, 0, 1)
	if !c.primed {
		c.delayMix.SetImmediate(mix)
		c.width.SetImmediate(width)
		c.primed = true
		return
	}
	c.delayMix.SetTarget(mix)
	c.width.SetTarget(width)
}

// ProcessBlock processes an interleaved stereo buffer in place.
func (c *Chain) ProcessBlock(buf []float32) {
	for _, e := range c.block {
		for i := 0; i+1 < len(buf); i += 2 {
			buf[i], buf[i+1] = e.Process(buf[i], buf[i+1])
		}
	}
	for i := 0; i+1 < len(buf); i += 2 {
		l := c.crusher.Process(buf[i])
		r := c.crusher.Process(buf[i+1])
		l, r = c.delay.ProcessFrame(l, r, c.delayMix.Next())
		l = c.saturator.Process(l)
		r = c.saturator.Process(r)
		l, r = Width(l, r, c.width.Next())
		if c.limitOn {
			l, r = Limit(l), Limit(r)
		}
		buf[i], buf[i+1] = l, r
	}
}

func (c *Chain) Reset() {
	for _, e := range c.block {
		e.Reset()
	}
	c.delay.Reset()
	c.primed = false
}

// Delay exposes the delay unit for inspection.
func (c *Chain) Delay() *Delay { return c.delay }

// Crusher exposes the bitcrusher for inspection.
func (c *Chain) Crusher() *Crusher { return &c.crusher }

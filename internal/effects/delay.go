package effects

import (
	"fmt"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/delay"
)

// MaxDelaySeconds is the capacity of each delay line.
const MaxDelaySeconds = 2.0

// MaxFeedback keeps the feedback loop below unity gain.
const MaxFeedback = 0.95

// Delay is a stereo feedback delay with one line per channel. The lines are
// zeroed on creation and Reset, so reads of positions not yet written in this
// session return silence.
type Delay struct {
	sampleRate float64
	lineL      *delay.Line
	lineR      *delay.Line
	delay      int // samples
	feedback   float32
}

// NewDelay allocates MaxDelaySeconds of memory per channel.
func NewDelay(sampleRate int) *Delay {
	capacity := max(int(MaxDelaySeconds*float64(sampleRate)), 2)
	return &Delay{
		sampleRate: float64(sampleRate),
		lineL:      newLine(capacity),
		lineR:      newLine(capacity),
		delay:      1,
	}
}

// newLine allocates a zeroed line. Sizes here are derived from validated
// sample rates and floored, so a failure is a programming error.
func newLine(size int) *delay.Line {
	l, err := delay.New(size)
	if err != nil {
		panic(fmt.Sprintf("effects: %v", err))
	}
	return l
}

// Capacity returns the line length in samples.
func (d *Delay) Capacity() int { return d.lineL.Len() }

// DelaySamples returns the clamped delay currently in use.
func (d *Delay) DelaySamples() int { return d.delay }

// SetDelaySamples clamps n into [1, Capacity-1].
func (d *Delay) SetDelaySamples(n int) {
	d.delay = min(max(n, 1), d.Capacity()-1)
}

// SetTimeMs converts ms at the operating sample rate and clamps to capacity.
func (d *Delay) SetTimeMs(ms float64) {
	n := ms * d.sampleRate / 1000.0
	if n != n || n < 1 {
		n = 1
	}
	if hi := float64(d.Capacity() - 1); n > hi {
		n = hi
	}
	d.SetDelaySamples(int(n + 0.5))
}

// SetFeedback clamps fb into [0, MaxFeedback].
func (d *Delay) SetFeedback(fb float32) {
	d.feedback = clamp(fb, 0, MaxFeedback)
}

func (d *Delay) Feedback() float32 { return d.feedback }

// ProcessFrame reads the delayed pair, feeds input plus feedback back into the
// lines and returns the dry/delayed crossfade for the given mix.
func (d *Delay) ProcessFrame(l, r, mix float32) (float32, float32) {
	delL := d.lineL.Read(d.delay)
	delR := d.lineR.Read(d.delay)
	fb := float64(d.feedback)
	d.lineL.Write(dspcore.FlushDenormals(float64(l) + delL*fb))
	d.lineR.Write(dspcore.FlushDenormals(float64(r) + delR*fb))
	return l*(1-mix) + float32(delL)*mix, r*(1-mix) + float32(delR)*mix
}

func (d *Delay) Reset() {
	d.lineL.Reset()
	d.lineR.Reset()
}

func clamp(v, lo, hi float32) float32 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

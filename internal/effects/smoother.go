package effects

// RampSeconds is the ramp length used for delay mix and width changes.
const RampSeconds = 0.05

// Smoother ramps linearly toward a target over a fixed number of samples.
type Smoother struct {
	current   float32
	target    float32
	step      float32
	remaining int
	rampLen   int
}

// NewSmoother creates a smoother with a ramp of rampSec seconds.
func NewSmoother(sampleRate int, rampSec float64) *Smoother {
	n := int(rampSec * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	return &Smoother{rampLen: n}
}

// SetTarget starts a new ramp from the current value. Setting the same target
// again does not restart the ramp.
func (s *Smoother) SetTarget(v float32) {
	if v == s.target {
		return
	}
	s.target = v
	s.remaining = s.rampLen
	s.step = (s.target - s.current) / float32(s.rampLen)
}

// SetImmediate jumps to v with no ramp.
func (s *Smoother) SetImmediate(v float32) {
	s.current = v
	s.target = v
	s.remaining = 0
	s.step = 0
}

// Next advances one sample and returns the smoothed value.
func (s *Smoother) Next() float32 {
	if s.remaining <= 0 {
		return s.current
	}
	s.remaining--
	if s.remaining == 0 {
		s.current = s.target
	} else {
		s.current += s.step
	}
	return s.current
}

func (s *Smoother) Current() float32 { return s.current }
func (s *Smoother) Target() float32  { return s.target }
func (s *Smoother) Ramping() bool    { return s.remaining > 0 }

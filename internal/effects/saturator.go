package effects

import "math"

const (
	// MaxMakeupDB is the output gain at full compAmount.
	MaxMakeupDB = 6.0
	clipDrive   = 1.2
)

// Saturator is the master soft clipper. compAmount only sets makeup gain into
// the tanh curve; there is no level detector or threshold.
type Saturator struct {
	makeup float32
}

func NewSaturator() *Saturator {
	return &Saturator{makeup: 1}
}

// SetAmount maps amount in [0,1] to 0..MaxMakeupDB of makeup gain.
func (s *Saturator) SetAmount(amount float32) {
	db := float64(clamp(amount, 0, 1)) * MaxMakeupDB
	s.makeup = float32(math.Pow(10, db/20))
}

func (s *Saturator) Makeup() float32 { return s.makeup }

func (s *Saturator) Process(x float32) float32 {
	return float32(math.Tanh(float64(x * s.makeup * clipDrive)))
}

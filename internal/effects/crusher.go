package effects

import "math"

// MaxCrushSteps is the number of quantizer levels at full crush.
const MaxCrushSteps = 64

// Crusher is a staircase quantizer over [-1,1].
type Crusher struct {
	steps float32
	step  float32
}

// SetAmount maps amount in [0,1] linearly onto [0, MaxCrushSteps] levels.
func (c *Crusher) SetAmount(amount float32) {
	c.steps = clamp(amount, 0, 1) * MaxCrushSteps
	if c.steps > 1 {
		c.step = 2 / c.steps
	} else {
		c.step = 0
	}
}

func (c *Crusher) Steps() float32 { return c.steps }

// Process quantizes x. With one step or fewer the input is returned untouched.
func (c *Crusher) Process(x float32) float32 {
	if c.steps <= 1 {
		return x
	}
	return float32(math.Floor(float64((x+1)/c.step)))*c.step - 1
}

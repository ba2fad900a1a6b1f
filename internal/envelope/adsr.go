package envelope

import "math"

// Stage is the current envelope segment.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "idle"
	}
}

// MinTime is the floor applied to attack, decay and release times.
const MinTime = 0.0005

// overshoot is how far past the segment end each one-pole target sits, as a
// fraction of the segment range. It makes every segment finish in finite time.
const overshoot = 0.3

// Params holds segment times in seconds and the sustain level in [0,1].
type Params struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// DefaultParams mirrors the voice defaults used by the engines.
func DefaultParams() Params {
	return Params{Attack: 0.005, Decay: 0.12, Sustain: 0.75, Release: 0.2}
}

// ADSR is an exponential attack/decay/sustain/release generator. Every
// transition starts from the current level, so the output never jumps.
type ADSR struct {
	sampleRate float64
	params     Params

	attackCoef  float64
	decayCoef   float64
	releaseCoef float64

	stage Stage
	level float64
}

func New(sampleRate int) *ADSR {
	e := &ADSR{sampleRate: float64(sampleRate)}
	e.SetParameters(DefaultParams())
	return e
}

// SetParameters floors the times to MinTime and clamps sustain to [0,1].
// Coefficients are only recomputed when a value changes.
func (e *ADSR) SetParameters(p Params) {
	p.Attack = floorTime(p.Attack)
	p.Decay = floorTime(p.Decay)
	p.Release = floorTime(p.Release)
	if p.Sustain < 0 || math.IsNaN(p.Sustain) {
		p.Sustain = 0
	}
	if p.Sustain > 1 {
		p.Sustain = 1
	}
	if p == e.params && e.attackCoef != 0 {
		return
	}
	e.params = p
	e.attackCoef = segmentCoef(p.Attack, e.sampleRate)
	e.decayCoef = segmentCoef(p.Decay, e.sampleRate)
	e.releaseCoef = segmentCoef(p.Release, e.sampleRate)
}

func (e *ADSR) Params() Params { return e.params }

// NoteOn restarts the attack from the current level.
func (e *ADSR) NoteOn() {
	e.stage = StageAttack
}

// NoteOff releases from the current level. It is a no-op when idle.
func (e *ADSR) NoteOff() {
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

// Reset forces the envelope to idle at zero.
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.level = 0
}

func (e *ADSR) Stage() Stage   { return e.stage }
func (e *ADSR) Level() float64 { return e.level }
func (e *ADSR) Active() bool   { return e.stage != StageIdle }

// Next advances one sample and returns the new level.
func (e *ADSR) Next() float64 {
	switch e.stage {
	case StageAttack:
		e.level += e.attackCoef * (1 + overshoot - e.level)
		if e.level >= 1 {
			e.level = 1
			e.stage = StageDecay
		}
	case StageDecay:
		s := e.params.Sustain
		if e.level <= s {
			// Sustain was raised above the current level; hold there.
			e.stage = StageSustain
			break
		}
		e.level += e.decayCoef * (s - overshoot*(1-s) - e.level)
		if e.level <= s {
			e.level = s
			e.stage = StageSustain
		}
	case StageSustain:
		// Glide toward a changed sustain level instead of stepping.
		e.level += e.decayCoef * (e.params.Sustain - e.level)
	case StageRelease:
		e.level += e.releaseCoef * (-overshoot - e.level)
		if e.level <= 0 {
			e.level = 0
			e.stage = StageIdle
		}
	case StageIdle:
		e.level = 0
	}
	return e.level
}

func floorTime(sec float64) float64 {
	if sec < MinTime || math.IsNaN(sec) {
		return MinTime
	}
	return sec
}

// segmentCoef returns the one-pole coefficient that carries a full-range
// segment from its start to its end in sec seconds.
func segmentCoef(sec, sampleRate float64) float64 {
	tau := sec / math.Log((1+overshoot)/overshoot)
	return 1 - math.Exp(-1/(tau*sampleRate))
}

package control

import "math"

// Macro offsets at full travel.
const (
	biteDrive     = 0.5
	biteResonance = 0.4
	biteEnvAmt    = 0.5

	bodySub     = 0.5
	bodyOctaves = -1.5
	bodyComp    = 0.4

	airNoise   = 0.1
	airOctaves = 1.5
	airReverb  = 0.2

	spaceReverb = 0.35
	spaceDelay  = 0.3
	spaceChorus = 0.3
	spaceWidth  = 0.4
)

// ResolveMacros folds the four macro controls into the parameters they steer
// and returns the result. A macro at 0 leaves the snapshot unchanged; every
// target is re-clamped to its range.
func ResolveMacros(s Snapshot) Snapshot {
	bite := s.Get(MacroBite)
	body := s.Get(MacroBody)
	air := s.Get(MacroAir)
	space := s.Get(MacroSpace)
	if bite == 0 && body == 0 && air == 0 && space == 0 {
		return s
	}

	add := func(id ID, d float32) {
		if d != 0 {
			s = s.With(id, s.Get(id)+d)
		}
	}

	add(Drive, bite*biteDrive)
	add(Resonance, bite*biteResonance)
	add(FiltEnvAmt, bite*biteEnvAmt)

	add(SubLevel, body*bodySub)
	add(CompAmt, body*bodyComp)

	add(NoiseLevel, air*airNoise)
	add(ReverbMix, air*airReverb+space*spaceReverb)

	add(DelayMix, space*spaceDelay)
	add(ChorusMix, space*spaceChorus)
	add(Width, space*spaceWidth)

	if oct := body*bodyOctaves + air*airOctaves; oct != 0 {
		s = s.With(Cutoff, s.Get(Cutoff)*float32(math.Exp2(float64(oct))))
	}
	return s
}

package control

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/cbegin/radiosauce-go/internal/filter"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	tests := []struct {
		id   ID
		want float32
	}{
		{OscMorph, 0.5},
		{FilterType, 0},
		{Cutoff, 1200},
		{Resonance, 0.65},
		{FiltEnvAmt, 0},
		{DelayTime, 755},
		{LimitOn, 1},
		{MacroBite, 0},
		{MacroSpace, 0},
		{Style, 0},
	}
	for _, tt := range tests {
		if got := d.Get(tt.id); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("default %s = %v, want %v", tt.id, got, tt.want)
		}
	}
	if ResolveMacros(d) != d {
		t.Fatalf("default macros should be neutral")
	}
}

func TestStoreClamps(t *testing.T) {
	s := NewStore()
	tests := []struct {
		id   ID
		in   float32
		want float32
	}{
		{Cutoff, 5, 20},
		{Cutoff, 1e6, 20000},
		{Resonance, 0, 0.1},
		{AmpA, 0, 0.001},
		{AmpR, 10, 2},
		{DelayFdbk, 1, 0.95},
		{DelayTime, 3000, 1500},
		{FilterType, 1.6, 2},
		{FilterType, -3, 0},
		{LimitOn, 0.2, 0},
		{Style, 7, 2},
		{CrushAmt, float32(math.NaN()), 0.5},
	}
	for _, tt := range tests {
		s.Set(tt.id, tt.in)
		if got := s.Get(tt.id); got != tt.want {
			t.Errorf("Set(%s, %v) stored %v, want %v", tt.id, tt.in, got, tt.want)
		}
	}
}

func TestSetByName(t *testing.T) {
	s := NewStore()
	if err := s.SetByName("cutoff", 440); err != nil {
		t.Fatalf("SetByName: %v", err)
	}
	if got := s.Get(Cutoff); got != 440 {
		t.Fatalf("cutoff = %v, want 440", got)
	}
	err := s.SetByName("wobble", 1)
	if !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("unknown name error = %v, want ErrUnknownParam", err)
	}
	for id := ID(0); id < NumParams; id++ {
		got, ok := Lookup(id.String())
		if !ok || got != id {
			t.Errorf("Lookup(%q) = %v, %v", id.String(), got, ok)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Set(Cutoff, 500)
	snap := s.Snapshot()
	s.Set(Cutoff, 900)
	if got := snap.Get(Cutoff); got != 500 {
		t.Fatalf("snapshot changed after Set: %v", got)
	}
	if got := s.Snapshot().Get(Cutoff); got != 900 {
		t.Fatalf("fresh snapshot = %v, want 900", got)
	}
}

func TestSnapshotViews(t *testing.T) {
	s := NewStore()
	s.Set(FilterType, 2)
	s.Set(AmpA, 0.01)
	s.Set(FilS, 0.3)
	s.Set(DelayTime, 250)
	s.Set(LimitOn, 0)
	snap := s.Snapshot()

	vp := snap.VoiceParams()
	if vp.FilterMode != filter.Highpass {
		t.Errorf("filter mode = %v, want highpass", vp.FilterMode)
	}
	if math.Abs(vp.AmpEnv.Attack-0.01) > 1e-6 {
		t.Errorf("amp attack = %v", vp.AmpEnv.Attack)
	}
	if math.Abs(vp.FilterEnv.Sustain-0.3) > 1e-6 {
		t.Errorf("filter sustain = %v", vp.FilterEnv.Sustain)
	}

	ep := snap.EffectParams()
	if ep.DelayTimeMs != 250 {
		t.Errorf("delay time = %v", ep.DelayTimeMs)
	}
	if ep.LimiterEnabled {
		t.Errorf("limiter should be off")
	}
}

func TestApplyStyle(t *testing.T) {
	tests := []struct {
		style     int
		wantStyle float32
		cutoff    float32
		sub       float32
		comp      float32
	}{
		{StylePopGloss, 0, 8000, 0.15, 0.35},
		{StyleTrap808, 1, 180, 0.7, 0.55},
		{StyleRnBSilk, 2, 3200, 0.25, 0.25},
		{9, 2, 3200, 0.25, 0.25},
		{-1, 2, 3200, 0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(StyleName(tt.style), func(t *testing.T) {
			s := NewStore()
			s.Set(AmpA, 0.42)
			ApplyStyle(s, tt.style)
			if got := s.Get(Cutoff); got != tt.cutoff {
				t.Errorf("cutoff = %v, want %v", got, tt.cutoff)
			}
			if got := s.Get(SubLevel); got != tt.sub {
				t.Errorf("subLevel = %v, want %v", got, tt.sub)
			}
			if got := s.Get(CompAmt); got != tt.comp {
				t.Errorf("compAmt = %v, want %v", got, tt.comp)
			}
			if got := s.Get(Style); got != tt.wantStyle {
				t.Errorf("style = %v, want %v", got, tt.wantStyle)
			}
			if got := s.Get(AmpA); got != 0.42 {
				t.Errorf("style touched ampA: %v", got)
			}
		})
	}
}

func TestTrapStyleForcesLowpass(t *testing.T) {
	s := NewStore()
	s.Set(FilterType, 2)
	ApplyStyle(s, StyleTrap808)
	if got := s.Get(FilterType); got != 0 {
		t.Fatalf("filterType = %v, want 0", got)
	}
}

func TestRandomizeSauceRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore()
	s.Set(AmpA, 0.33)
	seen := map[float32]bool{}
	for i := 0; i < 500; i++ {
		RandomizeSauce(s, rng)
		for _, r := range sauceRanges {
			v := s.Get(r.id)
			if v < r.lo || v > r.hi {
				t.Fatalf("iteration %d: %s = %v outside [%v,%v]", i, r.id, v, r.lo, r.hi)
			}
		}
		seen[s.Get(FilterType)] = true
	}
	if len(seen) != 3 {
		t.Fatalf("filter types drawn = %v, want all three", seen)
	}
	if got := s.Get(AmpA); got != 0.33 {
		t.Fatalf("randomize touched ampA: %v", got)
	}
}

func TestRandomizeSauceDeterministic(t *testing.T) {
	a, b := NewStore(), NewStore()
	RandomizeSauce(a, rand.New(rand.NewSource(42)))
	RandomizeSauce(b, rand.New(rand.NewSource(42)))
	if a.Snapshot() != b.Snapshot() {
		t.Fatalf("same seed produced different patches")
	}
}

func TestResolveMacros(t *testing.T) {
	base := Defaults().
		With(Drive, 0.2).
		With(Cutoff, 1000).
		With(ReverbMix, 0.1).
		With(Width, 0.5)

	t.Run("bite", func(t *testing.T) {
		got := ResolveMacros(base.With(MacroBite, 1))
		if v := got.Get(Drive); math.Abs(float64(v-0.7)) > 1e-6 {
			t.Errorf("drive = %v, want 0.7", v)
		}
		if v := got.Get(Cutoff); v != 1000 {
			t.Errorf("bite moved cutoff: %v", v)
		}
	})
	t.Run("body and air cancel on cutoff", func(t *testing.T) {
		got := ResolveMacros(base.With(MacroBody, 1).With(MacroAir, 1))
		if v := got.Get(Cutoff); math.Abs(float64(v-1000)) > 1e-3 {
			t.Errorf("cutoff = %v, want 1000", v)
		}
	})
	t.Run("air raises cutoff", func(t *testing.T) {
		got := ResolveMacros(base.With(MacroAir, 1))
		want := 1000 * math.Exp2(1.5)
		if v := float64(got.Get(Cutoff)); math.Abs(v-want) > 0.01 {
			t.Errorf("cutoff = %v, want %v", v, want)
		}
	})
	t.Run("space clamps", func(t *testing.T) {
		got := ResolveMacros(base.With(MacroSpace, 1).With(ReverbMix, 0.9).With(Width, 0.9))
		if v := got.Get(ReverbMix); v != 1 {
			t.Errorf("reverbMix = %v, want 1", v)
		}
		if v := got.Get(Width); v != 1 {
			t.Errorf("width = %v, want 1", v)
		}
	})
	t.Run("input untouched", func(t *testing.T) {
		in := base.With(MacroBite, 1)
		_ = ResolveMacros(in)
		if in.Get(Drive) != 0.2 {
			t.Errorf("ResolveMacros mutated its input")
		}
	})
}

func TestRequestsTakeOnce(t *testing.T) {
	var r Requests
	if _, ok := r.Take(); ok {
		t.Fatalf("empty slot reported a request")
	}
	r.RequestNewSauce()
	q, ok := r.Take()
	if !ok || q != RequestNewSauce {
		t.Fatalf("Take = %v, %v", q, ok)
	}
	if _, ok := r.Take(); ok {
		t.Fatalf("request consumed twice")
	}
}

func TestRequestsLatestWins(t *testing.T) {
	var r Requests
	r.RequestNewSauce()
	r.RequestStyle(StyleTrap808)
	q, ok := r.Take()
	if !ok {
		t.Fatalf("no request pending")
	}
	style, isStyle := q.Style()
	if !isStyle || style != StyleTrap808 {
		t.Fatalf("Take = style %d (%v), want Trap 808", style, isStyle)
	}
}

func TestRequestApply(t *testing.T) {
	s := NewStore()
	rng := rand.New(rand.NewSource(1))
	StyleRequest(StylePopGloss).Apply(s, rng)
	if got := s.Get(Cutoff); got != 8000 {
		t.Fatalf("style request cutoff = %v", got)
	}
	before := s.Snapshot()
	RequestNewSauce.Apply(s, rng)
	if s.Snapshot() == before {
		t.Fatalf("new sauce request changed nothing")
	}
	after := s.Snapshot()
	RequestNone.Apply(s, rng)
	if s.Snapshot() != after {
		t.Fatalf("empty request changed the store")
	}
}

func TestStyleRequestOutOfRange(t *testing.T) {
	for _, style := range []int{-1, NumStyles, NumStyles + 1, math.MaxInt32, math.MaxInt} {
		q := StyleRequest(style)
		if q == RequestNone || q == RequestNewSauce {
			t.Fatalf("StyleRequest(%d) encoded as %d", style, q)
		}
		got, ok := q.Style()
		if !ok || got != NumStyles {
			t.Fatalf("StyleRequest(%d).Style() = %d, %v; want %d", style, got, ok, NumStyles)
		}
		s := NewStore()
		q.Apply(s, nil)
		if got := s.Snapshot().Int(Style); got != StyleRnBSilk {
			t.Fatalf("StyleRequest(%d) applied style %d, want fallback %d", style, got, StyleRnBSilk)
		}
	}
}

func TestRequestsConcurrent(t *testing.T) {
	var r Requests
	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if (i+j)%2 == 0 {
					r.RequestNewSauce()
				} else {
					r.RequestStyle(j % NumStyles)
				}
			}
		}(i)
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		if q, ok := r.Take(); ok {
			if q != RequestNewSauce {
				if s, isStyle := q.Style(); !isStyle || s < 0 || s >= NumStyles {
					t.Fatalf("corrupt request %d", q)
				}
			}
		}
	}
	r.Take()
	if r.Pending() {
		t.Fatalf("slot not empty after final Take")
	}
}

package radiosauce

import (
	"errors"
	"testing"
)

func TestPlayerMasterVolumeRuntimeAPI(t *testing.T) {
	pl, err := NewPlayer(48000)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got := pl.MasterVolume(); got != 1 {
		t.Fatalf("default master volume = %v, want 1", got)
	}
	pl.SetMasterVolume(0.35)
	if got := pl.MasterVolume(); got != 0.35 {
		t.Fatalf("master volume = %v, want 0.35", got)
	}
	pl.SetMasterVolume(-2)
	if got := pl.MasterVolume(); got != 0 {
		t.Fatalf("master volume should clamp to 0, got %v", got)
	}
}

func TestNewPlayerRejectsBadSampleRate(t *testing.T) {
	if _, err := NewPlayer(0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("NewPlayer(0) error = %v", err)
	}
}

func TestNewPlayerRejectsUnknownParam(t *testing.T) {
	if _, err := NewPlayer(48000, WithParam("nope", 1)); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("NewPlayer error = %v, want ErrUnknownParam", err)
	}
}

func TestPlayerParams(t *testing.T) {
	pl, err := NewPlayer(48000, WithStyle(StyleTrap808), WithParam("cutoff", 300))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got, _ := pl.Param("cutoff"); got != 300 {
		t.Fatalf("cutoff = %v, want 300 (param after style)", got)
	}
	if got, _ := pl.Param("subLevel"); got != 0.7 {
		t.Fatalf("subLevel = %v, want trap value", got)
	}
	if err := pl.SetParam("resonance", 9); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if got, _ := pl.Param("resonance"); got != 1.2 {
		t.Fatalf("resonance = %v, want clamp to 1.2", got)
	}
	if _, err := pl.Param("bogus"); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("Param(bogus) error = %v", err)
	}
	if n := len(ParamNames()); n == 0 {
		t.Fatalf("no parameter names")
	}
}

func TestPlayerNotesReachEngineAtBlockStart(t *testing.T) {
	var tapped int
	pl, err := NewPlayer(48000, WithStyle(StylePopGloss), WithSampleTap(func(buf []float32) {
		tapped += len(buf)
	}))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	buf := make([]float32, 2*1024)
	pl.Process(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("sample %d = %f before any note", i, s)
		}
	}

	if err := pl.NoteOn(60, 1); err != nil {
		t.Fatalf("NoteOn: %v", err)
	}
	pl.Process(buf)
	var peak float32
	for _, s := range buf {
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}
	if peak == 0 {
		t.Fatalf("no audio after NoteOn")
	}
	if tapped != 2*len(buf) {
		t.Fatalf("tap saw %d samples, want %d", tapped, 2*len(buf))
	}

	if err := pl.NoteOff(60, false); err != nil {
		t.Fatalf("NoteOff: %v", err)
	}
	pl.Process(buf)
	if pl.engine.ActiveVoices() != 0 {
		t.Fatalf("hard NoteOff left a voice active")
	}
}

func TestPlayerNoteQueueBounded(t *testing.T) {
	pl, err := NewPlayer(48000)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	for i := 0; i < NoteQueueSize; i++ {
		if err := pl.NoteOn(i%128, 1); err != nil {
			t.Fatalf("NoteOn %d: %v", i, err)
		}
	}
	if err := pl.NoteOn(1, 1); !errors.Is(err, ErrNoteQueueFull) {
		t.Fatalf("overflow error = %v, want ErrNoteQueueFull", err)
	}
	pl.Process(make([]float32, 2*64))
	if err := pl.NoteOn(1, 1); err != nil {
		t.Fatalf("queue not drained: %v", err)
	}
	if pl.DroppedNotes() == 0 {
		t.Fatalf("dropped notes not counted")
	}
}

func TestPlayerRejectsOutOfRangeNotes(t *testing.T) {
	pl, err := NewPlayer(48000)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	for _, note := range []int{-5, 128, 200} {
		if err := pl.NoteOn(note, 1); !errors.Is(err, ErrInvalidNote) {
			t.Fatalf("NoteOn(%d) error = %v, want ErrInvalidNote", note, err)
		}
		if err := pl.NoteOff(note, false); !errors.Is(err, ErrInvalidNote) {
			t.Fatalf("NoteOff(%d) error = %v, want ErrInvalidNote", note, err)
		}
	}
	if got := pl.DroppedNotes(); got != 3 {
		t.Fatalf("dropped notes = %d, want 3", got)
	}
	pl.Process(make([]float32, 2*512))
	if got := pl.engine.ActiveVoices(); got != 0 {
		t.Fatalf("active voices = %d, want 0", got)
	}
}

func TestPlayerStyleRequest(t *testing.T) {
	pl, err := NewPlayer(48000)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	pl.SetStyle(StyleRnBSilk)
	if pl.Style() == StyleRnBSilk {
		t.Fatalf("style applied before a block was rendered")
	}
	pl.Process(make([]float32, 2*32))
	if pl.Style() != StyleRnBSilk {
		t.Fatalf("style = %d, want %d", pl.Style(), StyleRnBSilk)
	}
	if got, _ := pl.Param("cutoff"); got != 3200 {
		t.Fatalf("cutoff = %v, want 3200", got)
	}

	before, _ := pl.Param("cutoff")
	pl.TriggerNewSauce()
	pl.Process(make([]float32, 2*32))
	if after, _ := pl.Param("cutoff"); after == before {
		t.Fatalf("new sauce left cutoff at %v", after)
	}
}

func TestPlayerStopWithoutStart(t *testing.T) {
	pl, err := NewPlayer(48000)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if pl.IsPlaying() {
		t.Fatalf("player playing before Start")
	}
	if err := pl.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

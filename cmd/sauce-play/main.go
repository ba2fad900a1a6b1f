package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/cbegin/radiosauce-go"
)

// Two rows of a piano keyboard, starting at C.
const keyRow = "awsedftgyhujkolp"

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		backend    = flag.String("backend", "ebiten", "audio backend: ebiten|oto")
		bufferMs   = flag.Int("buffer-ms", 20, "device buffer in milliseconds (oto only)")
		style      = flag.Int("style", 0, "initial style: 0=Pop Gloss 1=Trap 808 2=R&B Silk")
		octave     = flag.Int("octave", 4, "keyboard octave (0..8)")
		gate       = flag.Duration("gate", 400*time.Millisecond, "note length per key press")
		volume     = flag.Float64("volume", 1.0, "master volume scalar")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed for noise and new sauce")
	)
	flag.Parse()

	b, err := parseBackend(*backend)
	if err != nil {
		log.Fatal(err)
	}
	pl, err := radiosauce.NewPlayer(*sampleRate,
		radiosauce.WithBackend(b),
		radiosauce.WithBufferSize(time.Duration(*bufferMs)*time.Millisecond),
		radiosauce.WithStyle(*style),
		radiosauce.WithSeed(*seed),
	)
	if err != nil {
		log.Fatal(err)
	}
	pl.SetMasterVolume(*volume)
	if err := pl.Start(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		log.Fatal("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatal(err)
	}
	defer term.Restore(fd, oldState)

	status := func(format string, args ...any) {
		// Raw mode needs an explicit carriage return.
		fmt.Printf(format+"\r\n", args...)
	}
	status("radiosauce: keys %s play, z/x octave, 1-3 style, n new sauce, q quit", keyRow)
	status("style: %s, octave %d", radiosauce.StyleName(*style), *octave)

	oct := *octave
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		k := buf[0]
		switch {
		case k == 'q' || k == 3: // ctrl-c
			return
		case k == 'z':
			oct = max(oct-1, 0)
			status("octave %d", oct)
		case k == 'x':
			oct = min(oct+1, 8)
			status("octave %d", oct)
		case k >= '1' && k < '1'+radiosauce.NumStyles:
			s := int(k - '1')
			pl.SetStyle(s)
			status("style: %s", radiosauce.StyleName(s))
		case k == 'n':
			pl.TriggerNewSauce()
			status("new sauce")
		default:
			idx := strings.IndexByte(keyRow, k)
			if idx < 0 {
				continue
			}
			note := (oct+1)*12 + idx
			if note > 127 {
				continue
			}
			if err := pl.NoteOn(note, 1); err != nil {
				status("%v", err)
				continue
			}
			time.AfterFunc(*gate, func() {
				_ = pl.NoteOff(note, true)
			})
		}
	}
}

func parseBackend(name string) (radiosauce.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ebiten":
		return radiosauce.BackendEbiten, nil
	case "oto":
		return radiosauce.BackendOto, nil
	default:
		return "", fmt.Errorf("invalid -backend %q (expected ebiten|oto)", name)
	}
}

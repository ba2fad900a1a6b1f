package control

import (
	"math/rand"
	"sync/atomic"
)

// Request is a pending asynchronous control change.
type Request uint32

const (
	RequestNone Request = iota
	RequestNewSauce
	requestStyleBase
)

// StyleRequest encodes a style selection. Out-of-range indices all encode as
// NumStyles, which ApplyStyle resolves to the fallback style.
func StyleRequest(style int) Request {
	if style < 0 || style > NumStyles {
		style = NumStyles
	}
	return requestStyleBase + Request(style)
}

// Style reports the style index carried by q.
func (q Request) Style() (int, bool) {
	if q < requestStyleBase {
		return 0, false
	}
	return int(q - requestStyleBase), true
}

// Apply performs the request against the store.
func (q Request) Apply(s *Store, rng *rand.Rand) {
	if q == RequestNewSauce {
		RandomizeSauce(s, rng)
		return
	}
	if style, ok := q.Style(); ok {
		ApplyStyle(s, style)
	}
}

// Requests is a single-slot mailbox between control goroutines and the audio
// goroutine. It is the only cross-goroutine handoff besides the Store: a
// writer overwrites whatever is pending, the audio goroutine takes it at block
// start with an atomic swap, so each request is seen at most once and only
// the latest survives.
type Requests struct {
	slot atomic.Uint32
}

func (r *Requests) RequestNewSauce() {
	r.slot.Store(uint32(RequestNewSauce))
}

func (r *Requests) RequestStyle(style int) {
	r.slot.Store(uint32(StyleRequest(style)))
}

// Take clears the slot and returns what was pending.
func (r *Requests) Take() (Request, bool) {
	q := Request(r.slot.Swap(uint32(RequestNone)))
	return q, q != RequestNone
}

// Pending reports whether a request is waiting without consuming it.
func (r *Requests) Pending() bool {
	return r.slot.Load() != uint32(RequestNone)
}

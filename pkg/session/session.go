// Package session holds the state of one interactive editing session: the
// committed canvas, the live input, the current verdict and a transient
// validation message.
package session

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spicery/nutmeg-equation/pkg/equation"
)

// Snapshot is a copy of the session state at one instant.
type Snapshot struct {
	Canvas    []equation.Element `json:"canvas"`
	LiveInput string             `json:"live_input"`
	State     equation.State     `json:"state"`
	Reason    string             `json:"reason,omitempty"`
	Message   string             `json:"message,omitempty"`
	Tail      equation.TailKind  `json:"tail"`

	// Version increases with every change. Observers may receive
	// snapshots out of order and should drop any older than one already seen.
	Version uint64 `json:"version"`
}

// Session owns the canvas and the live input. Every handler works on the
// state held here at call time; callers never pass state snapshots back in.
//
// Events are expected one at a time. The mutex exists because message
// expiry fires on a timer goroutine.
type Session struct {
	mu sync.Mutex

	rules   *equation.Rules
	canvas  []equation.Element
	input   string
	verdict equation.Verdict

	message    string
	timer      Timer
	generation uint64
	version    uint64

	expiry    time.Duration
	schedule  Scheduler
	newID     func() string
	observers []func(Snapshot)
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		rules:    equation.DefaultRules(),
		canvas:   []equation.Element{},
		expiry:   DefaultMessageExpiry,
		schedule: AfterFunc,
		newID:    equation.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recompute()
	return s
}

// Allowed reports whether r is a key the session accepts as input: ASCII
// letters and digits, space, and + - * : / ( ) =.
func Allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("+-*:/()= ", r)
}

// AppendChar adds r to the live input. Keys outside the allowed set, and
// not claimed by the session's rules as a separator or operation, are
// ignored and false is returned.
func (s *Session) AppendChar(r rune) bool {
	if !Allowed(r) && !s.ruleRune(r) {
		return false
	}
	s.mutate(func() {
		s.input += string(r)
	})
	return true
}

func (s *Session) ruleRune(r rune) bool {
	return s.rules.IsOperationRune(r) || string(r) == s.rules.Separator
}

// Backspace removes the last character of the live input.
func (s *Session) Backspace() {
	s.mutate(func() {
		if s.input == "" {
			return
		}
		runes := []rune(s.input)
		s.input = string(runes[:len(runes)-1])
	})
}

// ClearInput empties the live input without committing.
func (s *Session) ClearInput() {
	s.mutate(func() {
		s.input = ""
	})
}

// SetInput replaces the live input wholesale, for collaborators that keep
// their own keystroke buffer.
func (s *Session) SetInput(input string) {
	s.mutate(func() {
		s.input = input
	})
}

// Commit tries to move the live input onto the canvas. Blank input is
// ignored. An invalid verdict leaves canvas and input untouched and shows a
// message; otherwise the parsed elements are appended with fresh ids and the
// input is cleared.
func (s *Session) Commit() equation.CommitResult {
	s.mu.Lock()

	if strings.TrimSpace(s.input) == "" {
		result := equation.CommitResult{Canvas: slices.Clone(s.canvas), LiveInput: s.input}
		s.mu.Unlock()
		return result
	}

	s.clearMessageLocked()
	result := s.rules.Commit(s.canvas, s.input, s.verdict.State, s.newID)
	if result.Committed {
		s.canvas = result.Canvas
		s.input = result.LiveInput
		s.recompute()
	} else {
		s.showMessageLocked(result.Message)
	}
	result.Canvas = slices.Clone(result.Canvas)

	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return result
}

// Reset empties the canvas and the live input and drops any message.
func (s *Session) Reset() {
	s.mutate(func() {
		s.canvas, s.input = equation.Reset()
		s.clearMessageLocked()
	})
}

// ClearMessage removes the current message and cancels its expiry.
func (s *Session) ClearMessage() {
	s.mutate(s.clearMessageLocked)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// State returns the current verdict.
func (s *Session) State() equation.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verdict.State
}

// mutate applies f under the lock, recomputes the verdict and notifies the
// observers.
func (s *Session) mutate(f func()) {
	s.mu.Lock()
	f()
	s.recompute()
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) recompute() {
	s.verdict = s.rules.Evaluate(s.canvas, s.input)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Canvas:    slices.Clone(s.canvas),
		LiveInput: s.input,
		State:     s.verdict.State,
		Reason:    s.verdict.Reason(),
		Message:   s.message,
		Tail:      equation.LastKind(s.canvas),
		Version:   s.version,
	}
}

// notify runs outside the lock, so an expiry on the timer goroutine can
// deliver its snapshot after a newer one from the caller.
func (s *Session) notify(snap Snapshot) {
	for _, observe := range s.observers {
		observe(snap)
	}
}

// showMessageLocked replaces the message and schedules its expiry. Any
// pending expiry for an older message is cancelled first.
func (s *Session) showMessageLocked(message string) {
	s.cancelTimerLocked()
	s.message = message
	s.generation++
	gen := s.generation
	if s.expiry > 0 && s.schedule != nil {
		s.timer = s.schedule(s.expiry, func() {
			s.expire(gen)
		})
	}
}

func (s *Session) clearMessageLocked() {
	s.cancelTimerLocked()
	s.message = ""
	s.generation++
}

func (s *Session) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire clears the message shown under generation gen. A newer message
// has a newer generation and is left alone.
func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.message == "" {
		s.mu.Unlock()
		return
	}
	s.message = ""
	s.timer = nil
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

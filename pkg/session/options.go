package session

import (
	"time"

	"github.com/spicery/nutmeg-equation/pkg/equation"
)

// DefaultMessageExpiry is how long a rejection message stays visible.
const DefaultMessageExpiry = 3 * time.Second

// Timer is a pending delayed action that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFunc schedules with time.AfterFunc.
func AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Session.
type Option func(*Session)

// WithRules sets the grammar rules.
func WithRules(rules *equation.Rules) Option {
	return func(s *Session) {
		if rules != nil {
			s.rules = rules
		}
	}
}

// WithMessageExpiry sets how long a message is shown before it clears.
func WithMessageExpiry(d time.Duration) Option {
	return func(s *Session) {
		s.expiry = d
	}
}

// WithScheduler replaces the timer source (for testing).
func WithScheduler(schedule Scheduler) Option {
	return func(s *Session) {
		s.schedule = schedule
	}
}

// WithIDGenerator sets the source of element identities.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) {
		s.newID = newID
	}
}

// WithObserver adds a callback that receives a snapshot after every
// change, including a message expiring. Expiry runs on its own goroutine, so
// calls may be concurrent and arrive out of order; compare Snapshot.Version
// to discard stale ones.
func WithObserver(observe func(Snapshot)) Option {
	return func(s *Session) {
		if observe != nil {
			s.observers = append(s.observers, observe)
		}
	}
}

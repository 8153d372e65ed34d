package equation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedToken marks live input containing a token that matches
	// no classification rule.
	ErrUnrecognizedToken = errors.New("unrecognized token")

	// ErrGrammarViolation marks a sequence that breaks the
	// element/operation alternation.
	ErrGrammarViolation = errors.New("grammar violation")
)

// UnrecognizedTokenError reports the offending token and where it sits in
// the live input.
type UnrecognizedTokenError struct {
	Text string
	Span Span
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("%v '%s' at column %d", ErrUnrecognizedToken, e.Text, e.Span.Start)
}

func (e *UnrecognizedTokenError) Unwrap() error {
	return ErrUnrecognizedToken
}

// GrammarViolationError reports the first position of the combined sequence
// that holds the wrong kind of item.
type GrammarViolationError struct {
	Index    int
	Found    Element
	Expected string // "element" or "operation"
}

func (e *GrammarViolationError) Error() string {
	return fmt.Sprintf("%v at position %d: expected %s, found '%s'", ErrGrammarViolation, e.Index, e.Expected, e.Found.String())
}

func (e *GrammarViolationError) Unwrap() error {
	return ErrGrammarViolation
}

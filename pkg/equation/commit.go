package equation

import (
	"strings"

	"github.com/google/uuid"
)

// CommitResult is the outcome of a commit attempt. Canvas and LiveInput are
// the values the caller should hold afterwards.
type CommitResult struct {
	Canvas    []Element `json:"canvas"`
	LiveInput string    `json:"live_input"`
	Message   string    `json:"message,omitempty"`
	Committed bool      `json:"committed"`
	Added     []Element `json:"added,omitempty"`
}

// NewID returns a fresh opaque element identity.
func NewID() string {
	return uuid.NewString()
}

// RejectionMessage is the user-facing text for a refused commit.
func RejectionMessage(err error) string {
	if err == nil {
		return "Invalid expression"
	}
	return "Invalid expression: " + err.Error()
}

// Commit appends the classified live input to canvas when state allows it.
// Blank input is ignored. On rejection neither canvas nor live input
// changes. On success the returned canvas is a new slice and the live input
// is empty. A nil newID uses NewID.
func (rules *Rules) Commit(canvas []Element, liveInput string, state State, newID func() string) CommitResult {
	unchanged := CommitResult{Canvas: canvas, LiveInput: liveInput}

	if strings.TrimSpace(liveInput) == "" {
		return unchanged
	}

	if !state.Committable() {
		unchanged.Message = RejectionMessage(rules.Evaluate(canvas, liveInput).Err)
		return unchanged
	}

	if newID == nil {
		newID = NewID
	}
	added := rules.CreateElements(liveInput, newID)
	if added == nil {
		unchanged.Message = RejectionMessage(rules.ParseInput(liveInput).Err)
		return unchanged
	}

	next := make([]Element, 0, len(canvas)+len(added))
	next = append(next, canvas...)
	next = append(next, added...)

	return CommitResult{
		Canvas:    next,
		LiveInput: "",
		Committed: true,
		Added:     added,
	}
}

// Commit applies Commit under the default rules.
func Commit(canvas []Element, liveInput string, state State) CommitResult {
	return defaults.Commit(canvas, liveInput, state, nil)
}

// Reset returns an empty canvas and an empty live input.
func Reset() ([]Element, string) {
	return []Element{}, ""
}

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spicery/nutmeg-equation/pkg/equation"
	"github.com/spicery/nutmeg-equation/pkg/session"
)

const resetCommand = ".reset"

// Event is the JSON record written for each batch input line.
type Event struct {
	Input     string             `json:"input"`
	State     equation.State     `json:"state"`
	Committed bool               `json:"committed"`
	Message   string             `json:"message,omitempty"`
	After     equation.State     `json:"after"`
	Canvas    []equation.Element `json:"canvas"`
}

// runBatch types each line into the session and commits it, writing one
// JSON event per line. It returns the number of rejected commits.
func runBatch(r io.Reader, w io.Writer, sess *session.Session) (int, error) {
	scanner := bufio.NewScanner(r)
	encoder := json.NewEncoder(w)
	rejected := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		var event Event
		if strings.TrimSpace(line) == resetCommand {
			sess.Reset()
			snap := sess.Snapshot()
			event = Event{Input: line, State: snap.State, After: snap.State, Canvas: snap.Canvas}
		} else {
			event = typeAndCommit(sess, line)
			if !event.Committed && strings.TrimSpace(line) != "" {
				rejected++
				// Each line is independent input; drop what was refused.
				sess.ClearInput()
			}
		}

		if err := encoder.Encode(event); err != nil {
			return rejected, fmt.Errorf("JSON encoding error: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return rejected, fmt.Errorf("failed to read input: %w", err)
	}
	return rejected, nil
}

// typeAndCommit feeds line through the key filter one rune at a time, as a
// keyboard would, then presses Enter.
func typeAndCommit(sess *session.Session, line string) Event {
	sess.ClearInput()
	for _, r := range line {
		sess.AppendChar(r)
	}

	typed := sess.Snapshot()
	result := sess.Commit()
	after := sess.Snapshot()

	return Event{
		Input:     typed.LiveInput,
		State:     typed.State,
		Committed: result.Committed,
		Message:   result.Message,
		After:     after.State,
		Canvas:    after.Canvas,
	}
}

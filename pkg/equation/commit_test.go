package equation

import (
	"fmt"
	"strings"
	"testing"
)

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

func TestCommitScenario(t *testing.T) {
	newID := counterIDs()
	var canvas []Element

	steps := []struct {
		input    string
		length   int
		after    State
		rendered string
	}{
		{"a/b", 1, Valid, "a/b"},
		{"+", 2, Inter, "a/b +"},
		{"c/d", 3, Valid, "a/b + c/d"},
	}

	for _, step := range steps {
		state := defaults.Evaluate(canvas, step.input).State
		result := defaults.Commit(canvas, step.input, state, newID)

		if !result.Committed {
			t.Fatalf("Expected '%s' to commit, got message '%s'", step.input, result.Message)
		}
		if result.LiveInput != "" {
			t.Errorf("Expected live input to be cleared, got '%s'", result.LiveInput)
		}
		if len(result.Canvas) != step.length {
			t.Errorf("Expected canvas length %d, got %d", step.length, len(result.Canvas))
		}
		if result.Message != "" {
			t.Errorf("Expected no message, got '%s'", result.Message)
		}

		canvas = result.Canvas
		if got := EvaluateState(canvas, ""); got != step.after {
			t.Errorf("Expected state %s after committing '%s', got %s", step.after, step.input, got)
		}
		if got := FormatSequence(canvas); got != step.rendered {
			t.Errorf("Expected canvas '%s', got '%s'", step.rendered, got)
		}
	}

	seen := map[string]bool{}
	for _, e := range canvas {
		if e.ID == "" || seen[e.ID] {
			t.Errorf("Expected a fresh unique id, got '%s'", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestCommitRejectsInvalid(t *testing.T) {
	canvas := []Element{fracAB}

	tests := []struct {
		name  string
		input string
	}{
		{"Unrecognized token", "ab"},
		{"Element after element", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := defaults.Evaluate(canvas, tt.input).State
			if state != Invalid {
				t.Fatalf("Expected invalid state, got %s", state)
			}

			result := defaults.Commit(canvas, tt.input, state, counterIDs())
			if result.Committed {
				t.Errorf("Expected commit to be rejected")
			}
			if result.LiveInput != tt.input {
				t.Errorf("Expected live input '%s' to be kept, got '%s'", tt.input, result.LiveInput)
			}
			if len(result.Canvas) != 1 {
				t.Errorf("Expected canvas to be unchanged, got %d elements", len(result.Canvas))
			}
			if !strings.HasPrefix(result.Message, "Invalid expression") {
				t.Errorf("Expected a rejection message, got '%s'", result.Message)
			}
		})
	}
}

func TestCommitBlankIsIgnored(t *testing.T) {
	canvas := []Element{fracAB}

	for _, input := range []string{"", "   "} {
		result := defaults.Commit(canvas, input, Valid, counterIDs())
		if result.Committed {
			t.Errorf("Expected blank commit to be ignored")
		}
		if result.Message != "" {
			t.Errorf("Expected no message for blank commit, got '%s'", result.Message)
		}
		if result.LiveInput != input || len(result.Canvas) != 1 {
			t.Errorf("Expected nothing to change, got %+v", result)
		}
	}
}

func TestCommitWithStaleStateStillRejectsUnparseableInput(t *testing.T) {
	result := defaults.Commit(nil, "ab", Valid, counterIDs())
	if result.Committed {
		t.Errorf("Expected unparseable input to be rejected")
	}
	if result.LiveInput != "ab" {
		t.Errorf("Expected live input to be kept, got '%s'", result.LiveInput)
	}
	if result.Message == "" {
		t.Errorf("Expected a rejection message")
	}
}

func TestCommitDoesNotAliasCanvas(t *testing.T) {
	canvas := make([]Element, 1, 8)
	canvas[0] = fracAB

	result := defaults.Commit(canvas, "+", Inter, counterIDs())
	if !result.Committed {
		t.Fatalf("Expected commit to succeed")
	}

	result.Canvas[0] = atomX
	if !canvas[0].IsFraction() {
		t.Errorf("Expected original canvas to be untouched")
	}
	if len(result.Added) != 1 || result.Added[0].Content != "+" {
		t.Errorf("Expected one added '+', got %+v", result.Added)
	}
}

func TestCommitDefaultIDs(t *testing.T) {
	result := Commit(nil, "a/b +", Inter)
	if !result.Committed {
		t.Fatalf("Expected commit to succeed")
	}
	if result.Canvas[0].ID == "" || result.Canvas[0].ID == result.Canvas[1].ID {
		t.Errorf("Expected distinct non-empty ids, got '%s' and '%s'", result.Canvas[0].ID, result.Canvas[1].ID)
	}
}

func TestReset(t *testing.T) {
	canvas, input := Reset()
	if len(canvas) != 0 {
		t.Errorf("Expected empty canvas, got %d elements", len(canvas))
	}
	if input != "" {
		t.Errorf("Expected empty live input, got '%s'", input)
	}
}

package equation

// Verdict is an expression state together with the reason for an invalid
// verdict.
type Verdict struct {
	State State `json:"state"`
	Err   error `json:"-"`
}

// Reason returns the message text for an invalid verdict, or "".
func (v Verdict) Reason() string {
	if v.Err == nil {
		return ""
	}
	return v.Err.Error()
}

// Evaluate combines the committed canvas with the live input and judges the
// result. The live input is re-parsed from scratch on every call and neither
// argument is modified.
func (rules *Rules) Evaluate(canvas []Element, liveInput string) Verdict {
	parsed := rules.ParseInput(liveInput)
	if !parsed.IsValid {
		return Verdict{State: Invalid, Err: parsed.Err}
	}

	combined := make([]Element, 0, len(canvas)+len(parsed.Elements))
	combined = append(combined, canvas...)
	combined = append(combined, parsed.Elements...)

	if err := CheckSequence(combined); err != nil {
		return Verdict{State: Invalid, Err: err}
	}
	return Verdict{State: TerminalState(combined)}
}

// EvaluateState returns the verdict for canvas plus live input under the
// default rules.
func EvaluateState(canvas []Element, liveInput string) State {
	return defaults.Evaluate(canvas, liveInput).State
}

// IsValidInput reports whether liveInput could be committed onto canvas.
func (rules *Rules) IsValidInput(canvas []Element, liveInput string) bool {
	return rules.Evaluate(canvas, liveInput).State.Committable()
}

// IsValidInput reports whether liveInput could be committed onto canvas
// under the default rules.
func IsValidInput(canvas []Element, liveInput string) bool {
	return defaults.IsValidInput(canvas, liveInput)
}

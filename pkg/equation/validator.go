package equation

// State is the tri-state verdict over a hypothetical sequence.
type State string

const (
	Valid   State = "valid"   // empty, or ends on an element
	Inter   State = "inter"   // ends on an operation, waiting for an element
	Invalid State = "invalid" // unparseable input or broken alternation
)

// Committable reports whether input may be committed in this state.
func (s State) Committable() bool {
	return s == Valid || s == Inter
}

// CheckSequence verifies strict alternation by position parity: even
// positions hold elements, odd positions hold operations. It returns a
// *GrammarViolationError for the first offending position.
func CheckSequence(seq []Element) error {
	for i, e := range seq {
		if i%2 == 0 {
			if !e.IsElement() {
				return &GrammarViolationError{Index: i, Found: e, Expected: "element"}
			}
		} else if !e.IsOperation() {
			return &GrammarViolationError{Index: i, Found: e, Expected: "operation"}
		}
	}
	return nil
}

// ValidateSequence reports whether seq alternates element, operation,
// element, ... starting with an element. The empty sequence is valid.
func ValidateSequence(seq []Element) bool {
	return CheckSequence(seq) == nil
}

// TerminalState maps a sequence to its verdict. The last item alone decides
// between valid and inter once alternation holds.
func TerminalState(seq []Element) State {
	if !ValidateSequence(seq) {
		return Invalid
	}
	if len(seq) == 0 {
		return Valid
	}
	if seq[len(seq)-1].IsOperation() {
		return Inter
	}
	return Valid
}

// TailKind describes the last item of a sequence.
type TailKind string

const (
	EmptyTail     TailKind = "empty"
	FractionTail  TailKind = "fraction"
	OperandTail   TailKind = "operand"
	OperationTail TailKind = "operation"
)

// LastKind returns what the sequence currently ends on.
func LastKind(seq []Element) TailKind {
	if len(seq) == 0 {
		return EmptyTail
	}
	last := seq[len(seq)-1]
	switch {
	case last.IsFraction():
		return FractionTail
	case last.IsOperation():
		return OperationTail
	default:
		return OperandTail
	}
}

package equation

import (
	"strings"
	"unicode/utf8"
)

// Kind tags the two variants of Element.
type Kind string

const (
	FractionKind Kind = "fraction"
	AtomKind     Kind = "atom"
)

// Role tells an operand atom apart from an operation atom.
type Role string

const (
	OperandRole   Role = "operand"
	OperationRole Role = "operation"
)

// Operand is one side of a fraction.
type Operand struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

// Element is a classified token: either a fraction with two operand
// children, or an atom holding a single operand or operation character.
type Element struct {
	Kind Kind   `json:"type"`
	ID   string `json:"id,omitempty"`

	// Atom fields
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content,omitempty"`

	// Fraction fields
	Numerator   *Operand `json:"numerator,omitempty"`
	Denominator *Operand `json:"denominator,omitempty"`
	Separator   string   `json:"separator,omitempty"` // as typed; "/" when empty
}

// NewFraction creates a fraction element.
func NewFraction(numerator, denominator string) Element {
	return Element{
		Kind:        FractionKind,
		Numerator:   &Operand{Content: numerator},
		Denominator: &Operand{Content: denominator},
	}
}

// NewOperand creates an operand atom.
func NewOperand(content string) Element {
	return Element{Kind: AtomKind, Role: OperandRole, Content: content}
}

// NewOperation creates an operation atom.
func NewOperation(symbol string) Element {
	return Element{Kind: AtomKind, Role: OperationRole, Content: symbol}
}

// IsFraction reports whether the element is the fraction variant.
func (e Element) IsFraction() bool {
	return e.Kind == FractionKind
}

// IsElement reports whether e can stand in an operand position: a fraction
// or a single-character operand atom.
func (e Element) IsElement() bool {
	switch e.Kind {
	case FractionKind:
		return e.Numerator != nil && e.Denominator != nil &&
			e.Numerator.Content != "" && e.Denominator.Content != ""
	case AtomKind:
		return e.Role == OperandRole && utf8.RuneCountInString(e.Content) == 1
	}
	return false
}

// IsOperation reports whether e is an operation atom.
func (e Element) IsOperation() bool {
	return e.Kind == AtomKind && e.Role == OperationRole && utf8.RuneCountInString(e.Content) == 1
}

// WithID returns a copy of e carrying the given identity. Fraction children
// are stamped with "<id>-num" and "<id>-den".
func (e Element) WithID(id string) Element {
	e.ID = id
	if e.Numerator != nil {
		e.Numerator = &Operand{ID: id + "-num", Content: e.Numerator.Content}
	}
	if e.Denominator != nil {
		e.Denominator = &Operand{ID: id + "-den", Content: e.Denominator.Content}
	}
	return e
}

// String renders the element the way it was typed, so a fraction keeps the
// separator of the rules that classified it.
func (e Element) String() string {
	if e.Kind == FractionKind {
		var num, den string
		if e.Numerator != nil {
			num = e.Numerator.Content
		}
		if e.Denominator != nil {
			den = e.Denominator.Content
		}
		sep := e.Separator
		if sep == "" {
			sep = defaultSeparator
		}
		return num + sep + den
	}
	return e.Content
}

// FormatSequence renders a sequence of elements separated by spaces.
func FormatSequence(seq []Element) string {
	parts := make([]string, len(seq))
	for i, e := range seq {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

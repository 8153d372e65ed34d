package equation

import (
	"encoding/json"
)

// TokenType represents the different types of tokens.
type TokenType string

const (
	OperationToken TokenType = "O" // Single operation character (+, -, *, :)
	RunToken       TokenType = "R" // Maximal run of non-operation, non-space characters
)

// Span represents the start and end columns of a token. Columns are 1-based
// and count runes; End is exclusive.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// MarshalJSON implements custom JSON marshaling for Span.
func (s Span) MarshalJSON() ([]byte, error) {
	arr := [2]int{s.Start, s.End}
	return json.Marshal(arr)
}

// UnmarshalJSON implements custom JSON unmarshaling for Span.
func (s *Span) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	s.Start = arr[0]
	s.End = arr[1]
	return nil
}

// Token is a contiguous span of tokenizer output, before classification.
type Token struct {
	Text string    `json:"text"`
	Span Span      `json:"span"`
	Type TokenType `json:"type"`
}

// NewToken creates a new token with the basic required fields.
func NewToken(text string, tokenType TokenType, span Span) *Token {
	return &Token{
		Text: text,
		Type: tokenType,
		Span: span,
	}
}

// Texts returns the text of each token in order.
func Texts(tokens []*Token) []string {
	texts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		texts = append(texts, token.Text)
	}
	return texts
}

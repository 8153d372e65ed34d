package equation

import (
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits live input into operation tokens and runs of everything
// else. It never fails: unrecognizable text is left for the classifier.
type Tokenizer struct {
	input    string
	position int // byte offset
	column   int // 1-based rune column
	runStart int // byte offset of the pending run, -1 when none
	runCol   int
	tokens   []*Token
	rules    *Rules
}

// NewTokenizer creates a new tokenizer instance with default rules.
func NewTokenizer(input string) *Tokenizer {
	return NewTokenizerWithRules(input, defaults)
}

// NewTokenizerWithRules creates a new tokenizer instance with custom rules.
func NewTokenizerWithRules(input string, rules *Rules) *Tokenizer {
	if rules == nil {
		rules = defaults
	}
	return &Tokenizer{
		input:    input,
		column:   1,
		runStart: -1,
		tokens:   make([]*Token, 0),
		rules:    rules,
	}
}

// Tokenize processes the input and returns a slice of tokens.
func (t *Tokenizer) Tokenize() []*Token {
	for t.hasMoreInput() {
		t.nextToken()
	}
	t.flushRun()
	return t.tokens
}

// nextToken consumes one rune, either emitting an operation token, closing
// the pending run at whitespace, or extending the pending run.
func (t *Tokenizer) nextToken() {
	r, _ := t.peek()

	switch {
	case unicode.IsSpace(r):
		t.flushRun()
		t.consume()

	case t.rules.IsOperationRune(r):
		t.flushRun()
		start := t.column
		t.consume()
		t.tokens = append(t.tokens, NewToken(string(r), OperationToken, Span{Start: start, End: t.column}))

	default:
		if t.runStart < 0 {
			t.runStart, t.runCol = t.position, t.column
		}
		t.consume()
	}
}

// flushRun emits the pending run, if any.
func (t *Tokenizer) flushRun() {
	if t.runStart < 0 {
		return
	}
	text := t.input[t.runStart:t.position]
	t.runStart = -1
	if text == "" {
		return
	}
	t.tokens = append(t.tokens, NewToken(text, RunToken, Span{Start: t.runCol, End: t.column}))
}

func (t *Tokenizer) peek() (rune, bool) {
	if t.position >= len(t.input) {
		return rune(0), false // End of input
	}
	r, b := utf8.DecodeRuneInString(t.input[t.position:])
	return r, b > 0
}

// Consume the current rune and advance the position
func (t *Tokenizer) consume() rune {
	r, size := utf8.DecodeRuneInString(t.input[t.position:])
	if size == 0 {
		return r
	}
	t.position += size
	t.column++
	return r
}

func (t *Tokenizer) hasMoreInput() bool {
	return t.position < len(t.input)
}

// Tokenize splits input into token strings using the rules' operation set.
func (rules *Rules) Tokenize(input string) []string {
	return Texts(NewTokenizerWithRules(input, rules).Tokenize())
}

// Tokenize splits input into token strings using the default rules.
func Tokenize(input string) []string {
	return defaults.Tokenize(input)
}

package equation

// ParsedInput is the result of classifying every token of a live input.
type ParsedInput struct {
	Elements []Element `json:"elements"`
	IsValid  bool      `json:"is_valid"`
	Err      error     `json:"-"`
}

// Classify maps a single token to an element. The second result is false
// when the token matches no rule.
func (rules *Rules) Classify(token string) (Element, bool) {
	for _, rule := range rules.classifiers {
		if groups := rule.pattern.FindStringSubmatch(token); groups != nil {
			return rule.build(groups), true
		}
	}
	return Element{}, false
}

// Classify maps a single token to an element using the default rules.
func Classify(token string) (Element, bool) {
	return defaults.Classify(token)
}

// ParseInput tokenizes and classifies input. Any unrecognized token fails
// the whole parse; no prefix is kept.
func (rules *Rules) ParseInput(input string) ParsedInput {
	tokens := NewTokenizerWithRules(input, rules).Tokenize()
	elements := make([]Element, 0, len(tokens))

	for _, token := range tokens {
		element, ok := rules.Classify(token.Text)
		if !ok {
			return ParsedInput{
				Elements: []Element{},
				IsValid:  false,
				Err:      &UnrecognizedTokenError{Text: token.Text, Span: token.Span},
			}
		}
		elements = append(elements, element)
	}

	return ParsedInput{Elements: elements, IsValid: true}
}

// ParseInput tokenizes and classifies input using the default rules.
func ParseInput(input string) ParsedInput {
	return defaults.ParseInput(input)
}

// CreateElements parses input and stamps each element with a fresh identity
// from newID. It returns nil if the input does not parse.
func (rules *Rules) CreateElements(input string, newID func() string) []Element {
	parsed := rules.ParseInput(input)
	if !parsed.IsValid {
		return nil
	}

	elements := make([]Element, len(parsed.Elements))
	for i, e := range parsed.Elements {
		elements[i] = e.WithID(newID())
	}
	return elements
}

package equation

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a YAML rules file
type RulesFile struct {
	Operation []OperationRule `yaml:"operation"`
	Fraction  *FractionRule   `yaml:"fraction,omitempty"`
	Operand   *OperandRule    `yaml:"operand,omitempty"`
}

// OperationRule represents an operation character rule
type OperationRule struct {
	Text string `yaml:"text"`
	Name string `yaml:"name,omitempty"`
}

// FractionRule represents the fraction separator rule
type FractionRule struct {
	Separator string `yaml:"separator"`
}

// OperandRule represents the operand character class, written as the body of
// a regular expression bracket expression (e.g. "a-zA-Z0-9").
type OperandRule struct {
	Class string `yaml:"class"`
}

// Rules holds the grammar tables used by the tokenizer and classifier.
type Rules struct {
	Operations     map[string]string // symbol -> name
	OperationOrder []string
	Separator      string
	OperandClass   string

	// Precomputed by BuildLookup
	OperationLookup map[rune]string
	classifiers     []classifierRule
}

// classifierRule maps a token pattern to an element constructor. Rules are
// tried in order and the first match wins.
type classifierRule struct {
	name    string
	pattern *regexp.Regexp
	build   func(groups []string) Element
}

const (
	defaultSeparator    = "/"
	defaultOperandClass = "a-zA-Z0-9"
)

// DefaultRules returns the default rules: + - * : as operations (":" is
// division so that "/" stays free for fractions) and single alphanumerics
// as operands.
func DefaultRules() *Rules {
	rules := &Rules{
		Operations:     getDefaultOperations(),
		OperationOrder: []string{"+", "-", "*", ":"},
		Separator:      defaultSeparator,
		OperandClass:   defaultOperandClass,
	}

	// Default rules should never have conflicts, so we panic if there's an error
	if err := rules.BuildLookup(); err != nil {
		panic(fmt.Sprintf("Invalid default rules: %v", err))
	}

	return rules
}

func getDefaultOperations() map[string]string {
	return map[string]string{
		"+": "add",
		"-": "subtract",
		"*": "multiply",
		":": "divide",
	}
}

var defaults = DefaultRules()

// LoadRulesFile loads and parses a YAML rules file
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
	}

	return &rules, nil
}

// ApplyRulesToDefaults applies the rules from a RulesFile to create a new Rules.
// Returns an error if the resulting tables conflict.
func ApplyRulesToDefaults(file *RulesFile) (*Rules, error) {
	rules := DefaultRules()

	if len(file.Operation) > 0 {
		rules.Operations = make(map[string]string)
		rules.OperationOrder = nil
		for _, rule := range file.Operation {
			if _, exists := rules.Operations[rule.Text]; exists {
				return nil, fmt.Errorf("operation '%s' is defined more than once", rule.Text)
			}
			rules.Operations[rule.Text] = rule.Name
			rules.OperationOrder = append(rules.OperationOrder, rule.Text)
		}
	}

	if file.Fraction != nil && file.Fraction.Separator != "" {
		rules.Separator = file.Fraction.Separator
	}

	if file.Operand != nil && file.Operand.Class != "" {
		rules.OperandClass = file.Operand.Class
	}

	if err := rules.BuildLookup(); err != nil {
		return nil, err
	}

	return rules, nil
}

// RulesFile converts the rules back into the YAML file layout.
func (rules *Rules) RulesFile() *RulesFile {
	file := &RulesFile{
		Fraction: &FractionRule{Separator: rules.Separator},
		Operand:  &OperandRule{Class: rules.OperandClass},
	}
	for _, text := range rules.OperationOrder {
		file.Operation = append(file.Operation, OperationRule{
			Text: text,
			Name: rules.Operations[text],
		})
	}
	return file
}

// BuildLookup compiles the classification patterns and the operation lookup.
// Returns an error if a symbol is claimed by more than one rule.
func (rules *Rules) BuildLookup() error {
	operandPattern, err := regexp.Compile(`^[` + rules.OperandClass + `]$`)
	if err != nil {
		return fmt.Errorf("invalid operand class '%s': %w", rules.OperandClass, err)
	}

	if utf8.RuneCountInString(rules.Separator) != 1 {
		return fmt.Errorf("fraction separator '%s' must be a single character", rules.Separator)
	}
	sep, _ := utf8.DecodeRuneInString(rules.Separator)
	if unicode.IsSpace(sep) {
		return fmt.Errorf("fraction separator must not be whitespace")
	}
	if operandPattern.MatchString(rules.Separator) {
		return fmt.Errorf("fraction separator '%s' is also an operand character", rules.Separator)
	}

	if len(rules.Operations) == 0 {
		return fmt.Errorf("at least one operation must be defined")
	}

	rules.OperationLookup = make(map[rune]string)
	alternatives := make([]string, 0, len(rules.OperationOrder))
	for _, text := range rules.OperationOrder {
		name, ok := rules.Operations[text]
		if !ok {
			return fmt.Errorf("operation '%s' is ordered but not defined", text)
		}
		if utf8.RuneCountInString(text) != 1 {
			return fmt.Errorf("operation '%s' must be a single character", text)
		}
		r, _ := utf8.DecodeRuneInString(text)
		if unicode.IsSpace(r) {
			return fmt.Errorf("operation must not be whitespace")
		}
		if text == rules.Separator {
			return fmt.Errorf("token '%s' is defined as both operation and fraction separator", text)
		}
		if operandPattern.MatchString(text) {
			return fmt.Errorf("token '%s' is defined as both operation and operand", text)
		}
		if _, exists := rules.OperationLookup[r]; exists {
			return fmt.Errorf("operation '%s' is defined more than once", text)
		}
		rules.OperationLookup[r] = name
		alternatives = append(alternatives, regexp.QuoteMeta(text))
	}
	if len(rules.OperationLookup) != len(rules.Operations) {
		return fmt.Errorf("every operation must appear exactly once in the operation order")
	}

	separator := rules.Separator
	part := `([` + rules.OperandClass + `]+)`
	fractionPattern := regexp.MustCompile(`^` + part + regexp.QuoteMeta(rules.Separator) + part + `$`)
	operationPattern := regexp.MustCompile(`^(?:` + strings.Join(alternatives, "|") + `)$`)

	// Fraction is checked first so that "a/b" is never read through a
	// single-character rule.
	rules.classifiers = []classifierRule{
		{
			name:    "fraction",
			pattern: fractionPattern,
			build: func(groups []string) Element {
				e := NewFraction(groups[1], groups[2])
				e.Separator = separator
				return e
			},
		},
		{
			name:    "operation",
			pattern: operationPattern,
			build: func(groups []string) Element {
				return NewOperation(groups[0])
			},
		},
		{
			name:    "operand",
			pattern: operandPattern,
			build: func(groups []string) Element {
				return NewOperand(groups[0])
			},
		},
	}

	return nil
}

// IsOperationRune reports whether r is one of the operation characters.
func (rules *Rules) IsOperationRune(r rune) bool {
	_, ok := rules.OperationLookup[r]
	return ok
}

// OperationName returns the configured name of an operation symbol.
func (rules *Rules) OperationName(symbol string) (string, bool) {
	name, ok := rules.Operations[symbol]
	return name, ok
}

package equation

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	for _, op := range []string{"+", "-", "*", ":"} {
		if _, ok := rules.OperationName(op); !ok {
			t.Errorf("Expected '%s' to be an operation", op)
		}
	}
	if name, _ := rules.OperationName(":"); name != "divide" {
		t.Errorf("Expected ':' to be named 'divide', got '%s'", name)
	}
	if rules.IsOperationRune('/') {
		t.Errorf("Expected '/' to be reserved for fractions")
	}
}

func TestLoadRulesFile(t *testing.T) {
	rulesContent := `operation:
  - text: "+"
    name: add
  - text: "÷"
    name: divide
fraction:
  separator: "|"`

	tmpFile := filepath.Join(t.TempDir(), "rules.yaml")
	if err := writeFile(tmpFile, rulesContent); err != nil {
		t.Fatalf("Failed to create temp rules file: %v", err)
	}

	file, err := LoadRulesFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to load rules file: %v", err)
	}

	if len(file.Operation) != 2 || file.Operation[1].Text != "÷" {
		t.Errorf("Expected operations '+' and '÷', got %+v", file.Operation)
	}

	rules, err := ApplyRulesToDefaults(file)
	if err != nil {
		t.Fatalf("Failed to apply rules: %v", err)
	}

	if got := rules.Tokenize("a|b÷c-d"); !reflect.DeepEqual(got, []string{"a|b", "÷", "c-d"}) {
		t.Errorf("Expected custom tokenization, got %q", got)
	}

	if e, ok := rules.Classify("a|b"); !ok || !e.IsFraction() {
		t.Errorf("Expected 'a|b' to be a fraction, got %+v", e)
	}
	if _, ok := rules.Classify("a/b"); ok {
		t.Errorf("Expected 'a/b' to be unrecognized with a custom separator")
	}
	if _, ok := rules.Classify(":"); ok {
		t.Errorf("Expected ':' to be unrecognized once operations are replaced")
	}

	if state := rules.Evaluate(nil, "a|b ÷ c").State; state != Valid {
		t.Errorf("Expected valid state, got %s", state)
	}
}

func TestCustomSeparatorRendering(t *testing.T) {
	rules, err := ApplyRulesToDefaults(&RulesFile{Fraction: &FractionRule{Separator: "|"}})
	if err != nil {
		t.Fatalf("Failed to apply rules: %v", err)
	}

	result := rules.Commit(nil, "a|b", rules.Evaluate(nil, "a|b").State, counterIDs())
	if !result.Committed {
		t.Fatalf("Expected 'a|b' to commit, got message '%s'", result.Message)
	}

	rendered := FormatSequence(result.Canvas)
	if rendered != "a|b" {
		t.Errorf("Expected canvas 'a|b', got '%s'", rendered)
	}
	if state := rules.Evaluate(nil, rendered).State; state != Valid {
		t.Errorf("Expected rendering '%s' to evaluate as valid, got %s", rendered, state)
	}

	verdict := rules.Evaluate(result.Canvas, "c|d")
	if verdict.State != Invalid {
		t.Fatalf("Expected invalid state, got %s", verdict.State)
	}
	if !strings.Contains(verdict.Reason(), "'c|d'") {
		t.Errorf("Expected reason to quote 'c|d', got '%s'", verdict.Reason())
	}

	rejected := rules.Commit(result.Canvas, "c|d", verdict.State, counterIDs())
	if !strings.Contains(rejected.Message, "'c|d'") {
		t.Errorf("Expected rejection message to quote 'c|d', got '%s'", rejected.Message)
	}
}

func TestLoadRulesFileErrors(t *testing.T) {
	if _, err := LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}

	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	if err := writeFile(tmpFile, "operation: [unclosed"); err != nil {
		t.Fatalf("Failed to create temp rules file: %v", err)
	}
	if _, err := LoadRulesFile(tmpFile); err == nil {
		t.Errorf("Expected an error for malformed YAML")
	}
}

func TestRuleConflicts(t *testing.T) {
	tests := []struct {
		name    string
		file    RulesFile
		message string
	}{
		{
			name:    "Operation is an operand character",
			file:    RulesFile{Operation: []OperationRule{{Text: "+"}, {Text: "x"}}},
			message: "both operation and operand",
		},
		{
			name:    "Operation is the separator",
			file:    RulesFile{Operation: []OperationRule{{Text: "/"}}},
			message: "both operation and fraction separator",
		},
		{
			name:    "Duplicate operation",
			file:    RulesFile{Operation: []OperationRule{{Text: "+"}, {Text: "+"}}},
			message: "more than once",
		},
		{
			name:    "Multi-character operation",
			file:    RulesFile{Operation: []OperationRule{{Text: "**"}}},
			message: "single character",
		},
		{
			name:    "Whitespace separator",
			file:    RulesFile{Fraction: &FractionRule{Separator: " "}},
			message: "whitespace",
		},
		{
			name:    "Invalid operand class",
			file:    RulesFile{Operand: &OperandRule{Class: "z-a"}},
			message: "invalid operand class",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyRulesToDefaults(&tt.file)
			if err == nil {
				t.Fatalf("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected error containing '%s', got '%v'", tt.message, err)
			}
		})
	}
}

func TestRulesFileYAML(t *testing.T) {
	data, err := yaml.Marshal(DefaultRules().RulesFile())
	if err != nil {
		t.Fatalf("Failed to marshal rules: %v", err)
	}

	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("Failed to unmarshal rules: %v", err)
	}

	rules, err := ApplyRulesToDefaults(&file)
	if err != nil {
		t.Fatalf("Failed to apply generated rules: %v", err)
	}
	if !reflect.DeepEqual(rules.OperationOrder, DefaultRules().OperationOrder) {
		t.Errorf("Expected operation order %v, got %v", DefaultRules().OperationOrder, rules.OperationOrder)
	}
}

// Helper function for writing test files
func writeFile(filename, content string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/spicery/nutmeg-equation/pkg/equation"
	"github.com/spicery/nutmeg-equation/pkg/session"
)

const (
	version = "0.1.0"
	usage   = `nutmeg-equation - Incremental validator for fraction expressions

Usage:
  nutmeg-equation [options]

Options:
  -h, --help            Show this help message
  -v, --version         Show version information
  --input <file>        Input file (defaults to stdin)
  --output <file>       Output file (defaults to stdout)
  --rules <file>        YAML rules file for custom operations (optional)
  --make-rules          Generate default rules YAML to stdout
  --interactive         Edit from the terminal one key at a time
  --expiry <duration>   How long a validation message stays visible (default 3s)
  --trace               Write every session change as JSON to stderr
  --exit0               Exit with code 0 even when commits are rejected

Examples:
  nutmeg-equation                                  # Read lines from stdin, write events to stdout
  nutmeg-equation --input lines.txt                # Read from file, write to stdout
  nutmeg-equation --interactive                    # Type at the terminal
  nutmeg-equation --rules custom.yaml --input lines.txt
  nutmeg-equation --make-rules                     # Generate default rules configuration
  printf 'a/b\n+\nc/d\n' | nutmeg-equation

In batch mode each line is typed and committed, and one JSON event is
written per line. A line ".reset" clears the canvas.
`
)

func main() {
	var showHelp, showVersion, exit0, makeRules, interactive, trace bool
	var inputFile, outputFile, rulesFile string
	var expiry time.Duration

	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&exit0, "exit0", false, "Exit with code 0 even on rejected commits")
	flag.BoolVar(&makeRules, "make-rules", false, "Generate default rules YAML")
	flag.BoolVar(&interactive, "interactive", false, "Interactive terminal mode")
	flag.BoolVar(&trace, "trace", false, "Trace session changes to stderr")
	flag.StringVar(&inputFile, "input", "", "Input file (defaults to stdin)")
	flag.StringVar(&outputFile, "output", "", "Output file (defaults to stdout)")
	flag.StringVar(&rulesFile, "rules", "", "YAML rules file (optional)")
	flag.DurationVar(&expiry, "expiry", session.DefaultMessageExpiry, "Message expiry")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("nutmeg-equation version %s\n", version)
		os.Exit(0)
	}

	if makeRules {
		if err := generateDefaultConfig(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating default rules: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Reject any positional arguments
	if len(flag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Error: Unexpected positional arguments. Use --input and --output flags instead.\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var traceOut io.Writer
	if trace {
		traceOut = os.Stderr
	}
	opts, err := sessionOptions(rulesFile, expiry, traceOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rules file '%s': %v\n", rulesFile, err)
		os.Exit(1)
	}

	if interactive && inputFile == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := runRawREPL(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Prepare input source
	var input io.Reader = os.Stdin
	if inputFile != "" {
		file, err := os.Open(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", inputFile, err)
			os.Exit(1)
		}
		defer file.Close()
		input = file
	}

	// Prepare output destination
	var output io.Writer = os.Stdout
	var outputCloser io.Closer
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file '%s': %v\n", outputFile, err)
			os.Exit(1)
		}
		output = file
		outputCloser = file
	}

	rejected, runErr := runBatch(input, output, session.New(opts...))

	// Close output file if we opened one
	if outputCloser != nil {
		if err := outputCloser.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing output file '%s': %v\n", outputFile, err)
			os.Exit(1)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	if rejected > 0 && !exit0 {
		fmt.Fprintf(os.Stderr, "Validation error: %d commit(s) rejected\n", rejected)
		os.Exit(1)
	}
}

// sessionOptions collects the session settings shared by batch and
// interactive mode. A nil trace writer disables tracing.
func sessionOptions(rulesFile string, expiry time.Duration, trace io.Writer) ([]session.Option, error) {
	opts := []session.Option{session.WithMessageExpiry(expiry)}

	if rulesFile != "" {
		rules, err := loadRules(rulesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, session.WithRules(rules))
	}

	if trace != nil {
		opts = append(opts, session.WithObserver(traceTo(trace)))
	}

	return opts, nil
}

// loadRules reads a YAML rules file and applies it over the defaults.
func loadRules(filename string) (*equation.Rules, error) {
	file, err := equation.LoadRulesFile(filename)
	if err != nil {
		return nil, err
	}
	rules, err := equation.ApplyRulesToDefaults(file)
	if err != nil {
		return nil, fmt.Errorf("failed to apply rules: %w", err)
	}
	return rules, nil
}

// traceTo returns an observer that writes each snapshot as a JSON line.
// Expiry fires on a timer goroutine, so writes are serialized.
func traceTo(w io.Writer) func(session.Snapshot) {
	var mu sync.Mutex
	encoder := json.NewEncoder(w)
	return func(snap session.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if err := encoder.Encode(snap); err != nil {
			fmt.Fprintf(os.Stderr, "JSON encoding error: %v\n", err)
		}
	}
}

// generateDefaultConfig writes the default rules in YAML format.
func generateDefaultConfig(w io.Writer) error {
	yamlBytes, err := yaml.Marshal(equation.DefaultRules().RulesFile())
	if err != nil {
		return fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}

	_, err = w.Write(yamlBytes)
	return err
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	verr "github.com/paladinking/desclang/error"
	"github.com/paladinking/desclang/grammar"
	"github.com/paladinking/desclang/spec"
	specgrammar "github.com/paladinking/desclang/spec/grammar"
)

var compileFlags = struct {
	output   *string
	report   *string
	compress *bool
}{}

func init() {
	compileFlags.output = rootCmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = rootCmd.Flags().String("report", "", "file to write the automaton report to")
	compileFlags.compress = rootCmd.Flags().Bool("compress", false, "store only the unique rows of the tables")
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	grmPath := args[0]
	defer func() {
		annotateSpecErrors(retErr, grmPath)
	}()

	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	cgram, report, err := compileGrammar(grmPath, c, c.Report != "")
	if report != nil {
		wErr := writeJSONFile(c.Report, report)
		if wErr != nil {
			return fmt.Errorf("Cannot write the report: %w", wErr)
		}
	}
	if err != nil {
		printBuildFailure(err)
		return err
	}

	err = writeCompiledGrammar(cgram, c.Output)
	if err != nil {
		return fmt.Errorf("Cannot write the parsing table: %w", err)
	}

	pt := cgram.ParsingTable
	fmt.Fprint(os.Stderr, pterm.Success.Sprintf("%v: %v states, %v terminals, %v productions\n", cgram.Name, pt.StateCount, pt.TerminalCount, len(cgram.Productions)))

	return nil
}

// compileGrammar reads, builds and compiles a grammar file. The report is
// generated when withReport is set, and is returned even if the build fails
// on conflicts.
func compileGrammar(path string, c *config, withReport bool) (*specgrammar.CompiledGrammar, *specgrammar.Report, error) {
	gram, err := readGrammar(path, c)
	if err != nil {
		return nil, nil, err
	}
	opts := c.compileOptions()
	if withReport {
		opts = append(opts, grammar.EnableReporting())
	}
	return grammar.Compile(gram, opts...)
}

func readGrammar(path string, c *config) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &usageError{
			err: fmt.Errorf("Cannot open the grammar file %s: %w", path, err),
		}
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build(c.buildOptions(grammarName(path))...)
}

// grammarName is the base name of the grammar file without its extension.
func grammarName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func annotateSpecErrors(err error, path string) {
	var specErrs verr.SpecErrors
	if errors.As(err, &specErrs) {
		for _, e := range specErrs {
			e.FilePath = path
			e.SourceName = path
		}
	}
}

func printBuildFailure(err error) {
	var conflict *grammar.ConflictError
	if !errors.As(err, &conflict) {
		return
	}
	count := 1
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		count = len(joined.Unwrap())
	}
	fmt.Fprint(os.Stderr, pterm.Error.Sprintf("%v conflicts\n", count))
}

func writeCompiledGrammar(cgram *specgrammar.CompiledGrammar, path string) error {
	if path == "" {
		return writeJSON(os.Stdout, cgram)
	}
	return writeJSONFile(path, cgram)
}

func writeJSONFile(path string, v any) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeJSON(f, v)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

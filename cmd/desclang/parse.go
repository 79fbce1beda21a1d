package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/paladinking/desclang/driver"
	spec "github.com/paladinking/desclang/spec/grammar"
)

var parseFlags = struct {
	interactive *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path> [<source file path>]",
		Short: "Parse a text with a grammar and print its syntax tree",
		Example: `  desclang parse grammar.desc src.txt
  desclang parse -i grammar.desc`,
		Args: rangeArgs(1, 2),
		RunE: runParse,
	}
	parseFlags.interactive = cmd.Flags().BoolP("interactive", "i", false, "read one input per line from the terminal")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	grmPath := args[0]
	defer func() {
		annotateSpecErrors(retErr, grmPath)
	}()

	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	cgram, _, err := compileGrammar(grmPath, c, false)
	if err != nil {
		printBuildFailure(err)
		return err
	}

	if *parseFlags.interactive {
		if len(args) > 1 {
			return &usageError{
				err: fmt.Errorf("a source file cannot be given with --interactive"),
			}
		}
		return runREPL(cgram)
	}

	src := os.Stdin
	if len(args) > 1 {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", args[1], err)
		}
		defer f.Close()
		src = f
	}
	return parseText(cgram, src, os.Stdout, os.Stderr)
}

// runREPL parses every line read from the terminal on its own. Errors are
// printed and do not end the session.
func runREPL(cgram *spec.CompiledGrammar) error {
	rl, err := readline.New(cgram.StartSymbol + "> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or an interrupt
			return nil
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		err = parseText(cgram, strings.NewReader(line), os.Stdout, os.Stderr)
		if err != nil {
			fmt.Fprint(os.Stderr, pterm.Error.Sprintln(err))
		}
	}
}

// parseText prints the concrete syntax tree of src to w, and the syntax errors
// the parser recovered from to errW.
func parseText(cgram *spec.CompiledGrammar, src io.Reader, w io.Writer, errW io.Writer) error {
	ts, err := driver.NewTokenStream(cgram, src)
	if err != nil {
		return err
	}
	p, err := driver.NewParser(cgram, ts, driver.MakeCST())
	if err != nil {
		return err
	}

	_, err = p.Parse()
	if err != nil {
		return err
	}

	for _, synErr := range p.SyntaxErrors() {
		fmt.Fprint(errW, pterm.Warning.Sprintln(synErr))
	}
	driver.PrintTree(w, p.CST())

	return nil
}

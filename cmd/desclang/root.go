package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	startNode *string
	config    *string
	trace     *string
	lalr      *bool
	nullable  *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "desclang <grammar file path>",
	Short: "Compile a grammar description into an LR(1) parsing table",
	Long: `desclang reads a grammar description, builds its canonical LR(1)
automaton and writes the parsing table as JSON.
- describe prints the automaton in readable form.
- parse runs the grammar on an input text and prints the syntax tree.`,
	Example:       `  desclang grammar.desc -o grammar.json --report grammar-report.json`,
	Args:          exactArgs(1),
	RunE:          runCompile,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.startNode = rootCmd.PersistentFlags().String("startnode", "", "start symbol (default PROGRAM)")
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "TOML file providing defaults for the flags")
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "", "trace level [Debug|Info|Error]")
	rootFlags.lalr = rootCmd.PersistentFlags().Bool("lalr", false, "merge states with identical cores")
	rootFlags.nullable = rootCmd.PersistentFlags().Bool("nullable-lookahead", false, "let lookaheads pass followers that derive the empty string")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{
			err: err,
		}
	})
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return rangeArgs(n, n)
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.RangeArgs(min, max)(cmd, args)
		if err != nil {
			return &usageError{
				err: err,
			}
		}
		return nil
	}
}

var traceKeys = []string{
	"desclang.spec",
	"desclang.grammar",
	"desclang.driver",
}

func setTraceLevel(level string) {
	if level == "" {
		return
	}
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paladinking/desclang/grammar"
)

// config holds the settings of one run. A config file provides the defaults
// and the flags given on the command line override them.
type config struct {
	StartNode  string `toml:"start_node"`
	Output     string `toml:"output"`
	Report     string `toml:"report"`
	LALR       bool   `toml:"lalr"`
	Nullable   bool   `toml:"nullable_lookahead"`
	Compress   bool   `toml:"compress"`
	StateLimit int    `toml:"state_limit"`
	TraceLevel string `toml:"trace_level"`
}

func loadConfig(path string) (*config, error) {
	c := &config{}
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the config file %s: %w", path, err)
	}
	err = toml.Unmarshal(data, c)
	if err != nil {
		return nil, &usageError{
			err: fmt.Errorf("Cannot decode the config file %s: %w", path, err),
		}
	}
	return c, nil
}

// merge copies the flags set on the command line into c.
func (c *config) merge(flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "startnode":
			c.StartNode = f.Value.String()
		case "output":
			c.Output = f.Value.String()
		case "report":
			c.Report = f.Value.String()
		case "trace":
			c.TraceLevel = f.Value.String()
		case "lalr":
			c.LALR, err = flags.GetBool(f.Name)
		case "nullable-lookahead":
			c.Nullable, err = flags.GetBool(f.Name)
		case "compress":
			c.Compress, err = flags.GetBool(f.Name)
		}
	})
	return err
}

func (c *config) buildOptions(name string) []grammar.BuildOption {
	opts := []grammar.BuildOption{
		grammar.SpecifyName(name),
	}
	if c.StartNode != "" {
		opts = append(opts, grammar.SpecifyStartSymbol(c.StartNode))
	}
	return opts
}

func (c *config) compileOptions() []grammar.CompileOption {
	var opts []grammar.CompileOption
	if c.LALR {
		opts = append(opts, grammar.MergeCores())
	}
	if c.Nullable {
		opts = append(opts, grammar.NullableLookahead())
	}
	if c.Compress {
		opts = append(opts, grammar.Compress())
	}
	if c.StateLimit > 0 {
		opts = append(opts, grammar.StateLimit(c.StateLimit))
	}
	return opts
}

// resolveConfig loads the config file named by --config, applies the flags of
// cmd and sets the trace level.
func resolveConfig(cmd *cobra.Command) (*config, error) {
	c, err := loadConfig(*rootFlags.config)
	if err != nil {
		return nil, err
	}
	err = c.merge(cmd.Flags())
	if err != nil {
		return nil, err
	}
	setTraceLevel(c.TraceLevel)
	return c, nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/dekarrin/rosed"
	"github.com/spf13/cobra"

	spec "github.com/paladinking/desclang/spec/grammar"
)

var describeFlags = struct {
	table *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar file path>",
		Short:   "Print the automaton of a grammar in readable format",
		Example: `  desclang describe grammar.desc --table`,
		Args:    exactArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.table = cmd.Flags().Bool("table", false, "also print the action and goto tables")
	rootCmd.AddCommand(cmd)
}

// runDescribe prints the report even when the grammar has conflicts, so that
// the conflicting states can be inspected.
func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	grmPath := args[0]
	defer func() {
		annotateSpecErrors(retErr, grmPath)
	}()

	c, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	cgram, report, err := compileGrammar(grmPath, c, true)
	if report == nil {
		return err
	}

	wErr := writeDescription(os.Stdout, report)
	if wErr != nil {
		return wErr
	}
	if *describeFlags.table && cgram != nil {
		fmt.Fprintf(os.Stdout, "\n# Parsing Table\n\n%v\n", formatParsingTable(cgram))
	}
	if err != nil {
		printBuildFailure(err)
	}
	return err
}

const descTemplate = `# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range slice .Terminals 1 -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}{{ if .Accept }} (accept){{ end }}

{{ range .Items -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeDescription(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		return report.Terminals[sym].Label()
	}

	famName := func(fam int) string {
		return report.Families[fam].Name
	}

	laList := func(la []int) string {
		names := make([]string, len(la))
		for i, sym := range la {
			names[i] = termName(sym)
		}
		return strings.Join(names, ", ")
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			count := 0
			for _, s := range report.States {
				count += len(s.SRConflict)
				count += len(s.RRConflict)
			}

			if count == 1 {
				return "1 conflict was detected."
			} else if count > 1 {
				return fmt.Sprintf("%v conflicts were detected.", count)
			}
			return "No conflict was detected."
		},
		"printTerminal": func(term *spec.Terminal) string {
			if term.Pattern != "" {
				return fmt.Sprintf("%4v %v /%v/", term.Number, term.Label(), term.Pattern)
			}
			return fmt.Sprintf("%4v %v", term.Number, term.Label())
		},
		"printProduction": func(prod *spec.ReportProduction) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", famName(prod.Family))
			if len(prod.RHS) > 0 {
				for _, e := range prod.RHS {
					fmt.Fprintf(&b, " %v", e)
				}
			} else {
				fmt.Fprintf(&b, " ε")
			}
			if prod.Hook != "" {
				fmt.Fprintf(&b, " : %v", prod.Hook)
			}
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printItem": func(item *spec.Item) string {
			prod := report.Productions[item.Production-1]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", famName(prod.Family))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", e)
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}

			return fmt.Sprintf("%4v %v [%v]", prod.Number, b.String(), laList(item.LookAhead))
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, laList(reduce.LookAhead))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, famName(tran.Symbol))
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v", sr.State, sr.Production, termName(sr.Symbol))
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v", rr.Production1, rr.Production2, termName(rr.Symbol))
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}

const tableWidth = 120

// formatParsingTable renders one row per state: the action of every terminal
// but the error symbol, then the goto of every family.
func formatParsingTable(cgram *spec.CompiledGrammar) string {
	pt := cgram.ParsingTable

	accepting := map[int]bool{}
	for _, s := range pt.AcceptStates {
		accepting[s] = true
	}

	header := []string{"state"}
	for _, t := range cgram.Terminals {
		if t.Number == pt.ErrorSymbol {
			continue
		}
		header = append(header, t.Label())
	}
	for _, f := range cgram.Families {
		header = append(header, f.Name)
	}
	data := [][]string{header}

	for s := 0; s < pt.StateCount; s++ {
		row := []string{fmt.Sprintf("%v", s)}
		for _, t := range cgram.Terminals {
			if t.Number == pt.ErrorSymbol {
				continue
			}
			act := pt.ActionEntry(s, t.Number)
			switch {
			case act < 0:
				row = append(row, fmt.Sprintf("s%v", -act))
			case act > 0 && t.Number == pt.EOFSymbol && accepting[s] && cgram.Production(act).Family == pt.StartFamily:
				row = append(row, "acc")
			case act > 0:
				row = append(row, fmt.Sprintf("r%v", act))
			default:
				row = append(row, "")
			}
		}
		for _, f := range cgram.Families {
			dest := pt.GoToEntry(s, f.Number)
			if dest == 0 {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%v", dest))
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, tableWidth, rosed.Options{
			TableBorders: true,
		}).
		String()
}

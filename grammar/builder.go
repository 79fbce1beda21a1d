package grammar

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	verr "github.com/paladinking/desclang/error"
	"github.com/paladinking/desclang/grammar/symbol"
	"github.com/paladinking/desclang/spec"
)

const DefaultStartSymbol = "PROGRAM"

type Grammar struct {
	name        string
	symbolTable *symbol.SymbolTable
	start       symbol.Handle
	includes    []string
}

func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symbolTable.Reader()
}

func (g *Grammar) Start() symbol.Handle {
	return g.start
}

type buildConfig struct {
	name        string
	startSymbol string
}

type BuildOption func(config *buildConfig)

// SpecifyStartSymbol overrides the default start symbol PROGRAM.
func SpecifyStartSymbol(name string) BuildOption {
	return func(config *buildConfig) {
		config.startSymbol = name
	}
}

func SpecifyName(name string) BuildOption {
	return func(config *buildConfig) {
		config.name = name
	}
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

// Build applies the statements in source order. Errors in the description
// itself are returned as verr.SpecErrors; a missing start symbol and unresolved
// symbols are returned as *StartSymbolError and *UnresolvedSymbolError.
func (b *GrammarBuilder) Build(opts ...BuildOption) (*Grammar, error) {
	config := &buildConfig{
		startSymbol: DefaultStartSymbol,
	}
	for _, opt := range opts {
		opt(config)
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	var includes []string
	defined := map[string]struct{}{}
	for _, stmt := range b.AST.Statements {
		switch stmt.Kind {
		case spec.StatementKindInclude:
			includes = append(includes, stmt.Text)
		case spec.StatementKindType:
			if stmt.Name == symbol.NameError {
				b.addError(semErrReservedSymbolError, stmt.Name, stmt.Pos)
				continue
			}
			w.SetValueType(stmt.Name, stmt.Text)
		case spec.StatementKindAtoms:
			for _, atom := range stmt.Atoms {
				b.registerTerminal(w, atom.Name, atom.Pos)
			}
		case spec.StatementKindPattern:
			b.registerPattern(w, stmt)
		case spec.StatementKindProduction:
			if _, ok := defined[stmt.Name]; ok {
				b.addError(semErrDuplicateProduction, stmt.Name, stmt.Pos)
				continue
			}
			if b.registerProduction(w, stmt) {
				defined[stmt.Name] = struct{}{}
			}
		}
	}
	if len(defined) == 0 && len(b.errs) == 0 {
		b.addError(semErrNoProduction, "", spec.Position{})
	}
	w.AppendEOF()

	r := symTab.Reader()
	for _, stmt := range b.AST.Statements {
		if stmt.Kind != spec.StatementKindProduction {
			continue
		}
		for _, alt := range stmt.Alternatives {
			b.checkInlineHook(r, alt)
		}
	}
	if len(b.errs) > 0 {
		b.errs.Sort()
		return nil, b.errs
	}

	var errs []error
	start, ok := r.Lookup(config.startSymbol)
	switch {
	case !ok:
		errs = append(errs, &StartSymbolError{
			Name: config.startSymbol,
		})
	case r.Kind(start) != symbol.KindProduction:
		errs = append(errs, &StartSymbolError{
			Name: config.startSymbol,
			Kind: r.Kind(start),
		})
	}
	for _, h := range r.Placeholders() {
		errs = append(errs, &UnresolvedSymbolError{
			Name: r.Symbol(h).Name,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	tracer().Debugf("symbol table has %d symbols; start symbol: %v", r.Len(), config.startSymbol)

	return &Grammar{
		name:        config.name,
		symbolTable: symTab,
		start:       start,
		includes:    includes,
	}, nil
}

func (b *GrammarBuilder) addError(cause error, detail string, pos spec.Position) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  cause,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

func (b *GrammarBuilder) registerTerminal(w *symbol.SymbolTableWriter, name string, pos spec.Position) {
	if name == symbol.NameError {
		b.addError(semErrReservedSymbolError, name, pos)
		return
	}
	h, ok := w.Reader().Lookup(name)
	if ok && w.Reader().Kind(h) != symbol.KindPlaceholder {
		if w.Reader().Kind(h) == symbol.KindTerminal {
			b.addError(semErrDuplicateTerminal, name, pos)
		} else {
			b.addError(semErrDuplicateName, name, pos)
		}
		return
	}
	_, err := w.RegisterTerminal(name, pos.Row)
	if err != nil {
		b.addError(semErrDuplicateName, name, pos)
	}
}

func (b *GrammarBuilder) registerPattern(w *symbol.SymbolTableWriter, stmt *spec.StatementNode) {
	if stmt.Name == symbol.NameError {
		b.addError(semErrReservedSymbolError, stmt.Name, stmt.Pos)
		return
	}
	h := w.Reference(stmt.Name)
	switch w.Reader().Kind(h) {
	case symbol.KindPlaceholder:
		b.registerTerminal(w, stmt.Name, stmt.Pos)
	case symbol.KindProduction:
		b.addError(semErrPatternNotTerminal, stmt.Name, stmt.Pos)
		return
	}
	if w.Reader().Symbol(h).Pattern != "" {
		b.addError(semErrDuplicatePattern, stmt.Name, stmt.Pos)
		return
	}
	w.SetPattern(h, stmt.Text)
}

func (b *GrammarBuilder) registerProduction(w *symbol.SymbolTableWriter, stmt *spec.StatementNode) bool {
	if stmt.Name == symbol.NameError {
		b.addError(semErrReservedSymbolError, stmt.Name, stmt.Pos)
		return false
	}
	if h, ok := w.Reader().Lookup(stmt.Name); ok && w.Reader().Kind(h) == symbol.KindTerminal {
		b.addError(semErrDuplicateName, stmt.Name, stmt.Pos)
		return false
	}
	for _, alt := range stmt.Alternatives {
		rhs := make([]symbol.Handle, len(alt.Elements))
		for i, elem := range alt.Elements {
			if elem.IsLiteral() {
				rhs[i] = w.Literal(elem.Literal)
			} else {
				rhs[i] = w.Reference(elem.ID)
			}
		}
		_, err := w.AddAlternative(stmt.Name, rhs, alt.Hook, alt.Pos.Row)
		if err != nil {
			b.addError(semErrDuplicateName, stmt.Name, stmt.Pos)
			return false
		}
	}
	return true
}

var inlineRefPattern = regexp.MustCompile(`\$([0-9]{1,2})`)

// checkInlineHook verifies that the $N references of an inline hook (a hook
// starting with $) refer to children the alternative actually passes.
func (b *GrammarBuilder) checkInlineHook(symTab *symbol.SymbolTableReader, alt *spec.AlternativeNode) {
	if !strings.HasPrefix(alt.Hook, "$") {
		return
	}
	count := 0
	for _, elem := range alt.Elements {
		if elem.IsLiteral() {
			continue
		}
		h, _ := symTab.Lookup(elem.ID)
		if symTab.ValueType(h) == symbol.VoidValueType {
			continue
		}
		count++
	}
	for _, m := range inlineRefPattern.FindAllStringSubmatch(alt.Hook[1:], -1) {
		n, _ := strconv.Atoi(m[1])
		if n >= count {
			b.addError(semErrInvalidInlineHook, m[0], alt.Pos)
		}
	}
}

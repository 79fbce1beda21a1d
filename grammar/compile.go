package grammar

import (
	"errors"
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"

	"github.com/paladinking/desclang/compressor"
	"github.com/paladinking/desclang/grammar/symbol"
	spec "github.com/paladinking/desclang/spec/grammar"
)

type compileConfig struct {
	isReportingEnabled bool
	mergeCores         bool
	compress           bool
	stateLimit         int
	walkNullable       bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// MergeCores folds states with identical cores into one, shrinking the
// automaton at the risk of new reduce/reduce conflicts.
func MergeCores() CompileOption {
	return func(config *compileConfig) {
		config.mergeCores = true
	}
}

// Compress stores the action and goto tables as unique rows.
func Compress() CompileOption {
	return func(config *compileConfig) {
		config.compress = true
	}
}

// StateLimit aborts the build with a *CapacityError once the automaton would
// exceed n states. Zero means no limit.
func StateLimit(n int) CompileOption {
	return func(config *compileConfig) {
		config.stateLimit = n
	}
}

// NullableLookahead makes the lookahead of a closure item look past followers
// that can derive the empty string, up to the lookahead of the item that
// introduced it. By default only the symbol right after the production counts.
func NullableLookahead() CompileOption {
	return func(config *compileConfig) {
		config.walkNullable = true
	}
}

// Compile builds the automaton of a grammar and emits its parsing table. When
// reporting is enabled the report is returned even if the build fails on
// conflicts.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	symTab := gram.SymbolTable()
	a, err := buildAutomaton(symTab, gram.start, config.stateLimit, config.walkNullable)
	if err != nil {
		return nil, nil, err
	}
	if config.mergeCores {
		mergeCores(a)
	}

	conflicts := validateAutomaton(a, gram.start)
	nums := newNumbering(symTab)

	var report *spec.Report
	if config.isReportingEnabled {
		report = genReport(a, nums, conflicts)
	}

	if len(conflicts) > 0 {
		errs := make([]error, len(conflicts))
		for i, c := range conflicts {
			errs[i] = c
		}
		return nil, report, errors.Join(errs...)
	}
	if len(a.acceptingStates()) == 0 {
		return nil, report, ErrNoAcceptingState
	}

	b := &lrTableBuilder{
		automaton: a,
		nums:      nums,
	}
	tab := b.build()

	cg := &spec.CompiledGrammar{
		Name:        gram.name,
		StartSymbol: symTab.Symbol(gram.start).Name,
		Includes:    gram.includes,
		Terminals:   genTerminals(symTab, nums),
		Families:    genFamilies(symTab, nums),
		Productions: genProductions(symTab, nums),
	}

	err = checkLexPatterns(cg)
	if err != nil {
		return nil, report, err
	}

	cg.ParsingTable, err = genParsingTable(tab, nums, symTab, gram.start, config.compress)
	if err != nil {
		return nil, report, err
	}

	return cg, report, nil
}

func genTerminals(symTab *symbol.SymbolTableReader, nums *numbering) []*spec.Terminal {
	terms := make([]*spec.Terminal, len(nums.termHandles))
	for i, h := range nums.termHandles {
		sym := symTab.Symbol(h)
		var kind spec.TerminalKind
		switch {
		case h == symbol.HandleError:
			kind = spec.TerminalKindError
		case h == symTab.EOF():
			kind = spec.TerminalKindEOF
		case sym.Kind == symbol.KindLiteral:
			kind = spec.TerminalKindLiteral
		default:
			kind = spec.TerminalKindAtom
		}
		terms[i] = &spec.Terminal{
			Number:    i,
			Name:      sym.Name,
			Kind:      kind,
			Pattern:   sym.Pattern,
			ValueType: symTab.ValueType(h),
		}
	}
	return terms
}

func genFamilies(symTab *symbol.SymbolTableReader, nums *numbering) []*spec.Family {
	fams := make([]*spec.Family, len(nums.famHandles))
	for i, h := range nums.famHandles {
		fams[i] = &spec.Family{
			Number:    i,
			Name:      symTab.Symbol(h).Name,
			ValueType: symTab.ValueType(h),
		}
	}
	return fams
}

func genProductions(symTab *symbol.SymbolTableReader, nums *numbering) []*spec.Production {
	prods := make([]*spec.Production, len(nums.prodHandles))
	for i, h := range nums.prodHandles {
		sym := symTab.Symbol(h)
		children := []int{}
		for pos, e := range sym.RHS {
			if symTab.Kind(e) == symbol.KindLiteral || symTab.ValueType(e) == symbol.VoidValueType {
				continue
			}
			children = append(children, pos)
		}
		prods[i] = &spec.Production{
			Number:   nums.prods[h].Int(),
			Family:   nums.family(symTab, h),
			RHSLen:   len(sym.RHS),
			Children: children,
			Hook:     sym.Hook,
		}
	}
	return prods
}

func genParsingTable(tab *ParsingTable, nums *numbering, symTab *symbol.SymbolTableReader, start symbol.Handle, compress bool) (*spec.ParsingTable, error) {
	action := make([]int, len(tab.actionTable))
	for i, e := range tab.actionTable {
		action[i] = int(e)
	}
	goTo := make([]int, len(tab.goToTable))
	for i, e := range tab.goToTable {
		goTo[i] = int(e)
	}

	pt := &spec.ParsingTable{
		Action:             action,
		GoTo:               goTo,
		StateCount:         tab.stateCount,
		InitialState:       stateNumInitial.Int(),
		TerminalCount:      tab.terminalCount,
		FamilyCount:        tab.familyCount,
		StartFamily:        nums.families[start],
		EOFSymbol:          nums.terminals[symTab.EOF()],
		ErrorSymbol:        nums.terminals[symbol.HandleError],
		AcceptStates:       tab.acceptStates,
		ErrorTrapperStates: tab.errorTrapperStates,
		ExpectedTerminals:  tab.expectedTerminals,
	}

	if !compress {
		return pt, nil
	}

	ca, err := compressor.CompressRows(action, tab.terminalCount)
	if err != nil {
		return nil, err
	}
	pt.Action = ca.Entries
	pt.ActionRowNums = ca.RowNums
	if tab.familyCount > 0 {
		cg, err := compressor.CompressRows(goTo, tab.familyCount)
		if err != nil {
			return nil, err
		}
		pt.GoTo = cg.Entries
		pt.GoToRowNums = cg.RowNums
	}

	tracer().Debugf("compressed action table: %d -> %d rows", tab.stateCount, len(pt.Action)/tab.terminalCount)

	return pt, nil
}

// checkLexPatterns compiles the lexical specification once so that an invalid
// `pattern:` is reported when the grammar is built rather than when it is run.
func checkLexPatterns(cg *spec.CompiledGrammar) error {
	lexSpec, _ := cg.LexSpec()
	_, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err == nil {
		return nil
	}
	if len(cErrs) == 0 {
		return err
	}
	var b strings.Builder
	writeCompileError(&b, cg, cErrs[0])
	for _, cErr := range cErrs[1:] {
		fmt.Fprintf(&b, "\n")
		writeCompileError(&b, cg, cErr)
	}
	return errors.New(b.String())
}

func writeCompileError(w io.Writer, cg *spec.CompiledGrammar, cErr *mlcompiler.CompileError) {
	name := cErr.Kind.String()
	for _, t := range cg.Terminals {
		if spec.LexKindName(t) == cErr.Kind {
			name = t.Label()
			break
		}
	}
	fmt.Fprintf(w, "invalid pattern of %v: %v", name, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

package grammar

import (
	"regexp"
	"strconv"
	"strings"
)

type CompiledGrammar struct {
	Name         string        `json:"name"`
	StartSymbol  string        `json:"start_symbol"`
	Includes     []string      `json:"includes,omitempty"`
	Terminals    []*Terminal   `json:"terminals"`
	Families     []*Family     `json:"families"`
	Productions  []*Production `json:"productions"`
	ParsingTable *ParsingTable `json:"parsing_table"`
}

// Production returns a production by its number. Productions are numbered from 1.
func (g *CompiledGrammar) Production(num int) *Production {
	return g.Productions[num-1]
}

// TerminalByName finds an atom by its name or a literal by its text.
func (g *CompiledGrammar) TerminalByName(kind TerminalKind, name string) (*Terminal, bool) {
	for _, t := range g.Terminals {
		if t.Kind == kind && t.Name == name {
			return t, true
		}
	}
	return nil, false
}

type TerminalKind string

const (
	TerminalKindError   = TerminalKind("error")
	TerminalKindAtom    = TerminalKind("atom")
	TerminalKindLiteral = TerminalKind("literal")
	TerminalKindEOF     = TerminalKind("eof")
)

type Terminal struct {
	Number    int          `json:"number"`
	Name      string       `json:"name"`
	Kind      TerminalKind `json:"kind"`
	Pattern   string       `json:"pattern,omitempty"`
	ValueType string       `json:"value_type,omitempty"`
}

// Label returns the name used in messages: literals are quoted.
func (t *Terminal) Label() string {
	if t.Kind == TerminalKindLiteral {
		return "'" + t.Name + "'"
	}
	return t.Name
}

// Family is the set of alternatives sharing one production name.
type Family struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	ValueType string `json:"value_type"`
}

type Production struct {
	Number int `json:"number"`
	Family int `json:"family"`
	RHSLen int `json:"rhs_len"`

	// Children lists the RHS positions whose values are passed to the hook.
	// Literals and symbols typed void are left out.
	Children []int  `json:"children"`
	Hook     string `json:"hook,omitempty"`
}

var inlinePassthrough = regexp.MustCompile(`^\$([0-9]{1,2})$`)

// InlineHook reports whether the hook is an inline expression (it starts with $).
func (p *Production) InlineHook() bool {
	return strings.HasPrefix(p.Hook, "$")
}

// Passthrough returns N for an inline hook of the form `$ $N`, which yields the
// value of child N unchanged.
func (p *Production) Passthrough() (int, bool) {
	if !p.InlineHook() {
		return 0, false
	}
	m := inlinePassthrough.FindStringSubmatch(strings.TrimSpace(p.Hook[1:]))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsingTable holds the action and goto tables in row-major order.
//
// An action entry is 0 for an error, -s for a shift to state s, and p for a
// reduction by production p. A goto entry is the destination state, or 0 when
// there is none (state 0 is never a destination).
//
// When ActionRowNums (or GoToRowNums) is set, the table holds only unique rows
// and the row of state s is ActionRowNums[s].
type ParsingTable struct {
	Action        []int `json:"action"`
	ActionRowNums []int `json:"action_row_nums,omitempty"`
	GoTo          []int `json:"goto"`
	GoToRowNums   []int `json:"goto_row_nums,omitempty"`

	StateCount    int `json:"state_count"`
	InitialState  int `json:"initial_state"`
	TerminalCount int `json:"terminal_count"`
	FamilyCount   int `json:"family_count"`
	StartFamily   int `json:"start_family"`
	EOFSymbol     int `json:"eof_symbol"`
	ErrorSymbol   int `json:"error_symbol"`

	AcceptStates []int `json:"accept_states"`

	// ErrorTrapperStates[s] is 1 when state s can shift the error symbol.
	ErrorTrapperStates []int `json:"error_trapper_states"`

	// ExpectedTerminals[s] lists the terminals state s has an action for,
	// without the error symbol.
	ExpectedTerminals [][]int `json:"expected_terminals"`
}

func (t *ParsingTable) ActionEntry(state, terminal int) int {
	row := state
	if t.ActionRowNums != nil {
		row = t.ActionRowNums[state]
	}
	return t.Action[row*t.TerminalCount+terminal]
}

func (t *ParsingTable) GoToEntry(state, family int) int {
	row := state
	if t.GoToRowNums != nil {
		row = t.GoToRowNums[state]
	}
	return t.GoTo[row*t.FamilyCount+family]
}

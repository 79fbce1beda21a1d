package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paladinking/desclang/grammar/symbol"
)

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
	semErrDuplicateProduction = newSemanticError("duplicate production; list every alternative in one statement")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and productions")
	semErrPatternNotTerminal  = newSemanticError("a pattern can be attached only to a terminal")
	semErrDuplicatePattern    = newSemanticError("a terminal can have only one pattern")
	semErrInvalidInlineHook   = newSemanticError("an inline hook can refer only to existing children")
	semErrReservedSymbolError = newSemanticError("the error symbol is reserved")
)

// ErrNoAcceptingState reports an automaton in which no state can accept the input.
var ErrNoAcceptingState = errors.New("the automaton has no accepting state")

// UnresolvedSymbolError reports a symbol that is referenced but never declared
// as an atom nor defined as a production.
type UnresolvedSymbolError struct {
	Name string
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("missing rule: %v is neither declared by `atoms:` nor defined as a production", e.Name)
}

// StartSymbolError reports a start symbol that does not exist or is not a production.
type StartSymbolError struct {
	Name string
	Kind symbol.Kind
}

func (e *StartSymbolError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("start symbol %v is not defined", e.Name)
	}
	return fmt.Sprintf("start symbol %v must be a production, but it is a %v", e.Name, e.Kind)
}

type ConflictKind string

const (
	ConflictKindShiftReduce  = ConflictKind("shift/reduce")
	ConflictKindReduceReduce = ConflictKind("reduce/reduce")
)

// ConflictError reports one conflict. Productions holds the reducible productions
// involved: one for a shift/reduce conflict and two for a reduce/reduce conflict.
type ConflictError struct {
	Kind        ConflictKind
	State       int
	Symbol      string
	NextState   int
	Productions []string
	Dump        string

	sym   symbol.Handle
	prods []symbol.Handle
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v conflict in state %v on %v: ", e.Kind, e.State, e.Symbol)
	switch e.Kind {
	case ConflictKindShiftReduce:
		fmt.Fprintf(&b, "shift to state %v or reduce %v", e.NextState, e.Productions[0])
	case ConflictKindReduceReduce:
		fmt.Fprintf(&b, "reduce %v or reduce %v", e.Productions[0], e.Productions[1])
	}
	if e.Dump != "" {
		fmt.Fprintf(&b, "\n%v", e.Dump)
	}
	return b.String()
}

// CapacityError reports a build that outgrew a configured limit.
type CapacityError struct {
	Resource string
	Limit    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("too many %v; limit: %v", e.Resource, e.Limit)
}

package driver

import (
	spec "github.com/paladinking/desclang/spec/grammar"
)

// Grammar is the view of a compiled grammar the parser runs on.
type Grammar interface {
	InitialState() int
	Action(state int, terminal int) int
	GoTo(state int, family int) int
	ErrorTrapperState(state int) bool
	ExpectedTerminals(state int) []int
	Production(prod int) *spec.Production
	StartFamily() int
	EOF() int
	Error() int
	Terminal(terminal int) string
	Family(family int) string
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) InitialState() int {
	return g.g.ParsingTable.InitialState
}

func (g *grammarImpl) Action(state int, terminal int) int {
	return g.g.ParsingTable.ActionEntry(state, terminal)
}

func (g *grammarImpl) GoTo(state int, family int) int {
	return g.g.ParsingTable.GoToEntry(state, family)
}

func (g *grammarImpl) ErrorTrapperState(state int) bool {
	return g.g.ParsingTable.ErrorTrapperStates[state] != 0
}

func (g *grammarImpl) ExpectedTerminals(state int) []int {
	return g.g.ParsingTable.ExpectedTerminals[state]
}

func (g *grammarImpl) Production(prod int) *spec.Production {
	return g.g.Production(prod)
}

func (g *grammarImpl) StartFamily() int {
	return g.g.ParsingTable.StartFamily
}

func (g *grammarImpl) EOF() int {
	return g.g.ParsingTable.EOFSymbol
}

func (g *grammarImpl) Error() int {
	return g.g.ParsingTable.ErrorSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Terminals[terminal].Label()
}

func (g *grammarImpl) Family(family int) string {
	return g.g.Families[family].Name
}

package grammar

import (
	"fmt"

	mlspec "github.com/nihei9/maleeni/spec"
)

// LexKindNameWhiteSpace is the lexical kind the runtime lexer skips.
const LexKindNameWhiteSpace = mlspec.LexKindName("white_space")

const whiteSpacePattern = `[\u{0009}\u{000A}\u{000D}\u{0020}]+`

// LexKindName returns the lexical kind assigned to a terminal. Kind names are
// derived from terminal numbers because atom names and literal texts are not
// valid kind names in general.
func LexKindName(term *Terminal) mlspec.LexKindName {
	return mlspec.LexKindName(fmt.Sprintf("t%v", term.Number))
}

// LexSpec returns a maleeni lexical specification recognizing the literals and
// the atoms that have a pattern. Literals come first so that they win over atom
// patterns matching the same text. kind2Term maps each kind name to its terminal
// number.
func (g *CompiledGrammar) LexSpec() (lexSpec *mlspec.LexSpec, kind2Term map[mlspec.LexKindName]int) {
	lexSpec = &mlspec.LexSpec{}
	kind2Term = map[mlspec.LexKindName]int{}
	for _, t := range g.Terminals {
		if t.Kind != TerminalKindLiteral || t.Name == "" {
			continue
		}
		kind := LexKindName(t)
		lexSpec.Entries = append(lexSpec.Entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(t.Name)),
		})
		kind2Term[kind] = t.Number
	}
	for _, t := range g.Terminals {
		if t.Kind != TerminalKindAtom || t.Pattern == "" {
			continue
		}
		kind := LexKindName(t)
		lexSpec.Entries = append(lexSpec.Entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(t.Pattern),
		})
		kind2Term[kind] = t.Number
	}
	lexSpec.Entries = append(lexSpec.Entries, &mlspec.LexEntry{
		Kind:    LexKindNameWhiteSpace,
		Pattern: whiteSpacePattern,
	})
	return lexSpec, kind2Term
}

/*
Package grammar turns a grammar description into a validated LR automaton and
the parsing tables of a shift-reduce parser.

The automaton is built from closed item sets. Closing an item set pulls in the
alternatives of every production found right after a dot; the lookahead given
to those alternatives only looks one grammar symbol past the production, so the
class of accepted grammars sits between LR(0) and canonical LR(1). States are
discovered depth first and structurally equal item sets are merged.

Tracing uses the key 'desclang.grammar'.
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'desclang.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("desclang.grammar")
}

/*
Package spec reads grammar descriptions.

A description is a list of statements separated by semicolons:

	// line comment
	include: <stdio.h>;
	type: EXPR = Expr*;
	atoms: NUMBER, IDENTIFIER;
	pattern: NUMBER = '[0-9]+';
	EXPR = EXPR + '+' + TERM : add | TERM;

A malformed statement is reported and skipped, so one call to Parse reports
every syntax error of a description.

Tracing uses the key 'desclang.spec'.
*/
package spec

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'desclang.spec'.
func tracer() tracing.Trace {
	return tracing.Select("desclang.spec")
}

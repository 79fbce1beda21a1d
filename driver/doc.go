/*
Package driver runs a compiled grammar: a shift-reduce parser driven by the
parsing table, with hooks computing the value of each reduced alternative and
recovery from syntax errors through the error symbol.

Tracing uses the key 'desclang.driver'.
*/
package driver

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'desclang.driver'.
func tracer() tracing.Trace {
	return tracing.Select("desclang.driver")
}

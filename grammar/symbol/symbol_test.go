package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	r := tab.Reader()

	// PROGRAM = LIST;
	// LIST = LIST + ',' + ITEM | ITEM;
	// atoms: ITEM;
	list := w.Reference("LIST")
	prog, err := w.AddAlternative("PROGRAM", []Handle{list}, "", 1)
	require.NoError(t, err)
	comma := w.Literal(",")
	item := w.Reference("ITEM")
	list1, err := w.AddAlternative("LIST", []Handle{list, comma, item}, "", 2)
	require.NoError(t, err)
	list2, err := w.AddAlternative("LIST", []Handle{item}, "", 2)
	require.NoError(t, err)
	_, err = w.RegisterTerminal("ITEM", 3)
	require.NoError(t, err)
	eof := w.AppendEOF()

	assert.Equal(t, list, list1, "the first alternative must resolve the placeholder in place")
	assert.Equal(t, list2, r.Symbol(list1).Next)
	assert.Equal(t, list2, r.Tail(list1))
	assert.Equal(t, []Handle{list1, list2}, r.Alternatives(list1))
	assert.Equal(t, list1, r.Symbol(list2).Head)
	assert.Equal(t, KindProduction, r.Kind(prog))
	assert.Equal(t, KindTerminal, r.Kind(item))
	assert.Equal(t, KindLiteral, r.Kind(comma))
	assert.True(t, r.Symbol(list2).IsProduction())
	assert.False(t, r.Symbol(item).IsProduction())
	assert.True(t, r.Symbol(comma).IsTerminal())

	assert.Equal(t, HandleError, r.Terminals()[0])
	assert.Equal(t, []Handle{HandleError, comma, item, eof}, r.Terminals())
	assert.Equal(t, eof, Handle(r.Len()-1))
	assert.Equal(t, []Handle{list1, prog, list2}, r.Productions())
	assert.Equal(t, []Handle{list1, prog}, r.Families())
	assert.Empty(t, r.Placeholders())

	h, ok := r.LookupLiteral(",")
	assert.True(t, ok)
	assert.Equal(t, comma, h)
	_, ok = r.Lookup(",")
	assert.False(t, ok, "literals must not share the identifier namespace")
}

func TestSymbolTable_ValueType(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	r := tab.Reader()

	num := w.Reference("NUM")
	_, err := w.RegisterTerminal("NUM", 1)
	require.NoError(t, err)
	e1, err := w.AddAlternative("EXPR", []Handle{num}, "", 2)
	require.NoError(t, err)
	// A declaration after the first alternative applies to the whole family,
	// including alternatives added later.
	w.SetValueType("EXPR", "Expr*")
	e2, err := w.AddAlternative("EXPR", []Handle{w.Literal("("), e1, w.Literal(")")}, "", 3)
	require.NoError(t, err)
	w.SetValueType("NUM", "double")

	assert.Equal(t, "Expr*", r.ValueType(e1))
	assert.Equal(t, "Expr*", r.ValueType(e2))
	assert.Equal(t, "double", r.ValueType(num))
	assert.Equal(t, VoidValueType, r.ValueType(r.Symbol(e2).RHS[0]))
	assert.Equal(t, VoidValueType, r.ValueType(HandleError))
}

func TestSymbolTable_Redefinition(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()

	_, err := w.RegisterTerminal("ID", 1)
	require.NoError(t, err)
	_, err = w.RegisterTerminal("ID", 2)
	assert.Error(t, err)
	_, err = w.AddAlternative("ID", nil, "", 3)
	assert.Error(t, err)
	_, err = w.AddAlternative("error", nil, "", 4)
	assert.Error(t, err, "the reserved error symbol cannot become a production")

	w.Reference("FOO")
	assert.Equal(t, []Handle{Handle(2)}, tab.Reader().Placeholders())
}

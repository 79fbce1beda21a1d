package symbol

import (
	"fmt"
	"math"
)

type Kind string

const (
	KindProduction  = Kind("production")
	KindTerminal    = Kind("terminal")
	KindLiteral     = Kind("literal")
	KindPlaceholder = Kind("placeholder")
)

func (k Kind) String() string {
	return string(k)
}

// Handle addresses a symbol in a SymbolTable. Handles are indexes into the
// table and never change once issued.
type Handle uint32

const HandleNil = Handle(math.MaxUint32)

func (h Handle) Int() int {
	return int(h)
}

func (h Handle) IsNil() bool {
	return h == HandleNil
}

func (h Handle) String() string {
	if h.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("#%v", uint32(h))
}

const (
	// The error symbol is a terminal used by the runtime to recover from syntax errors.
	// It always takes the first handle.
	HandleError = Handle(0)

	NameError = "error"
	NameEOF   = "$"

	// DefaultValueType is the value type of a symbol without a `type:` declaration.
	DefaultValueType = "int64"
	// VoidValueType marks a symbol that carries no value.
	VoidValueType = "void"
)

type Symbol struct {
	Kind Kind

	// Name is an identifier for terminals and productions, and the unquoted text for literals.
	Name string

	// ValueType is meaningful on terminals and on the tail of a production family.
	ValueType string

	RHS []Handle

	// Next links an alternative to the next alternative of the same family.
	Next Handle

	// Head is the first alternative of the family a production belongs to.
	Head Handle

	Hook string

	// Pattern is the regular expression the runtime lexer uses for a terminal.
	Pattern string

	// Row is the source row of the definition, used in diagnostics.
	Row int
}

func (s *Symbol) IsTerminal() bool {
	return s.Kind == KindTerminal || s.Kind == KindLiteral
}

func (s *Symbol) IsProduction() bool {
	return s.Kind == KindProduction
}

// Label returns a printable name: literals are quoted.
func (s *Symbol) Label() string {
	if s.Kind == KindLiteral {
		return fmt.Sprintf("'%v'", s.Name)
	}
	return s.Name
}

type SymbolTable struct {
	syms     []*Symbol
	names    map[string]Handle
	literals map[string]Handle
	eof      Handle
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

// NewSymbolTable returns a table holding only the reserved error terminal.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		syms: []*Symbol{
			{
				Kind:      KindTerminal,
				Name:      NameError,
				ValueType: VoidValueType,
				Next:      HandleNil,
				Head:      HandleNil,
			},
		},
		names: map[string]Handle{
			NameError: HandleError,
		},
		literals: map[string]Handle{},
		eof:      HandleNil,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (t *SymbolTable) add(sym *Symbol) Handle {
	h := Handle(len(t.syms))
	t.syms = append(t.syms, sym)
	return h
}

// Reference returns the handle of a named symbol, creating a placeholder when
// the name has not been seen yet.
func (w *SymbolTableWriter) Reference(name string) Handle {
	if h, ok := w.names[name]; ok {
		return h
	}
	h := w.add(&Symbol{
		Kind:      KindPlaceholder,
		Name:      name,
		ValueType: DefaultValueType,
		Next:      HandleNil,
		Head:      HandleNil,
	})
	w.names[name] = h
	return h
}

// Literal returns the handle of a literal, creating it on first use.
func (w *SymbolTableWriter) Literal(text string) Handle {
	if h, ok := w.literals[text]; ok {
		return h
	}
	h := w.add(&Symbol{
		Kind: KindLiteral,
		Name: text,
		Next: HandleNil,
		Head: HandleNil,
	})
	w.literals[text] = h
	return h
}

// RegisterTerminal declares an atom. A placeholder with the same name becomes
// the terminal in place.
func (w *SymbolTableWriter) RegisterTerminal(name string, row int) (Handle, error) {
	h := w.Reference(name)
	sym := w.syms[h]
	if sym.Kind != KindPlaceholder {
		return HandleNil, fmt.Errorf("%v is already defined as a %v", name, sym.Kind)
	}
	sym.Kind = KindTerminal
	sym.Row = row
	return h, nil
}

// AddAlternative defines one alternative of the production family `name`. The
// first alternative resolves a placeholder in place and becomes the family head;
// later ones are appended to the tail of the chain and inherit the family value type.
func (w *SymbolTableWriter) AddAlternative(name string, rhs []Handle, hook string, row int) (Handle, error) {
	h := w.Reference(name)
	sym := w.syms[h]
	switch sym.Kind {
	case KindPlaceholder:
		sym.Kind = KindProduction
		sym.RHS = rhs
		sym.Hook = hook
		sym.Head = h
		sym.Row = row
		return h, nil
	case KindProduction:
		tail := w.Reader().Tail(h)
		alt := w.add(&Symbol{
			Kind:      KindProduction,
			Name:      name,
			ValueType: w.syms[tail].ValueType,
			RHS:       rhs,
			Next:      HandleNil,
			Head:      h,
			Hook:      hook,
			Row:       row,
		})
		w.syms[tail].Next = alt
		return alt, nil
	}
	return HandleNil, fmt.Errorf("%v is already defined as a %v", name, sym.Kind)
}

// SetValueType declares the value type of a terminal or of every alternative of a family.
func (w *SymbolTableWriter) SetValueType(name string, valueType string) {
	h := w.Reference(name)
	for ; !h.IsNil(); h = w.syms[h].Next {
		w.syms[h].ValueType = valueType
	}
}

func (w *SymbolTableWriter) SetPattern(h Handle, pattern string) {
	w.syms[h].Pattern = pattern
}

// AppendEOF appends the end-of-input terminal. It must be the last symbol.
func (w *SymbolTableWriter) AppendEOF() Handle {
	if !w.eof.IsNil() {
		return w.eof
	}
	w.eof = w.add(&Symbol{
		Kind:      KindTerminal,
		Name:      NameEOF,
		ValueType: VoidValueType,
		Next:      HandleNil,
		Head:      HandleNil,
	})
	return w.eof
}

func (r *SymbolTableReader) Len() int {
	return len(r.syms)
}

// Symbol returns the symbol a handle refers to, or nil for an unknown handle.
// The returned symbol must not be modified.
func (r *SymbolTableReader) Symbol(h Handle) *Symbol {
	if h.IsNil() || h.Int() >= len(r.syms) {
		return nil
	}
	return r.syms[h]
}

func (r *SymbolTableReader) Lookup(name string) (Handle, bool) {
	h, ok := r.names[name]
	return h, ok
}

func (r *SymbolTableReader) LookupLiteral(text string) (Handle, bool) {
	h, ok := r.literals[text]
	return h, ok
}

func (r *SymbolTableReader) EOF() Handle {
	return r.eof
}

func (r *SymbolTableReader) Kind(h Handle) Kind {
	sym := r.Symbol(h)
	if sym == nil {
		return ""
	}
	return sym.Kind
}

// Tail returns the last alternative of the chain starting at h.
func (r *SymbolTableReader) Tail(h Handle) Handle {
	for !r.syms[h].Next.IsNil() {
		h = r.syms[h].Next
	}
	return h
}

// Alternatives returns the chain starting at h in declaration order.
func (r *SymbolTableReader) Alternatives(h Handle) []Handle {
	var alts []Handle
	for ; !h.IsNil(); h = r.syms[h].Next {
		alts = append(alts, h)
	}
	return alts
}

// Terminals returns terminal and literal handles in ascending order.
func (r *SymbolTableReader) Terminals() []Handle {
	var hs []Handle
	for i, sym := range r.syms {
		if sym.IsTerminal() {
			hs = append(hs, Handle(i))
		}
	}
	return hs
}

// Productions returns every alternative in ascending handle order.
func (r *SymbolTableReader) Productions() []Handle {
	var hs []Handle
	for i, sym := range r.syms {
		if sym.Kind == KindProduction {
			hs = append(hs, Handle(i))
		}
	}
	return hs
}

// Families returns the head of every production family in ascending order.
func (r *SymbolTableReader) Families() []Handle {
	var hs []Handle
	for i, sym := range r.syms {
		if sym.Kind == KindProduction && sym.Head == Handle(i) {
			hs = append(hs, Handle(i))
		}
	}
	return hs
}

// Placeholders returns the symbols that were referenced but never defined.
func (r *SymbolTableReader) Placeholders() []Handle {
	var hs []Handle
	for i, sym := range r.syms {
		if sym.Kind == KindPlaceholder {
			hs = append(hs, Handle(i))
		}
	}
	return hs
}

// ValueType returns the type a symbol's value is stored as. Productions use the
// type of their family tail and literals carry no value.
func (r *SymbolTableReader) ValueType(h Handle) string {
	sym := r.syms[h]
	switch sym.Kind {
	case KindLiteral:
		return VoidValueType
	case KindProduction:
		return r.syms[r.Tail(sym.Head)].ValueType
	}
	return sym.ValueType
}

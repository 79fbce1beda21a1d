package spec

import (
	"bytes"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	verr "github.com/paladinking/desclang/error"
)

type tokenKind string

const (
	tokenKindKWInclude = tokenKind("include:")
	tokenKindKWType    = tokenKind("type:")
	tokenKindKWAtoms   = tokenKind("atoms:")
	tokenKindKWPattern = tokenKind("pattern:")
	tokenKindID        = tokenKind("id")
	tokenKindLiteral   = tokenKind("literal")
	tokenKindEquals    = tokenKind("=")
	tokenKindOr        = tokenKind("|")
	tokenKindPlus      = tokenKind("+")
	tokenKindColon     = tokenKind(":")
	tokenKindComma     = tokenKind(",")
	tokenKindSemicolon = tokenKind(";")
	tokenKindText      = tokenKind("text")
	tokenKindEOF       = tokenKind("eof")
)

// The order of the kinds is the order of the lexer rules; on matches of equal
// length the earlier rule wins, so keywords come before identifiers.
var tokenKinds = []tokenKind{
	tokenKindKWInclude,
	tokenKindKWType,
	tokenKindKWAtoms,
	tokenKindKWPattern,
	tokenKindID,
	tokenKindLiteral,
	tokenKindEquals,
	tokenKindOr,
	tokenKindPlus,
	tokenKindColon,
	tokenKindComma,
	tokenKindSemicolon,
	tokenKindText,
}

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position

	// start and end are byte offsets into the source.
	start int
	end   int
}

var (
	lexerOnce sync.Once
	lexerDef  *lexmachine.Lexer
	lexerErr  error
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func escapeLiteral(lit string) string {
	return "\\" + strings.Join(strings.Split(lit, ""), "\\")
}

func compileLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`//[^\n]*`), skip)
		l.Add([]byte(`( |\t|\n|\r)+`), skip)
		for id, kind := range tokenKinds {
			var pat string
			switch kind {
			case tokenKindID:
				pat = `([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`
			case tokenKindLiteral:
				pat = `'([^'\\]|\\.)*'`
			case tokenKindText:
				pat = `.`
			case tokenKindKWInclude, tokenKindKWType, tokenKindKWAtoms, tokenKindKWPattern:
				pat = string(kind)
			default:
				pat = escapeLiteral(string(kind))
			}
			l.Add([]byte(pat), makeToken(id))
		}
		lexerErr = l.Compile()
		if lexerErr != nil {
			tracer().Errorf("compiling the grammar-text lexer failed: %v", lexerErr)
			return
		}
		lexerDef = l
	})
	return lexerDef, lexerErr
}

type lexer struct {
	src     []byte
	scanner *lexmachine.Scanner
	// lineStarts holds the byte offset of every line start.
	lineStarts []int
}

func newLexer(src []byte) (*lexer, error) {
	def, err := compileLexer()
	if err != nil {
		return nil, err
	}
	s, err := def.Scanner(src)
	if err != nil {
		return nil, err
	}
	lineStarts := []int{0}
	for i, c := range src {
		if c == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &lexer{
		src:        src,
		scanner:    s,
		lineStarts: lineStarts,
	}, nil
}

// position converts a byte offset into a 1-based row and column.
func (l *lexer) position(offset int) Position {
	lo, hi := 0, len(l.lineStarts)
	for lo+1 < hi {
		m := (lo + hi) / 2
		if l.lineStarts[m] <= offset {
			lo = m
		} else {
			hi = m
		}
	}
	col := len(bytes.Runes(l.src[l.lineStarts[lo]:offset])) + 1
	return newPosition(lo+1, col)
}

func (l *lexer) next() (*token, error) {
	tok, err, eof := l.scanner.Next()
	if err != nil {
		ui, ok := err.(*machines.UnconsumedInput)
		if !ok {
			return nil, err
		}
		pos := l.position(ui.StartTC)
		l.scanner.TC = ui.FailTC
		return nil, &verr.SpecError{
			Cause: synErrInvalidChar,
			Row:   pos.Row,
			Col:   pos.Col,
		}
	}
	if eof {
		return &token{
			kind:  tokenKindEOF,
			pos:   l.position(len(l.src)),
			start: len(l.src),
			end:   len(l.src),
		}, nil
	}

	t := tok.(*lexmachine.Token)
	kind := tokenKinds[t.Type]
	text := string(t.Lexeme)
	switch {
	case kind == tokenKindLiteral:
		text = unquote(text)
	case kind == tokenKindText && text == "'":
		// Without its closing quote the rest of the source cannot be split into statements.
		pos := l.position(t.TC)
		l.scanner.TC = len(l.src)
		return nil, &verr.SpecError{
			Cause: synErrUnclosedLiteral,
			Row:   pos.Row,
			Col:   pos.Col,
		}
	}
	return &token{
		kind:  kind,
		text:  text,
		pos:   l.position(t.TC),
		start: t.TC,
		end:   t.TC + len(t.Lexeme),
	}, nil
}

// unquote strips the quotes of a literal and interprets \' and \\.
func unquote(lit string) string {
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) && (body[i+1] == '\'' || body[i+1] == '\\') {
			i++
			c = body[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}

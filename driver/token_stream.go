package driver

import (
	"fmt"
	"io"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"

	spec "github.com/paladinking/desclang/spec/grammar"
)

// Token is one terminal of the input. Start and End are byte offsets of the
// lexeme; Row and Col are 0-based as the lexer reports them.
type Token struct {
	Kind    int
	Start   int
	End     int
	Lexeme  string
	Row     int
	Col     int
	EOF     bool
	Invalid bool
}

// TokenStream feeds the parser. Peek returns the current token without
// consuming it; Advance moves to the next one.
type TokenStream interface {
	Peek() (*Token, error)
	Advance() error
}

type tokenStream struct {
	lex       *mldriver.Lexer
	kindNames []mlspec.LexKindName
	kind2Term map[mlspec.LexKindName]int
	eof       int
	offset    int
	peeked    *Token
}

// NewTokenStream lexes src with the literals and atom patterns of a compiled
// grammar. White space between tokens is skipped.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lexSpec, kind2Term := g.LexSpec()
	clspec, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			return nil, fmt.Errorf("%v: %v: %w", cErrs[0].Kind, cErrs[0].Cause, err)
		}
		return nil, err
	}

	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(clspec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:       lex,
		kindNames: clspec.KindNames,
		kind2Term: kind2Term,
		eof:       g.ParsingTable.EOFSymbol,
	}, nil
}

func (s *tokenStream) Peek() (*Token, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		start := s.offset
		s.offset += len(tok.Lexeme)

		if tok.EOF {
			s.peeked = &Token{
				Kind:  s.eof,
				Start: start,
				End:   start,
				Row:   tok.Row,
				Col:   tok.Col,
				EOF:   true,
			}
			return s.peeked, nil
		}
		if tok.Invalid {
			s.peeked = &Token{
				Kind:    -1,
				Start:   start,
				End:     s.offset,
				Lexeme:  string(tok.Lexeme),
				Row:     tok.Row,
				Col:     tok.Col,
				Invalid: true,
			}
			return s.peeked, nil
		}

		kind := s.kindNames[tok.KindID]
		if kind == spec.LexKindNameWhiteSpace {
			continue
		}
		term, ok := s.kind2Term[kind]
		if !ok {
			return nil, fmt.Errorf("lexical kind %v has no terminal", kind)
		}
		s.peeked = &Token{
			Kind:   term,
			Start:  start,
			End:    s.offset,
			Lexeme: string(tok.Lexeme),
			Row:    tok.Row,
			Col:    tok.Col,
		}
		return s.peeked, nil
	}
}

func (s *tokenStream) Advance() error {
	if s.peeked == nil {
		_, err := s.Peek()
		if err != nil {
			return err
		}
	}
	if !s.peeked.EOF {
		s.peeked = nil
	}
	return nil
}

package spec

import (
	"io"
	"strings"

	verr "github.com/paladinking/desclang/error"
)

type StatementKind string

const (
	StatementKindInclude    = StatementKind("include")
	StatementKindType       = StatementKind("type")
	StatementKindAtoms      = StatementKind("atoms")
	StatementKindPattern    = StatementKind("pattern")
	StatementKindProduction = StatementKind("production")
)

type RootNode struct {
	// Statements are kept in source order because symbols are numbered in the
	// order they are first mentioned.
	Statements []*StatementNode
}

type StatementNode struct {
	Kind StatementKind

	// Name is the declared symbol of type, pattern and production statements.
	Name string

	// Text is the include text, the value type or the pattern.
	Text string

	Atoms        []*AtomNode
	Alternatives []*AlternativeNode
	Pos          Position
}

type AtomNode struct {
	Name string
	Pos  Position
}

type AlternativeNode struct {
	// Elements is empty for an alternative written as ''.
	Elements []*ElementNode
	Hook     string
	Pos      Position
}

type ElementNode struct {
	ID      string
	Literal string
	Pos     Position
}

func (e *ElementNode) IsLiteral() bool {
	return e.ID == ""
}

func raiseSyntaxError(pos Position, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

// Parse reads a whole grammar description. When it finds syntax errors it
// still returns the statements it could read, together with a verr.SpecErrors
// listing every error.
func Parse(src io.Reader) (*RootNode, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	p, err := newParser(b)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	if len(p.errs) > 0 {
		return root, p.errs
	}
	return root, nil
}

type parser struct {
	src       []byte
	lex       *lexer
	peekedTok *token
	lastTok   *token
	errs      verr.SpecErrors
}

func newParser(src []byte) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		src: src,
		lex: lex,
	}, nil
}

// fatalError carries an error that is not a syntax error out of the parser.
type fatalError struct {
	err error
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		fatal, ok := err.(*fatalError)
		if !ok {
			panic(err)
		}
		retErr = fatal.err
	}()

	root = &RootNode{}
	for !p.consume(tokenKindEOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			root.Statements = append(root.Statements, stmt)
		}
	}
	tracer().Debugf("read %d statements with %d errors", len(root.Statements), len(p.errs))
	return root, nil
}

func (p *parser) parseStatement() (stmt *StatementNode) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		specErr, ok := err.(*verr.SpecError)
		if !ok {
			panic(err)
		}
		p.errs = append(p.errs, specErr)
		p.skipOverSemicolon()
		stmt = nil
	}()

	switch {
	case p.consume(tokenKindKWInclude):
		return p.parseInclude()
	case p.consume(tokenKindKWType):
		return p.parseType()
	case p.consume(tokenKindKWAtoms):
		return p.parseAtoms()
	case p.consume(tokenKindKWPattern):
		return p.parsePattern()
	case p.consume(tokenKindID):
		return p.parseProduction()
	}
	raiseSyntaxError(p.peek().pos, synErrUnexpectedToken)
	return nil
}

func (p *parser) parseInclude() *StatementNode {
	pos := p.lastTok.pos
	text, ok := p.rawText(tokenKindSemicolon)
	if !ok {
		raiseSyntaxError(p.peek().pos, synErrNoIncludeText)
	}
	p.expectSemicolon()
	return &StatementNode{
		Kind: StatementKindInclude,
		Text: text,
		Pos:  pos,
	}
}

func (p *parser) parseType() *StatementNode {
	pos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.peek().pos, synErrNoTypeName)
	}
	name := p.lastTok.text
	if !p.consume(tokenKindEquals) {
		raiseSyntaxError(p.peek().pos, synErrNoEquals)
	}
	text, ok := p.rawText(tokenKindSemicolon)
	if !ok {
		raiseSyntaxError(p.peek().pos, synErrNoType)
	}
	p.expectSemicolon()
	return &StatementNode{
		Kind: StatementKindType,
		Name: name,
		Text: text,
		Pos:  pos,
	}
}

func (p *parser) parseAtoms() *StatementNode {
	pos := p.lastTok.pos
	var atoms []*AtomNode
	for {
		if !p.consume(tokenKindID) {
			raiseSyntaxError(p.peek().pos, synErrNoAtomName)
		}
		atoms = append(atoms, &AtomNode{
			Name: p.lastTok.text,
			Pos:  p.lastTok.pos,
		})
		if !p.consume(tokenKindComma) {
			break
		}
		// A trailing comma is allowed.
		if p.peek().kind == tokenKindSemicolon {
			break
		}
	}
	p.expectSemicolon()
	return &StatementNode{
		Kind:  StatementKindAtoms,
		Atoms: atoms,
		Pos:   pos,
	}
}

func (p *parser) parsePattern() *StatementNode {
	pos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.peek().pos, synErrNoPatternName)
	}
	name := p.lastTok.text
	if !p.consume(tokenKindEquals) {
		raiseSyntaxError(p.peek().pos, synErrNoEquals)
	}
	if !p.consume(tokenKindLiteral) || p.lastTok.text == "" {
		raiseSyntaxError(p.peek().pos, synErrNoPattern)
	}
	pattern := p.lastTok.text
	p.expectSemicolon()
	return &StatementNode{
		Kind: StatementKindPattern,
		Name: name,
		Text: pattern,
		Pos:  pos,
	}
}

func (p *parser) parseProduction() *StatementNode {
	name := p.lastTok.text
	pos := p.lastTok.pos
	if !p.consume(tokenKindEquals) {
		raiseSyntaxError(p.peek().pos, synErrNoEquals)
	}
	alts := []*AlternativeNode{p.parseAlternative()}
	for p.consume(tokenKindOr) {
		alts = append(alts, p.parseAlternative())
	}
	p.expectSemicolon()
	return &StatementNode{
		Kind:         StatementKindProduction,
		Name:         name,
		Alternatives: alts,
		Pos:          pos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Pos: p.peek().pos,
	}
	for {
		elem := p.parseElement()
		if elem == nil {
			raiseSyntaxError(p.peek().pos, synErrNoElement)
		}
		// '' stands for nothing and only makes an empty alternative possible.
		if !elem.IsLiteral() || elem.Literal != "" {
			alt.Elements = append(alt.Elements, elem)
		}
		if p.consume(tokenKindPlus) {
			continue
		}
		break
	}
	if p.consume(tokenKindColon) {
		hook, ok := p.rawText(tokenKindOr, tokenKindSemicolon)
		if !ok {
			raiseSyntaxError(p.peek().pos, synErrNoHook)
		}
		alt.Hook = hook
	}
	switch p.peek().kind {
	case tokenKindOr, tokenKindSemicolon:
	case tokenKindID, tokenKindLiteral:
		raiseSyntaxError(p.peek().pos, synErrNoPlus)
	}
	return alt
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		}
	case p.consume(tokenKindLiteral):
		return &ElementNode{
			Literal: p.lastTok.text,
			Pos:     p.lastTok.pos,
		}
	}
	return nil
}

// rawText consumes tokens up to one of the stop kinds and returns the source
// text they span, trimmed. It reports false when the text is empty.
func (p *parser) rawText(stops ...tokenKind) (string, bool) {
	start, end := -1, -1
	for {
		tok := p.peek()
		if tok.kind == tokenKindEOF {
			break
		}
		stop := false
		for _, s := range stops {
			if tok.kind == s {
				stop = true
				break
			}
		}
		if stop {
			break
		}
		p.next()
		if start < 0 {
			start = tok.start
		}
		end = tok.end
	}
	if start < 0 {
		return "", false
	}
	text := strings.TrimSpace(string(p.src[start:end]))
	return text, text != ""
}

func (p *parser) expectSemicolon() {
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.peek().pos, synErrNoSemicolon)
	}
}

func (p *parser) skipOverSemicolon() {
	for {
		tok := p.next()
		if tok.kind == tokenKindSemicolon || tok.kind == tokenKindEOF {
			if tok.kind == tokenKindEOF {
				p.peekedTok = tok
			}
			return
		}
	}
}

func (p *parser) next() *token {
	if p.peekedTok != nil {
		tok := p.peekedTok
		p.peekedTok = nil
		return tok
	}
	for {
		tok, err := p.lex.next()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(&fatalError{err: err})
			}
			// Lexical errors are recorded and the offending input is dropped.
			p.errs = append(p.errs, specErr)
			continue
		}
		return tok
	}
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		p.peekedTok = p.next()
	}
	return p.peekedTok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind != expected {
		return false
	}
	p.peekedTok = nil
	p.lastTok = tok
	return true
}

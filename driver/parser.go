package driver

import (
	"fmt"
	"strings"

	spec "github.com/paladinking/desclang/spec/grammar"
)

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             *Token
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v: %v", e.Row+1, e.Col+1, e.Message)
	if e.Token != nil && !e.Token.EOF {
		fmt.Fprintf(&b, ": %#v", e.Token.Lexeme)
	}
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}

// SyntaxErrors is returned by Parse when the parser could not recover from the
// syntax errors it found.
type SyntaxErrors []*SyntaxError

func (es SyntaxErrors) Error() string {
	var b strings.Builder
	for i, e := range es {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

type ParserOption func(p *Parser) error

func WithHooks(hooks HookSet) ParserOption {
	return func(p *Parser) error {
		p.hookSet = hooks
		return nil
	}
}

// WithContext sets the value passed to every hook as its ctx argument.
func WithContext(ctx any) ParserOption {
	return func(p *Parser) error {
		p.ctx = ctx
		return nil
	}
}

// MakeCST makes the parser build a concrete syntax tree instead of running hooks.
func MakeCST() ParserOption {
	return func(p *Parser) error {
		p.makeCST = true
		return nil
	}
}

type Parser struct {
	compiled   *spec.CompiledGrammar
	gram       Grammar
	ts         TokenStream
	stateStack []int
	semStack   *semanticStack
	hookSet    HookSet
	hooks      []*resolvedHook
	ctx        any
	makeCST    bool
	onError    bool
	trapped    *Token
	synErrs    []*SyntaxError
	cst        *Node
}

// NewParser fails when a hook named by the grammar is missing from the hook set
// or uses an unsupported inline form, unless a CST is requested.
func NewParser(g *spec.CompiledGrammar, ts TokenStream, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		compiled:   g,
		gram:       NewGrammar(g),
		ts:         ts,
		stateStack: []int{},
		semStack:   newSemanticStack(),
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	err := p.resolveHooks()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Parse runs the parser to the end of the input and returns the value of the
// start symbol. Syntax errors the parser recovered from are available through
// SyntaxErrors; when it cannot recover, Parse returns them as SyntaxErrors.
func (p *Parser) Parse() (any, error) {
	p.push(p.gram.InitialState())
	tok, err := p.ts.Peek()
	if err != nil {
		return nil, err
	}

ACTION_LOOP:
	for {
		act := p.lookupAction(p.top(), tok)
		switch {
		case act < 0: // Shift
			nextState := act * -1
			tracer().Debugf("shift %v; state %v -> %v", p.gram.Terminal(tok.Kind), p.top(), nextState)

			p.onError = false
			p.push(nextState)
			p.actOnShift(tok)

			err := p.ts.Advance()
			if err != nil {
				return nil, err
			}
			tok, err = p.ts.Peek()
			if err != nil {
				return nil, err
			}
		case act > 0: // Reduce
			prod := p.gram.Production(act)
			tracer().Debugf("reduce by production %v in state %v", act, p.top())

			err := p.actOnReduction(act, tok.Start)
			if err != nil {
				return nil, err
			}

			accepted, err := p.reduce(prod, tok)
			if err != nil {
				return nil, err
			}
			if accepted {
				top := p.semStack.pop(1)[0]
				p.cst = top.cst
				return top.value, nil
			}
		default: // Error
			if !p.onError {
				p.synErrs = append(p.synErrs, &SyntaxError{
					Row:               tok.Row,
					Col:               tok.Col,
					Message:           "unexpected token",
					Token:             tok,
					ExpectedTerminals: p.searchLookahead(p.top()),
				})
			}

			// A token that already caused a trap is discarded rather than trapped again.
			if tok != p.trapped && p.trapError(tok) {
				p.trapped = tok
				p.onError = false
				continue ACTION_LOOP
			}

			if tok.EOF {
				return nil, SyntaxErrors(p.synErrs)
			}

			// Discard the token that cannot be recovered from.
			p.onError = true
			err := p.ts.Advance()
			if err != nil {
				return nil, err
			}
			tok, err = p.ts.Peek()
			if err != nil {
				return nil, err
			}
		}
	}
}

func (p *Parser) lookupAction(state int, tok *Token) int {
	if tok.Invalid {
		return 0
	}
	return p.gram.Action(state, tok.Kind)
}

// reduce pops the handle of prod and follows the goto of its family. Reducing
// a start production at the end of input down to the bottom of the stack
// accepts the input.
func (p *Parser) reduce(prod *spec.Production, tok *Token) (bool, error) {
	p.pop(prod.RHSLen)
	if tok.EOF && prod.Family == p.gram.StartFamily() && len(p.stateStack) == 1 {
		return true, nil
	}
	nextState := p.gram.GoTo(p.top(), prod.Family)
	if nextState == 0 {
		return false, fmt.Errorf("no goto entry; state: %v, family: %v", p.top(), p.gram.Family(prod.Family))
	}
	p.push(nextState)
	return false, nil
}

// trapError looks for the state nearest to the top of the stack that can shift
// the error symbol into a state with an action on tok. On success it pops the
// stack down to that state and shifts the error symbol.
func (p *Parser) trapError(tok *Token) bool {
	for i := len(p.stateStack) - 1; i >= 0; i-- {
		state := p.stateStack[i]
		if !p.gram.ErrorTrapperState(state) {
			continue
		}
		dest := p.gram.Action(state, p.gram.Error()) * -1
		if dest <= 0 || p.lookupAction(dest, tok) == 0 {
			continue
		}

		popped := len(p.stateStack) - 1 - i
		p.pop(popped)
		p.semStack.pop(popped)
		p.push(dest)
		p.actOnError(tok)
		tracer().Debugf("trapped a syntax error in state %v; popped %v frames", state, popped)
		return true
	}
	return false
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

// CST returns the tree built by a parser created with MakeCST.
func (p *Parser) CST() *Node {
	return p.cst
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

func (p *Parser) searchLookahead(state int) []string {
	kinds := []string{}
	for _, term := range p.gram.ExpectedTerminals(state) {
		if term == p.gram.EOF() {
			kinds = append(kinds, "<eof>")
			continue
		}
		kinds = append(kinds, p.gram.Terminal(term))
	}
	return kinds
}

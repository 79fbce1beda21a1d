package driver

import (
	"fmt"
	"io"
	"strings"
)

// Hook computes the value of an alternative when the parser reduces it. start
// and end are the byte span of the reduced input; children are the values of
// the RHS symbols that carry one, left to right.
type Hook func(ctx any, start, end int, children ...any) (any, error)

// HookSet maps hook names used in a grammar to their implementations.
type HookSet map[string]Hook

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
	Error    bool
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	switch {
	case node.Error:
		fmt.Fprintf(w, "%v!%v\n", ruledLine, node.KindName)
	case node.Text != "":
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	default:
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// semanticFrame is the value stored alongside a state on the parser stack.
type semanticFrame struct {
	value any
	cst   *Node
	start int
	end   int
}

type semanticStack struct {
	frames []*semanticFrame
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f *semanticFrame) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop(n int) []*semanticFrame {
	fs := s.frames[len(s.frames)-n:]
	s.frames = s.frames[:len(s.frames)-n]

	return fs
}

// resolvedHook is the per-production action chosen when the parser is created.
type resolvedHook struct {
	name        string
	fn          Hook
	passthrough int
	inline      bool
}

func (p *Parser) resolveHooks() error {
	p.hooks = make([]*resolvedHook, len(p.compiled.Productions)+1)
	for _, prod := range p.compiled.Productions {
		if prod.Hook == "" {
			continue
		}
		if prod.InlineHook() {
			n, ok := prod.Passthrough()
			if !ok {
				if p.makeCST {
					continue
				}
				return fmt.Errorf("production %v: unsupported inline hook: %v", prod.Number, prod.Hook)
			}
			p.hooks[prod.Number] = &resolvedHook{
				name:        prod.Hook,
				passthrough: n,
				inline:      true,
			}
			continue
		}
		name := strings.TrimSpace(prod.Hook)
		fn, ok := p.hookSet[name]
		if !ok {
			if p.makeCST {
				continue
			}
			return fmt.Errorf("production %v: hook %v is not implemented", prod.Number, name)
		}
		p.hooks[prod.Number] = &resolvedHook{
			name: name,
			fn:   fn,
		}
	}
	return nil
}

func (p *Parser) actOnShift(tok *Token) {
	f := &semanticFrame{
		value: tok,
		start: tok.Start,
		end:   tok.End,
	}
	if p.makeCST {
		f.cst = &Node{
			KindName: p.gram.Terminal(tok.Kind),
			Text:     tok.Lexeme,
			Row:      tok.Row,
			Col:      tok.Col,
		}
	}
	p.semStack.push(f)
}

// actOnReduction replaces the handle of a production on the semantic stack by
// the value of the production. pos is the input offset used as the span of an
// empty production.
func (p *Parser) actOnReduction(prodNum int, pos int) error {
	prod := p.gram.Production(prodNum)

	// When an alternative is empty, `handle` will be empty slice.
	handle := p.semStack.pop(prod.RHSLen)

	f := &semanticFrame{
		start: pos,
		end:   pos,
	}
	if len(handle) > 0 {
		f.start = handle[0].start
		f.end = handle[len(handle)-1].end
	}

	if p.makeCST {
		children := make([]*Node, len(handle))
		for i, h := range handle {
			children[i] = h.cst
		}
		f.cst = &Node{
			KindName: p.gram.Family(prod.Family),
			Children: children,
		}
		p.semStack.push(f)
		return nil
	}

	hook := p.hooks[prodNum]
	if hook != nil {
		children := make([]any, len(prod.Children))
		for i, c := range prod.Children {
			children[i] = handle[c].value
		}
		if hook.inline {
			if hook.passthrough >= len(children) {
				return fmt.Errorf("production %v: inline hook %v refers to a missing child", prodNum, hook.name)
			}
			f.value = children[hook.passthrough]
		} else {
			v, err := hook.fn(p.ctx, f.start, f.end, children...)
			if err != nil {
				return fmt.Errorf("hook %v: %w", hook.name, err)
			}
			f.value = v
		}
	}

	p.semStack.push(f)
	return nil
}

func (p *Parser) actOnError(tok *Token) {
	f := &semanticFrame{
		start: tok.Start,
		end:   tok.Start,
	}
	if p.makeCST {
		f.cst = &Node{
			KindName: p.gram.Terminal(p.gram.Error()),
			Error:    true,
		}
	}
	p.semStack.push(f)
}

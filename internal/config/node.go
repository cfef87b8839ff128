package config

import (
	"fmt"
	"strings"
)

// node is one element of the KDL-lite node tree: a name, optional
// positional string arguments, optional key=value properties, and
// optional brace-delimited children. This is a deliberately small
// subset of real KDL (no multiline strings, no type annotations, no
// slashdash comments beyond "//") — exactly what the binding grammar of
// §6 needs and nothing more.
type node struct {
	name     string
	args     []string
	props    map[string]string
	children []*node
}

func (n *node) boolProp(key string, fallback bool) bool {
	v, ok := n.props[key]
	if !ok {
		return fallback
	}
	return v == "true"
}

// parseNodes tokenizes and parses a full document into its top-level
// node list.
func parseNodes(src string) ([]*node, error) {
	p := &nodeParser{toks: tokenize(src)}
	nodes, err := p.parseChildren()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("config: unexpected token %q at top level", p.toks[p.pos].text)
	}
	return nodes, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokLBrace
	tokRBrace
	tokEquals
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(src string) []token {
	var toks []token
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '{':
			toks = append(toks, token{tokLBrace, "{"})
			i++
		case c == '}':
			toks = append(toks, token{tokRBrace, "}"})
			i++
		case c == '=':
			toks = append(toks, token{tokEquals, "="})
			i++
		case c == '"':
			j := i + 1
			var b strings.Builder
			for j < n && src[j] != '"' {
				if src[j] == '\\' && j+1 < n {
					j++
				}
				b.WriteByte(src[j])
				j++
			}
			toks = append(toks, token{tokString, b.String()})
			i = j + 1
		default:
			j := i
			for j < n && !isBreak(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j]})
			i = j
		}
	}
	return toks
}

func isBreak(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', '=', '"':
		return true
	}
	return false
}

type nodeParser struct {
	toks []token
	pos  int
}

func (p *nodeParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

// parseChildren parses zero or more sibling nodes until a closing brace
// or end of input.
func (p *nodeParser) parseChildren() ([]*node, error) {
	var out []*node
	for {
		tok, ok := p.peek()
		if !ok || tok.kind == tokRBrace {
			return out, nil
		}
		n, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

func (p *nodeParser) parseNode() (*node, error) {
	tok, ok := p.peek()
	if !ok || tok.kind != tokIdent {
		return nil, fmt.Errorf("config: expected node name, got %q", tok.text)
	}
	n := &node{name: tok.text, props: make(map[string]string)}
	p.pos++

	for {
		tok, ok := p.peek()
		if !ok {
			return n, nil
		}
		switch tok.kind {
		case tokString:
			p.pos++
			n.args = append(n.args, tok.text)
		case tokIdent:
			// Either "key=value" (a property of this node), or the node
			// is simply done and this identifier starts the next
			// sibling/child (for example a "-" action node).
			if strings.Contains(tok.text, "=") {
				parts := strings.SplitN(tok.text, "=", 2)
				n.props[parts[0]] = parts[1]
				p.pos++
				continue
			}
			if next, ok2 := p.peekAt(1); ok2 && next.kind == tokEquals {
				p.pos++ // consume key
				p.pos++ // consume '='
				val, ok3 := p.peek()
				if !ok3 {
					return nil, fmt.Errorf("config: node %q: property %q missing value", n.name, tok.text)
				}
				p.pos++
				n.props[tok.text] = val.text
				continue
			}
			return n, nil
		case tokLBrace:
			p.pos++
			children, err := p.parseChildren()
			if err != nil {
				return nil, err
			}
			n.children = children
			closeTok, ok := p.peek()
			if !ok || closeTok.kind != tokRBrace {
				return nil, fmt.Errorf("config: node %q: unterminated block", n.name)
			}
			p.pos++
			return n, nil
		default:
			return n, nil
		}
	}
}

func (p *nodeParser) peekAt(offset int) (token, bool) {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return token{}, false
	}
	return p.toks[idx], true
}

// firstArgString is a small convenience used by the semantic pass in
// load.go.
func firstArgString(n *node) (string, error) {
	if len(n.args) == 0 {
		return "", fmt.Errorf("config: node %q expects a string argument", n.name)
	}
	return n.args[0], nil
}

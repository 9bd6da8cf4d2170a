package selector

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type token struct {
	tt   css.TokenType
	data string
}

// Parse turns selector text into a List. It never fails: text that does not
// form a selector part is kept as KindInvalid so it stringifies unchanged.
func Parse(text string) List {
	return parseList(lex(text))
}

func lex(text string) []token {
	lx := css.NewLexer(parse.NewInputString(text))
	var out []token
	for {
		tt, data := lx.Next()
		if tt == css.ErrorToken {
			return out
		}
		out = append(out, token{tt: tt, data: string(data)})
	}
}

func parseList(toks []token) List {
	var out List
	for _, part := range splitTopLevel(toks) {
		out = append(out, parseSelector(part))
	}
	return out
}

// splitTopLevel splits on commas outside of parentheses and brackets.
func splitTopLevel(toks []token) [][]token {
	var parts [][]token
	depth := 0
	start := 0
	for i, t := range toks {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.CommaToken:
			if depth == 0 {
				parts = append(parts, toks[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, toks[start:])
}

func isCombinatorToken(t token) bool {
	return t.tt == css.DelimToken && (t.data == Child || t.data == Adjacent || t.data == Sibling)
}

func parseSelector(toks []token) *Node {
	sel := &Node{Kind: KindSelector, Nodes: []*Node{}}
	pendingSpace := false
	for i := 0; i < len(toks); {
		t := toks[i]
		switch {
		case t.tt == css.WhitespaceToken || t.tt == css.CommentToken:
			if len(sel.Nodes) > 0 {
				pendingSpace = true
			}
			i++
			continue
		case isCombinatorToken(t):
			pendingSpace = false
			sel.Nodes = append(sel.Nodes, NewCombinator(t.data))
			i++
			continue
		}
		if pendingSpace {
			if last := sel.Nodes[len(sel.Nodes)-1]; last.Kind != KindCombinator {
				sel.Nodes = append(sel.Nodes, NewCombinator(Descendant))
			}
			pendingSpace = false
		}
		var n *Node
		n, i = parseSimple(toks, i)
		sel.Nodes = append(sel.Nodes, n)
	}
	return sel
}

func parseSimple(toks []token, i int) (*Node, int) {
	t := toks[i]
	switch t.tt {
	case css.DelimToken:
		switch t.data {
		case ".":
			if i+1 < len(toks) {
				switch next := toks[i+1]; next.tt {
				case css.IdentToken, css.CustomPropertyNameToken:
					return withCall(&Node{Kind: KindClass, Value: next.data}, toks, i+2)
				case css.FunctionToken:
					n := &Node{Kind: KindClass, Value: strings.TrimSuffix(next.data, "(")}
					return callArgs(n, toks, i+2)
				}
			}
		case "*":
			return &Node{Kind: KindUniversal, Value: "*"}, i + 1
		case "&":
			return withCall(&Node{Kind: KindNesting, Value: "&"}, toks, i+1)
		}
	case css.HashToken:
		return withCall(&Node{Kind: KindID, Value: t.data[1:]}, toks, i+1)
	case css.IdentToken:
		return &Node{Kind: KindType, Value: t.data}, i + 1
	case css.FunctionToken:
		return callArgs(&Node{Kind: KindType, Value: strings.TrimSuffix(t.data, "(")}, toks, i+1)
	case css.LeftBracketToken:
		inner, next := balanced(toks, i+1, css.LeftBracketToken, css.RightBracketToken)
		return withCall(&Node{Kind: KindAttribute, Value: strings.TrimSpace(raw(inner))}, toks, next)
	case css.ColonToken:
		kind := KindPseudoClass
		j := i + 1
		if j < len(toks) && toks[j].tt == css.ColonToken {
			kind = KindPseudoElement
			j++
		}
		if j < len(toks) {
			switch name := toks[j]; name.tt {
			case css.IdentToken, css.CustomPropertyNameToken:
				return &Node{Kind: kind, Value: name.data}, j + 1
			case css.FunctionToken:
				n := &Node{Kind: kind, Value: strings.TrimSuffix(name.data, "(")}
				return callArgs(n, toks, j+1)
			}
		}
		return &Node{Kind: KindInvalid, Value: raw(toks[i:j])}, j
	}
	return &Node{Kind: KindInvalid, Value: t.data}, i + 1
}

// withCall turns n into a functional node when a "(" follows immediately.
func withCall(n *Node, toks []token, i int) (*Node, int) {
	if i < len(toks) && toks[i].tt == css.LeftParenthesisToken {
		return callArgs(n, toks, i+1)
	}
	return n, i
}

// callArgs consumes arguments up to the matching ")" starting right after "(".
func callArgs(n *Node, toks []token, i int) (*Node, int) {
	inner, next := balanced(toks, i, css.LeftParenthesisToken, css.RightParenthesisToken)
	n.Func = true
	if n.Kind == KindPseudoClass && NestsSelectors(n.Value) ||
		n.Kind == KindPseudoElement && strings.EqualFold(n.Value, "slotted") {
		n.Nodes = parseList(inner)
		return n, next
	}
	n.Args = strings.TrimSpace(raw(inner))
	return n, next
}

// balanced returns tokens up to the closing token that matches the already
// consumed opener and the index right after it (or len(toks) when unclosed).
func balanced(toks []token, i int, open, close css.TokenType) ([]token, int) {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch tt := toks[j].tt; {
		case tt == open || open == css.LeftParenthesisToken && tt == css.FunctionToken:
			depth++
		case tt == close:
			if depth == 0 {
				return toks[i:j], j + 1
			}
			depth--
		}
	}
	return toks[i:], len(toks)
}

func raw(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.data)
	}
	return b.String()
}

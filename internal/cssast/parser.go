package cssast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"stylc/internal/diag"
	"stylc/internal/source"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

type tok struct {
	tt   css.TokenType
	data []byte
	off  uint32
}

// parser — состояние разбора одного файла: стек открытых контейнеров плюс
// буфер токенов текущей инструкции (селектор, декларация или прелюдия at-rule).
type parser struct {
	tree   *Tree
	file   source.FileID
	opts   Options
	errors uint

	stack  []NodeID
	buf    []tok
	parens int
}

// Parse builds a Tree for content. Malformed input never aborts parsing:
// problems are reported through opts.Reporter and the tree keeps everything
// that could be recovered.
func Parse(file source.FileID, content []byte, opts Options) *Tree {
	p := &parser{
		tree: NewTree(file),
		file: file,
		opts: opts,
	}
	p.stack = []NodeID{p.tree.Root()}
	p.run(content)
	return p.tree
}

// ParseString parses a detached snippet (mixins, tests).
func ParseString(text string) *Tree {
	return Parse(source.NoFileID, []byte(text), Options{})
}

func (p *parser) run(content []byte) {
	lx := css.NewLexer(parse.NewInputBytes(bytes.Clone(content)))
	var off uint32
	for {
		tt, data := lx.Next()
		if tt == css.ErrorToken {
			break
		}
		t := tok{tt: tt, data: data, off: off}
		off += uint32(len(data))
		p.consume(t)
	}
	p.flush(off)
	for len(p.stack) > 1 {
		id := p.pop(off)
		p.report(diag.CSSUnclosedBlock, p.tree.Node(id).Span.Sub(0, 1), "unclosed block")
	}
	root := p.tree.Node(p.tree.Root())
	root.Span = source.Span{File: p.file, Start: 0, End: off}
}

func (p *parser) consume(t tok) {
	switch t.tt {
	case css.BadStringToken:
		p.report(diag.CSSUnclosedString, p.span(t.off, t.off+uint32(len(t.data))), "unclosed string")
	case css.BadURLToken:
		p.report(diag.CSSBadURL, p.span(t.off, t.off+uint32(len(t.data))), "malformed url()")
	case css.CommentToken:
		if !bytes.HasSuffix(t.data, []byte("*/")) || len(t.data) < 4 {
			p.report(diag.CSSUnclosedComment, p.span(t.off, t.off+2), "unclosed comment")
		}
		if p.bufEmpty() {
			p.buf = p.buf[:0]
			p.comment(t)
			return
		}
	}

	switch t.tt {
	case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
		p.parens++
	case css.RightParenthesisToken, css.RightBracketToken:
		if p.parens > 0 {
			p.parens--
		}
	}
	if p.parens > 0 {
		p.buf = append(p.buf, t)
		return
	}

	switch t.tt {
	case css.LeftBraceToken:
		p.open(t)
	case css.SemicolonToken:
		p.flush(t.off)
	case css.RightBraceToken:
		p.flush(t.off)
		if len(p.stack) == 1 {
			p.report(diag.CSSUnexpectedCloseBrace, p.span(t.off, t.off+1), "unexpected }")
			return
		}
		p.pop(t.off + 1)
	default:
		p.buf = append(p.buf, t)
	}
}

func (p *parser) bufEmpty() bool {
	for _, t := range p.buf {
		if t.tt != css.WhitespaceToken {
			return false
		}
	}
	return true
}

func (p *parser) top() NodeID { return p.stack[len(p.stack)-1] }

func (p *parser) pop(end uint32) NodeID {
	id := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	n := p.tree.Node(id)
	n.Span.End = end
	return id
}

func (p *parser) attach(n Node) NodeID {
	id := p.tree.alloc(n)
	p.tree.Append(p.top(), id)
	return id
}

func (p *parser) comment(t tok) {
	text := strings.TrimPrefix(string(t.data), "/*")
	text = strings.TrimSuffix(text, "*/")
	p.attach(Node{
		Kind: KindComment,
		Text: text,
		Span: p.span(t.off, t.off+uint32(len(t.data))),
	})
}

// open starts a rule or an at-rule block from the buffered prelude.
func (p *parser) open(brace tok) {
	toks := trimWS(p.buf)
	p.buf = p.buf[:0]
	var n Node
	start := brace.off
	if len(toks) > 0 {
		start = toks[0].off
	}
	if len(toks) > 0 && toks[0].tt == css.AtKeywordToken {
		n = Node{
			Kind:     KindAtRule,
			Name:     string(toks[0].data[1:]),
			Params:   text(toks[1:]),
			HasBlock: true,
		}
	} else {
		n = Node{Kind: KindRule, Selector: text(toks)}
	}
	n.Span = p.span(start, brace.off+1)
	p.stack = append(p.stack, p.attach(n))
}

// flush closes the buffered statement as a declaration or a block-less at-rule.
func (p *parser) flush(end uint32) {
	toks := trimWS(p.buf)
	p.buf = p.buf[:0]
	p.parens = 0
	if len(toks) == 0 {
		return
	}
	last := toks[len(toks)-1]
	sp := p.span(toks[0].off, last.off+uint32(len(last.data)))
	if toks[0].tt == css.AtKeywordToken {
		p.attach(Node{
			Kind:   KindAtRule,
			Name:   string(toks[0].data[1:]),
			Params: text(toks[1:]),
			Span:   sp,
		})
		return
	}
	colon := -1
	for i, t := range toks {
		if t.tt == css.ColonToken {
			colon = i
			break
		}
	}
	if colon <= 0 {
		p.report(diag.CSSUnknownWord, sp, fmt.Sprintf("unknown word %q", text(toks)))
		return
	}
	prop := text(toks[:colon])
	value, important := splitImportant(text(toks[colon+1:]))
	if value == "" && !strings.HasPrefix(prop, "--") {
		p.report(diag.CSSEmptyDeclValue, sp, fmt.Sprintf("declaration %q has no value", prop))
	}
	p.attach(Node{
		Kind:      KindDecl,
		Prop:      prop,
		Value:     value,
		Important: important,
		Span:      sp,
	})
}

func (p *parser) span(start, end uint32) source.Span {
	return source.Span{File: p.file, Start: start, End: end}
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if p.opts.MaxErrors > 0 && p.errors >= p.opts.MaxErrors {
		return
	}
	p.errors++
	p.opts.Reporter.Report(diag.NewError(code, sp, msg))
}

func trimWS(toks []tok) []tok {
	for len(toks) > 0 && (toks[0].tt == css.WhitespaceToken || toks[0].tt == css.CommentToken) {
		toks = toks[1:]
	}
	for len(toks) > 0 && (toks[len(toks)-1].tt == css.WhitespaceToken || toks[len(toks)-1].tt == css.CommentToken) {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// text joins token bytes, dropping comments and trimming outer whitespace.
func text(toks []tok) string {
	var b strings.Builder
	for _, t := range toks {
		if t.tt == css.CommentToken {
			continue
		}
		b.Write(t.data)
	}
	return strings.TrimSpace(b.String())
}

func splitImportant(value string) (string, bool) {
	i := strings.LastIndexByte(value, '!')
	if i < 0 {
		return value, false
	}
	if strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
		return strings.TrimSpace(value[:i]), true
	}
	return value, false
}

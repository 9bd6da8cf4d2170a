package features

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type valueToken struct {
	tt   css.TokenType
	text string
}

func lexValue(v string) []valueToken {
	lx := css.NewLexer(parse.NewInputString(v))
	var out []valueToken
	for {
		tt, data := lx.Next()
		if tt == css.ErrorToken {
			return out
		}
		out = append(out, valueToken{tt: tt, text: string(data)})
	}
}

func joinTokens(toks []valueToken) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return b.String()
}

// callEnd returns the index right after the ")" closing the call opened at i.
func callEnd(toks []valueToken, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return len(toks)
}

func isCall(t valueToken, fn string) bool {
	return t.tt == css.FunctionToken && strings.EqualFold(strings.TrimSuffix(t.text, "("), fn)
}

// replaceCalls rewrites every fn(...) call in v. repl receives the raw
// argument text and returns the replacement; ok=false keeps the call.
func replaceCalls(v, fn string, repl func(args string) (string, bool)) string {
	toks := lexValue(v)
	var b strings.Builder
	for i := 0; i < len(toks); {
		if !isCall(toks[i], fn) {
			b.WriteString(toks[i].text)
			i++
			continue
		}
		end := callEnd(toks, i)
		inner := toks[i+1 : end]
		if n := len(inner); n > 0 && inner[n-1].tt == css.RightParenthesisToken {
			inner = inner[:n-1]
		}
		if out, ok := repl(joinTokens(inner)); ok {
			b.WriteString(out)
		} else {
			b.WriteString(joinTokens(toks[i:end]))
		}
		i = end
	}
	return b.String()
}

// mapIdents rewrites identifiers that are not inside a function call.
func mapIdents(v string, fn func(ident string) string) string {
	toks := lexValue(v)
	var b strings.Builder
	depth := 0
	for _, t := range toks {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		case css.IdentToken:
			if depth == 0 {
				b.WriteString(fn(t.text))
				continue
			}
		}
		b.WriteString(t.text)
	}
	return b.String()
}

// splitArgs splits on top-level commas and trims each part.
func splitArgs(v string) []string {
	var out []string
	depth := 0
	start := 0
	toks := lexValue(v)
	pos := 0
	for _, t := range toks {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				out = append(out, strings.TrimSpace(v[start:pos]))
				start = pos + len(t.text)
			}
		}
		pos += len(t.text)
	}
	if rest := strings.TrimSpace(v[start:]); rest != "" || len(out) > 0 {
		out = append(out, rest)
	}
	return out
}

// globalName unwraps st-global(name). The second result reports whether the
// wrapper was present.
func globalName(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "st-global(") && strings.HasSuffix(v, ")") {
		return strings.TrimSpace(v[len("st-global(") : len(v)-1]), true
	}
	return v, false
}

// collectURLs returns the targets of url(...) tokens in v.
func collectURLs(v string) []string {
	var out []string
	for _, t := range lexValue(v) {
		if t.tt != css.URLToken {
			continue
		}
		u := strings.TrimSpace(t.text[len("url(") : len(t.text)-1])
		u = strings.Trim(u, `"'`)
		out = append(out, u)
	}
	return out
}

// CollectURLs exposes collectURLs to the processor.
func CollectURLs(v string) []string { return collectURLs(v) }

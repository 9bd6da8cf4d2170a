package features

import (
	"fmt"
	"slices"
	"strings"

	"stylc/internal/namespace"
	"stylc/internal/symbols"
)

var stateTypes = []string{"string", "number", "enum", "tag"}

// parseStates reads a -st-states value:
//
//	a, b(string), c(enum(x, y)) x, d(".mapped")
//
// Invalid entries are returned as errors and skipped.
func parseStates(value string) ([]symbols.State, []error) {
	var (
		out  []symbols.State
		errs []error
	)
	for _, item := range splitArgs(value) {
		if item == "" {
			continue
		}
		st, err := parseState(item)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, st)
	}
	return out, errs
}

func parseState(item string) (symbols.State, error) {
	open := strings.IndexByte(item, '(')
	if open < 0 {
		if !isStateName(item) {
			return symbols.State{}, fmt.Errorf("invalid state name %q", item)
		}
		return symbols.State{Name: item}, nil
	}
	name := strings.TrimSpace(item[:open])
	if !isStateName(name) {
		return symbols.State{}, fmt.Errorf("invalid state name %q", name)
	}
	end := matchParen(item, open)
	if end < 0 {
		return symbols.State{}, fmt.Errorf("state %q: missing \")\"", name)
	}
	inner := strings.TrimSpace(item[open+1 : end])
	st := symbols.State{Name: name, Default: strings.TrimSpace(item[end+1:])}
	if inner == "" {
		return symbols.State{}, fmt.Errorf("state %q: missing parameter type", name)
	}
	if inner[0] == '"' || inner[0] == '\'' {
		st.Mapped = strings.TrimSpace(namespace.StripQuotes(inner))
		if st.Mapped == "" {
			return symbols.State{}, fmt.Errorf("state %q: empty mapped selector", name)
		}
		return st, nil
	}
	typ, args := inner, ""
	if p := strings.IndexByte(inner, '('); p >= 0 {
		q := matchParen(inner, p)
		if q < 0 {
			return symbols.State{}, fmt.Errorf("state %q: missing \")\"", name)
		}
		typ, args = inner[:p], inner[p+1:q]
	}
	typ = strings.ToLower(strings.TrimSpace(typ))
	if !slices.Contains(stateTypes, typ) {
		return symbols.State{}, fmt.Errorf("state %q: unknown parameter type %q", name, typ)
	}
	st.Param = typ
	st.Options = splitArgs(args)
	if typ == "enum" {
		if len(st.Options) == 0 {
			return symbols.State{}, fmt.Errorf("state %q: enum without options", name)
		}
		if st.Default != "" && !slices.Contains(st.Options, st.Default) {
			return symbols.State{}, fmt.Errorf("state %q: default %q is not one of %s", name, st.Default, strings.Join(st.Options, ", "))
		}
	}
	return st, nil
}

func isStateName(s string) bool {
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r > 0x7f) {
			return false
		}
	}
	return true
}

// matchParen returns the index of the ")" closing s[open], skipping quoted text.
func matchParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

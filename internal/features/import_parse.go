package features

import (
	"fmt"
	"path"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
	"stylc/internal/namespace"
	"stylc/internal/selector"
	"stylc/internal/symbols"
)

// setFrom fills From and Request. Bare requests stay unresolved; they are
// looked up through the file system collaborator at resolve time.
func setFrom(imp *symbols.Imported, request, dir string) {
	imp.Request = request
	if !path.IsAbs(request) && !strings.HasPrefix(request, ".") {
		imp.From = request
		return
	}
	if path.IsAbs(request) {
		imp.From = path.Clean(request)
		return
	}
	imp.From = path.Join(dir, request)
}

// parseNamed fills the named and typed bindings of imp from a named list
// such as "a, b as c, keyframes(k)".
func parseNamed(m *meta.Meta, node cssast.NodeID, value string, imp *symbols.Imported, typed symbols.Kind) {
	for _, item := range splitArgs(value) {
		if item == "" {
			continue
		}
		if kind, inner, ok := typedGroup(item); ok {
			if typed != symbols.KindInvalid {
				m.Error(diag.ImpInvalidNestedKeyframes, node, "", "Invalid nested keyframes import %q", item)
			}
			parseNamed(m, node, inner, imp, kind)
			continue
		}
		bind := func(local, origin string) {
			if b := imp.Typed(typed); b != nil {
				b.Set(local, origin)
				return
			}
			imp.Named.Set(local, origin)
		}
		words := strings.Fields(item)
		for i := 0; i < len(words); i++ {
			if i+1 < len(words) && words[i+1] == "as" {
				if i+2 < len(words) {
					bind(words[i+2], words[i])
					i += 2
					continue
				}
				m.Error(diag.ImpInvalidNamedAs, node, "", "Invalid named import \"as\" with name %q", words[i])
				break
			}
			bind(words[i], words[i])
		}
	}
}

func typedGroup(item string) (symbols.Kind, string, bool) {
	for prefix, kind := range map[string]symbols.Kind{
		"keyframes(": symbols.KindKeyframes,
		"layer(":     symbols.KindLayer,
		"container(": symbols.KindContainer,
	} {
		if strings.HasPrefix(item, prefix) && strings.HasSuffix(item, ")") {
			return kind, item[len(prefix) : len(item)-1], true
		}
	}
	return symbols.KindInvalid, "", false
}

// parseStImport reads "Default, [named] from "request"".
func parseStImport(m *meta.Meta, id cssast.NodeID) *symbols.Imported {
	n := m.AST.Node(id)
	imp := &symbols.Imported{Node: id, Context: m.Dir()}
	toks := lexValue(n.Params)

	fromAt, request, hasRequest := -1, "", false
	for i, t := range toks {
		if t.tt == css.IdentToken && t.text == "from" {
			fromAt = i
		}
	}
	var errs []string
	var head []valueToken
	switch {
	case fromAt >= 0:
		head = toks[:fromAt]
		rest := trimTokens(toks[fromAt+1:])
		if len(rest) >= 1 && rest[0].tt == css.StringToken {
			request, hasRequest = namespace.StripQuotes(rest[0].text), true
			if len(rest) > 1 {
				errs = append(errs, fmt.Sprintf("unexpected %q after from", joinTokens(rest[1:])))
			}
		} else {
			errs = append(errs, "invalid missing source")
		}
	default:
		rest := trimTokens(toks)
		if len(rest) == 1 && rest[0].tt == css.StringToken {
			request, hasRequest = namespace.StripQuotes(rest[0].text), true
		} else if len(rest) > 0 {
			head = toks
			errs = append(errs, "missing from")
		}
	}

	for _, t := range head {
		if t.tt == css.DelimToken && t.text == "*" {
			m.Error(diag.ImpStar, id, "", "@st-import * is not supported")
			return imp
		}
	}
	setFrom(imp, request, imp.Context)

	headText := strings.TrimSpace(joinTokens(head))
	if open := strings.IndexByte(headText, '['); open >= 0 {
		close := strings.LastIndexByte(headText, ']')
		if close < open {
			errs = append(errs, "unclosed named import")
			close = len(headText)
		}
		parseNamed(m, id, headText[open+1:close], imp, symbols.KindInvalid)
		headText = strings.TrimSpace(headText[:open])
	}
	headText = strings.TrimSpace(strings.TrimSuffix(headText, ","))
	if headText != "" {
		if strings.ContainsAny(headText, " ,") {
			errs = append(errs, fmt.Sprintf("invalid default import %q", headText))
		} else {
			imp.DefaultExport = headText
			checkDefaultCase(m, id, imp)
		}
	}

	switch {
	case len(errs) > 0:
		m.Error(diag.ImpInvalidFormat, id, "", "Invalid @st-import format:\n - %s", strings.Join(errs, "\n - "))
	case !hasRequest || strings.TrimSpace(request) == "":
		m.Error(diag.ImpAtRuleEmptyFrom, id, "", "@st-import must specify a valid \"from\" string value")
	}
	return imp
}

func trimTokens(toks []valueToken) []valueToken {
	out := toks[:0:0]
	for _, t := range toks {
		if t.tt != css.WhitespaceToken && t.tt != css.CommentToken {
			out = append(out, t)
		}
	}
	return out
}

func checkDefaultCase(m *meta.Meta, node cssast.NodeID, imp *symbols.Imported) {
	if !selector.IsCompRoot(imp.DefaultExport) && strings.HasSuffix(imp.From, ".css") {
		m.Warn(diag.ImpDefaultLowerCase, node, imp.DefaultExport,
			"Default import of a Stylable stylesheet must start with an upper-case letter")
	}
}

// parsePseudoImport reads a ":import { -st-from; -st-default; -st-named }" rule.
func parsePseudoImport(m *meta.Meta, id cssast.NodeID) *symbols.Imported {
	imp := &symbols.Imported{Node: id, Context: m.Dir()}
	fromSeen := false
	for _, c := range m.AST.Children(id) {
		d := m.AST.Node(c)
		if d.Kind != cssast.KindDecl {
			continue
		}
		switch d.Prop {
		case "-st-from":
			request := namespace.StripQuotes(d.Value)
			if strings.TrimSpace(request) == "" {
				m.Error(diag.ImpEmptyFrom, c, "", "\"-st-from\" cannot be empty")
			}
			if fromSeen {
				m.Warn(diag.ImpMultipleFrom, id, "", "cannot define multiple \"-st-from\" declarations in a single import")
			}
			setFrom(imp, request, imp.Context)
			fromSeen = true
		case "-st-default":
			imp.DefaultExport = d.Value
			checkDefaultCase(m, c, imp)
		case "-st-named":
			imp.Named, imp.Keyframes, imp.Layers, imp.Containers = nil, nil, nil, nil
			parseNamed(m, c, d.Value, imp, symbols.KindInvalid)
		default:
			m.Warn(diag.ImpIllegalProp, c, d.Prop, "%q css attribute cannot be used inside :import block", d.Prop)
		}
	}
	if !fromSeen {
		m.Error(diag.ImpFromMissing, id, "", "\"-st-from\" is missing in :import block")
	}
	return imp
}

// Package namespace computes the per-stylesheet prefix used to make local
// names globally unique.
package namespace

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/spaolacci/murmur3"
	"golang.org/x/text/unicode/norm"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/meta"
)

// ResolveFunc turns the declared or derived name into the final namespace.
// origin is the path used for hashing; src is the stylesheet path.
type ResolveFunc func(name, origin, src string) string

// ReferenceToken marks a comment that points the hash origin to another path.
const ReferenceToken = "st-namespace-reference"

// Hash is the stable 32-bit digest of an origin path. The path is NFC
// normalised first so composed and decomposed file names agree.
func Hash(origin string) uint32 {
	return murmur3.Sum32([]byte(norm.NFC.String(origin)))
}

// Default appends the decimal hash of origin to name.
func Default(name, origin, _ string) string {
	return name + strconv.FormatUint(uint64(Hash(origin)), 10)
}

// Plain keeps the name unchanged. Collisions are the caller's problem.
func Plain(name, _, _ string) string {
	return name
}

// Package hashes the package name plus the origin relative to root instead
// of the absolute origin, so output does not depend on the build machine.
func Package(pkg, root string) ResolveFunc {
	root = strings.TrimSuffix(root, "/")
	return func(name, origin, _ string) string {
		rel := strings.TrimPrefix(origin, root+"/")
		return name + strconv.FormatUint(uint64(Hash(pkg+"/"+rel)), 10)
	}
}

var (
	nonIdent     = regexp.MustCompile(`[^0-9a-zA-Z_]`)
	leadNonAlpha = regexp.MustCompile(`^[^a-zA-Z_]+`)
	lastExt      = regexp.MustCompile(`\.\w+$`)
)

// FromFilename derives a namespace from a file base name: the extension and
// a ".st" suffix are dropped, then everything that is not an identifier
// character, and finally leading non-letters.
func FromFilename(base string) string {
	name := lastExt.ReplaceAllString(base, "")
	name = strings.TrimSuffix(name, ".st")
	name = nonIdent.ReplaceAllString(name, "")
	return leadNonAlpha.ReplaceAllString(name, "")
}

// StripQuotes removes one pair of surrounding quotes.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// Set finalises m.Namespace from the collected declarations, the file name
// and an optional st-namespace-reference comment.
func Set(m *meta.Meta, resolve ResolveFunc) {
	if resolve == nil {
		resolve = Default
	}
	name := ""
	if n := len(m.Data.Namespaces); n > 0 {
		name = m.Data.Namespaces[n-1]
	}
	if name == "" {
		name = FromFilename(path.Base(m.Source))
	}
	if name == "" {
		name = "s"
	}
	m.Namespace = resolve(name, origin(m), m.Source)
}

// origin scans top-level comments from the end for a namespace reference.
func origin(m *meta.Meta) string {
	kids := m.AST.Children(m.AST.Root())
	for i := len(kids) - 1; i >= 0; i-- {
		n := m.AST.Node(kids[i])
		if n.Kind != cssast.KindComment || !strings.Contains(n.Text, ReferenceToken) {
			continue
		}
		eq := strings.IndexByte(n.Text, '=')
		if eq < 0 {
			m.Error(diag.NspInvalidReference, kids[i], "", "%s does not have any value", ReferenceToken)
			return m.Source
		}
		ref := StripQuotes(n.Text[eq+1:])
		if path.IsAbs(ref) {
			return path.Clean(ref)
		}
		return path.Join(m.Dir(), ref)
	}
	return m.Source
}

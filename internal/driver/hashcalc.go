package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"stylc/internal/meta"
	"stylc/internal/resolver"
)

// Digest is a SHA-256 sum identifying a stylesheet together with everything
// it imports.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports an unset digest.
func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func stringDigest(parts ...string) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// treeDigest hashes the content of m and of every stylesheet reachable
// through its imports. Import targets are visited once and sorted by path,
// so the digest does not depend on import order or cycles. Missing and
// JavaScript targets contribute their request or path only.
func treeDigest(res *resolver.Resolver, m *meta.Meta, salt string) Digest {
	deps := make(map[string]Digest)
	var visit func(m *meta.Meta)
	visit = func(m *meta.Meta) {
		for _, imp := range m.Imports {
			r := res.ResolveImported(imp, "")
			switch {
			case r == nil:
				key := "missing:" + imp.Context + ":" + imp.Request
				deps[key] = stringDigest(key)
			case r.Meta == nil:
				deps["js:"+r.Path] = stringDigest("js", r.Path)
			default:
				if _, seen := deps[r.Path]; seen {
					continue
				}
				deps[r.Path] = fileDigest(r.Meta)
				visit(r.Meta)
			}
		}
	}
	deps[m.Source] = fileDigest(m)
	visit(m)

	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make([]Digest, 0, len(keys)*2)
	for _, k := range keys {
		ordered = append(ordered, stringDigest(k), deps[k])
	}
	return combineDigest(stringDigest(salt, m.Source), ordered...)
}

func fileDigest(m *meta.Meta) Digest {
	if f := m.Files.Get(m.File); f != nil {
		return Digest(f.Hash)
	}
	return stringDigest(m.Source)
}

package diagfmt

import (
	"path"

	"stylc/internal/source"
)

// autoPathLimit is the longest path PathModeAuto prints in full.
const autoPathLimit = 40

// formatPath renders the path of f according to mode. base is the FileSet
// base directory used by the relative modes.
func formatPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		return f.Path
	case PathModeRelative:
		return f.RelPath(base)
	case PathModeBasename:
		return path.Base(f.Path)
	}
	if rel := f.RelPath(base); rel != f.Path {
		return rel
	}
	if len(f.Path) > autoPathLimit {
		return path.Base(f.Path)
	}
	return f.Path
}

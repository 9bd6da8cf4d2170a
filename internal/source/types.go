package source

type (
	// FileID uniquely identifies a stylesheet within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a stylesheet.
	FileFlags uint8
)

// NoFileID marks spans that do not point into any loaded stylesheet
// (synthetic nodes, programmatic symbols).
const NoFileID FileID = 0

const (
	// FileVirtual indicates the stylesheet was added from memory (tests, editors).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single stylesheet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a stylesheet.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

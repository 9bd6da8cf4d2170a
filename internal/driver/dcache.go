package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"stylc/internal/diag"
	"stylc/internal/source"
	"stylc/internal/transform"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты компиляции по Digest дерева стилей на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached output of one stylesheet.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path      string
	Namespace string
	Exports   transform.Exports
	CSS       string

	// Diagnostics of the stylesheet itself; spans are byte offsets into
	// its content.
	Diagnostics []DiskDiagnostic
}

// DiskDiagnostic is a diagnostic without its file id.
type DiskDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Word     string
	Notes    []DiskNote
}

type DiskNote struct {
	Start uint32
	End   uint32
	Msg   string
	// Local is false for notes pointing into another stylesheet; their span
	// is not restored.
	Local bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it when missing.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	// Для удобства читаемости/очистки — подкаталог "css".
	return filepath.Join(c.dir, "css", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of an
// older schema are reported as misses.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// resultToDiskPayload converts a compiled file for caching.
func resultToDiskPayload(r *FileResult) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        r.Path,
		Namespace:   r.Namespace,
		Exports:     r.Exports,
		CSS:         r.CSS,
		Diagnostics: make([]DiskDiagnostic, 0, r.Diagnostics.Len()),
	}
	for _, d := range r.Diagnostics.Items() {
		dd := DiskDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Word:     d.Word,
		}
		for _, n := range d.Notes {
			dd.Notes = append(dd.Notes, DiskNote{
				Start: n.Span.Start,
				End:   n.Span.End,
				Msg:   n.Msg,
				Local: n.Span.File == d.Primary.File,
			})
		}
		payload.Diagnostics = append(payload.Diagnostics, dd)
	}
	return payload
}

// diskPayloadDiagnostics restores cached diagnostics against file.
func diskPayloadDiagnostics(payload *DiskPayload, file source.FileID) *diag.Bag {
	bag := diag.NewBag(0)
	for _, dd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(dd.Severity),
			Code:     diag.Code(dd.Code),
			Message:  dd.Message,
			Primary:  source.Span{File: file, Start: dd.Start, End: dd.End},
			Word:     dd.Word,
		}
		for _, n := range dd.Notes {
			note := diag.Note{Msg: n.Msg}
			if n.Local {
				note.Span = source.Span{File: file, Start: n.Start, End: n.End}
			}
			d.Notes = append(d.Notes, note)
		}
		bag.Add(d)
	}
	return bag
}

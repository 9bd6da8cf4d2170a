// Package fsys is the file-system boundary of the compiler. Paths are
// absolute and use forward slashes on every platform.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("not found")

// FileSystem reads stylesheets and resolves import requests.
type FileSystem interface {
	ReadFile(path string) (string, error)
	ResolveModule(fromDir, request string) (string, error)
}

// OS reads from the host file system. Package requests are looked up in
// node_modules directories walking up from the importing directory.
type OS struct{}

func (OS) ReadFile(p string) (string, error) {
	b, err := os.ReadFile(filepath.FromSlash(p))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (o OS) ResolveModule(fromDir, request string) (string, error) {
	return resolve(fromDir, request, func(p string) bool {
		info, err := os.Stat(filepath.FromSlash(p))
		return err == nil && !info.IsDir()
	})
}

// Memory is an in-memory FileSystem for tests and embedding.
type Memory struct {
	mu    sync.RWMutex
	files map[string]string
}

func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: make(map[string]string, len(files))}
	for p, content := range files {
		m.files[Clean(p)] = content
	}
	return m
}

// Write adds or replaces a file.
func (m *Memory) Write(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[Clean(p)] = content
}

func (m *Memory) ReadFile(p string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[Clean(p)]
	if !ok {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return content, nil
}

func (m *Memory) ResolveModule(fromDir, request string) (string, error) {
	return resolve(fromDir, request, func(p string) bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		_, ok := m.files[p]
		return ok
	})
}

// Paths lists stored files in lexical order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Clean converts p to a cleaned slash path.
func Clean(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

func resolve(fromDir, request string, exists func(string) bool) (string, error) {
	fromDir = Clean(fromDir)
	switch {
	case request == "":
		return "", fmt.Errorf("empty request: %w", ErrNotFound)
	case path.IsAbs(request):
		return checked(Clean(request), exists)
	case strings.HasPrefix(request, "."):
		return checked(path.Join(fromDir, request), exists)
	}
	for dir := fromDir; ; dir = path.Dir(dir) {
		candidate := path.Join(dir, "node_modules", request)
		if exists(candidate) {
			return candidate, nil
		}
		if dir == "/" || dir == "." {
			break
		}
	}
	return "", fmt.Errorf("%s from %s: %w", request, fromDir, ErrNotFound)
}

func checked(p string, exists func(string) bool) (string, error) {
	if !exists(p) {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return p, nil
}

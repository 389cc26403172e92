// Package importer turns bank statement files dropped into a project's
// import directory into normalized statements.
package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/fire/internal/model"
)

// Parser converts one statement file into a Statement.
type Parser interface {
	Parse(r io.Reader) (*model.Statement, error)
	// Format is the name the parser is registered under.
	Format() string
	// Extensions lists the lowercase file extensions Scan picks up.
	Extensions() []string
}

// Registry maps format names to parsers. Lookup ignores case.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CAMTParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "processed"
)

// FileInfo describes a statement file waiting in the import directory.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Scan returns the files in <repoRoot>/import/ that p can read, sorted by
// name so imports run in a stable order. Subdirectories are not searched.
// A missing import directory yields no files.
func Scan(repoRoot string, p Parser) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	exts := p.Extensions()
	var files []FileInfo
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	// ReadDir already sorts, but by byte order; keep "b.xml" before "C.xml".
	slices.SortFunc(files, func(a, b FileInfo) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return files, nil
}

// ParseFile opens path and parses it with p. Errors name the file.
func ParseFile(p Parser, path string) (*model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	stmt, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return stmt, nil
}

// MarkProcessed moves fileName from import/ to import/processed/ and
// returns the name it was stored under. An earlier file of the same name
// is kept; the new one gets a numeric suffix ("jan-2.xml").
func MarkProcessed(repoRoot, fileName string) (string, error) {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, importDir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	name, err := freeName(dstDir, fileName)
	if err != nil {
		return "", err
	}
	if err := os.Rename(src, filepath.Join(dstDir, name)); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return name, nil
}

func freeName(dir, fileName string) (string, error) {
	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	name := fileName
	for n := 2; ; n++ {
		_, err := os.Lstat(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking processed dir: %w", err)
		}
		name = stem + "-" + strconv.Itoa(n) + ext
	}
}

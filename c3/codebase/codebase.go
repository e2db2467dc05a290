// Package codebase keeps the parsed state of every C3 file in a project.
package codebase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/c3kit/c3/parser"
)

var log = commonlog.GetLogger("c3kit.codebase")

type Option func(*Codebase)

// WithWorkers bounds how many files ScanAll parses at once.
func WithWorkers(n int) Option {
	return func(c *Codebase) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithParserOptions(opts ...parser.Option) Option {
	return func(c *Codebase) {
		c.parserOpts = append(c.parserOpts, opts...)
	}
}

// WithExclude skips files and directories whose path relative to the root
// matches one of the glob patterns.
func WithExclude(patterns ...string) Option {
	return func(c *Codebase) {
		c.exclude = append(c.exclude, patterns...)
	}
}

// WithDirs replaces the directories scanned by ScanAll. Relative paths are
// taken from the root.
func WithDirs(dirs ...string) Option {
	return func(c *Codebase) {
		c.dirs = dirs
	}
}

type Codebase struct {
	mu         sync.RWMutex
	rootDir    string
	dirs       []string
	workers    int
	exclude    []string
	parserOpts []parser.Option
	files      map[string]*FileInfo
	symbols    []Symbol
}

type FileInfo struct {
	Path    string
	Content []byte
	Tree    *parser.Tree
	Symbols []Symbol
	// ReadErr is set when the file could not be read. Tree is nil then.
	ReadErr error
}

// Failed reports whether the file could not be read or has diagnostics.
func (f *FileInfo) Failed() bool {
	return f.ReadErr != nil || (f.Tree != nil && f.Tree.HasErrors())
}

func New(rootDir string, opts ...Option) *Codebase {
	c := &Codebase{
		rootDir: rootDir,
		dirs:    []string{"."},
		workers: runtime.GOMAXPROCS(0),
		files:   make(map[string]*FileInfo),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsSourceFile reports whether path names a C3 source or interface file.
func IsSourceFile(path string) bool {
	switch filepath.Ext(path) {
	case ".c3", ".c3i":
		return true
	}
	return false
}

// SourceFiles walks the configured directories and returns every C3 file
// that is not excluded, sorted. Hidden directories are skipped.
func (c *Codebase) SourceFiles() ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, dir := range c.dirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(c.rootDir, dir)
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir {
					return err
				}
				log.Warningf("skipping %s: %v", path, err)
				return nil
			}
			if c.excluded(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSourceFile(path) && !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (c *Codebase) excluded(path string) bool {
	rel, err := filepath.Rel(c.rootDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ScanAll parses every source file in parallel. Files that cannot be read
// are recorded with their error; only walking the directories and
// cancellation fail the scan.
func (c *Codebase) ScanAll(ctx context.Context) error {
	paths, err := c.SourceFiles()
	if err != nil {
		return err
	}
	log.Infof("scanning %d files with %d workers", len(paths), c.workers)

	results := make([]*FileInfo, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.load(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// A parse cut short by cancellation returns a partial tree.
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, info := range results {
		c.files[info.Path] = info
	}
	c.rebuildSymbolsLocked()
	return nil
}

// load reads and parses one file without touching shared state.
func (c *Codebase) load(ctx context.Context, path string) *FileInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("read %s: %v", path, err)
		return &FileInfo{Path: path, ReadErr: err}
	}
	return c.parse(ctx, path, content)
}

func (c *Codebase) parse(ctx context.Context, path string, content []byte) *FileInfo {
	opts := append([]parser.Option{parser.WithFile(path), parser.WithContext(ctx)}, c.parserOpts...)
	tree := parser.Parse(content, opts...)
	if tree.HasErrors() {
		log.Debugf("%s: %d diagnostics", path, len(tree.Diagnostics))
	}
	return &FileInfo{
		Path:    path,
		Content: content,
		Tree:    tree,
		Symbols: ExtractSymbols(path, tree),
	}
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content as the new text of path and returns the
// result.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := c.parse(context.Background(), path, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	c.rebuildSymbolsLocked()
	return info
}

func (c *Codebase) rebuildSymbolsLocked() {
	var all []Symbol
	for _, path := range c.filesLocked() {
		all = append(all, c.files[path].Symbols...)
	}
	c.symbols = all
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildSymbolsLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the paths of all known files, sorted.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filesLocked()
}

func (c *Codebase) filesLocked() []string {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// FailedFiles returns the sorted paths of files that could not be read or
// have diagnostics.
func (c *Codebase) FailedFiles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var failed []string
	for _, path := range c.filesLocked() {
		if c.files[path].Failed() {
			failed = append(failed, path)
		}
	}
	return failed
}

// Symbols returns the top-level symbols of every file, ordered by file
// and then by position.
func (c *Codebase) Symbols() []Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbols
}

// FindSymbols returns the symbols, members included, whose name contains
// query, ignoring case. An empty query matches every top-level symbol.
func (c *Codebase) FindSymbols(query string) []Symbol {
	all := c.Symbols()
	if query == "" {
		return all
	}
	query = strings.ToLower(query)
	var result []Symbol
	var visit func([]Symbol)
	visit = func(syms []Symbol) {
		for _, s := range syms {
			if strings.Contains(strings.ToLower(s.Qualified()), query) {
				result = append(result, s)
			}
			visit(s.Children)
		}
	}
	visit(all)
	return result
}

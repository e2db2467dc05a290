// Package config handles c3kit.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dhamidi/c3kit/c3/parser"
)

// FileName is the name of the configuration file looked up by FindAndLoad.
const FileName = "c3kit.toml"

// Config represents a c3kit.toml project configuration.
type Config struct {
	Source   Source   `toml:"source"`
	Parser   Parser   `toml:"parser"`
	Codebase Codebase `toml:"codebase"`
	Log      Log      `toml:"log"`

	// Dir is the directory containing the c3kit.toml file (set at load time).
	Dir string `toml:"-"`
}

// Source configures which files belong to the project.
type Source struct {
	Dirs []string `toml:"dirs"`
	// Exclude holds glob patterns matched against paths relative to Dir.
	Exclude []string `toml:"exclude"`
}

// Parser holds resource limits passed to every parse. Zero disables a
// limit.
type Parser struct {
	MaxDepth int `toml:"max-depth"`
	MaxNodes int `toml:"max-nodes"`
}

type Codebase struct {
	Workers      int      `toml:"workers"`
	PollInterval Duration `toml:"poll-interval"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Duration is a time.Duration written as a string such as "500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no c3kit.toml exists.
func Default() *Config {
	return &Config{
		Source:   Source{Dirs: []string{"."}},
		Parser:   Parser{MaxDepth: parser.DefaultMaxDepth},
		Codebase: Codebase{Workers: runtime.GOMAXPROCS(0), PollInterval: Duration{time.Second}},
		Dir:      ".",
	}
}

// Load parses a c3kit.toml file from the given directory. Keys missing
// from the file keep their Default values.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = []string{"."}
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a c3kit.toml file, then loads
// and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	switch {
	case c.Parser.MaxDepth < 0:
		return fmt.Errorf("parser.max-depth must not be negative, got %d", c.Parser.MaxDepth)
	case c.Parser.MaxNodes < 0:
		return fmt.Errorf("parser.max-nodes must not be negative, got %d", c.Parser.MaxNodes)
	case c.Codebase.Workers < 1:
		return fmt.Errorf("codebase.workers must be at least 1, got %d", c.Codebase.Workers)
	case c.Codebase.PollInterval.Duration <= 0:
		return fmt.Errorf("codebase.poll-interval must be positive, got %s", c.Codebase.PollInterval)
	}
	for _, pattern := range c.Source.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("source.exclude: bad pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// SourceDirPaths returns absolute paths for the configured source directories.
func (c *Config) SourceDirPaths() []string {
	var paths []string
	for _, d := range c.Source.Dirs {
		if filepath.IsAbs(d) {
			paths = append(paths, d)
			continue
		}
		paths = append(paths, filepath.Join(c.Dir, d))
	}
	return paths
}

// ParserOptions returns the parser options for the configured limits.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithMaxDepth(c.Parser.MaxDepth),
		parser.WithMaxNodes(c.Parser.MaxNodes),
	}
}

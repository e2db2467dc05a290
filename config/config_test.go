package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/c3kit/c3/parser"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[source]
dirs = ["src", "lib"]
exclude = ["lib/vendor/*"]

[parser]
max-depth = 200
max-nodes = 50000

[codebase]
workers = 3
poll-interval = "250ms"

[log]
verbosity = 2
file = "c3kit.log"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(c.Source.Dirs) != 2 || c.Source.Dirs[1] != "lib" {
		t.Errorf("source dirs = %v, want [src lib]", c.Source.Dirs)
	}
	if len(c.Source.Exclude) != 1 {
		t.Errorf("exclude = %v", c.Source.Exclude)
	}
	if c.Parser.MaxDepth != 200 || c.Parser.MaxNodes != 50000 {
		t.Errorf("parser = %+v", c.Parser)
	}
	if c.Codebase.Workers != 3 {
		t.Errorf("workers = %d, want 3", c.Codebase.Workers)
	}
	if c.Codebase.PollInterval.Duration != 250*time.Millisecond {
		t.Errorf("poll-interval = %v, want 250ms", c.Codebase.PollInterval)
	}
	if c.Log.Verbosity != 2 || c.Log.File != "c3kit.log" {
		t.Errorf("log = %+v", c.Log)
	}
	if !filepath.IsAbs(c.Dir) {
		t.Errorf("Dir = %q, want absolute", c.Dir)
	}

	paths := c.SourceDirPaths()
	if len(paths) != 2 || paths[0] != filepath.Join(c.Dir, "src") {
		t.Errorf("SourceDirPaths() = %v", paths)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[log]\nverbosity = 1\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Source.Dirs) != 1 || c.Source.Dirs[0] != "." {
		t.Errorf("source dirs = %v, want [.]", c.Source.Dirs)
	}
	if c.Parser.MaxDepth != parser.DefaultMaxDepth {
		t.Errorf("max-depth = %d, want %d", c.Parser.MaxDepth, parser.DefaultMaxDepth)
	}
	if c.Codebase.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("workers = %d", c.Codebase.Workers)
	}
	if c.Codebase.PollInterval.Duration != time.Second {
		t.Errorf("poll-interval = %v, want 1s", c.Codebase.PollInterval)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[parser\n", "parse error"},
		{"bad duration", "[codebase]\npoll-interval = \"soon\"\n", "parse error"},
		{"negative depth", "[parser]\nmax-depth = -1\n", "max-depth"},
		{"zero workers", "[codebase]\nworkers = 0\n", "workers"},
		{"bad glob", "[source]\nexclude = [\"[\"]\n", "bad pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load succeeded without a file")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[source]\ndirs = [\"src\"]\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	want, _ := filepath.Abs(root)
	if c.Dir != want {
		t.Errorf("Dir = %q, want %q", c.Dir, want)
	}
}

func TestFindAndLoadNone(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c != nil {
		t.Errorf("FindAndLoad = %+v, want nil", c)
	}
}

func TestParserOptions(t *testing.T) {
	c := Default()
	c.Parser.MaxDepth = 10
	src := "int x = " + strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20) + ";"
	tree := parser.Parse([]byte(src), c.ParserOptions()...)
	if !tree.Aborted {
		t.Error("depth limit from config was not applied")
	}
}

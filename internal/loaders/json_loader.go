package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"lifestats/internal/models"
)

// DecoderInterface is what JSON-backed parsers need from a loader.
type DecoderInterface interface {
	Decode(v any) error
	Path() string
}

// JsonLoader decodes a single export document.
type JsonLoader struct {
	root         *Root
	relativePath string
}

func NewJsonLoader(root *Root, relativePath string) *JsonLoader {
	return &JsonLoader{root: root, relativePath: relativePath}
}

func (l *JsonLoader) Path() string {
	return l.root.Resolve(l.relativePath)
}

func (l *JsonLoader) Decode(v any) error {
	data, err := l.root.ReadFile(l.relativePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &models.LoadError{Path: l.Path(), Err: err}
	}
	return nil
}

// MultiJsonLoader merges the top-level arrays of every "<prefix>*.json" file in a
// directory, in filename order.
type MultiJsonLoader struct {
	root        *Root
	relativeDir string
	prefix      string
}

func NewMultiJsonLoader(root *Root, relativeDir, prefix string) *MultiJsonLoader {
	return &MultiJsonLoader{root: root, relativeDir: relativeDir, prefix: prefix}
}

func (l *MultiJsonLoader) Path() string {
	return filepath.Join(l.root.Resolve(l.relativeDir), l.prefix+"*.json")
}

// Files lists the matching file names, sorted. An archived "x.json.zst" is skipped when
// "x.json" is also present, the same precedence Root.ReadFile applies.
func (l *MultiJsonLoader) Files() ([]string, error) {
	dir := l.root.Resolve(l.relativeDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &models.LoadError{Path: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json"+CompressedExt) {
			names = append(names, name)
		}
	}
	listed := make(map[string]bool, len(names))
	for _, name := range names {
		listed[name] = true
	}
	names = slices.DeleteFunc(names, func(name string) bool {
		plain, compressed := strings.CutSuffix(name, CompressedExt)
		return compressed && listed[plain]
	})
	if len(names) == 0 {
		return nil, &models.LoadError{Path: l.Path(), Err: fmt.Errorf("no files matching %s*.json", l.prefix)}
	}
	slices.Sort(names)
	return names, nil
}

func (l *MultiJsonLoader) Decode(v any) error {
	names, err := l.Files()
	if err != nil {
		return err
	}

	parts := make([][]json.RawMessage, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			rel := filepath.Join(l.relativeDir, name)
			data, err := l.root.ReadFile(rel)
			if err != nil {
				return err
			}
			var items []json.RawMessage
			if err := json.Unmarshal(data, &items); err != nil {
				return &models.LoadError{Path: l.root.Resolve(rel), Err: err}
			}
			parts[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged, err := json.Marshal(slices.Concat(parts...))
	if err != nil {
		return &models.LoadError{Path: l.Path(), Err: err}
	}
	if err := json.Unmarshal(merged, v); err != nil {
		return &models.LoadError{Path: l.Path(), Err: err}
	}
	return nil
}

package core

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver maps logical spec names onto files under
// <root>/<SpecDir>. It never reads the files it resolves.
type Resolver struct {
	config Config
}

func NewResolver(config Config) *Resolver {
	return &Resolver{config: config.withDefaults()}
}

// Root is the spec root override when configured, the application root
// otherwise.
func (r *Resolver) Root() string {
	if r.config.SpecRoot != "" {
		return r.config.SpecRoot
	}
	return r.config.AppRoot
}

func (r *Resolver) Dir() string {
	return filepath.Join(r.Root(), filepath.FromSlash(r.config.SpecDir))
}

func (r *Resolver) specSuffix() string {
	return "_spec.js." + r.config.ScriptLang
}

func (r *Resolver) plainSuffix() string {
	return ".js." + r.config.ScriptLang
}

// Candidates returns the preferred and fallback paths for name.
func (r *Resolver) Candidates(name string) ([]string, error) {
	clean, err := CleanSpecName(name)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(r.Dir(), filepath.FromSlash(clean))
	return []string{
		base + r.specSuffix(),
		base + r.plainSuffix(),
	}, nil
}

// SpecFile picks the first candidate that exists, falling back to the
// generic one without checking it.
func (r *Resolver) SpecFile(name string) (string, error) {
	candidates, err := r.Candidates(name)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(candidates[0]); err == nil {
		return candidates[0], nil
	}
	return candidates[1], nil
}

// ListSpecs returns the names of every *_spec file under the spec
// directory, slash separated and sorted.
func (r *Resolver) ListSpecs() ([]string, error) {
	dir := r.Dir()
	suffix := r.specSuffix()
	var names []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), suffix))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing specs in %s: %w", dir, err)
	}

	sort.Strings(names)
	return names, nil
}

// CleanSpecName normalises a spec name taken from a request. Names may
// contain directories but must stay inside the spec directory.
func CleanSpecName(name string) (string, error) {
	name = strings.TrimSpace(filepath.ToSlash(name))
	name = strings.TrimSuffix(name, ".js")
	if name == "" || strings.HasPrefix(name, "/") || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSpecName, name)
	}

	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSpecName, name)
	}
	return clean, nil
}

// Package configfile creates starter .todo-scan config files for `init`.
package configfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/todoscan/todo-scan/internal/config"
)

const (
	TOMLFileName = ".todo-scan.toml"
	YAMLFileName = ".todo-scan.yaml"
)

// ErrExists is returned by Write when the target file is already present
// and overwrite was not requested.
var ErrExists = errors.New("already exists")

// Format selects the file syntax.
type Format int

const (
	TOML Format = iota
	YAML
)

// FileName returns the file name written for f.
func (f Format) FileName() string {
	if f == YAML {
		return YAMLFileName
	}
	return TOMLFileName
}

// Project is a detected project type and the build output dirs to exclude.
type Project struct {
	Name        string
	Markers     []string
	ExcludeDirs []string
}

// Projects are checked in this order.
var Projects = []Project{
	{Name: "Rust", Markers: []string{"Cargo.toml"}, ExcludeDirs: []string{"target"}},
	{Name: "JavaScript", Markers: []string{"package.json"}, ExcludeDirs: []string{"node_modules", "dist"}},
	{Name: "Go", Markers: []string{"go.mod"}, ExcludeDirs: []string{"vendor"}},
	{Name: "Python", Markers: []string{"pyproject.toml", "requirements.txt", "setup.py"}, ExcludeDirs: []string{"__pycache__", ".venv", "venv"}},
}

// Detect returns the projects whose marker files exist in root.
func Detect(root string) []Project {
	var found []Project
	for _, p := range Projects {
		for _, m := range p.Markers {
			if info, err := os.Stat(filepath.Join(root, m)); err == nil && !info.IsDir() {
				found = append(found, p)
				break
			}
		}
	}
	return found
}

// Starter builds the config written by init: the default tags and the
// union of the detected projects' exclude dirs, sorted.
func Starter(projects []Project) config.File {
	f := config.Default().Effective()
	seen := map[string]bool{}
	for _, p := range projects {
		for _, d := range p.ExcludeDirs {
			if !seen[d] {
				seen[d] = true
				f.ExcludeDirs = append(f.ExcludeDirs, d)
			}
		}
	}
	sort.Strings(f.ExcludeDirs)
	return f
}

// Marshal encodes f in the given syntax.
func Marshal(f config.File, format Format) ([]byte, error) {
	if format == YAML {
		data, err := yaml.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("marshaling yaml: %w", err)
		}
		return data, nil
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("marshaling toml: %w", err)
	}
	return buf.Bytes(), nil
}

// Path returns where a file in the given format lives under root.
func Path(root string, format Format) string {
	return filepath.Join(root, format.FileName())
}

// Exists reports whether a file in the given format is present under root.
func Exists(root string, format Format) bool {
	_, err := os.Stat(Path(root, format))
	return err == nil
}

// Write saves f under root. It fails with ErrExists unless overwrite is set.
func Write(root string, f config.File, format Format, overwrite bool) (string, error) {
	path := Path(root, format)
	if !overwrite && Exists(root, format) {
		return path, fmt.Errorf("%s %w", format.FileName(), ErrExists)
	}
	data, err := Marshal(f, format)
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - config is meant to be committed
		return path, fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

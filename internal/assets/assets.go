// Package assets supplies the stylesheet and page template used by the HTML
// preview of a report. The built-in set is compiled into the binary; any
// fs.FS with the same layout can replace it.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Names of the built-in assets.
const (
	DefaultStyle    = "default"
	DefaultTemplate = "page"
)

// Sentinel errors for asset lookups.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// Loader supplies preview assets by bare name (no directory, no extension).
type Loader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind locates one family of assets inside the tree.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// FSLoader reads styles/<name>.css and templates/<name>.html from a file
// system.
type FSLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader returns a loader over the built-in assets.
func NewEmbeddedLoader() *FSLoader {
	return &FSLoader{fsys: builtin}
}

// NewFSLoader returns a loader over fsys, which must use the built-in layout.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// LoadStyle returns the stylesheet called name.
func (l *FSLoader) LoadStyle(name string) (string, error) {
	return l.load(styleKind, name)
}

// LoadTemplate returns the page template called name.
func (l *FSLoader) LoadTemplate(name string) (string, error) {
	return l.load(templateKind, name)
}

func (l *FSLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(l.fsys, path.Join(k.dir, name+k.ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(data), nil
}

// ValidateAssetName rejects empty names and names holding a path separator
// or a dot, so a lookup never leaves its asset directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

var _ Loader = (*FSLoader)(nil)

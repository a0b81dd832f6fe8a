package themes

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Renderer resolves layout names against the html/template files found under
// a theme directory. Templates are parsed once on first use; the zero render
// path stays lock-free afterwards.
type Renderer struct {
	baseDir string
	once    sync.Once
	tpl     *template.Template
	err     error
}

var _ interfaces.LayoutRenderer = (*Renderer)(nil)

// NewRenderer returns a layout renderer rooted at baseDir. The directory must
// exist; template discovery is deferred until the first render.
func NewRenderer(baseDir string) (*Renderer, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("inspect template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template path %q is not a directory", baseDir)
	}
	return &Renderer{baseDir: baseDir}, nil
}

func (r *Renderer) ensureTemplates() (*template.Template, error) {
	r.once.Do(func() {
		var files []string
		err := filepath.WalkDir(r.baseDir, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".html" && ext != ".tmpl" {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			r.err = err
			return
		}
		if len(files) == 0 {
			r.err = fmt.Errorf("%w: %s", ErrNoTemplates, r.baseDir)
			return
		}

		funcs := template.FuncMap{
			"safeHTML": func(value any) template.HTML { return toHTML(value) },
			// param pulls a required front-matter value out of a map and
			// fails the render when the key is absent.
			"param": func(values map[string]any, key string) (any, error) {
				if value, ok := values[key]; ok {
					return value, nil
				}
				return nil, fmt.Errorf("missing front matter key %q", key)
			},
		}
		r.tpl, r.err = template.New("site-theme").
			Funcs(funcs).
			Option("missingkey=error").
			ParseFiles(files...)
	})
	return r.tpl, r.err
}

// Ready forces template discovery and returns its error. A theme directory
// with no templates surfaces ErrNoTemplates; a broken template surfaces the
// parse error. Callers should check Ready before relying on Has, which can
// only answer yes or no.
func (r *Renderer) Ready() error {
	_, err := r.ensureTemplates()
	return err
}

// Has reports whether a layout with the given name is registered.
func (r *Renderer) Has(name string) bool {
	tpl, err := r.ensureTemplates()
	if err != nil {
		return false
	}
	return lookupLayout(tpl, name) != nil
}

// Render executes the named layout. An unregistered name fails with
// ErrLayoutUnknown; any execution failure is treated as an unresolved
// template slot and wrapped in ErrSlotMissing so callers can branch on it.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	tpl, err := r.ensureTemplates()
	if err != nil {
		return nil, err
	}

	target := lookupLayout(tpl, name)
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutUnknown, name)
	}

	var buf bytes.Buffer
	if err := target.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrSlotMissing, name, err)
	}
	return buf.Bytes(), nil
}

// lookupLayout resolves a layout name against template names derived from
// file basenames, accepting both bare names and explicit extensions.
func lookupLayout(tpl *template.Template, name string) *template.Template {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, candidate := range []string{name, name + ".html", name + ".tmpl"} {
		if found := tpl.Lookup(candidate); found != nil {
			return found
		}
	}
	return nil
}

func toHTML(value any) template.HTML {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}

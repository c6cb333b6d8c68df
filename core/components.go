package core

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// Widget is the data handed to a component template.
type Widget struct {
	Name      string
	ClassName string
	Height    int
}

// Page is the data every layout is executed with.
type Page struct {
	Title       string
	Stylesheets []string
	Scripts     []string
	LiveReload  bool
	ReloadPath  string
	Specs       []string
}

// ComponentRenderer renders pages inside the configured layout. Templates
// are parsed on every call so edits show up without a restart.
type ComponentRenderer struct {
	config     Config
	env        string
	liveReload bool
	reloadPath string
}

func NewComponentRenderer(config Config, runtime RuntimeContext) *ComponentRenderer {
	return &ComponentRenderer{
		config:     config.withDefaults(),
		env:        runtime.Env,
		liveReload: runtime.EnableWatch,
		reloadPath: runtime.ReloadPath,
	}
}

func (r *ComponentRenderer) page(title string) Page {
	return Page{
		Title:       title,
		Stylesheets: r.config.Stylesheets,
		Scripts:     r.config.Scripts,
		LiveReload:  r.liveReload,
		ReloadPath:  r.reloadPath,
	}
}

// baseTemplate parses the layout and every component template.
func (r *ComponentRenderer) baseTemplate() (*template.Template, error) {
	funcs := TemplateFuncs(r.env, r.config.AppPath(r.config.PublicDir), r.config.AppPath(r.config.OutputDir))
	funcs["widget"] = func(name, className string, height int) Widget {
		return Widget{Name: name, ClassName: className, Height: height}
	}

	tmpl := template.New("harness").Funcs(funcs)

	var err error
	if r.config.Layout != "" {
		tmpl, err = tmpl.ParseFiles(r.config.AppPath(r.config.Layout))
	} else {
		tmpl, err = tmpl.ParseFS(builtinTemplates, "templates/layout.html")
	}
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	components, err := r.ComponentFiles()
	if err != nil {
		return nil, err
	}
	if len(components) > 0 {
		if tmpl, err = tmpl.ParseFiles(components...); err != nil {
			return nil, fmt.Errorf("parsing components: %w", err)
		}
	}

	return tmpl, nil
}

// ComponentFiles lists every .html template under the components directory.
func (r *ComponentRenderer) ComponentFiles() ([]string, error) {
	dir := r.config.AppPath(r.config.ComponentsDir)
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing components: %w", err)
	}
	return files, nil
}

// Components returns the names of every component template.
func (r *ComponentRenderer) Components() ([]string, error) {
	files, err := r.ComponentFiles()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(filepath.Base(f), ".html"))
	}
	return names, nil
}

// Render writes the page for className: an inline content template holding
// a single widget directive, executed inside the layout.
func (r *ComponentRenderer) Render(w io.Writer, className string, height int) error {
	name := ComponentName(className)
	if name == "" {
		return fmt.Errorf("%w: %q", ErrComponentNotFound, className)
	}

	tmpl, err := r.baseTemplate()
	if err != nil {
		return err
	}

	file := name + ".html"
	if tmpl.Lookup(file) == nil {
		return fmt.Errorf("%w: %s (%s)", ErrComponentNotFound, className, file)
	}

	inline := fmt.Sprintf(`{{ define "content" }}{{ template %q (widget %q %q %d) }}{{ end }}`,
		file, name, className, height)
	if tmpl, err = tmpl.Parse(inline); err != nil {
		return fmt.Errorf("parsing component directive: %w", err)
	}

	return r.execute(w, tmpl, r.page(className))
}

// RenderRunner writes the test runner page that loads every spec.
func (r *ComponentRenderer) RenderRunner(w io.Writer, specs []string) error {
	tmpl, err := r.baseTemplate()
	if err != nil {
		return err
	}
	if tmpl, err = tmpl.ParseFS(builtinTemplates, "templates/runner.html"); err != nil {
		return fmt.Errorf("parsing runner: %w", err)
	}

	page := r.page("Specs")
	page.Specs = specs
	return r.execute(w, tmpl, page)
}

// execute buffers the output so a failing template never leaves a partial
// page behind.
func (r *ComponentRenderer) execute(w io.Writer, tmpl *template.Template, page Page) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

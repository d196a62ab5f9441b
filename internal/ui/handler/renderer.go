package handler

import (
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
)

// Renderer parses page and partial templates on first use and keeps them.
// Pages are the base layout plus pages/<name>.html; partials are standalone
// files under partials/.
type Renderer struct {
	templatesDir string
	templates    map[string]*template.Template
	mu           sync.RWMutex
	funcs        template.FuncMap
}

func NewRenderer(templatesDir string) *Renderer {
	return &Renderer{
		templatesDir: templatesDir,
		templates:    make(map[string]*template.Template),
		funcs:        defaultFuncs(),
	}
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"safeJS": func(s string) template.JS {
			return template.JS(s)
		},
	}
}

func (r *Renderer) cached(key string, parse func() (*template.Template, error)) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[key]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[key]; ok {
		return tmpl, nil
	}

	tmpl, err := parse()
	if err != nil {
		return nil, err
	}
	r.templates[key] = tmpl
	return tmpl, nil
}

func (r *Renderer) loadPage(name string) (*template.Template, error) {
	return r.cached("pages/"+name, func() (*template.Template, error) {
		layoutPath := filepath.Join(r.templatesDir, "layouts", "base.html")
		pagePath := filepath.Join(r.templatesDir, "pages", name+".html")
		return template.New("").Funcs(r.funcs).ParseFiles(layoutPath, pagePath)
	})
}

func (r *Renderer) loadPartial(name string) (*template.Template, error) {
	return r.cached("partials/"+name, func() (*template.Template, error) {
		partialPath := filepath.Join(r.templatesDir, "partials", name+".html")
		return template.New("").Funcs(r.funcs).ParseFiles(partialPath)
	})
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.loadPage(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

func (r *Renderer) RenderPartial(w io.Writer, name string, data any) error {
	tmpl, err := r.loadPartial(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, name+".html", data)
}

func (r *Renderer) HTML(c *gin.Context, code int, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(code)
	if err := r.Render(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}

func (r *Renderer) Partial(c *gin.Context, code int, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(code)
	if err := r.RenderPartial(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}

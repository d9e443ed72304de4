package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns markdown templates into HTML and text bodies wrapped in
// an HTML layout. Parsed templates are cached; rendered output is not.
type Renderer struct {
	fs        fs.FS
	md        goldmark.Markdown
	pages     sync.Map // name -> *page
	layouts   sync.Map // name -> *template.Template
	dir       string
	layoutDir string
}

type page struct {
	meta map[string]any
	body *texttemplate.Template
}

// RendererConfig configures the template directories inside the fs.
type RendererConfig struct {
	TemplateDir string // default "."
	LayoutDir   string // default "layouts"
}

// RenderResult is a rendered message body.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string // markdown after template execution
}

// NewRenderer creates a renderer with default directories.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a renderer with custom directories.
func NewRendererWithConfig(filesystem fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}
	return &Renderer{
		fs:        filesystem,
		md:        goldmark.New(goldmark.WithExtensions(extension.Linkify, Buttons)),
		dir:       cfg.TemplateDir,
		layoutDir: cfg.LayoutDir,
	}
}

// Render executes templateName with data and wraps the HTML in layout.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	p, err := r.page(templateName)
	if err != nil {
		return nil, err
	}

	var markdown bytes.Buffer
	if err := p.body.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, templateName, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, templateName, err)
	}

	lt, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = lt.Execute(&out, map[string]any{
		"Content":  template.HTML(content.String()),
		"Metadata": p.meta,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: p.meta,
		HTML:     out.String(),
		Text:     markdown.String(),
	}, nil
}

func (r *Renderer) page(name string) (*page, error) {
	if v, ok := r.pages.Load(name); ok {
		return v.(*page), nil
	}

	raw, err := fs.ReadFile(r.fs, path.Join(r.dir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	body, err := texttemplate.New(name).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	v, _ := r.pages.LoadOrStore(name, &page{meta: parsed.Metadata, body: body})
	return v.(*page), nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	if v, ok := r.layouts.Load(name); ok {
		return v.(*template.Template), nil
	}

	raw, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	t, err := template.New(name).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	v, _ := r.layouts.LoadOrStore(name, t)
	return v.(*template.Template), nil
}

// Package render turns stored components into HTML for previews and published sites.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

type (
	Decoder interface {
		Decode(typ string, props catalog.Props) (catalog.WidgetProps, error)
	}

	Renderer struct {
		tmpl *template.Template
		dec  Decoder
		log  core.Logger
	}

	// PageData is everything a full page render needs.
	PageData struct {
		School     school.School
		Theme      theme.Theme
		Name       string
		Components []editor.Component
		Editable   bool
		LiveURL    string // live-reload websocket path, if any
	}

	componentData struct {
		ID       string
		Type     string
		Editable bool
		Body     template.HTML
	}

	pageData struct {
		School     school.School
		Theme      theme.Theme
		Page       struct{ Name string }
		Components []template.HTML
		LiveURL    string
	}
)

func New(dec Decoder, logger core.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}
	if logger == nil {
		logger = core.NewDiscardLogger()
	}
	return &Renderer{tmpl: tmpl, dec: dec, log: logger}, nil
}

func (r *Renderer) body(typ string, props catalog.Props) (template.HTML, error) {
	name, data := "unknown", interface{}(struct{ Type string }{typ})
	if catalog.IsKnownType(typ) {
		decoded, err := r.dec.Decode(typ, props)
		if err != nil {
			r.log.Warn("render: undecodable props", map[string]interface{}{"type": typ, "error": err.Error()})
		} else {
			name, data = typ, decoded
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "rendering %s", typ)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) component(id, typ string, props catalog.Props, editable bool) template.HTML {
	body, err := r.body(typ, props)
	if err != nil {
		r.log.Error("render: component failed", err)
		body, _ = r.body("", nil)
	}

	var buf bytes.Buffer
	data := componentData{ID: id, Type: typ, Editable: editable, Body: body}
	if err = r.tmpl.ExecuteTemplate(&buf, "component", data); err != nil {
		r.log.Error("render: component wrapper failed", err)
		return body
	}
	return template.HTML(buf.String())
}

// Component renders one component. Types without a template, and props that cannot be
// decoded, render a visible placeholder instead.
func (r *Renderer) Component(typ string, props catalog.Props, editable bool) template.HTML {
	return r.component("", typ, props, editable)
}

// Page writes a full HTML document of the components, in display order, styled with the theme.
func (r *Renderer) Page(w io.Writer, pd PageData) error {
	data := pageData{School: pd.School, Theme: pd.Theme, LiveURL: pd.LiveURL}
	data.Page.Name = pd.Name
	for _, c := range pd.Components {
		data.Components = append(data.Components, r.component(c.ID, c.Type, c.Props, pd.Editable))
	}
	if err := r.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return errors.Wrap(err, "rendering page")
	}
	return nil
}

// Package catalog is the closed registry of widget types that can be placed on a page.
package catalog

import (
	_ "embed"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CategoryAll is the wildcard category accepted by Catalog.Filter.
const CategoryAll = "all"

//go:embed catalog.yaml
var defaultCatalog []byte

type (
	Widget struct {
		Type         string `json:"type" yaml:"type" validate:"required"`
		Name         string `json:"name" yaml:"name" validate:"required"`
		Icon         string `json:"icon" yaml:"icon"`
		Category     string `json:"category" yaml:"category" validate:"required"`
		DefaultProps Props  `json:"defaultProps" yaml:"defaultProps"`
	}

	Category struct {
		ID   string `json:"id" yaml:"id" validate:"required"`
		Name string `json:"name" yaml:"name" validate:"required"`
	}

	// Catalog is immutable once loaded; every accessor returns copies.
	Catalog struct {
		widgets    []Widget
		categories []Category
		byType     map[string]int
	}

	// Document is the wire shape of the catalog, as served by GET /templates/components.
	Document struct {
		Widgets    []Widget   `json:"widgets" yaml:"widgets" validate:"dive"`
		Categories []Category `json:"categories" yaml:"categories" validate:"dive"`
	}
)

// Load parses the catalog shipped with the application.
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding catalog")
	}
	return New(doc)
}

// New validates doc and builds a Catalog from it.
// Widget types must be unique, categories must be declared and default props must decode.
func New(doc Document) (*Catalog, error) {
	if err := validator.New().Struct(doc); err != nil {
		return nil, errors.Wrap(err, "validating catalog")
	}

	cats := make(map[string]bool, len(doc.Categories))
	for _, cat := range doc.Categories {
		cats[cat.ID] = true
	}

	c := &Catalog{
		widgets:    make([]Widget, 0, len(doc.Widgets)),
		categories: append([]Category(nil), doc.Categories...),
		byType:     make(map[string]int, len(doc.Widgets)),
	}
	for _, w := range doc.Widgets {
		if _, dup := c.byType[w.Type]; dup {
			return nil, errors.Errorf("duplicate widget type %q", w.Type)
		}
		if !cats[w.Category] {
			return nil, errors.Errorf("widget %q: unknown category %q", w.Type, w.Category)
		}
		if w.DefaultProps == nil {
			w.DefaultProps = make(Props)
		}
		if _, err := decodeProps(w.Type, w.DefaultProps); err != nil {
			return nil, errors.Wrapf(err, "widget %q", w.Type)
		}
		c.byType[w.Type] = len(c.widgets)
		c.widgets = append(c.widgets, w)
	}
	return c, nil
}

func (c *Catalog) copyWidget(w Widget) Widget {
	w.DefaultProps = w.DefaultProps.Clone()
	return w
}

// ByType looks up a widget by its type tag.
func (c *Catalog) ByType(typ string) (Widget, bool) {
	idx, ok := c.byType[typ]
	if !ok {
		return Widget{}, false
	}
	return c.copyWidget(c.widgets[idx]), true
}

// DefaultProps returns a deep copy of the default props of typ.
func (c *Catalog) DefaultProps(typ string) (Props, bool) {
	idx, ok := c.byType[typ]
	if !ok {
		return nil, false
	}
	return c.widgets[idx].DefaultProps.Clone(), true
}

// All returns every widget in declaration order.
func (c *Catalog) All() []Widget {
	widgets := make([]Widget, 0, len(c.widgets))
	for _, w := range c.widgets {
		widgets = append(widgets, c.copyWidget(w))
	}
	return widgets
}

func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// Filter does a case-insensitive substring match of `search` on widget names,
// intersected with an exact match on `category` ("" and "all" match every category).
func (c *Catalog) Filter(search, category string) []Widget {
	search = strings.ToLower(search)
	widgets := make([]Widget, 0)
	for _, w := range c.widgets {
		if !strings.Contains(strings.ToLower(w.Name), search) {
			continue
		}
		if category != "" && category != CategoryAll && w.Category != category {
			continue
		}
		widgets = append(widgets, c.copyWidget(w))
	}
	return widgets
}

// Document returns the wire shape of the whole catalog.
func (c *Catalog) Document() Document {
	return Document{Widgets: c.All(), Categories: c.Categories()}
}

// Decode returns the typed props of a component: the widget defaults with `props` written on top,
// decoded into the variant of typ. Unknown types decode into a GenericProps.
func (c *Catalog) Decode(typ string, props Props) (WidgetProps, error) {
	defaults, _ := c.DefaultProps(typ)
	return decodeProps(typ, defaults.Merge(props))
}

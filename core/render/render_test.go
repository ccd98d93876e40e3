package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/render"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	r, err := render.New(cat, nil)
	require.NoError(t, err)
	return r
}

func TestRenderer_Component(t *testing.T) {
	r := newRenderer(t)

	tests := []struct {
		name     string
		typ      string
		props    catalog.Props
		editable bool
		contains []string
		excludes []string
	}{
		{
			name:     "hero with defaults",
			typ:      catalog.TypeHero,
			props:    catalog.Props{"title": "Hello <World>"},
			contains: []string{"component-hero", "Hello &lt;World&gt;", "Inspiring young minds since 1990"},
			excludes: []string{"data-editable"},
		},
		{
			name:     "editable",
			typ:      catalog.TypeText,
			props:    catalog.Props{"content": "Hi"},
			editable: true,
			contains: []string{`data-editable="true"`, "<p>Hi</p>"},
		},
		{
			name:     "heading level",
			typ:      catalog.TypeHeading,
			props:    catalog.Props{"content": "About", "level": "h3"},
			contains: []string{"<h3>About</h3>"},
		},
		{
			name:     "nested lists",
			typ:      catalog.TypeFeatures,
			props:    catalog.Props{"features": []interface{}{map[string]interface{}{"title": "Sports"}}},
			contains: []string{"<h3>Sports</h3>"},
			excludes: []string{"Dedicated Teachers"},
		},
		{
			name:     "weakly typed spacer",
			typ:      catalog.TypeSpacer,
			props:    catalog.Props{"height": 80},
			contains: []string{"height: 80px"},
		},
		{
			name:     "unknown type",
			typ:      "carousel",
			contains: []string{"Unknown component: carousel"},
		},
		{
			name:     "undecodable props",
			typ:      catalog.TypeHero,
			props:    catalog.Props{"title": map[string]interface{}{"x": 1}},
			contains: []string{"Unknown component: hero"},
		},
		{
			name:     "unsafe link",
			typ:      catalog.TypeButton,
			props:    catalog.Props{"link": "javascript:alert(1)"},
			excludes: []string{"javascript:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := string(r.Component(tt.typ, tt.props, tt.editable))
			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, html, s)
			}
		})
	}
}

func TestRenderer_Page(t *testing.T) {
	r := newRenderer(t)
	themes, err := theme.NewService(nil)
	require.NoError(t, err)
	sch := school.School{Name: "Sunshine Elementary", ThemeID: "forest", PrimaryColor: "#123456"}

	var buf bytes.Buffer
	err = r.Page(&buf, render.PageData{
		School: sch,
		Theme:  themes.ForSchool(sch),
		Name:   "Home",
		Components: []editor.Component{
			{ID: "comp-1", Type: catalog.TypeHeading, Props: catalog.Props{"content": "First"}, Order: 0},
			{ID: "comp-2", Type: catalog.TypeHeading, Props: catalog.Props{"content": "Second"}, Order: 1},
		},
		LiveURL: "/api/pages/p1/live",
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>Home | Sunshine Elementary</title>")
	assert.Contains(t, html, "--color-primary: #123456")
	assert.Contains(t, html, `data-component-id="comp-1"`)
	assert.Contains(t, html, "WebSocket")
	assert.Less(t, strings.Index(html, "First"), strings.Index(html, "Second"))
}

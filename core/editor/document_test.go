package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

// sequentialIDs makes IDFunc deterministic for the duration of the test.
func sequentialIDs(t *testing.T) {
	t.Helper()
	prev := IDFunc
	n := 0
	IDFunc = func() string {
		n++
		return fmt.Sprintf("comp-%d", n)
	}
	t.Cleanup(func() { IDFunc = prev })
}

func newDoc(t *testing.T) *Document {
	t.Helper()
	return NewDocument(testCatalog(t), nil)
}

// seed loads components with the given ids (type text, dense orders) and returns the document.
func seed(t *testing.T, ids ...string) *Document {
	t.Helper()
	doc := newDoc(t)
	comps := make([]Component, 0, len(ids))
	for i, id := range ids {
		comps = append(comps, Component{ID: id, Type: catalog.TypeText, Props: catalog.Props{"content": id}, Order: i})
	}
	doc.Load(comps)
	return doc
}

func ids(doc *Document) []string {
	res := make([]string, 0, doc.Len())
	for _, c := range doc.Components() {
		res = append(res, c.ID)
	}
	return res
}

func assertDense(t *testing.T, doc *Document) {
	t.Helper()
	for i, c := range doc.Components() {
		assert.Equal(t, i, c.Order, "component %s", c.ID)
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.Regexp(t, `^comp-[0-9a-f]{12}$`, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestDocument_Add(t *testing.T) {
	sequentialIDs(t)

	t.Run("insert at interior index", func(t *testing.T) {
		doc := seed(t, "A", "B")
		id := doc.Add(catalog.TypeText, catalog.Props{}, 1)

		assert.Equal(t, []string{"A", id, "B"}, ids(doc))
		assertDense(t, doc)
		assert.Equal(t, id, doc.Selected())
		assert.True(t, doc.Dirty())
	})

	t.Run("append by default", func(t *testing.T) {
		doc := seed(t, "A", "B")
		id := doc.Add(catalog.TypeHeading, nil)
		assert.Equal(t, []string{"A", "B", id}, ids(doc))
		assertDense(t, doc)
	})

	t.Run("index is clamped", func(t *testing.T) {
		doc := seed(t, "A", "B")
		first := doc.Add(catalog.TypeText, nil, -3)
		last := doc.Add(catalog.TypeText, nil, 42)
		assert.Equal(t, []string{first, "A", "B", last}, ids(doc))
		assertDense(t, doc)
	})

	t.Run("explicit props win over defaults", func(t *testing.T) {
		doc := newDoc(t)
		id := doc.Add(catalog.TypeHero, catalog.Props{"title": "Welcome"})
		comp, ok := doc.Get(id)
		require.True(t, ok)
		assert.Equal(t, "Welcome", comp.Props["title"])
		assert.Equal(t, "Learn More", comp.Props["buttonText"])
		assert.Equal(t, catalog.TypeHero, comp.Type)
	})

	t.Run("unknown type is kept verbatim", func(t *testing.T) {
		doc := newDoc(t)
		id := doc.Add("carousel", catalog.Props{"slides": 3})
		comp, ok := doc.Get(id)
		require.True(t, ok)
		assert.Equal(t, "carousel", comp.Type)
		assert.Equal(t, catalog.Props{"slides": 3}, comp.Props)
	})

	t.Run("ids are never reused", func(t *testing.T) {
		doc := seed(t, "comp-100")
		prev := IDFunc
		calls := 0
		IDFunc = func() string {
			calls++
			if calls == 1 {
				return "comp-100"
			}
			return "comp-101"
		}
		defer func() { IDFunc = prev }()

		assert.Equal(t, "comp-101", doc.Add(catalog.TypeText, nil))
	})
}

func TestDocument_Update(t *testing.T) {
	doc := newDoc(t)
	id := doc.Add(catalog.TypeHero, catalog.Props{"title": "Welcome"})
	doc.MarkSaved(doc.Revision())

	require.NoError(t, doc.Update(id, catalog.Props{"subtitle": "Since 1990", "extra": true}))
	comp, _ := doc.Get(id)
	assert.Equal(t, "Welcome", comp.Props["title"])
	assert.Equal(t, "Since 1990", comp.Props["subtitle"])
	assert.Equal(t, true, comp.Props["extra"])
	assert.True(t, doc.Dirty())

	before := doc.Components()
	assert.Equal(t, ErrComponentNotFound, doc.Update("nope", catalog.Props{"title": "x"}))
	assert.Equal(t, before, doc.Components())
}

func TestDocument_Remove(t *testing.T) {
	tests := []struct {
		name         string
		selected     string
		remove       string
		wantIDs      []string
		wantSelected string
		wantErr      error
	}{
		{name: "selected component", selected: "B", remove: "B", wantIDs: []string{"A", "C"}, wantSelected: ""},
		{name: "other component", selected: "C", remove: "A", wantIDs: []string{"B", "C"}, wantSelected: "C"},
		{name: "nothing selected", remove: "C", wantIDs: []string{"A", "B"}},
		{name: "unknown id", selected: "A", remove: "Z", wantIDs: []string{"A", "B", "C"}, wantSelected: "A", wantErr: ErrComponentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := seed(t, "A", "B", "C")
			if tt.selected != "" {
				require.NoError(t, doc.Select(tt.selected))
			}

			err := doc.Remove(tt.remove)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantIDs, ids(doc))
			assert.Equal(t, tt.wantSelected, doc.Selected())
			assert.Equal(t, tt.wantErr == nil, doc.Dirty())
			assertDense(t, doc)
		})
	}
}

func TestDocument_Duplicate(t *testing.T) {
	sequentialIDs(t)
	doc := newDoc(t)
	src := doc.Add(catalog.TypeFeatures, nil)
	tail := doc.Add(catalog.TypeText, nil)

	dup, err := doc.Duplicate(src)
	require.NoError(t, err)
	assert.Equal(t, []string{src, dup, tail}, ids(doc))
	assert.Equal(t, dup, doc.Selected())
	assertDense(t, doc)

	original, _ := doc.Get(src)
	copied, _ := doc.Get(dup)
	assert.Equal(t, original.Props, copied.Props)
	assert.Equal(t, original.Type, copied.Type)

	// nested values are not shared
	idx := doc.IndexOf(dup)
	doc.comps[idx].Props["features"].([]interface{})[0].(map[string]interface{})["title"] = "changed"
	require.NoError(t, doc.Update(dup, catalog.Props{"features": []interface{}{}}))
	original, _ = doc.Get(src)
	features := original.Props["features"].([]interface{})
	assert.Len(t, features, 3)
	assert.Equal(t, "Excellence in Education", features[0].(map[string]interface{})["title"])

	_, err = doc.Duplicate("nope")
	assert.Equal(t, ErrComponentNotFound, err)
}

func TestDocument_Duplicate_typedNestedProps(t *testing.T) {
	tests := []struct {
		name   string
		props  catalog.Props
		mutate func(p catalog.Props)
		title  func(p catalog.Props) string
	}{
		{
			name:   "props list",
			props:  catalog.Props{"features": []catalog.Props{{"title": "orig"}}},
			mutate: func(p catalog.Props) { p["features"].([]catalog.Props)[0]["title"] = "mutated" },
			title:  func(p catalog.Props) string { return p["features"].([]catalog.Props)[0]["title"].(string) },
		},
		{
			name:   "map of lists",
			props:  catalog.Props{"features": map[string][]string{"titles": {"orig"}}},
			mutate: func(p catalog.Props) { p["features"].(map[string][]string)["titles"][0] = "mutated" },
			title:  func(p catalog.Props) string { return p["features"].(map[string][]string)["titles"][0] },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t)
			src := doc.Add(catalog.TypeFeatures, tt.props)
			dup, err := doc.Duplicate(src)
			require.NoError(t, err)

			tt.mutate(tt.props)
			tt.mutate(doc.comps[doc.IndexOf(dup)].Props)
			copied, _ := doc.Get(dup)
			tt.mutate(copied.Props)

			original, _ := doc.Get(src)
			assert.Equal(t, "orig", tt.title(original.Props))
		})
	}
}

func TestDocument_Move(t *testing.T) {
	tests := []struct {
		name      string
		from, to  int
		want      []string
		wantErr   error
		wantDirty bool
	}{
		{name: "forward", from: 0, to: 2, want: []string{"B", "C", "A", "D"}, wantDirty: true},
		{name: "backward", from: 3, to: 0, want: []string{"D", "A", "B", "C"}, wantDirty: true},
		{name: "adjacent", from: 1, to: 2, want: []string{"A", "C", "B", "D"}, wantDirty: true},
		{name: "same position", from: 2, to: 2, want: []string{"A", "B", "C", "D"}},
		{name: "from out of range", from: 4, to: 0, want: []string{"A", "B", "C", "D"}, wantErr: ErrInvalidRange},
		{name: "to out of range", from: 0, to: 4, want: []string{"A", "B", "C", "D"}, wantErr: ErrInvalidRange},
		{name: "negative", from: -1, to: 0, want: []string{"A", "B", "C", "D"}, wantErr: ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := seed(t, "A", "B", "C", "D")
			assert.Equal(t, tt.wantErr, doc.Move(tt.from, tt.to))
			assert.Equal(t, tt.want, ids(doc))
			assert.Equal(t, tt.wantDirty, doc.Dirty())
			assertDense(t, doc)
		})
	}
}

func TestDocument_Load(t *testing.T) {
	doc := newDoc(t)
	doc.Add(catalog.TypeText, nil)
	require.True(t, doc.Dirty())

	input := []Component{
		{ID: "C", Type: "text", Props: catalog.Props{"content": "c"}, Order: 7},
		{ID: "A", Type: "hero", Props: catalog.Props{"title": "a"}, Order: 0},
		{ID: "B1", Type: "text", Props: catalog.Props{}, Order: 3},
		{ID: "B2", Type: "text", Props: catalog.Props{}, Order: 3},
	}
	doc.Load(input)

	assert.Equal(t, []string{"A", "B1", "B2", "C"}, ids(doc))
	assert.False(t, doc.Dirty())
	assert.Empty(t, doc.Selected())

	// orders are kept as loaded
	got := doc.Components()
	assert.Equal(t, []int{0, 3, 3, 7}, []int{got[0].Order, got[1].Order, got[2].Order, got[3].Order})
	assert.Equal(t, input[1], got[0])

	// the input is not aliased
	input[1].Props["title"] = "changed"
	a, _ := doc.Get("A")
	assert.Equal(t, "a", a.Props["title"])

	// the next mutation makes them dense
	require.NoError(t, doc.Update("C", catalog.Props{"content": "cc"}))
	assertDense(t, doc)
}

func TestDocument_Clear(t *testing.T) {
	doc := seed(t, "A", "B")
	require.NoError(t, doc.Select("A"))

	doc.Clear()
	assert.Zero(t, doc.Len())
	assert.Empty(t, doc.Selected())
	assert.True(t, doc.Dirty())
}

func TestDocument_Select(t *testing.T) {
	doc := seed(t, "A")
	assert.Equal(t, ErrComponentNotFound, doc.Select("B"))
	assert.Empty(t, doc.Selected())
	require.NoError(t, doc.Select("A"))
	assert.Equal(t, "A", doc.Selected())
	doc.Deselect()
	assert.Empty(t, doc.Selected())
}

func TestDocument_MarkSaved(t *testing.T) {
	doc := newDoc(t)
	doc.Add(catalog.TypeText, nil)
	rev := doc.Revision()
	doc.Add(catalog.TypeText, nil)

	assert.False(t, doc.MarkSaved(rev))
	assert.True(t, doc.Dirty())
	assert.True(t, doc.MarkSaved(doc.Revision()))
	assert.False(t, doc.Dirty())
}

func TestDocument_scenario(t *testing.T) {
	doc := newDoc(t)

	hero := doc.Add(catalog.TypeHero, catalog.Props{"title": "Welcome"})
	assert.Equal(t, 1, doc.Len())
	assert.Equal(t, hero, doc.Selected())

	text := doc.Add(catalog.TypeText, catalog.Props{"content": "Hi"})
	assert.Equal(t, []string{hero, text}, ids(doc))
	assert.Equal(t, text, doc.Selected())

	dup, err := doc.Duplicate(hero)
	require.NoError(t, err)
	assert.Equal(t, []string{hero, dup, text}, ids(doc))
	assert.Equal(t, dup, doc.Selected())
	c, _ := doc.Get(dup)
	assert.Equal(t, 1, c.Order)
	assert.Equal(t, "Welcome", c.Props["title"])
	c, _ = doc.Get(text)
	assert.Equal(t, 2, c.Order)

	require.NoError(t, doc.Remove(hero))
	assert.Equal(t, []string{dup, text}, ids(doc))
	assertDense(t, doc)
	assert.Equal(t, dup, doc.Selected())
}

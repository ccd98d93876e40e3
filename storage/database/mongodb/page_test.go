package mongorepos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
)

func TestPlain(t *testing.T) {
	decoded := bson.D{
		{Key: "title", Value: "Why"},
		{Key: "features", Value: bson.A{
			bson.D{{Key: "title", Value: "A"}, {Key: "tags", Value: bson.A{"x", int32(1)}}},
			bson.M{"title": "B"},
		}},
	}
	want := map[string]interface{}{
		"title": "Why",
		"features": []interface{}{
			map[string]interface{}{"title": "A", "tags": []interface{}{"x", int32(1)}},
			map[string]interface{}{"title": "B"},
		},
	}
	assert.Equal(t, want, plain(decoded))
	assert.Equal(t, 42, plain(42))
}

func TestPageDoc(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	p := page.Page{
		ID:       "p1",
		SchoolID: "s1",
		Name:     "Home",
		Slug:     "home",
		Components: []editor.Component{
			{ID: "comp-1", Type: catalog.TypeGallery, Props: catalog.Props{"images": []interface{}{"a.png"}}, Order: 0},
			{ID: "comp-2", Type: catalog.TypeSpacer, Order: 1},
		},
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	doc := newPageDoc(p)
	assert.Equal(t, "p1", doc.ID)
	assert.Len(t, doc.Components, 2)

	// as the driver hands nested values back
	doc.Components[0].Props = bson.M{"images": bson.A{"a.png"}}
	got := doc.page()
	assert.Equal(t, p.Components[0], got.Components[0])
	assert.Equal(t, catalog.Props{}, got.Components[1].Props)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
}

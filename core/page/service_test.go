package page_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

type recorder struct {
	changed []page.Page
}

func (r *recorder) PageChanged(p page.Page) { r.changed = append(r.changed, p) }

func setup(t *testing.T) (*page.Service, school.School, *recorder) {
	t.Helper()
	db := inmemdb.Open()
	validate, _ := core.NewValidator()
	pageRepo := inmemdb.NewPageRepository(db)
	schools := school.NewService(inmemdb.NewSchoolRepository(db), pageRepo, validate)
	sch, err := schools.Create(context.Background(), school.NewSchool{Name: "Sunshine Elementary"})
	require.NoError(t, err)

	svc := page.NewService(pageRepo, schools, validate)
	rec := &recorder{}
	svc.SetNotifier(rec)
	return svc, sch, rec
}

func TestService_Create(t *testing.T) {
	svc, sch, rec := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, page.NewPage{
		SchoolID: sch.ID,
		Name:     "About Us",
		Components: []editor.Component{
			{ID: "b", Type: catalog.TypeText, Order: 5},
			{Type: catalog.TypeHero, Props: catalog.Props{"title": "Hi"}, Order: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "about-us", p.Slug)
	assert.False(t, p.IsPublished)
	require.Len(t, p.Components, 2)
	assert.Equal(t, catalog.TypeHero, p.Components[0].Type)
	assert.NotEmpty(t, p.Components[0].ID)
	assert.Equal(t, 0, p.Components[0].Order)
	assert.Equal(t, "b", p.Components[1].ID)
	assert.Equal(t, 1, p.Components[1].Order)
	assert.Equal(t, catalog.Props{}, p.Components[1].Props)
	assert.Len(t, rec.changed, 1)

	tests := []struct {
		name      string
		np        page.NewPage
		wantField string
	}{
		{name: "unknown school", np: page.NewPage{SchoolID: "nope", Name: "Home"}, wantField: "school_id"},
		{name: "duplicate slug", np: page.NewPage{SchoolID: sch.ID, Name: "About us"}, wantField: "slug"},
		{name: "duplicate id", np: page.NewPage{ID: p.ID, SchoolID: sch.ID, Name: "Other"}, wantField: "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.np)
			require.Error(t, err)
			verr, ok := err.(*core.ValidationError)
			require.True(t, ok, "%T", err)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
		})
	}

	_, err = svc.Create(ctx, page.NewPage{SchoolID: sch.ID})
	assert.Error(t, err)
}

func TestService_Update(t *testing.T) {
	svc, sch, rec := setup(t)
	ctx := context.Background()
	home, err := svc.Create(ctx, page.NewPage{SchoolID: sch.ID, Name: "Home"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, page.NewPage{SchoolID: sch.ID, Name: "About"})
	require.NoError(t, err)

	name, published := "Welcome", true
	comps := []editor.Component{{ID: "c1", Type: catalog.TypeSpacer, Order: 3}}
	got, err := svc.Update(ctx, home.ID, page.UpdatePage{Name: &name, Components: &comps, IsPublished: &published})
	require.NoError(t, err)
	assert.Equal(t, "Welcome", got.Name)
	assert.Equal(t, "home", got.Slug)
	assert.True(t, got.IsPublished)
	assert.Equal(t, 0, got.Components[0].Order)
	assert.Equal(t, home.CreatedAt, got.CreatedAt)
	assert.Len(t, rec.changed, 3)

	// untouched fields stay
	got, err = svc.Update(ctx, home.ID, page.UpdatePage{})
	require.NoError(t, err)
	assert.Len(t, got.Components, 1)
	assert.True(t, got.IsPublished)

	slug := "about"
	_, err = svc.Update(ctx, home.ID, page.UpdatePage{Slug: &slug})
	assert.Error(t, err)
	slug = "Bad Slug"
	_, err = svc.Update(ctx, home.ID, page.UpdatePage{Slug: &slug})
	assert.Error(t, err)
	empty := " "
	_, err = svc.Update(ctx, home.ID, page.UpdatePage{Name: &empty})
	assert.Error(t, err)

	_, err = svc.Update(ctx, "nope", page.UpdatePage{})
	assert.True(t, core.IsNotFound(err))
}

func TestService_Filter(t *testing.T) {
	svc, sch, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, page.NewPage{SchoolID: sch.ID, Name: "Home", IsPublished: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, page.NewPage{SchoolID: sch.ID, Name: "Draft"})
	require.NoError(t, err)

	all, err := svc.Filter(ctx, page.QueryFilter{SchoolID: sch.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published := true
	live, err := svc.Filter(ctx, page.QueryFilter{SchoolID: sch.ID, IsPublished: &published})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "Home", live[0].Name)

	none, err := svc.Filter(ctx, page.QueryFilter{SchoolID: "other"})
	require.NoError(t, err)
	assert.Empty(t, none)

	bySlug, err := svc.GetBySlug(ctx, sch.ID, "HOME")
	require.NoError(t, err)
	assert.Equal(t, "Home", bySlug.Name)
}

func TestService_PageStore(t *testing.T) {
	svc, sch, _ := setup(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, page.NewPage{
		SchoolID:   sch.ID,
		Name:       "Home",
		Components: []editor.Component{{ID: "c1", Type: catalog.TypeText, Props: catalog.Props{"content": "Hi"}}},
	})
	require.NoError(t, err)

	ep, err := svc.LoadPage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Home", ep.Name)
	assert.Equal(t, sch.ID, ep.SchoolID)
	assert.Equal(t, p.Components, ep.Components)

	comps := []editor.Component{
		{ID: "c2", Type: catalog.TypeHero, Props: catalog.Props{}, Order: 0},
		{ID: "c1", Type: catalog.TypeText, Props: catalog.Props{"content": "Hi"}, Order: 1},
	}
	require.NoError(t, svc.SavePage(ctx, p.ID, editor.SaveRequest{Components: comps}))
	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, comps, stored.Components)
	assert.False(t, stored.IsPublished)

	require.NoError(t, svc.SavePage(ctx, p.ID, editor.SaveRequest{Components: comps, Publish: true}))
	stored, _ = svc.GetByID(ctx, p.ID)
	assert.True(t, stored.IsPublished)

	_, err = svc.LoadPage(ctx, "nope")
	assert.True(t, core.IsNotFound(err))
	assert.True(t, core.IsNotFound(svc.SavePage(ctx, "nope", editor.SaveRequest{})))

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.True(t, core.IsNotFound(svc.Delete(ctx, p.ID)))
}

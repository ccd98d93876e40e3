package school_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func newServices(t *testing.T) (*school.Service, page.Repository) {
	t.Helper()
	db := inmemdb.Open()
	pages := inmemdb.NewPageRepository(db)
	validate, _ := core.NewValidator()
	return school.NewService(inmemdb.NewSchoolRepository(db), pages, validate), pages
}

func fieldErrors(t *testing.T, err error) []core.FieldError {
	t.Helper()
	require.Error(t, err)
	if verr, ok := err.(*core.ValidationError); ok {
		return verr.Fields
	}
	return nil
}

func TestService_Create(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	sch, err := svc.Create(ctx, school.NewSchool{Name: "  Sunshine Elementary "})
	require.NoError(t, err)
	assert.NotEmpty(t, sch.ID)
	assert.Equal(t, "Sunshine Elementary", sch.Name)
	assert.Equal(t, "sunshine-elementary", sch.Slug)
	assert.Equal(t, school.DefaultPrimaryColor, sch.PrimaryColor)
	assert.Equal(t, school.DefaultSecondaryColor, sch.SecondaryColor)
	assert.False(t, sch.CreatedAt.IsZero())

	tests := []struct {
		name      string
		ns        school.NewSchool
		wantField string
	}{
		{name: "duplicate slug", ns: school.NewSchool{Name: "Sunshine elementary"}, wantField: "slug"},
		{name: "duplicate id", ns: school.NewSchool{ID: sch.ID, Name: "Other"}, wantField: "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.ns)
			fields := fieldErrors(t, err)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
		})
	}

	invalid := []school.NewSchool{
		{},
		{Name: "X", Slug: "Not A Slug!"},
		{Name: "X", PrimaryColor: "blue"},
		{Name: "X", LogoURL: "not a url"},
	}
	for _, ns := range invalid {
		_, err = svc.Create(ctx, ns)
		assert.Error(t, err)
	}
}

func TestService_Update(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sch, err := svc.Create(ctx, school.NewSchool{Name: "Sunshine"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, school.NewSchool{Name: "Other"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, sch.ID, school.UpdateSchool{PrimaryColor: "#000000"})
	require.NoError(t, err)
	assert.Equal(t, "Sunshine", got.Name)
	assert.Equal(t, "#000000", got.PrimaryColor)
	assert.Equal(t, school.DefaultSecondaryColor, got.SecondaryColor)

	_, err = svc.Update(ctx, sch.ID, school.UpdateSchool{Slug: "other"})
	assert.Equal(t, "slug", fieldErrors(t, err)[0].Field)

	_, err = svc.Update(ctx, "nope", school.UpdateSchool{Name: "x"})
	assert.True(t, core.IsNotFound(err))
}

func TestService_SetBranding(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()
	sch, err := svc.Create(ctx, school.NewSchool{Name: "Sunshine"})
	require.NoError(t, err)

	got, err := svc.SetBranding(ctx, sch.ID, school.Branding{ThemeID: "forest", PrimaryColor: "#166534"})
	require.NoError(t, err)
	assert.Equal(t, "forest", got.ThemeID)
	assert.Equal(t, "#166534", got.PrimaryColor)
	assert.Equal(t, school.DefaultSecondaryColor, got.SecondaryColor)
}

func TestService_Delete(t *testing.T) {
	svc, pages := newServices(t)
	ctx := context.Background()
	sch, err := svc.Create(ctx, school.NewSchool{Name: "Sunshine"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, school.NewSchool{Name: "Other"})
	require.NoError(t, err)

	for _, p := range []page.Page{
		{ID: "p1", SchoolID: sch.ID, Slug: "home"},
		{ID: "p2", SchoolID: sch.ID, Slug: "about"},
		{ID: "p3", SchoolID: other.ID, Slug: "home"},
	} {
		_, err = pages.CreatePage(ctx, p)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, sch.ID))
	_, err = svc.GetByID(ctx, sch.ID)
	assert.True(t, core.IsNotFound(err))

	left, err := pages.FilterPages(ctx, page.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "p3", left[0].ID)

	assert.True(t, core.IsNotFound(svc.Delete(ctx, sch.ID)))
}

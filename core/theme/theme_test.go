package theme_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: `
- id: a
  name: A
  fontFamily: serif
  colors: {primary: "#000000", secondary: "#111111", accent: "#222222", background: "#FFFFFF", text: "#333333"}
`,
		},
		{name: "empty", data: `[]`, wantErr: true},
		{name: "bad yaml", data: `- id: [`, wantErr: true},
		{
			name: "bad color",
			data: `
- id: a
  name: A
  fontFamily: serif
  colors: {primary: blue, secondary: "#111111", accent: "#222222", background: "#FFFFFF", text: "#333333"}
`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := theme.Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := theme.New([]theme.Theme{{ID: "a"}, {ID: "a"}}, nil)
	assert.Error(t, err)
}

func TestService(t *testing.T) {
	db := inmemdb.Open()
	validate, _ := core.NewValidator()
	schools := school.NewService(inmemdb.NewSchoolRepository(db), inmemdb.NewPageRepository(db), validate)
	svc, err := theme.NewService(schools)
	require.NoError(t, err)
	ctx := context.Background()

	all := svc.QueryAll()
	require.NotEmpty(t, all)
	assert.Equal(t, theme.DefaultID, all[0].ID)

	forest, err := svc.GetByID("Forest")
	require.NoError(t, err)
	assert.Equal(t, "Forest Green", forest.Name)

	_, err = svc.GetByID("nope")
	assert.True(t, core.IsNotFound(err))

	sch, err := schools.Create(ctx, school.NewSchool{Name: "Sunshine"})
	require.NoError(t, err)

	got := svc.ForSchool(sch)
	assert.Equal(t, theme.DefaultID, got.ID)
	assert.Equal(t, school.DefaultPrimaryColor, got.Colors.Primary)

	sch, err = svc.Apply(ctx, sch.ID, "forest")
	require.NoError(t, err)
	assert.Equal(t, "forest", sch.ThemeID)
	assert.Equal(t, forest.Colors.Primary, sch.PrimaryColor)
	assert.Equal(t, forest.Colors.Secondary, sch.SecondaryColor)
	assert.Equal(t, forest.Colors.Background, svc.ForSchool(sch).Colors.Background)

	_, err = svc.Apply(ctx, sch.ID, "nope")
	verr, ok := err.(*core.ValidationError)
	require.True(t, ok, "%T", err)
	assert.Equal(t, "theme_id", verr.Fields[0].Field)

	_, err = svc.Apply(ctx, "nope", "forest")
	assert.True(t, core.IsNotFound(err))
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/storage/database"
)

// PrepareDB returns a migrated in-memory sqlite database, closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", database.SQLiteDSN(":memory:"))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	database.SetMigrationLogger(true)
	if err = database.Migrate(db, "up"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateSchool(t *testing.T, repo school.Repository, id, name, slug string, createdAt ...time.Time) school.School {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	sch, err := repo.CreateSchool(context.Background(), school.School{
		ID:             id,
		Name:           name,
		Slug:           slug,
		PrimaryColor:   school.DefaultPrimaryColor,
		SecondaryColor: school.DefaultSecondaryColor,
		CreatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

func CreatePage(
	t *testing.T,
	repo page.Repository,
	id, schoolID, name, slug string,
	published bool,
	comps []editor.Component,
	createdAt ...time.Time,
) page.Page {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if comps == nil {
		comps = []editor.Component{}
	}
	p, err := repo.CreatePage(context.Background(), page.Page{
		ID:          id,
		SchoolID:    schoolID,
		Name:        name,
		Slug:        slug,
		Components:  comps,
		IsPublished: published,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreatePage() failed: %v", err)
	}
	return p
}

// Components returns a small dense component list: a hero and a text block.
func Components() []editor.Component {
	return []editor.Component{
		{ID: "comp-1", Type: catalog.TypeHero, Props: catalog.Props{"title": "Welcome"}, Order: 0},
		{ID: "comp-2", Type: catalog.TypeText, Props: catalog.Props{"content": "Hi"}, Order: 1},
	}
}

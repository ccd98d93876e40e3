package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

const schoolColumns = "id, name, slug, logo_url, primary_color, secondary_color, theme_id, created_at"

type schoolRepository struct {
	db core.DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db core.DB) school.Repository {
	return &schoolRepository{db: db}
}

// excluding appends an "id NOT IN (...)" clause to query when ids is not empty.
func excluding(query string, args []interface{}, ids []string) (string, []interface{}, error) {
	if len(ids) == 0 {
		return query, args, nil
	}
	return sqlx.In(query+" AND id NOT IN (?)", append(args, ids)...)
}

func (repo *schoolRepository) CheckSlugUniqueness(ctx context.Context, slug string, excludedIDs ...string) error {
	q, args, err := excluding("SELECT COUNT(*) FROM schools WHERE slug = ?", []interface{}{slug}, excludedIDs)
	if err != nil {
		return wrapErr(err, "building query")
	}
	var count int
	if err = repo.db.GetContext(ctx, &count, repo.db.Rebind(q), args...); err != nil {
		return wrapErr(err, "checking school slug")
	}
	if count > 0 {
		return school.ErrSlugExists
	}
	return nil
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	if _, err := repo.GetSchoolByID(ctx, sch.ID); err == nil {
		return school.School{}, school.ErrIDExists
	}
	sch.CreatedAt = sch.CreatedAt.UTC()

	q := `INSERT INTO schools (` + schoolColumns + `)
		VALUES (:id, :name, :slug, :logo_url, :primary_color, :secondary_color, :theme_id, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, sch); err != nil {
		return school.School{}, wrapErr(err, "inserting school")
	}
	return sch, nil
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	schools := make([]school.School, 0)
	q := "SELECT " + schoolColumns + " FROM schools ORDER BY created_at, id"
	if err := repo.db.SelectContext(ctx, &schools, q); err != nil {
		return nil, wrapErr(err, "selecting schools")
	}
	for i := range schools {
		schools[i].CreatedAt = schools[i].CreatedAt.UTC()
	}
	return schools, nil
}

func (repo *schoolRepository) getBy(ctx context.Context, field, value string) (school.School, error) {
	var sch school.School
	q := repo.db.Rebind("SELECT " + schoolColumns + " FROM schools WHERE " + field + " = ?")
	if err := repo.db.GetContext(ctx, &sch, q, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, wrapErr(err, "selecting school")
	}
	sch.CreatedAt = sch.CreatedAt.UTC()
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	return repo.getBy(ctx, "id", id)
}

func (repo *schoolRepository) GetSchoolBySlug(ctx context.Context, slug string) (school.School, error) {
	return repo.getBy(ctx, "slug", slug)
}

func (repo *schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	q := `UPDATE schools SET name = :name, slug = :slug, logo_url = :logo_url, primary_color = :primary_color,
		secondary_color = :secondary_color, theme_id = :theme_id WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, sch)
	if err != nil {
		return school.School{}, wrapErr(err, "updating school")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.School{}, school.ErrNotFound
	}
	return repo.GetSchoolByID(ctx, sch.ID)
}

func (repo *schoolRepository) DeleteSchool(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind("DELETE FROM schools WHERE id = ?"), id); err != nil {
		return wrapErr(err, "deleting school")
	}
	return nil
}

// wrapErr annotates err with msg. A connection that can no longer be used is fatal to the process.
func wrapErr(err error, msg string) error {
	if errors.Is(err, sql.ErrConnDone) {
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}

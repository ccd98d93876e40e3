package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
)

const pageColumns = "id, school_id, name, slug, components, is_published, created_at, updated_at"

// pageRow is a page as stored: the components are a JSON document.
type pageRow struct {
	ID          string         `db:"id"`
	SchoolID    string         `db:"school_id"`
	Name        string         `db:"name"`
	Slug        string         `db:"slug"`
	Components  types.JSONText `db:"components"`
	IsPublished bool           `db:"is_published"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func newPageRow(p page.Page) (pageRow, error) {
	comps := p.Components
	if comps == nil {
		comps = []editor.Component{}
	}
	data, err := json.Marshal(comps)
	if err != nil {
		return pageRow{}, wrapErr(err, "encoding components")
	}
	return pageRow{
		ID:          p.ID,
		SchoolID:    p.SchoolID,
		Name:        p.Name,
		Slug:        p.Slug,
		Components:  types.JSONText(data),
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}, nil
}

func (row pageRow) page() (page.Page, error) {
	comps := make([]editor.Component, 0)
	if err := row.Components.Unmarshal(&comps); err != nil {
		return page.Page{}, errors.Wrapf(err, "decoding components of page %s", row.ID)
	}
	return page.Page{
		ID:          row.ID,
		SchoolID:    row.SchoolID,
		Name:        row.Name,
		Slug:        row.Slug,
		Components:  comps,
		IsPublished: row.IsPublished,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}

type pageRepository struct {
	db core.DB
}

var _ page.Repository = (*pageRepository)(nil)

func NewPageRepository(db core.DB) page.Repository {
	return &pageRepository{db: db}
}

func (repo *pageRepository) CheckSlugUniqueness(ctx context.Context, schoolID, slug string, excludedIDs ...string) error {
	q, args, err := excluding(
		"SELECT COUNT(*) FROM pages WHERE school_id = ? AND slug = ?", []interface{}{schoolID, slug}, excludedIDs,
	)
	if err != nil {
		return wrapErr(err, "building query")
	}
	var count int
	if err = repo.db.GetContext(ctx, &count, repo.db.Rebind(q), args...); err != nil {
		return wrapErr(err, "checking page slug")
	}
	if count > 0 {
		return page.ErrSlugExists
	}
	return nil
}

func (repo *pageRepository) CreatePage(ctx context.Context, p page.Page) (page.Page, error) {
	if _, err := repo.GetPageByID(ctx, p.ID); err == nil {
		return page.Page{}, page.ErrIDExists
	}
	row, err := newPageRow(p)
	if err != nil {
		return page.Page{}, err
	}

	q := `INSERT INTO pages (` + pageColumns + `)
		VALUES (:id, :school_id, :name, :slug, :components, :is_published, :created_at, :updated_at)`
	if _, err = sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return page.Page{}, wrapErr(err, "inserting page")
	}
	return row.page()
}

func (repo *pageRepository) selectPages(ctx context.Context, where string, args ...interface{}) ([]page.Page, error) {
	rows := make([]pageRow, 0)
	q := "SELECT " + pageColumns + " FROM pages"
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY created_at, id"
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, wrapErr(err, "selecting pages")
	}

	pages := make([]page.Page, 0, len(rows))
	for _, row := range rows {
		p, err := row.page()
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func (repo *pageRepository) FilterPages(ctx context.Context, filter page.QueryFilter) ([]page.Page, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.SchoolID != "" {
		conds = append(conds, "school_id = ?")
		args = append(args, filter.SchoolID)
	}
	if filter.IsPublished != nil {
		conds = append(conds, "is_published = ?")
		args = append(args, *filter.IsPublished)
	}
	return repo.selectPages(ctx, strings.Join(conds, " AND "), args...)
}

func (repo *pageRepository) getOne(ctx context.Context, where string, args ...interface{}) (page.Page, error) {
	var row pageRow
	q := repo.db.Rebind("SELECT " + pageColumns + " FROM pages WHERE " + where)
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return page.Page{}, page.ErrNotFound
		}
		return page.Page{}, wrapErr(err, "selecting page")
	}
	return row.page()
}

func (repo *pageRepository) GetPageByID(ctx context.Context, id string) (page.Page, error) {
	return repo.getOne(ctx, "id = ?", id)
}

func (repo *pageRepository) GetPageBySlug(ctx context.Context, schoolID, slug string) (page.Page, error) {
	return repo.getOne(ctx, "school_id = ? AND slug = ?", schoolID, slug)
}

func (repo *pageRepository) UpdatePage(ctx context.Context, p page.Page) (page.Page, error) {
	row, err := newPageRow(p)
	if err != nil {
		return page.Page{}, err
	}

	q := `UPDATE pages SET name = :name, slug = :slug, components = :components, is_published = :is_published,
		updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, row)
	if err != nil {
		return page.Page{}, wrapErr(err, "updating page")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return page.Page{}, page.ErrNotFound
	}
	return repo.GetPageByID(ctx, p.ID)
}

func (repo *pageRepository) DeletePage(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind("DELETE FROM pages WHERE id = ?"), id)
	if err != nil {
		return wrapErr(err, "deleting page")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return page.ErrNotFound
	}
	return nil
}

func (repo *pageRepository) DeleteSchoolPages(ctx context.Context, schoolID string) error {
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind("DELETE FROM pages WHERE school_id = ?"), schoolID); err != nil {
		return wrapErr(err, "deleting school pages")
	}
	return nil
}

package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
)

type pageRepository struct {
	db *pageTable
}

var _ page.Repository = (*pageRepository)(nil)

func NewPageRepository(db *DB) page.Repository {
	return &pageRepository{db: db.page}
}

// copyPage detaches the stored components from the caller's.
func copyPage(p page.Page) page.Page {
	p.Components = editor.CloneComponents(p.Components)
	return p
}

func (repo *pageRepository) query(keep func(p *page.Page) bool) []page.Page {
	pages := make([]page.Page, 0)
	for _, p := range repo.db.table {
		if keep(p) {
			pages = append(pages, copyPage(*p))
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].CreatedAt.Equal(pages[j].CreatedAt) {
			return pages[i].ID < pages[j].ID
		}
		return pages[i].CreatedAt.Before(pages[j].CreatedAt)
	})
	return pages
}

func (repo *pageRepository) CheckSlugUniqueness(_ context.Context, schoolID, slug string, excludedIDs ...string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.table {
		if p.SchoolID == schoolID && p.Slug == slug && !isExcluded(p.ID, excludedIDs) {
			return page.ErrSlugExists
		}
	}
	return nil
}

func (repo *pageRepository) CreatePage(_ context.Context, p page.Page) (page.Page, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[p.ID]; ok {
		return page.Page{}, page.ErrIDExists
	}
	stored := copyPage(p)
	repo.db.table[p.ID] = &stored
	return copyPage(p), nil
}

func (repo *pageRepository) FilterPages(_ context.Context, filter page.QueryFilter) ([]page.Page, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.query(func(p *page.Page) bool {
		if filter.SchoolID != "" && p.SchoolID != filter.SchoolID {
			return false
		}
		if filter.IsPublished != nil && p.IsPublished != *filter.IsPublished {
			return false
		}
		return true
	}), nil
}

func (repo *pageRepository) GetPageByID(_ context.Context, id string) (page.Page, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return copyPage(*p), nil
	}
	return page.Page{}, page.ErrNotFound
}

func (repo *pageRepository) GetPageBySlug(_ context.Context, schoolID, slug string) (page.Page, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.table {
		if p.SchoolID == schoolID && p.Slug == slug {
			return copyPage(*p), nil
		}
	}
	return page.Page{}, page.ErrNotFound
}

func (repo *pageRepository) UpdatePage(_ context.Context, p page.Page) (page.Page, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[p.ID]
	if !ok {
		return page.Page{}, page.ErrNotFound
	}
	p.SchoolID = orig.SchoolID
	p.CreatedAt = orig.CreatedAt
	stored := copyPage(p)
	repo.db.table[p.ID] = &stored
	return copyPage(p), nil
}

func (repo *pageRepository) DeletePage(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return page.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *pageRepository) DeleteSchoolPages(_ context.Context, schoolID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, p := range repo.db.table {
		if p.SchoolID == schoolID {
			delete(repo.db.table, id)
		}
	}
	return nil
}

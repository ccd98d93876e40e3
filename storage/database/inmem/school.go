package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/school"
)

type schoolRepository struct {
	db *schoolTable
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) query() []school.School {
	schools := make([]school.School, 0, len(repo.db.table))
	for _, sch := range repo.db.table {
		schools = append(schools, *sch)
	}
	sort.Slice(schools, func(i, j int) bool {
		if schools[i].CreatedAt.Equal(schools[j].CreatedAt) {
			return schools[i].ID < schools[j].ID
		}
		return schools[i].CreatedAt.Before(schools[j].CreatedAt)
	})
	return schools
}

func (repo *schoolRepository) CheckSlugUniqueness(_ context.Context, slug string, excludedIDs ...string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sch := range repo.db.table {
		if sch.Slug == slug && !isExcluded(sch.ID, excludedIDs) {
			return school.ErrSlugExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[sch.ID]; ok {
		return school.School{}, school.ErrIDExists
	}
	repo.db.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) QueryAllSchools(context.Context) ([]school.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *schoolRepository) GetSchoolByID(_ context.Context, id string) (school.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sch, ok := repo.db.table[id]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) GetSchoolBySlug(_ context.Context, slug string) (school.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sch := range repo.db.table {
		if sch.Slug == slug {
			return *sch, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) UpdateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[sch.ID]
	if !ok {
		return school.School{}, school.ErrNotFound
	}
	sch.CreatedAt = orig.CreatedAt
	repo.db.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) DeleteSchool(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}

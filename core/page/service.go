package page

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/school"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("page")
	ErrIDExists   = errors.New("a page with this id already exists")
	ErrSlugExists = errors.New("a page with this slug already exists in this school")
)

type (
	Repository interface {
		CheckSlugUniqueness(ctx context.Context, schoolID, slug string, excludedIDs ...string) error
		CreatePage(ctx context.Context, p Page) (Page, error)
		// FilterPages applies AND operation on available QueryFilter fields. Pages are sorted by creation date.
		FilterPages(ctx context.Context, filter QueryFilter) ([]Page, error)
		GetPageByID(ctx context.Context, id string) (Page, error)
		GetPageBySlug(ctx context.Context, schoolID, slug string) (Page, error)
		UpdatePage(ctx context.Context, p Page) (Page, error)
		DeletePage(ctx context.Context, id string) error
		DeleteSchoolPages(ctx context.Context, schoolID string) error
	}

	Schools interface {
		GetByID(ctx context.Context, id string) (school.School, error)
	}

	// Notifier is told about every page write.
	Notifier interface {
		PageChanged(p Page)
	}

	Service struct {
		repo     Repository
		schools  Schools
		validate *validator.Validate
		notifier Notifier
	}
)

var _ editor.PageStore = (*Service)(nil)

func NewService(repo Repository, schools Schools, validate *validator.Validate) *Service {
	return &Service{repo: repo, schools: schools, validate: validate}
}

// SetNotifier registers the listener of page writes.
func (svc *Service) SetNotifier(n Notifier) {
	svc.notifier = n
}

func (svc *Service) notify(p Page) {
	if svc.notifier != nil {
		svc.notifier.PageChanged(p)
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, schoolID, slug string, excludedIDs ...string) error {
	if err := svc.repo.CheckSlugUniqueness(ctx, schoolID, slug, excludedIDs...); err != nil {
		if err == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

// normalizeComponents sorts comps by order and makes the orders dense.
// Missing ids are generated and missing props become empty.
func normalizeComponents(comps []editor.Component) []editor.Component {
	norm := editor.CloneComponents(comps)
	sort.SliceStable(norm, func(i, j int) bool { return norm[i].Order < norm[j].Order })
	for i := range norm {
		norm[i].Order = i
		if norm[i].ID == "" {
			norm[i].ID = editor.IDFunc()
		}
		if norm[i].Props == nil {
			norm[i].Props = make(catalog.Props)
		}
	}
	return norm
}

func (svc *Service) Create(ctx context.Context, np NewPage) (Page, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Page{}, err
	}
	if _, err := svc.schools.GetByID(ctx, np.SchoolID); err != nil {
		if core.IsNotFound(err) {
			return Page{}, core.NewValidationError(err, core.FieldError{Field: "school_id", Error: err.Error()})
		}
		return Page{}, err
	}
	if err := svc.checkUniqueness(ctx, np.SchoolID, np.Slug); err != nil {
		return Page{}, err
	}

	if np.ID == "" {
		np.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p, err := svc.repo.CreatePage(ctx, Page{
		ID:          np.ID,
		SchoolID:    np.SchoolID,
		Name:        np.Name,
		Slug:        np.Slug,
		Components:  normalizeComponents(np.Components),
		IsPublished: np.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if err == ErrIDExists {
			return Page{}, core.NewValidationError(err, core.FieldError{Field: "id", Error: err.Error()})
		}
		return Page{}, err
	}
	svc.notify(p)
	return p, nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Page, error) {
	filter.Clean()
	return svc.repo.FilterPages(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Page, error) {
	return svc.repo.GetPageByID(ctx, id)
}

func (svc *Service) GetBySlug(ctx context.Context, schoolID, slug string) (Page, error) {
	return svc.repo.GetPageBySlug(ctx, schoolID, core.CleanString(slug, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, up UpdatePage) (Page, error) {
	p, err := svc.repo.GetPageByID(ctx, id)
	if err != nil {
		return Page{}, err
	}
	if err = up.Validate(svc.validate); err != nil {
		return Page{}, err
	}

	if up.Name != nil {
		p.Name = *up.Name
	}
	if up.Slug != nil && *up.Slug != p.Slug {
		if err = svc.checkUniqueness(ctx, p.SchoolID, *up.Slug, p.ID); err != nil {
			return Page{}, err
		}
		p.Slug = *up.Slug
	}
	if up.Components != nil {
		p.Components = normalizeComponents(*up.Components)
	}
	if up.IsPublished != nil {
		p.IsPublished = *up.IsPublished
	}
	p.UpdatedAt = time.Now().UTC()

	if p, err = svc.repo.UpdatePage(ctx, p); err != nil {
		return Page{}, err
	}
	svc.notify(p)
	return p, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeletePage(ctx, id)
}

// LoadPage implements editor.PageStore.
func (svc *Service) LoadPage(ctx context.Context, id string) (editor.Page, error) {
	p, err := svc.repo.GetPageByID(ctx, id)
	if err != nil {
		return editor.Page{}, err
	}
	return p.Editor(), nil
}

// SavePage implements editor.PageStore: the whole component list is replaced (last write wins).
func (svc *Service) SavePage(ctx context.Context, id string, req editor.SaveRequest) error {
	up := UpdatePage{Components: &req.Components}
	if req.Publish {
		published := true
		up.IsPublished = &published
	}
	_, err := svc.Update(ctx, id, up)
	return err
}

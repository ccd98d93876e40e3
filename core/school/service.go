package school

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("school")
	ErrIDExists   = errors.New("a school with this id already exists")
	ErrSlugExists = errors.New("a school with this slug already exists")
)

type (
	Repository interface {
		CheckSlugUniqueness(ctx context.Context, slug string, excludedIDs ...string) error
		CreateSchool(ctx context.Context, sch School) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		GetSchoolBySlug(ctx context.Context, slug string) (School, error)
		UpdateSchool(ctx context.Context, sch School) (School, error)
		DeleteSchool(ctx context.Context, id string) error
	}

	// PageRemover deletes the pages of a school.
	PageRemover interface {
		DeleteSchoolPages(ctx context.Context, schoolID string) error
	}

	Service struct {
		repo     Repository
		pages    PageRemover
		validate *validator.Validate
	}
)

func NewService(repo Repository, pages PageRemover, validate *validator.Validate) *Service {
	return &Service{repo: repo, pages: pages, validate: validate}
}

func (svc *Service) checkUniqueness(ctx context.Context, slug string, excludedIDs ...string) error {
	if err := svc.repo.CheckSlugUniqueness(ctx, slug, excludedIDs...); err != nil {
		if err == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSchool) (School, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return School{}, err
	}
	if err := svc.checkUniqueness(ctx, ns.Slug); err != nil {
		return School{}, err
	}

	if ns.ID == "" {
		ns.ID = uuid.NewString()
	}
	sch, err := svc.repo.CreateSchool(ctx, School{
		ID:             ns.ID,
		Name:           ns.Name,
		Slug:           ns.Slug,
		LogoURL:        ns.LogoURL,
		PrimaryColor:   ns.PrimaryColor,
		SecondaryColor: ns.SecondaryColor,
		CreatedAt:      time.Now().UTC(),
	})
	if err == ErrIDExists {
		return School{}, core.NewValidationError(err, core.FieldError{Field: "id", Error: err.Error()})
	}
	return sch, err
}

func (svc *Service) QueryAll(ctx context.Context) ([]School, error) {
	return svc.repo.QueryAllSchools(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *Service) GetBySlug(ctx context.Context, slug string) (School, error) {
	return svc.repo.GetSchoolBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSchool) (School, error) {
	sch, err := svc.repo.GetSchoolByID(ctx, id)
	if err != nil {
		return School{}, err
	}
	if err = us.Validate(sch, svc.validate); err != nil {
		return School{}, err
	}
	if err = svc.checkUniqueness(ctx, us.Slug, id); err != nil {
		return School{}, err
	}

	sch.Name = us.Name
	sch.Slug = us.Slug
	sch.LogoURL = us.LogoURL
	sch.PrimaryColor = us.PrimaryColor
	sch.SecondaryColor = us.SecondaryColor
	return svc.repo.UpdateSchool(ctx, sch)
}

// SetBranding applies a theme's identity and colors to a school.
func (svc *Service) SetBranding(ctx context.Context, id string, b Branding) (School, error) {
	sch, err := svc.repo.GetSchoolByID(ctx, id)
	if err != nil {
		return School{}, err
	}
	sch.ThemeID = b.ThemeID
	if b.PrimaryColor != "" {
		sch.PrimaryColor = b.PrimaryColor
	}
	if b.SecondaryColor != "" {
		sch.SecondaryColor = b.SecondaryColor
	}
	return svc.repo.UpdateSchool(ctx, sch)
}

// Delete removes a school and all of its pages.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetSchoolByID(ctx, id); err != nil {
		return err
	}
	if svc.pages != nil {
		if err := svc.pages.DeleteSchoolPages(ctx, id); err != nil {
			return errors.Wrap(err, "deleting school pages")
		}
	}
	return svc.repo.DeleteSchool(ctx, id)
}

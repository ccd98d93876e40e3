package page

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/editor"
)

type Page struct {
	ID          string             `json:"id"`
	SchoolID    string             `json:"school_id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Components  []editor.Component `json:"components"`
	IsPublished bool               `json:"is_published"`
	CreatedAt   time.Time          `json:"created_at"` // UTC
	UpdatedAt   time.Time          `json:"updated_at"` // UTC
}

// NewPage contains information needed to create a new Page.
type NewPage struct {
	ID          string             `json:"id"`
	SchoolID    string             `json:"school_id" validate:"required"`
	Name        string             `json:"name" validate:"required"`
	Slug        string             `json:"slug" validate:"omitempty,slug"`
	Components  []editor.Component `json:"components"`
	IsPublished bool               `json:"is_published"`
}

func (np *NewPage) Validate(validate *validator.Validate) error {
	np.ID = core.CleanString(np.ID)
	np.SchoolID = core.CleanString(np.SchoolID)
	np.Name = core.CleanString(np.Name)
	np.Slug = core.CleanString(np.Slug, true /* lower */)
	if np.Slug == "" {
		np.Slug = core.Slugify(np.Name)
	}
	return validate.Struct(np)
}

// UpdatePage defines what information may be provided to modify an existing Page.
// Nil fields are left untouched.
type UpdatePage struct {
	Name        *string             `json:"name"`
	Slug        *string             `json:"slug"`
	Components  *[]editor.Component `json:"components"`
	IsPublished *bool               `json:"is_published"`
}

func (up *UpdatePage) Validate(validate *validator.Validate) error {
	var errs []core.FieldError
	if up.Name != nil {
		name := core.CleanString(*up.Name)
		if name == "" {
			errs = append(errs, core.FieldError{Field: "name", Error: "this field is required"})
		}
		up.Name = &name
	}
	if up.Slug != nil {
		slug := core.CleanString(*up.Slug, true /* lower */)
		if err := validate.Var(slug, "required,slug"); err != nil {
			errs = append(errs, core.FieldError{Field: "slug", Error: "only lowercase letters, digits and dashes are allowed"})
		}
		up.Slug = &slug
	}
	if len(errs) > 0 {
		return core.NewValidationError(nil, errs...)
	}
	return nil
}

type QueryFilter struct {
	SchoolID    string `query:"school_id"`
	IsPublished *bool  `query:"is_published"`
}

func (qf *QueryFilter) Clean() {
	qf.SchoolID = core.CleanString(qf.SchoolID)
}

// Editor returns the page as seen by the editor.
func (p Page) Editor() editor.Page {
	return editor.Page{
		ID:         p.ID,
		SchoolID:   p.SchoolID,
		Name:       p.Name,
		Published:  p.IsPublished,
		Components: p.Components,
	}
}

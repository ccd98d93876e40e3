package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Default brand colors of a new school.
const (
	DefaultPrimaryColor   = "#1D4ED8"
	DefaultSecondaryColor = "#FBBF24"
)

type School struct {
	ID             string    `json:"id" db:"id" bson:"_id"`
	Name           string    `json:"name" db:"name" bson:"name"`
	Slug           string    `json:"slug" db:"slug" bson:"slug"`
	LogoURL        string    `json:"logo_url" db:"logo_url" bson:"logo_url"`
	PrimaryColor   string    `json:"primary_color" db:"primary_color" bson:"primary_color"`
	SecondaryColor string    `json:"secondary_color" db:"secondary_color" bson:"secondary_color"`
	ThemeID        string    `json:"theme_id" db:"theme_id" bson:"theme_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" bson:"created_at"` // UTC
}

// NewSchool contains information needed to create a new School.
type NewSchool struct {
	ID             string `json:"id"`
	Name           string `json:"name" validate:"required"`
	Slug           string `json:"slug" validate:"omitempty,slug"`
	LogoURL        string `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor   string `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexcolor"`
}

func (ns *NewSchool) Validate(validate *validator.Validate) error {
	ns.ID = core.CleanString(ns.ID)
	ns.Name = core.CleanString(ns.Name)
	ns.Slug = core.CleanString(ns.Slug, true /* lower */)
	if ns.Slug == "" {
		ns.Slug = core.Slugify(ns.Name)
	}
	ns.LogoURL = core.CleanString(ns.LogoURL)
	if ns.PrimaryColor = core.CleanString(ns.PrimaryColor); ns.PrimaryColor == "" {
		ns.PrimaryColor = DefaultPrimaryColor
	}
	if ns.SecondaryColor = core.CleanString(ns.SecondaryColor); ns.SecondaryColor == "" {
		ns.SecondaryColor = DefaultSecondaryColor
	}
	return validate.Struct(ns)
}

// UpdateSchool defines what information may be provided to modify an existing School.
// Empty fields keep their current value.
type UpdateSchool struct {
	Name           string `json:"name"`
	Slug           string `json:"slug" validate:"omitempty,slug"`
	LogoURL        string `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor   string `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexcolor"`
}

func (us *UpdateSchool) Validate(orig School, validate *validator.Validate) error {
	if us.Name = core.CleanString(us.Name); us.Name == "" {
		us.Name = orig.Name
	}
	if us.Slug = core.CleanString(us.Slug, true /* lower */); us.Slug == "" {
		us.Slug = orig.Slug
	}
	if us.LogoURL = core.CleanString(us.LogoURL); us.LogoURL == "" {
		us.LogoURL = orig.LogoURL
	}
	if us.PrimaryColor = core.CleanString(us.PrimaryColor); us.PrimaryColor == "" {
		us.PrimaryColor = orig.PrimaryColor
	}
	if us.SecondaryColor = core.CleanString(us.SecondaryColor); us.SecondaryColor == "" {
		us.SecondaryColor = orig.SecondaryColor
	}
	return validate.Struct(us)
}

// Branding is what a theme writes on a school.
type Branding struct {
	ThemeID        string
	PrimaryColor   string
	SecondaryColor string
}

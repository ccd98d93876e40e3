// Package theme holds the site themes a school can pick from.
package theme

import (
	"context"
	_ "embed"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

// DefaultID is the theme of schools that never picked one.
const DefaultID = "classic"

var ErrNotFound = core.NewNotFoundError("theme")

//go:embed themes.yaml
var defaultThemes []byte

type (
	Colors struct {
		Primary    string `json:"primary" yaml:"primary" validate:"required,hexcolor"`
		Secondary  string `json:"secondary" yaml:"secondary" validate:"required,hexcolor"`
		Accent     string `json:"accent" yaml:"accent" validate:"required,hexcolor"`
		Background string `json:"background" yaml:"background" validate:"required,hexcolor"`
		Text       string `json:"text" yaml:"text" validate:"required,hexcolor"`
	}

	Theme struct {
		ID          string `json:"id" yaml:"id" validate:"required"`
		Name        string `json:"name" yaml:"name" validate:"required"`
		Description string `json:"description" yaml:"description"`
		FontFamily  string `json:"fontFamily" yaml:"fontFamily" validate:"required"`
		Colors      Colors `json:"colors" yaml:"colors"`
	}

	// Brander writes a theme's branding on a school.
	Brander interface {
		SetBranding(ctx context.Context, id string, b school.Branding) (school.School, error)
	}

	Service struct {
		themes []Theme
		byID   map[string]int
		brand  Brander
	}
)

// Parse decodes and validates a YAML list of themes.
func Parse(data []byte) ([]Theme, error) {
	var themes []Theme
	if err := yaml.Unmarshal(data, &themes); err != nil {
		return nil, errors.Wrap(err, "decoding themes")
	}
	if len(themes) == 0 {
		return nil, errors.New("no themes")
	}
	validate := validator.New()
	for _, th := range themes {
		if err := validate.Struct(th); err != nil {
			return nil, errors.Wrapf(err, "validating theme %q", th.ID)
		}
	}
	return themes, nil
}

// NewService builds a Service over the themes shipped with the application.
func NewService(brand Brander) (*Service, error) {
	themes, err := Parse(defaultThemes)
	if err != nil {
		return nil, err
	}
	return New(themes, brand)
}

// New builds a Service over themes. Theme ids must be unique.
func New(themes []Theme, brand Brander) (*Service, error) {
	svc := &Service{
		themes: append([]Theme(nil), themes...),
		byID:   make(map[string]int, len(themes)),
		brand:  brand,
	}
	for i, th := range svc.themes {
		if _, dup := svc.byID[th.ID]; dup {
			return nil, errors.Errorf("duplicate theme %q", th.ID)
		}
		svc.byID[th.ID] = i
	}
	return svc, nil
}

// QueryAll returns every theme in declaration order.
func (svc *Service) QueryAll() []Theme {
	return append([]Theme(nil), svc.themes...)
}

func (svc *Service) GetByID(id string) (Theme, error) {
	idx, ok := svc.byID[core.CleanString(id, true /* lower */)]
	if !ok {
		return Theme{}, ErrNotFound
	}
	return svc.themes[idx], nil
}

// ForSchool returns the school's theme, with its primary and secondary colors overridden by the school's own.
func (svc *Service) ForSchool(sch school.School) Theme {
	th, err := svc.GetByID(sch.ThemeID)
	if err != nil {
		th, err = svc.GetByID(DefaultID)
		if err != nil {
			th = svc.themes[0]
		}
	}
	if sch.PrimaryColor != "" {
		th.Colors.Primary = sch.PrimaryColor
	}
	if sch.SecondaryColor != "" {
		th.Colors.Secondary = sch.SecondaryColor
	}
	return th
}

// Apply sets the school's theme and copies the theme's brand colors on it.
func (svc *Service) Apply(ctx context.Context, schoolID, themeID string) (school.School, error) {
	th, err := svc.GetByID(themeID)
	if err != nil {
		return school.School{}, core.NewValidationError(err, core.FieldError{Field: "theme_id", Error: err.Error()})
	}
	return svc.brand.SetBranding(ctx, schoolID, school.Branding{
		ThemeID:        th.ID,
		PrimaryColor:   th.Colors.Primary,
		SecondaryColor: th.Colors.Secondary,
	})
}

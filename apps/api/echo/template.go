package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/asset"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/demo"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
)

type templateApi struct {
	catalog *catalog.Catalog
	themes  *theme.Service
	assets  *asset.Service
	schools *school.Service
	pages   *page.Service
}

func registerTemplateAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := templateApi{
		catalog: deps.Catalog,
		themes:  deps.Themes,
		assets:  deps.Assets,
		schools: deps.Schools,
		pages:   deps.Pages,
	}

	g.GET("/templates/components", api.components)
	g.GET("/themes", api.queryThemes)
	g.POST("/seed", api.seed)
	g.POST("/uploads", api.upload, jwt)
	g.POST("/upload", api.upload, jwt)
}

// Handlers

// components returns the widget catalog, optionally narrowed by `search` and `category`.
func (api *templateApi) components(ctx echo.Context) error {
	doc := api.catalog.Document()
	search, category := ctx.QueryParam("search"), ctx.QueryParam("category")
	if search != "" || category != "" {
		doc.Widgets = api.catalog.Filter(search, category)
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *templateApi) queryThemes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.themes.QueryAll())
}

func (api *templateApi) seed(ctx echo.Context) error {
	res, err := demo.Seed(ctx.Request().Context(), api.schools, api.pages)
	if err != nil {
		return errors.Wrap(err, "seeding demo data")
	}
	code := http.StatusOK
	if res.Created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, res)
}

func (api *templateApi) upload(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "this field is required"})
	}
	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	a, err := api.assets.Upload(ctx.Request().Context(), file.Filename, src)
	if err != nil {
		return errors.Wrap(err, "uploading file")
	}
	return ctx.JSON(http.StatusCreated, a)
}

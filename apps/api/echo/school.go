package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
)

type schoolApi struct {
	svc      *school.Service
	pages    *page.Service
	themes   *theme.Service
	editor   *editor.Registry
	validate *validator.Validate
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := schoolApi{
		svc:      deps.Schools,
		pages:    deps.Pages,
		themes:   deps.Themes,
		editor:   deps.Editor,
		validate: deps.Validate,
	}

	sg := g.Group("/schools")
	sg.GET("", api.query)
	sg.POST("", api.create, jwt)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update, jwt)
	sg.DELETE("/:id", api.destroy, jwt)
	sg.PUT("/:id/theme", api.setTheme, jwt)
}

// Handlers

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	sch, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating school")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) query(ctx echo.Context) error {
	schools, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	if schools == nil {
		schools = []school.School{}
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding school by ID")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) update(ctx echo.Context) error {
	var data school.UpdateSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchool")
	}
	sch, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

// destroy deletes the school with its pages, and closes the editor sessions of those pages.
func (api *schoolApi) destroy(ctx echo.Context) error {
	c := ctx.Request().Context()
	id := ctx.Param("id")
	pages, err := api.pages.Filter(c, page.QueryFilter{SchoolID: id})
	if err != nil {
		return errors.Wrap(err, "querying school pages")
	}
	if err = api.svc.Delete(c, id); err != nil {
		return errors.Wrap(err, "deleting school")
	}
	for _, p := range pages {
		api.editor.ClosePage(p.ID)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "School deleted"})
}

func (api *schoolApi) setTheme(ctx echo.Context) error {
	var data ThemeRequest
	if err := bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	sch, err := api.themes.Apply(ctx.Request().Context(), ctx.Param("id"), data.ThemeID)
	if err != nil {
		return errors.Wrap(err, "applying theme")
	}
	return ctx.JSON(http.StatusOK, sch)
}

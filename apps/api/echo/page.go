package echoapi

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/render"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
	"github.com/trezcool/shule/services/preview"
)

type pageApi struct {
	svc      *page.Service
	schools  *school.Service
	themes   *theme.Service
	editor   *editor.Registry
	renderer *render.Renderer
	preview  *preview.Hub
	logger   core.Logger
}

func registerPageAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps, logger core.Logger) {
	api := pageApi{
		svc:      deps.Pages,
		schools:  deps.Schools,
		themes:   deps.Themes,
		editor:   deps.Editor,
		renderer: deps.Renderer,
		preview:  deps.Preview,
		logger:   logger,
	}

	pg := g.Group("/pages")
	pg.GET("", api.query)
	pg.POST("", api.create, jwt)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update, jwt)
	pg.DELETE("/:id", api.destroy, jwt)
	pg.GET("/:id/preview", api.showPreview)
	pg.GET("/:id/live", api.live)

	g.GET("/sites/:school_slug/:page_slug", api.site)
}

// Handlers

func (api *pageApi) create(ctx echo.Context) error {
	var data page.NewPage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPage")
	}
	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating page")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *pageApi) query(ctx echo.Context) error {
	var filter page.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []page.Page{})
	}
	pages, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying pages")
	}
	if pages == nil {
		pages = []page.Page{}
	}
	return ctx.JSON(http.StatusOK, pages)
}

func (api *pageApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding page by ID")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *pageApi) update(ctx echo.Context) error {
	var data page.UpdatePage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePage")
	}
	p, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating page")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *pageApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting page")
	}
	api.editor.ClosePage(id)
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Page deleted"})
}

func (api *pageApi) render(ctx echo.Context, p page.Page, liveURL string) error {
	sch, err := api.schools.GetByID(ctx.Request().Context(), p.SchoolID)
	if err != nil {
		return errors.Wrap(err, "finding page school")
	}

	var buf bytes.Buffer
	err = api.renderer.Page(&buf, render.PageData{
		School:     sch,
		Theme:      api.themes.ForSchool(sch),
		Name:       p.Name,
		Components: p.Components,
		LiveURL:    liveURL,
	})
	if err != nil {
		return errors.Wrap(err, "rendering page")
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}

// showPreview renders the stored page, published or not, and reloads it whenever the page is saved.
func (api *pageApi) showPreview(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding page by ID")
	}
	return api.render(ctx, p, "/api/pages/"+url.PathEscape(p.ID)+"/live")
}

func (api *pageApi) live(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding page by ID")
	}
	if err = api.preview.Serve(ctx.Response(), ctx.Request(), p.ID); err != nil {
		api.logger.Warn("live preview closed", err, map[string]interface{}{"page_id": p.ID})
	}
	return nil
}

// site renders a published page of a school, by slugs.
func (api *pageApi) site(ctx echo.Context) error {
	c := ctx.Request().Context()
	sch, err := api.schools.GetBySlug(c, ctx.Param("school_slug"))
	if err != nil {
		return errors.Wrap(err, "finding school by slug")
	}
	p, err := api.svc.GetBySlug(c, sch.ID, ctx.Param("page_slug"))
	if err != nil {
		return errors.Wrap(err, "finding page by slug")
	}
	if !p.IsPublished {
		return errHttpNotFound
	}
	return api.render(ctx, p, "")
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/editor"
)

type editorApi struct {
	reg      *editor.Registry
	validate *validator.Validate
}

// registerEditorAPI exposes the editor sessions: each request is one discrete input event of the editor.
func registerEditorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := editorApi{reg: deps.Editor, validate: deps.Validate}

	eg := g.Group("/editor/sessions", jwt)
	eg.POST("", api.open)

	sg := eg.Group("/:sid", sessionMiddleware(api.reg))
	sg.GET("", api.state)
	sg.DELETE("", api.close)

	sg.POST("/components", api.add)
	sg.POST("/components/move", api.move)
	sg.POST("/components/clear", api.clear)
	sg.PATCH("/components/:cid", api.update)
	sg.DELETE("/components/:cid", api.remove)
	sg.POST("/components/:cid/duplicate", api.duplicate)

	sg.PUT("/selection", api.sel)
	sg.DELETE("/selection", api.deselect)
	sg.PUT("/device", api.device)

	sg.POST("/drag/start", api.dragStart)
	sg.POST("/drag/over", api.dragOver)
	sg.POST("/drag/drop", api.drop)
	sg.POST("/drag/cancel", api.dragCancel)

	sg.POST("/save", api.save)
	sg.POST("/publish", api.publish)
}

// Handlers

func (api *editorApi) open(ctx echo.Context) error {
	var data OpenSessionRequest
	if err := bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	sess, err := api.reg.Open(ctx.Request().Context(), data.PageID)
	if err != nil {
		return errors.Wrap(err, "opening editor session")
	}
	return ctx.JSON(http.StatusCreated, sess.State())
}

// stateResponse answers a session operation with the resulting session state.
func stateResponse(ctx echo.Context, opErr error) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if opErr != nil {
		return opErr
	}
	return ctx.JSON(http.StatusOK, sess.State())
}

func (api *editorApi) state(ctx echo.Context) error {
	return stateResponse(ctx, nil)
}

func (api *editorApi) close(ctx echo.Context) error {
	if err := api.reg.Close(ctx.Param("sid")); err != nil {
		return errors.Wrap(err, "closing editor session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *editorApi) add(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data AddComponentRequest
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}

	var id string
	if data.At != nil {
		id = sess.Add(data.Type, data.Props, *data.At)
	} else {
		id = sess.Add(data.Type, data.Props)
	}
	return ctx.JSON(http.StatusCreated, OpResponse{ID: id, State: sess.State()})
}

func (api *editorApi) update(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data UpdateComponentRequest
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	return stateResponse(ctx, sess.Update(ctx.Param("cid"), data.Props))
}

func (api *editorApi) remove(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return stateResponse(ctx, sess.Remove(ctx.Param("cid")))
}

func (api *editorApi) duplicate(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := sess.Duplicate(ctx.Param("cid"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, OpResponse{ID: id, State: sess.State()})
}

func (api *editorApi) move(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data MoveRequest
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	return stateResponse(ctx, sess.Move(*data.From, *data.To))
}

func (api *editorApi) clear(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	sess.Clear()
	return stateResponse(ctx, nil)
}

func (api *editorApi) sel(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data SelectRequest
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	return stateResponse(ctx, sess.Select(data.ID))
}

func (api *editorApi) deselect(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	sess.Deselect()
	return stateResponse(ctx, nil)
}

func (api *editorApi) device(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data DeviceRequest
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	return stateResponse(ctx, sess.SetDeviceView(data.Device))
}

func (api *editorApi) dragStart(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data editor.Draggable
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	return stateResponse(ctx, sess.StartDrag(data))
}

func (api *editorApi) dragOver(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data DragOverRequest
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	return stateResponse(ctx, sess.DragOver(data.Target))
}

func (api *editorApi) drop(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data DragOverRequest
	if err = bindAndValidate(ctx, api.validate, &data); err != nil {
		return err
	}
	res, err := sess.Drop(data.Target)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DropResponse{Result: res, State: sess.State()})
}

func (api *editorApi) dragCancel(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	sess.CancelDrag()
	return stateResponse(ctx, nil)
}

func (api *editorApi) save(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	saved, err := sess.Save(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "saving page")
	}
	return ctx.JSON(http.StatusOK, SaveResponse{Saved: saved, State: sess.State()})
}

func (api *editorApi) publish(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	saved, err := sess.Publish(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "publishing page")
	}
	return ctx.JSON(http.StatusOK, SaveResponse{Saved: saved, State: sess.State()})
}

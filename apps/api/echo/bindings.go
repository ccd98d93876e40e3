package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
)

type (
	OpenSessionRequest struct {
		PageID string `json:"page_id" validate:"required"`
	}

	AddComponentRequest struct {
		Type  string        `json:"type" validate:"required"`
		Props catalog.Props `json:"props"`
		At    *int          `json:"at"`
	}

	UpdateComponentRequest struct {
		Props catalog.Props `json:"props" validate:"required"`
	}

	MoveRequest struct {
		From *int `json:"from" validate:"required"`
		To   *int `json:"to" validate:"required"`
	}

	SelectRequest struct {
		ID string `json:"id" validate:"required"`
	}

	DeviceRequest struct {
		Device editor.DeviceView `json:"device" validate:"required"`
	}

	DragOverRequest struct {
		Target editor.Target `json:"target"`
	}

	ThemeRequest struct {
		ThemeID string `json:"theme_id" validate:"required"`
	}

	// OpResponse is returned by the editor operations that create a component.
	OpResponse struct {
		ID    string       `json:"id"`
		State editor.State `json:"state"`
	}

	DropResponse struct {
		Result editor.DropResult `json:"result"`
		State  editor.State      `json:"state"`
	}

	SaveResponse struct {
		Saved bool         `json:"saved"`
		State editor.State `json:"state"`
	}
)

// bindAndValidate binds the request body to `data` and validates it.
func bindAndValidate(ctx echo.Context, validate *validator.Validate, data interface{}) error {
	if err := ctx.Bind(data); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}
	if err := validate.Struct(data); err != nil {
		return err
	}
	return nil
}

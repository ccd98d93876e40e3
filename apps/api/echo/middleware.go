package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/editor"
)

const contextSessionKey = "session"

// sessionMiddleware loads the editor session named by the `sid` path param into the context.
func sessionMiddleware(reg *editor.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := reg.Get(ctx.Param("sid"))
			if err != nil {
				return err
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

var errSessionNotInCtx = errors.New("editor session not found in echo.Context")

func getContextSession(ctx echo.Context) (*editor.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(*editor.Session); ok {
		return sess, nil
	}
	return nil, errSessionNotInCtx
}

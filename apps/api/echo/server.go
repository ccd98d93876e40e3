package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/asset"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/render"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
	"github.com/trezcool/shule/services/preview"
)

// Version is reported by the API root.
const Version = "1.0.0"

type (
	Deps struct {
		Validate   *validator.Validate
		Translator ut.Translator
		Catalog    *catalog.Catalog
		Schools    *school.Service
		Pages      *page.Service
		Themes     *theme.Service
		Assets     *asset.Service
		Files      http.Handler // serves the uploaded files under conf.Uploads.BaseURL
		Editor     *editor.Registry
		Renderer   *render.Renderer
		Preview    *preview.Hub
	}

	Server struct {
		conf     *core.Config
		logger   core.Logger
		deps     *Deps
		app      *echo.Echo
		shutdown chan os.Signal
		errors   chan error
	}
)

func NewServer(conf *core.Config, logger core.Logger, deps *Deps) *Server {
	s := &Server{
		conf:     conf,
		logger:   logger,
		deps:     deps,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.conf.Debug && !s.conf.TestMode
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: s.conf.Server.CORSOrigins}))

	if s.deps.Files != nil && s.conf.Uploads.BaseURL != "" {
		s.app.GET(s.conf.Uploads.BaseURL+"/*", echo.WrapHandler(s.deps.Files))
	}

	api := s.app.Group("/api")
	jwt := jwtMiddleware(s.conf.SecretKey)

	api.GET("", s.home)
	registerAuthAPI(api, jwt, s.conf, s.deps.Validate)
	registerSchoolAPI(api, jwt, s.deps)
	registerPageAPI(api, jwt, s.deps, s.logger)
	registerTemplateAPI(api, jwt, s.deps)
	registerEditorAPI(api, jwt, s.deps)
}

// Start serves HTTP until Shutdown; failures are sent on Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Shutdown stops accepting requests, waits for the outstanding ones and disconnects the live previews.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.deps.Preview != nil {
		s.deps.Preview.Close()
	}
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": s.conf.AppName + " API", "version": Version})
}

package dig_container

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/asset"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/render"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/services/preview"
	"github.com/trezcool/shule/storage/files"
	"github.com/trezcool/shule/storage/repos"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// DBCloser releases the database connection.
	DBCloser func() error

	Storage struct {
		dig.Out
		Schools school.Repository
		Pages   page.Repository
		Close   DBCloser
	}

	ServerDeps struct {
		dig.In
		Validate   *validator.Validate
		Translator ut.Translator
		Catalog    *catalog.Catalog
		Schools    *school.Service
		Pages      *page.Service
		Themes     *theme.Service
		Assets     *asset.Service
		Files      *files.Store
		Editor     *editor.Registry
		Renderer   *render.Renderer
		Preview    *preview.Hub
	}
)

func newLogger(conf *core.Config) *logsvc.RollbarLogger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	if conf.Debug {
		logger.Enable(false)
	}
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// newStorage connects the repositories of the configured database engine.
func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r, err := repos.Open(ctx, conf, true /* migrate */)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	loggerParam.Logger.Info("database ready", map[string]interface{}{"engine": conf.Database.Engine})
	return Storage{Schools: r.Schools, Pages: r.Pages, Close: r.Close}
}

func newSchoolService(repo school.Repository, pages page.Repository, validate *validator.Validate) *school.Service {
	return school.NewService(repo, pages, validate)
}

func newPageService(
	repo page.Repository,
	schools *school.Service,
	validate *validator.Validate,
	hub *preview.Hub,
) *page.Service {
	svc := page.NewService(repo, schools, validate)
	svc.SetNotifier(hub)
	return svc
}

func newThemeService(schools *school.Service) (*theme.Service, error) {
	return theme.NewService(schools)
}

func newFileStore(conf *core.Config) (*files.Store, error) {
	return files.NewDiskStore(conf.Uploads.Dir, conf.Uploads.BaseURL)
}

func newAssetService(conf *core.Config, store *files.Store) *asset.Service {
	return asset.NewService(store, conf.Uploads.MaxSize)
}

// originPatterns turns the allowed CORS origins into the host patterns accepted by the live previews.
func originPatterns(conf *core.Config) []string {
	origins := append([]string{conf.FrontendBaseURL}, conf.Server.CORSOrigins...)
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			patterns = append(patterns, origin)
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return patterns
}

func newPreviewHub(conf *core.Config, logger core.Logger) *preview.Hub {
	return preview.NewHub(logger, originPatterns(conf)...)
}

func newRenderer(cat *catalog.Catalog, logger core.Logger) (*render.Renderer, error) {
	return render.New(cat, logger)
}

func newEditorRegistry(pages *page.Service, cat *catalog.Catalog, logger core.Logger) *editor.Registry {
	return editor.NewRegistry(pages, cat, logger)
}

func newServerDeps(in ServerDeps) *echoapi.Deps {
	return &echoapi.Deps{
		Validate:   in.Validate,
		Translator: in.Translator,
		Catalog:    in.Catalog,
		Schools:    in.Schools,
		Pages:      in.Pages,
		Themes:     in.Themes,
		Assets:     in.Assets,
		Files:      in.Files.Handler(),
		Editor:     in.Editor,
		Renderer:   in.Renderer,
		Preview:    in.Preview,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(func(l *logsvc.RollbarLogger) core.Logger { return l }))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(core.NewValidator))
	must(c.Provide(catalog.Load))
	must(c.Provide(newSchoolService))
	must(c.Provide(newPageService))
	must(c.Provide(newThemeService))
	must(c.Provide(newFileStore))
	must(c.Provide(newAssetService))
	must(c.Provide(newPreviewHub))
	must(c.Provide(newRenderer))
	must(c.Provide(newEditorRegistry))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

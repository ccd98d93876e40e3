// Command api serves the shule REST API, the editor session API and the live preview.
package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	dig_container "github.com/trezcool/shule/apps/api/di/dig"
	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	logsvc "github.com/trezcool/shule/services/logger"
)

// apiServer is the part of *echoapi.Server that main drives.
type apiServer interface {
	Start()
	Errors() <-chan error
	ShutdownSignal() <-chan os.Signal
	Shutdown(ctx context.Context) error
	Close() error
}

var _ apiServer = (*echoapi.Server)(nil)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger *logsvc.RollbarLogger,
		dbLoggerParam dig_container.DBLoggerParam,
		closeDB dig_container.DBCloser,
		server *echoapi.Server,
	) {
		apiLogger.Info(fmt.Sprintf("shule api %q starting (env %s, db %s)", conf.Build, conf.Env, conf.Database.Engine))
		defer apiLogger.Close()
		defer func() {
			if err := closeDB(); err != nil {
				dbLogger := dbLoggerParam.Logger
				dbLogger.Error("closing storage", err)
			}
		}()
		defer apiLogger.Info("shule api stopped")

		serveDebug(conf, apiLogger)
		run(server, apiLogger, conf.Server.ShutdownTimeout)
	}))
}

// serveDebug publishes build info under /debug/vars and serves it with pprof on the debug host.
func serveDebug(conf *core.Config, logger core.Logger) {
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("db").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server: %v", err), err)
		}
	}()
}

// run starts the server and blocks until it fails or is asked to stop.
// In-flight requests, editor saves included, get `timeout` to finish before the listener is forced closed.
func run(server apiServer, logger core.Logger, timeout time.Duration) {
	go server.Start()

	select {
	case err := <-server.Errors():
		logger.Error(fmt.Sprintf("api server: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v received, draining requests", sig))

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("graceful shutdown: %v", err), err)
			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("forced close: %v", err), err)
			}
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tuannha-ct/merch-bot/internal/config"
	pkgmdw "github.com/tuannha-ct/merch-bot/internal/server/middleware"
	"github.com/tuannha-ct/merch-bot/pkg/ctxval"
	"go.uber.org/fx"
)

// logKey namespaces the context fields handlers attach for the request log.
type logKey string

const (
	logKeyChannelID logKey = "channel_id"
	logKeySenderID  logKey = "sender_id"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
) {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = errorHandler()

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		KeyAndValues: func(c echo.Context) []interface{} {
			ctx := c.Request().Context()
			args := make([]interface{}, 0, 4)
			if v, ok := ctxval.Get[logKey, string](ctx, logKeyChannelID); ok {
				args = append(args, "channel_id", v)
			}
			if v, ok := ctxval.Get[logKey, string](ctx, logKeySenderID); ok {
				args = append(args, "sender_id", v)
			}
			return args
		},
	}

	pkgmdw.AutoVersioning(e)
	if conf.Server.CORSPattern != "" {
		e.Use(pkgmdw.CORS(regexp.MustCompile(conf.Server.CORSPattern)))
	}
	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.ContextStorage())
	e.Use(pkgmdw.LogRequest(logConfig))
	if conf.Server.StatsdAddr != "" {
		e.Use(pkgmdw.ProfilerWithConfig(pkgmdw.ProfilerConfig{
			Address: conf.Server.StatsdAddr,
			Service: conf.Chat.BotName,
		}))
	}
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	pkgmdw.PprofWrap(e)
	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	api.POST("/messages", handler.ProcessMessage)
	api.GET("/designs", handler.ListDesigns)
	api.GET("/designs/stats", handler.DesignStats)
	api.GET("/users/:user_id/designs", handler.UserDesigns)
	api.GET("/vendors", handler.Vendors)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr())
				if err := e.Start(conf.Server.Addr()); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

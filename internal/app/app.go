package app

import (
	"context"
	"fmt"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/tuannha-ct/merch-bot/internal/config"
	"github.com/tuannha-ct/merch-bot/internal/design"
	"github.com/tuannha-ct/merch-bot/internal/repo/chatgateway"
	"github.com/tuannha-ct/merch-bot/internal/repo/llm"
	"github.com/tuannha-ct/merch-bot/internal/repo/printful"
	"github.com/tuannha-ct/merch-bot/internal/repo/printify"
	"github.com/tuannha-ct/merch-bot/internal/repo/prodigi"
	"github.com/tuannha-ct/merch-bot/internal/repo/teemill"
	"github.com/tuannha-ct/merch-bot/internal/repo/vendors"
	"github.com/tuannha-ct/merch-bot/internal/server"
	"github.com/tuannha-ct/merch-bot/internal/usecase"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newVendorRegistry,
			newIntentParser,
			newDesignGenerator,
			newChatGateway,

			usecase.NewDesignUsecase,
			usecase.NewMessageUsecase,
			usecase.NewWhitelistService,

			server.NewHandler,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeVendors),
		fx.Invoke(funcs...),
	)
}

func newIntentParser(conf *config.Config) llm.Parser {
	return llm.NewParser(llm.Config{
		APIKey:      conf.LLM.GoogleAPIKey,
		Model:       conf.LLM.Model,
		Temperature: conf.LLM.Temperature,
		Keywords:    conf.Chat.TriggerKeywords,
	})
}

func newDesignGenerator(conf *config.Config) design.Generator {
	return design.NewGenerator(design.Config{
		Width:     conf.Design.Width,
		Height:    conf.Design.Height,
		OutputDir: conf.Design.OutputDir,
		FontPaths: conf.Design.FontPaths,
	})
}

func newChatGateway(conf *config.Config) chatgateway.Client {
	return chatgateway.NewClient(chatgateway.Config{
		BaseURL:   conf.Chat.GatewayURL,
		Token:     conf.Chat.GatewayToken,
		BotUserID: conf.Chat.BotUserID,
	})
}

// newVendorRegistry builds clients for every vendor with credentials in the
// environment. Requests against an unconfigured active vendor degrade at
// request time instead of blocking startup.
func newVendorRegistry(conf *config.Config) (*vendors.Registry, error) {
	registry := vendors.NewRegistry(vendors.Type(conf.Vendors.Active))

	if conf.Vendors.Printful.APIKey != "" {
		client, err := printful.NewClient(printful.Config{
			APIKey:  conf.Vendors.Printful.APIKey,
			BaseURL: conf.Vendors.Printful.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("printful client: %w", err)
		}
		if err := registry.Register(client); err != nil {
			return nil, err
		}
	}

	if conf.Vendors.Printify.APIKey != "" {
		client, err := printify.NewClient(printify.Config{
			APIKey:      conf.Vendors.Printify.APIKey,
			ShopID:      conf.Vendors.Printify.ShopID,
			BaseURL:     conf.Vendors.Printify.BaseURL,
			BlueprintID: conf.Vendors.Printify.BlueprintID,
		})
		if err != nil {
			return nil, fmt.Errorf("printify client: %w", err)
		}
		if err := registry.Register(client); err != nil {
			return nil, err
		}
	}

	if conf.Vendors.Prodigi.APIKey != "" {
		client, err := prodigi.NewClient(prodigi.Config{
			APIKey:  conf.Vendors.Prodigi.APIKey,
			BaseURL: conf.Vendors.Prodigi.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("prodigi client: %w", err)
		}
		if err := registry.Register(client); err != nil {
			return nil, err
		}
	}

	if conf.Vendors.Teemill.APIKey != "" {
		client, err := teemill.NewClient(teemill.Config{
			APIKey:  conf.Vendors.Teemill.APIKey,
			BaseURL: conf.Vendors.Teemill.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("teemill client: %w", err)
		}
		if err := registry.Register(client); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// InitializeVendors opens vendor sessions on startup and releases them on
// shutdown. A failing active vendor aborts startup.
func InitializeVendors(lc fx.Lifecycle, registry *vendors.Registry) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return registry.InitializeAll(ctx)
		},
		OnStop: func(ctx context.Context) error {
			registry.CleanupAll(ctx)
			return nil
		},
	})
}

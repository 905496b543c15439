package kafka

import (
	"context"
	"errors"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/tuannha-ct/merch-bot/internal/config"
	"github.com/tuannha-ct/merch-bot/internal/usecase"
	"go.uber.org/fx"
)

// StartConsumeMessages wires the Kafka consumer into the fx lifecycle. The
// consumer runs in its own goroutine and brings the whole app down when its
// read loop fails.
func StartConsumeMessages(
	sd fx.Shutdowner,
	lc fx.Lifecycle,
	conf *config.Config,
	messageUsecase usecase.MessageUsecase,
) error {
	consumer, err := NewConsumer(conf, NewMessageHandler(messageUsecase))
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := consumer.Start(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
					log.Errorw(context.Background(), "Kafka consumer stopped", "error", err)
					if err := sd.Shutdown(); err != nil {
						log.Errorw(context.Background(), "Failed to shutdown app", "error", err)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return consumer.Stop(ctx)
		},
	})
	return nil
}

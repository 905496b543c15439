package kafka

import (
	"context"

	"github.com/tuannha-ct/merch-bot/internal/models"
	"github.com/tuannha-ct/merch-bot/internal/usecase"
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, message models.IncomingMessage) error
}

// messageHandler adapts the message usecase to the Kafka consumer.
type messageHandler struct {
	messageUsecase usecase.MessageUsecase
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase) MessageHandler {
	return &messageHandler{
		messageUsecase: messageUsecase,
	}
}

// HandleMessage processes an incoming message from Kafka. The design result
// is discarded here; replies go out through the chat gateway, there is no
// caller to return it to.
func (h *messageHandler) HandleMessage(ctx context.Context, message models.IncomingMessage) error {
	_, err := h.messageUsecase.ProcessMessage(ctx, message)
	return err
}

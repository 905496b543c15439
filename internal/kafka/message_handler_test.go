package kafka

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuannha-ct/merch-bot/internal/models"
)

type stubMessageUsecase struct {
	received []models.IncomingMessage
	result   *models.DesignResult
	err      error
}

func (s *stubMessageUsecase) ProcessMessage(ctx context.Context, message models.IncomingMessage) (*models.DesignResult, error) {
	s.received = append(s.received, message)
	return s.result, s.err
}

func TestHandleMessageDelegates(t *testing.T) {
	usecase := &stubMessageUsecase{result: &models.DesignResult{Success: true}}
	handler := NewMessageHandler(usecase)

	message := models.IncomingMessage{
		ChannelID: "channel-1",
		SenderID:  "discord_123",
		Message:   "shirt that says hi",
	}

	require.NoError(t, handler.HandleMessage(context.Background(), message))
	require.Len(t, usecase.received, 1)
	assert.Equal(t, message, usecase.received[0])
}

func TestHandleMessagePropagatesError(t *testing.T) {
	usecase := &stubMessageUsecase{err: fmt.Errorf("gateway down")}
	handler := NewMessageHandler(usecase)

	err := handler.HandleMessage(context.Background(), models.IncomingMessage{Message: "shirt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway down")
}

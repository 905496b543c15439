package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuannha-ct/merch-bot/internal/config"
	"github.com/tuannha-ct/merch-bot/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingHandler struct {
	messages []models.IncomingMessage
	err      error
	panicMsg string
}

func (h *recordingHandler) HandleMessage(ctx context.Context, message models.IncomingMessage) error {
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	h.messages = append(h.messages, message)
	return h.err
}

func newTestConsumer(handler MessageHandler) *kafkaConsumer {
	return &kafkaConsumer{
		consumeTimeout: time.Second,
		messageHandler: handler,
		botUserID:      "merch-bot",
	}
}

func envelope(t *testing.T, pattern string, data models.KafkaMessageData) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(models.KafkaMessage{Pattern: pattern, Data: data})
	require.NoError(t, err)
	return kafka.Message{Value: raw}
}

func TestHandleDeliversMessageSent(t *testing.T) {
	handler := &recordingHandler{}
	consumer := newTestConsumer(handler)

	msg := envelope(t, "message.sent", models.KafkaMessageData{
		ChannelID:  "channel-1",
		SenderID:   "discord_123",
		SenderName: "Sam",
		CreatedAt:  1723600000,
		Message:    "make me a shirt that says GO FAST",
	})

	_, err := consumer.handle(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, handler.messages, 1)

	got := handler.messages[0]
	assert.Equal(t, "channel-1", got.ChannelID)
	assert.Equal(t, "discord_123", got.SenderID)
	assert.Equal(t, "Sam", got.SenderName)
	assert.Equal(t, int64(1723600000), got.CreatedAt)
	assert.Equal(t, "make me a shirt that says GO FAST", got.Message)
}

func TestHandleIgnoresOtherPatterns(t *testing.T) {
	handler := &recordingHandler{}
	consumer := newTestConsumer(handler)

	msg := envelope(t, "message.read", models.KafkaMessageData{
		ChannelID: "channel-1",
		SenderID:  "discord_123",
		Message:   "hi",
	})

	_, err := consumer.handle(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, handler.messages)
}

func TestHandleSkipsOwnMessages(t *testing.T) {
	handler := &recordingHandler{}
	consumer := newTestConsumer(handler)

	msg := envelope(t, "message.sent", models.KafkaMessageData{
		ChannelID: "channel-1",
		SenderID:  "merch-bot",
		Message:   "Got you fam! 🔥",
	})

	_, err := consumer.handle(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, handler.messages)
}

func TestHandleRejectsInvalidJSON(t *testing.T) {
	handler := &recordingHandler{}
	consumer := newTestConsumer(handler)

	_, err := consumer.handle(context.Background(), kafka.Message{Value: []byte("not json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
	assert.Empty(t, handler.messages)
}

func TestHandleRecoversFromPanic(t *testing.T) {
	handler := &recordingHandler{panicMsg: "boom"}
	consumer := newTestConsumer(handler)

	msg := envelope(t, "message.sent", models.KafkaMessageData{
		ChannelID: "channel-1",
		SenderID:  "discord_123",
		Message:   "shirt",
	})

	_, err := consumer.handle(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PANIC RECOVER")
	assert.Contains(t, err.Error(), "boom")
}

func TestNewConsumerDisabled(t *testing.T) {
	conf := &config.Config{}
	conf.Kafka.Enabled = false

	consumer, err := NewConsumer(conf, &recordingHandler{})
	require.NoError(t, err)

	require.NoError(t, consumer.Start(context.Background()))
	require.NoError(t, consumer.Stop(context.Background()))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, codes.OK, getCode(nil))
	assert.Equal(t, codes.DeadlineExceeded, getCode(context.DeadlineExceeded))
	assert.Equal(t, codes.Canceled, getCode(context.Canceled))
	assert.Equal(t, codes.NotFound, getCode(status.Error(codes.NotFound, "missing")))
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, logger.InfoLevel, getLogLevel(codes.OK))
	assert.Equal(t, logger.WarnLevel, getLogLevel(codes.NotFound))
	assert.Equal(t, logger.ErrorLevel, getLogLevel(codes.Internal))
}

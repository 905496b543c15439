package models

// KafkaMessage is the envelope published by the chat gateway on its event
// stream. Only "message.sent" patterns are handled by this service.
type KafkaMessage struct {
	Pattern string           `json:"pattern"`
	Data    KafkaMessageData `json:"data"`
}

// KafkaMessageData is the raw gateway message payload.
type KafkaMessageData struct {
	ChannelID   string                 `json:"channel_id" validate:"required"`
	SenderID    string                 `json:"sender_id" validate:"required"`
	SenderName  string                 `json:"sender_name"`
	CreatedAt   int64                  `json:"created_at" validate:"required"`
	Type        string                 `json:"type"`
	Message     string                 `json:"message" validate:"required"`
	Metadata    map[string]interface{} `json:"metadata"`
	Attachment  interface{}            `json:"attachment"`
	ReceiverIDs []string               `json:"receiver_ids"`
	ClientGenID string                 `json:"client_gen_id"`
}

// IncomingMessage is the simplified message structure for internal
// processing, produced by both the webhook and the Kafka consumer.
type IncomingMessage struct {
	ChannelID  string `json:"channel_id" validate:"required"`
	CreatedAt  int64  `json:"created_at"`
	SenderID   string `json:"sender_id" validate:"required"`
	SenderName string `json:"sender_name"`
	Message    string `json:"message" validate:"required"`
}


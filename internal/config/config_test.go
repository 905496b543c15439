package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "merch-bot", cfg.Chat.BotUserID)
	assert.Equal(t, []string{"tshirt", "t-shirt", "shirt", "merch"}, cfg.Chat.TriggerKeywords)
	assert.Empty(t, cfg.Chat.AllowedChannels)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "googleai/gemini-2.5-flash", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 4500, cfg.Design.Width)
	assert.Equal(t, "printify", cfg.Vendors.Active)
	assert.Equal(t, "https://api.printful.com", cfg.Vendors.Printful.BaseURL)
	assert.Equal(t, "https://api.prodigi.com/v4.0", cfg.Vendors.Prodigi.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("CHAT_TRIGGER_KEYWORDS", "hoodie,cap")
	t.Setenv("CHAT_ALLOWED_CHANNELS", "ch-1,ch-2")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_WORKERS", "4")
	t.Setenv("VENDOR_ACTIVE", "prodigi")
	t.Setenv("VENDOR_PRINTIFY_API_KEY", "pk-test")
	t.Setenv("VENDOR_PRINTIFY_SHOP_ID", "shop-7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.Server.Addr())
	assert.Equal(t, []string{"hoodie", "cap"}, cfg.Chat.TriggerKeywords)
	assert.Equal(t, []string{"ch-1", "ch-2"}, cfg.Chat.AllowedChannels)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 4, cfg.Kafka.Workers)
	assert.Equal(t, "prodigi", cfg.Vendors.Active)
	assert.Equal(t, "pk-test", cfg.Vendors.Printify.APIKey)
	assert.Equal(t, "shop-7", cfg.Vendors.Printify.ShopID)
}

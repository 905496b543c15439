package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Chat    ChatConfig    `envPrefix:"CHAT_"`
	Kafka   KafkaConfig   `envPrefix:"KAFKA_"`
	LLM     LLMConfig     `envPrefix:"LLM_"`
	Design  DesignConfig  `envPrefix:"DESIGN_"`
	Vendors VendorsConfig `envPrefix:"VENDOR_"`
}

type ServerConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	CORSPattern string `env:"CORS_PATTERN"`
	StatsdAddr  string `env:"STATSD_ADDR"`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

type ChatConfig struct {
	GatewayURL      string   `env:"GATEWAY_URL" envDefault:"http://localhost:4000"`
	GatewayToken    string   `env:"GATEWAY_TOKEN"`
	BotName         string   `env:"BOT_NAME" envDefault:"merch-bot"`
	BotUserID       string   `env:"BOT_USER_ID" envDefault:"merch-bot"`
	TriggerKeywords []string `env:"TRIGGER_KEYWORDS" envDefault:"tshirt,t-shirt,shirt,merch"`
	AllowedChannels []string `env:"ALLOWED_CHANNELS"`
}

type KafkaConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"false"`
	Brokers  []string      `env:"BROKERS" envDefault:"localhost:9092"`
	Topic    string        `env:"TOPIC" envDefault:"chat-events"`
	GroupID  string        `env:"GROUP_ID" envDefault:"merch-bot"`
	Workers  int           `env:"WORKERS" envDefault:"1"`
	MinBytes int           `env:"MIN_BYTES" envDefault:"10000"`
	MaxBytes int           `env:"MAX_BYTES" envDefault:"10000000"`
	MaxWait  time.Duration `env:"MAX_WAIT" envDefault:"1s"`
}

type LLMConfig struct {
	GoogleAPIKey string  `env:"GOOGLE_API_KEY"`
	Model        string  `env:"MODEL" envDefault:"googleai/gemini-2.5-flash"`
	Temperature  float64 `env:"TEMPERATURE" envDefault:"0.7"`
}

type DesignConfig struct {
	OutputDir string   `env:"OUTPUT_DIR" envDefault:"generated_images"`
	Width     int      `env:"WIDTH" envDefault:"4500"`
	Height    int      `env:"HEIGHT" envDefault:"5400"`
	FontPaths []string `env:"FONT_PATHS"`
}

type VendorsConfig struct {
	Active   string         `env:"ACTIVE" envDefault:"printify"`
	Printful PrintfulConfig `envPrefix:"PRINTFUL_"`
	Printify PrintifyConfig `envPrefix:"PRINTIFY_"`
	Prodigi  ProdigiConfig  `envPrefix:"PRODIGI_"`
	Teemill  TeemillConfig  `envPrefix:"TEEMILL_"`
}

type PrintfulConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.printful.com"`
}

type PrintifyConfig struct {
	APIKey      string `env:"API_KEY"`
	ShopID      string `env:"SHOP_ID"`
	BaseURL     string `env:"BASE_URL" envDefault:"https://api.printify.com/v1"`
	BlueprintID int    `env:"BLUEPRINT_ID"`
}

type ProdigiConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.prodigi.com/v4.0"`
}

type TeemillConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.teemill.com/v1"`
}

func Load() (*Config, error) {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/tuannha-ct/merch-bot/internal/models"
)

const (
	defaultModel    = "googleai/gemini-2.5-flash"
	generateTimeout = 30 * time.Second
)

// Parser turns a raw chat message into a structured design request.
type Parser interface {
	ParseRequest(ctx context.Context, message string) (*models.DesignRequest, error)
}

type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	Keywords    []string
}

// designIntent is the structured output requested from the model.
type designIntent struct {
	Phrase           string `json:"phrase"`
	Style            string `json:"style,omitempty"`
	WantsImage       bool   `json:"wants_image,omitempty"`
	ImageDescription string `json:"image_description,omitempty"`
	ColorPreference  string `json:"color_preference,omitempty"`
}

type parser struct {
	g        *genkit.Genkit
	model    string
	temp     float64
	system   string
	fallback *heuristicParser
}

// NewParser builds a Parser backed by Google AI via genkit. When no API
// key is configured the parser runs on heuristics alone, so the bot
// stays usable without model access.
func NewParser(cfg Config) Parser {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	p := &parser{
		model:    model,
		temp:     cfg.Temperature,
		system:   mustSystemPrompt(keywords),
		fallback: newHeuristicParser(keywords),
	}
	if cfg.APIKey != "" {
		p.g = genkit.Init(context.Background(), genkit.WithPlugins(&googlegenai.GoogleAI{
			APIKey: cfg.APIKey,
		}))
	}
	return p
}

func (p *parser) ParseRequest(ctx context.Context, message string) (*models.DesignRequest, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, fmt.Errorf("empty message")
	}

	if p.g != nil {
		req, err := p.generate(ctx, trimmed)
		if err == nil {
			return req, nil
		}
		log.Warnw(ctx, "Intent generation failed, falling back to heuristics", "error", err)
	}

	return p.fallback.Parse(trimmed), nil
}

func (p *parser) generate(ctx context.Context, message string) (*models.DesignRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	intent, _, err := genkit.GenerateData[designIntent](ctx, p.g,
		ai.WithMessages(
			ai.NewSystemTextMessage(p.system),
			ai.NewUserTextMessage(message),
		),
		ai.WithModelName(p.model),
		ai.WithConfig(map[string]any{"temperature": p.temp}),
	)
	if err != nil {
		return nil, fmt.Errorf("generate intent: %w", err)
	}
	if strings.TrimSpace(intent.Phrase) == "" {
		return nil, fmt.Errorf("model returned empty phrase")
	}

	req := &models.DesignRequest{
		Phrase:     strings.TrimSpace(intent.Phrase),
		Style:      strings.ToLower(strings.TrimSpace(intent.Style)),
		WantsImage: intent.WantsImage,
	}
	if req.Style == "" {
		req.Style = defaultStyle
	}
	if desc := strings.TrimSpace(intent.ImageDescription); desc != "" {
		req.ImageDescription = &desc
	}
	if color := strings.ToLower(strings.TrimSpace(intent.ColorPreference)); color != "" {
		req.ColorPreference = &color
	}
	return req, nil
}

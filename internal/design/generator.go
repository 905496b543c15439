package design

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/google/uuid"
	"github.com/tuannha-ct/merch-bot/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	defaultWidth  = 4500
	defaultHeight = 5400
	outlineOffset = 3
)

// Artifact is a rendered print file. PNG and DataURI are always set;
// Path is empty when persisting to disk failed.
type Artifact struct {
	Path    string
	PNG     []byte
	DataURI string
}

// Generator renders a design request into a print-ready PNG.
type Generator interface {
	Render(ctx context.Context, req *models.DesignRequest) (*Artifact, error)
}

type Config struct {
	Width     int
	Height    int
	OutputDir string
	FontPaths []string
}

type generator struct {
	cfg Config
}

func NewGenerator(cfg Config) Generator {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	return &generator{cfg: cfg}
}

var palette = map[string]color.RGBA{
	"black":  {R: 0, G: 0, B: 0, A: 255},
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"red":    {R: 220, G: 38, B: 38, A: 255},
	"blue":   {R: 37, G: 99, B: 235, A: 255},
	"green":  {R: 22, G: 163, B: 74, A: 255},
	"yellow": {R: 250, G: 204, B: 21, A: 255},
	"purple": {R: 147, G: 51, B: 234, A: 255},
	"orange": {R: 249, G: 115, B: 22, A: 255},
	"pink":   {R: 236, G: 72, B: 153, A: 255},
}

func (g *generator) Render(ctx context.Context, req *models.DesignRequest) (*Artifact, error) {
	if req == nil || strings.TrimSpace(req.Phrase) == "" {
		return nil, fmt.Errorf("empty design phrase")
	}
	phrase := strings.TrimSpace(req.Phrase)

	img := image.NewRGBA(image.Rect(0, 0, g.cfg.Width, g.cfg.Height))
	face := loadFace(g.cfg.FontPaths, float64(fontSizeFor(phrase)))

	textColor := pickColor(req.ColorPreference)
	g.drawPhrase(img, phrase, face, textColor)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	data := buf.Bytes()

	path, err := g.writeFile(data)
	if err != nil {
		// The in-memory PNG is enough for vendor upload.
		log.Warnw(ctx, "Failed to persist design file", "error", err)
		path = ""
	}

	return &Artifact{
		Path:    path,
		PNG:     data,
		DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (g *generator) drawPhrase(img *image.RGBA, phrase string, face font.Face, textColor color.RGBA) {
	maxWidth := fixed.I(g.cfg.Width - g.cfg.Width/5)
	lines := wrapLines(face, phrase, maxWidth)

	metrics := face.Metrics()
	lineHeight := metrics.Height
	blockHeight := lineHeight.Mul(fixed.I(len(lines)))
	y := (fixed.I(g.cfg.Height)-blockHeight)/2 + metrics.Ascent

	outlineColor := outlineFor(textColor)
	for _, line := range lines {
		lineWidth := font.MeasureString(face, line)
		x := (fixed.I(g.cfg.Width) - lineWidth) / 2

		for dx := -outlineOffset; dx <= outlineOffset; dx += outlineOffset {
			for dy := -outlineOffset; dy <= outlineOffset; dy += outlineOffset {
				if dx == 0 && dy == 0 {
					continue
				}
				drawString(img, face, line, outlineColor, x+fixed.I(dx), y+fixed.I(dy))
			}
		}
		drawString(img, face, line, textColor, x, y)

		y += lineHeight
	}
}

func drawString(img *image.RGBA, face font.Face, s string, col color.RGBA, x, y fixed.Int26_6) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(s)
}

func wrapLines(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	words := strings.Fields(text)
	lines := make([]string, 0, 1)

	var cur string
	for _, word := range words {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if cur != "" && font.MeasureString(face, candidate) > maxWidth {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur = candidate
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func pickColor(preference *string) color.RGBA {
	if preference != nil {
		if c, ok := palette[strings.ToLower(strings.TrimSpace(*preference))]; ok {
			return c
		}
	}
	return palette["black"]
}

// outlineFor keeps the phrase readable on any shirt color: light text
// gets a black ring, dark text a white one.
func outlineFor(c color.RGBA) color.RGBA {
	brightness := (int(c.R) + int(c.G) + int(c.B)) / 3
	if brightness > 128 {
		return palette["black"]
	}
	return palette["white"]
}

func fontSizeFor(phrase string) int {
	switch n := utf8.RuneCountInString(phrase); {
	case n > 50:
		return 200
	case n > 30:
		return 300
	case n > 15:
		return 350
	default:
		return 400
	}
}

func (g *generator) writeFile(data []byte) (string, error) {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(g.cfg.OutputDir, fmt.Sprintf("design_%s.png", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write design file: %w", err)
	}
	return path, nil
}

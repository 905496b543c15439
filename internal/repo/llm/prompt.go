package llm

import (
	"strings"

	"github.com/tuannha-ct/merch-bot/pkg/tmplx"
)

var colorNames = []string{"black", "white", "red", "blue", "green", "yellow", "purple", "orange", "pink"}

const systemPromptTemplate = `You are the intent extractor for a merch bot that prints custom t-shirts.
Users trigger the bot with messages containing one of {{ .Keywords | json }}.

From the user's message extract:
- phrase: the exact text to print on the shirt. Keep the user's casing and punctuation. Never include trigger words or filler such as "make me a" or "that says".
- style: one of modern, retro, minimal, bold, playful. Default to modern.
- wants_image: true only when the user asks for artwork, a drawing or a picture.
- image_description: what to draw, only when wants_image is true.
- color_preference: one of {{ .Colors | json }} when the user names a text color.

When the message names no printable text, use the phrase "Custom T-Shirt".`

func mustSystemPrompt(keywords []string) string {
	tmpl := tmplx.MustParse("intent_prompt", systemPromptTemplate)
	buf, err := tmpl.Render(map[string]any{
		"Keywords": keywords,
		"Colors":   colorNames,
	})
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

package llm

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tuannha-ct/merch-bot/internal/models"
)

const (
	defaultPhrase = "Custom T-Shirt"
	defaultStyle  = "modern"
)

// DefaultKeywords lists the trigger words stripped from messages when no
// custom set is configured.
func DefaultKeywords() []string {
	return []string{"tshirt", "t-shirt", "shirt", "merch"}
}

var (
	leadInPattern  = regexp.MustCompile(`(?i)\b(that says|saying|i want a|make me a|with)\b`)
	imagePattern   = regexp.MustCompile(`(?i)\b(draw|image|picture|art|graphic)\b`)
	trailingColors = regexp.MustCompile(`(?i)\s+in\s+(black|white|red|blue|green|yellow|purple|orange|pink)$`)
)

const quoteCutset = "\"'“”‘’ "

// heuristicParser extracts a printable phrase without calling the model.
// It strips trigger keywords and common lead-ins, keeps the user's
// casing, and falls back to a stock phrase when nothing is left.
type heuristicParser struct {
	keywords *regexp.Regexp
}

func newHeuristicParser(keywords []string) *heuristicParser {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}
	// Longest alternative first so "t-shirt" is not split by "shirt".
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })

	return &heuristicParser{
		keywords: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

func (h *heuristicParser) Parse(message string) *models.DesignRequest {
	req := &models.DesignRequest{Style: defaultStyle}
	if imagePattern.MatchString(message) {
		req.WantsImage = true
	}

	phrase := h.keywords.ReplaceAllString(message, " ")
	phrase = leadInPattern.ReplaceAllString(phrase, " ")
	phrase = strings.Join(strings.Fields(phrase), " ")

	if m := trailingColors.FindStringSubmatch(phrase); m != nil {
		color := strings.ToLower(m[1])
		req.ColorPreference = &color
		phrase = trailingColors.ReplaceAllString(phrase, "")
	}

	phrase = strings.Trim(phrase, quoteCutset)
	if phrase == "" {
		phrase = defaultPhrase
	}
	req.Phrase = phrase
	return req
}

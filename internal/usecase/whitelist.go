package usecase

import (
	"strings"

	"github.com/tuannha-ct/merch-bot/internal/config"
)

type WhitelistService interface {
	IsChannelAllowed(channelID string) bool
}

type whitelistService struct {
	allowed map[string]bool
}

// NewWhitelistService builds the channel whitelist from config. An empty
// list or the "all" sentinel allows every channel.
func NewWhitelistService(cfg *config.Config) WhitelistService {
	allowed := make(map[string]bool)
	for _, channelID := range cfg.Chat.AllowedChannels {
		if channelID = strings.TrimSpace(channelID); channelID != "" {
			allowed[channelID] = true
		}
	}

	return &whitelistService{allowed: allowed}
}

func (w *whitelistService) IsChannelAllowed(channelID string) bool {
	if w.allowed["all"] {
		return true
	}
	if len(w.allowed) == 0 {
		return true
	}
	return w.allowed[channelID]
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/tuannha-ct/merch-bot/internal/config"
	"github.com/tuannha-ct/merch-bot/internal/models"
	"github.com/tuannha-ct/merch-bot/internal/repo/chatgateway"
)

// MessageUsecase gates raw chat traffic. ProcessMessage returns a nil
// result for messages the bot ignores (its own echoes, channels outside
// the whitelist, no trigger keyword); the error is only ever a
// reply-delivery failure.
type MessageUsecase interface {
	ProcessMessage(ctx context.Context, message models.IncomingMessage) (*models.DesignResult, error)
}

type messageUsecase struct {
	designUsecase DesignUsecase
	gateway       chatgateway.Client
	whitelist     WhitelistService
	botUserID     string
	keywords      []string
}

func NewMessageUsecase(
	conf *config.Config,
	designUsecase DesignUsecase,
	gateway chatgateway.Client,
	whitelist WhitelistService,
) MessageUsecase {
	return &messageUsecase{
		designUsecase: designUsecase,
		gateway:       gateway,
		whitelist:     whitelist,
		botUserID:     conf.Chat.BotUserID,
		keywords:      conf.Chat.TriggerKeywords,
	}
}

func (uc *messageUsecase) ProcessMessage(ctx context.Context, message models.IncomingMessage) (*models.DesignResult, error) {
	if message.SenderID != "" && message.SenderID == uc.botUserID {
		log.Debugw(ctx, "Skipping own message", "channel_id", message.ChannelID)
		return nil, nil
	}

	if !uc.whitelist.IsChannelAllowed(message.ChannelID) {
		log.Debugw(ctx, "Channel not whitelisted", "channel_id", message.ChannelID)
		return nil, nil
	}

	if !uc.isTriggered(message.Message) {
		log.Debugw(ctx, "Message has no trigger keyword, ignoring",
			"channel_id", message.ChannelID, "sender_id", message.SenderID)
		return nil, nil
	}

	log.Infow(ctx, "Processing design request",
		"channel_id", message.ChannelID, "sender_id", message.SenderID)

	if err := uc.gateway.SendTyping(ctx, message.ChannelID); err != nil {
		log.Debugw(ctx, "Typing indicator failed", "error", err)
	}

	result := uc.designUsecase.ProcessRequest(ctx, message.Message, message.SenderID, message.SenderName)

	reply := result.ResponseText
	if !result.Success && result.ErrorText != "" {
		reply = fmt.Sprintf("%s\n(%s)", result.ResponseText, result.ErrorText)
	}

	if err := uc.gateway.SendMessage(ctx, message.ChannelID, reply); err != nil {
		return result, fmt.Errorf("failed to send reply: %w", err)
	}

	return result, nil
}

func (uc *messageUsecase) isTriggered(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range uc.keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

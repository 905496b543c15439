package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tuannha-ct/merch-bot/internal/config"
)

func whitelistWith(channels ...string) WhitelistService {
	conf := &config.Config{}
	conf.Chat.AllowedChannels = channels
	return NewWhitelistService(conf)
}

func TestWhitelistEmptyAllowsEveryChannel(t *testing.T) {
	wl := whitelistWith()
	assert.True(t, wl.IsChannelAllowed("ch-1"))
	assert.True(t, wl.IsChannelAllowed(""))
}

func TestWhitelistAllSentinel(t *testing.T) {
	wl := whitelistWith("all")
	assert.True(t, wl.IsChannelAllowed("ch-1"))
	assert.True(t, wl.IsChannelAllowed("anything"))
}

func TestWhitelistRestrictsToListedChannels(t *testing.T) {
	wl := whitelistWith("ch-1", " ch-2 ")
	assert.True(t, wl.IsChannelAllowed("ch-1"))
	assert.True(t, wl.IsChannelAllowed("ch-2"))
	assert.False(t, wl.IsChannelAllowed("ch-3"))
}

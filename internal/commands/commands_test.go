package commands

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestGetCommands(t *testing.T) {
	var names []string
	for _, cmd := range GetCommands() {
		names = append(names, cmd.Name)
		if assert.NotNil(t, cmd.DMPermission) {
			assert.True(t, *cmd.DMPermission)
		}
	}
	assert.Equal(t, []string{"start", "help", "quote"}, names)
}

func TestArgs(t *testing.T) {
	args := Args([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "ticker", Type: discordgo.ApplicationCommandOptionString, Value: "700"},
		{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
	})
	assert.Equal(t, map[string]string{"ticker": "700"}, args)
}

func TestParseUserID(t *testing.T) {
	assert.Equal(t, int64(123456789012345678), ParseUserID("123456789012345678"))
	assert.Equal(t, int64(0), ParseUserID("not-a-number"))
	assert.Equal(t, int64(0), ParseUserID(""))
}

package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/susu3304/haileybot/internal/chat"
)

func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         chat.CommandStart,
			Description:  "Say hello to the bot",
			DMPermission: boolPtr(true),
		},
		{
			Name:         chat.CommandHelp,
			Description:  "Show what the bot understands",
			DMPermission: boolPtr(true),
		},
		{
			Name:         chat.CommandQuote,
			Description:  "Look up a Hong Kong stock price",
			DMPermission: boolPtr(true),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "ticker",
					Description: "Numeric ticker, e.g. 5 or 0700",
					Required:    true,
				},
			},
		},
	}
}

// Args flattens the string options of a slash command.
func Args(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	args := make(map[string]string, len(options))
	for _, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			args[opt.Name] = opt.StringValue()
		}
	}
	return args
}

func boolPtr(b bool) *bool {
	return &b
}

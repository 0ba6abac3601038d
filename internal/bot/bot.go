package bot

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/susu3304/haileybot/internal/chat"
)

// updateTimeout bounds the handling of one update, including the payment
// completion delay and outbound calls.
const updateTimeout = 2 * time.Minute

type Bot struct {
	session   *discordgo.Session
	router    *Router
	messenger *discordMessenger
}

// New creates the Discord session. Handlers are wired through SetRouter,
// which needs the session's Messenger first.
func New(token string, downloadTimeout time.Duration) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session:   session,
		messenger: newDiscordMessenger(session, downloadTimeout),
	}

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return bot, nil
}

// Messenger is the outbound side of the Discord session.
func (b *Bot) Messenger() chat.Messenger {
	return b.messenger
}

// SetRouter installs the router; it must be called before Start.
func (b *Bot) SetRouter(r *Router) {
	b.router = r
}

func (b *Bot) Start() error {
	if b.router == nil {
		return fmt.Errorf("bot router is not configured")
	}
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Println("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

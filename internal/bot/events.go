package bot

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/susu3304/haileybot/internal/auth"
	"github.com/susu3304/haileybot/internal/chat"
	"github.com/susu3304/haileybot/internal/commands"
)

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("%s is connected!", event.User.Username)

	// Global commands so they also work in direct messages
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", commands.GetCommands()); err != nil {
		log.Printf("Failed to register application commands: %v", err)
		return
	}
	log.Println("Registered application commands")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author == nil || m.Author.Bot {
		return
	}
	botID := ""
	if s.State != nil && s.State.User != nil {
		botID = s.State.User.ID
	}
	// Guild chatter is not for us unless the bot is mentioned
	if !addressedToBot(m.Message, botID) {
		return
	}
	b.dispatch(updateFromMessage(m.Message, botID))
}

// addressedToBot reports whether m is a direct message or mentions botID.
func addressedToBot(m *discordgo.Message, botID string) bool {
	if m.GuildID == "" {
		return true
	}
	if botID == "" {
		return false
	}
	for _, u := range m.Mentions {
		if u != nil && u.ID == botID {
			return true
		}
	}
	return false
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		// Acknowledge the button press; replies go to the channel.
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}); err != nil {
			log.Printf("Failed to acknowledge button press: %v", err)
		}
		b.dispatch(updateFromComponent(i))
	case discordgo.InteractionApplicationCommand:
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		}); err != nil {
			log.Printf("Failed to acknowledge command: %v", err)
		}
		b.dispatch(updateFromCommand(i))
		// Replies were sent as channel messages; drop the "thinking" placeholder.
		if err := s.InteractionResponseDelete(i.Interaction); err != nil {
			log.Printf("Failed to delete deferred response: %v", err)
		}
	}
}

func (b *Bot) dispatch(u chat.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()
	if err := b.router.Handle(ctx, u); err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			log.Printf("bot: rejected update in %s: %v", u.ConversationID, err)
			return
		}
		log.Printf("bot: update in %s failed: %v", u.ConversationID, err)
	}
}

func updateFromMessage(m *discordgo.Message, botID string) chat.Update {
	content := m.Content
	if botID != "" {
		content = strings.NewReplacer("<@"+botID+">", "", "<@!"+botID+">", "").Replace(content)
	}
	return chat.Update{
		ConversationID: m.ChannelID,
		SenderID:       commands.ParseUserID(m.Author.ID),
		Text:           strings.TrimSpace(content),
		Images:         imageVariants(m.Attachments),
	}
}

func updateFromComponent(i *discordgo.InteractionCreate) chat.Update {
	return chat.Update{
		ConversationID: i.ChannelID,
		SenderID:       commands.ParseUserID(interactionUserID(i)),
		Action:         i.MessageComponentData().CustomID,
	}
}

func updateFromCommand(i *discordgo.InteractionCreate) chat.Update {
	data := i.ApplicationCommandData()
	return chat.Update{
		ConversationID: i.ChannelID,
		SenderID:       commands.ParseUserID(interactionUserID(i)),
		Command:        data.Name,
		Args:           commands.Args(data.Options),
	}
}

// interactionUserID returns the invoking user for both guild and DM
// interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// imageVariants keeps image attachments in the order Discord sent them.
func imageVariants(attachments []*discordgo.MessageAttachment) []chat.ImageVariant {
	var out []chat.ImageVariant
	for _, a := range attachments {
		if a == nil {
			continue
		}
		if !strings.HasPrefix(a.ContentType, "image/") && a.Width == 0 {
			continue
		}
		out = append(out, chat.ImageVariant{
			Width:  a.Width,
			Height: a.Height,
			Handle: a.URL,
		})
	}
	return out
}

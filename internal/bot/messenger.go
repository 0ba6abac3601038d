package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-resty/resty/v2"
	"github.com/susu3304/haileybot/internal/chat"
)

// Minimal session interface for sending channel messages.
type messageSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// discordMessenger implements chat.Messenger on a Discord session.
type discordMessenger struct {
	session  messageSession
	download *resty.Client
}

var _ chat.Messenger = (*discordMessenger)(nil)

func newDiscordMessenger(session messageSession, timeout time.Duration) *discordMessenger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(1)
	client.SetRetryWaitTime(300 * time.Millisecond)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || (r != nil && r.StatusCode() >= 500)
	})
	return &discordMessenger{session: session, download: client}
}

func (m *discordMessenger) SendText(ctx context.Context, channelID, content string) error {
	return sendWithRetry(ctx, func(opts ...discordgo.RequestOption) error {
		_, err := m.session.ChannelMessageSend(channelID, content, opts...)
		return err
	})
}

func (m *discordMessenger) SendChoice(ctx context.Context, channelID, prompt string, options []chat.Choice) error {
	buttons := make([]discordgo.MessageComponent, 0, len(options))
	for _, o := range options {
		style := discordgo.PrimaryButton
		if o.Action == chat.ActionCancel {
			style = discordgo.SecondaryButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    o.Label,
			Style:    style,
			CustomID: o.Action,
		})
	}
	msg := &discordgo.MessageSend{
		Content: prompt,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		},
	}
	return sendWithRetry(ctx, func(opts ...discordgo.RequestOption) error {
		_, err := m.session.ChannelMessageSendComplex(channelID, msg, opts...)
		return err
	})
}

// SendSticker posts the sticker reference (a GIF or image URL) as a plain
// message so Discord renders it as an embed.
func (m *discordMessenger) SendSticker(ctx context.Context, channelID, sticker string) error {
	return m.SendText(ctx, channelID, sticker)
}

// Download fetches an attachment; handles are attachment URLs.
func (m *discordMessenger) Download(ctx context.Context, handle string) ([]byte, error) {
	resp, err := m.download.R().SetContext(ctx).Get(handle)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("attachment download returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

func sendWithRetry(ctx context.Context, send func(opts ...discordgo.RequestOption) error) error {
	const attemptTimeout = 12 * time.Second
	const maxAttempts = 2

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := send(discordgo.WithContext(sendCtx))
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTemporaryOrTimeout(err) {
			return err
		}
		time.Sleep(time.Duration(300+rand.Intn(500)) * time.Millisecond)
	}
	return lastErr
}

func isTemporaryOrTimeout(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

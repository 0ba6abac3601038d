package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/susu3304/haileybot/internal/chat"
	"github.com/susu3304/haileybot/internal/session"
)

const (
	MsgExpired    = "Session has expired. Please try again"
	MsgBusy       = "A payment is already being processed. Please wait"
	MsgProcessing = "Processing..."
	MsgCompleted  = "Completed"
	MsgCancelled  = "Cancel payment"

	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Journal records the outcome of a payment request. It is optional.
type Journal interface {
	RecordPayment(ctx context.Context, conversationID string, userID int64, recipient string, amount decimal.Decimal, status string) error
}

type Flow struct {
	store     *session.Store
	messenger chat.Messenger
	journal   Journal
	sticker   string
	delay     time.Duration
}

type Options struct {
	Store     *session.Store
	Messenger chat.Messenger
	Journal   Journal
	// Sticker is sent while the payment is processed; empty sends MsgProcessing.
	Sticker string
	Delay   time.Duration
}

func NewFlow(opts Options) *Flow {
	store := opts.Store
	if store == nil {
		store = session.NewStore()
	}
	return &Flow{
		store:     store,
		messenger: opts.Messenger,
		journal:   opts.Journal,
		sticker:   opts.Sticker,
		delay:     opts.Delay,
	}
}

// Prompt is the confirmation text echoed back to the sender.
func Prompt(recipient string, amount decimal.Decimal) string {
	return fmt.Sprintf("Recipient : %s\nTxn amount : HKD%s", recipient, amount.String())
}

// Choices are the two buttons offered with the prompt.
func Choices() []chat.Choice {
	return []chat.Choice{
		{Label: "Confirm", Action: chat.ActionConfirm},
		{Label: "Cancel", Action: chat.ActionCancel},
	}
}

// Start stores the request and asks the sender to confirm it.
func (f *Flow) Start(ctx context.Context, conversationID string, userID int64, recipient string, amount decimal.Decimal) error {
	if _, err := f.store.Begin(conversationID, userID, recipient, amount); err != nil {
		if errors.Is(err, session.ErrBusy) {
			return f.messenger.SendText(ctx, conversationID, MsgBusy)
		}
		return err
	}
	return f.messenger.SendChoice(ctx, conversationID, Prompt(recipient, amount), Choices())
}

// Confirm completes a pending request after the processing delay. No funds
// are moved.
func (f *Flow) Confirm(ctx context.Context, conversationID string) error {
	sess, err := f.store.BeginConfirm(conversationID)
	if err != nil {
		if errors.Is(err, session.ErrExpired) {
			return f.messenger.SendText(ctx, conversationID, MsgExpired)
		}
		return err
	}

	if err := f.sendProcessing(ctx, conversationID); err != nil {
		log.Printf("payment: failed to send processing indicator: %v", err)
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		// put the request back so the user can press confirm again
		f.store.Reopen(conversationID)
		return ctx.Err()
	}

	f.store.Clear(conversationID)
	f.record(ctx, sess, StatusCompleted)
	return f.messenger.SendText(ctx, conversationID, MsgCompleted)
}

// Cancel drops a pending request.
func (f *Flow) Cancel(ctx context.Context, conversationID string) error {
	sess, err := f.store.Cancel(conversationID)
	if err != nil {
		if errors.Is(err, session.ErrExpired) {
			return f.messenger.SendText(ctx, conversationID, MsgExpired)
		}
		return err
	}
	f.record(ctx, sess, StatusCancelled)
	return f.messenger.SendText(ctx, conversationID, MsgCancelled)
}

func (f *Flow) sendProcessing(ctx context.Context, conversationID string) error {
	if f.sticker == "" {
		return f.messenger.SendText(ctx, conversationID, MsgProcessing)
	}
	return f.messenger.SendSticker(ctx, conversationID, f.sticker)
}

func (f *Flow) record(ctx context.Context, sess session.Session, status string) {
	if f.journal == nil {
		return
	}
	if err := f.journal.RecordPayment(ctx, sess.ConversationID, sess.UserID, sess.Recipient, sess.Amount, status); err != nil {
		log.Printf("payment: failed to record %s payment for conversation %s: %v", status, sess.ConversationID, err)
	}
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/susu3304/haileybot/internal/auth"
	"github.com/susu3304/haileybot/internal/chat"
	"github.com/susu3304/haileybot/internal/food"
	"github.com/susu3304/haileybot/internal/intent"
	"github.com/susu3304/haileybot/internal/payment"
	"github.com/susu3304/haileybot/internal/stock"
	"github.com/susu3304/haileybot/internal/vision"
)

const (
	MsgDenied       = "You are not allowed to speak here. Bye"
	MsgUnknown      = "I don't understand"
	MsgWelcome      = "Welcome to Hailey bot"
	MsgHelp         = "Pay HKD<amount> to <name> or <ticker>.hk"
	MsgBadImage     = "Unable to read the image. Please send it again"
	MsgVisionFailed = "Sorry, something went wrong while analysing the image"
)

func msgFetching(ticker string) string {
	return fmt.Sprintf("Just a moment please, fetching %s...", ticker)
}

func msgQuoteFailed(ticker string) string {
	return fmt.Sprintf("Sorry, I could not fetch %s right now", ticker)
}

// Router sends every update through the allow-list and then to exactly one
// handler.
type Router struct {
	allow      *auth.Allowlist
	messenger  chat.Messenger
	payments   *payment.Flow
	quotes     stock.Quoter
	classifier vision.Classifier
	foods      *food.Table
}

type RouterOptions struct {
	Allowlist  *auth.Allowlist
	Messenger  chat.Messenger
	Payments   *payment.Flow
	Quotes     stock.Quoter
	Classifier vision.Classifier
	Foods      *food.Table
}

func NewRouter(opts RouterOptions) *Router {
	return &Router{
		allow:      opts.Allowlist,
		messenger:  opts.Messenger,
		payments:   opts.Payments,
		quotes:     opts.Quotes,
		classifier: opts.Classifier,
		foods:      opts.Foods,
	}
}

// Handle processes one update. The returned error describes why the update
// ended early; the user has already been told.
func (r *Router) Handle(ctx context.Context, u chat.Update) error {
	if err := r.allow.Check(u.SenderID); err != nil {
		if sendErr := r.messenger.SendText(ctx, u.ConversationID, MsgDenied); sendErr != nil {
			return errors.Join(err, sendErr)
		}
		return fmt.Errorf("user %d: %w", u.SenderID, err)
	}

	switch {
	case u.Action != "":
		return r.handleAction(ctx, u)
	case u.Command != "":
		return r.handleCommand(ctx, u)
	case len(u.Images) > 0:
		return r.handleImage(ctx, u)
	}

	in := intent.Classify(u.Text)
	switch in.Kind {
	case intent.Payment:
		return r.payments.Start(ctx, u.ConversationID, u.SenderID, in.Recipient, in.Amount)
	case intent.Stock:
		return r.handleQuote(ctx, u.ConversationID, in.Ticker)
	default:
		return r.messenger.SendText(ctx, u.ConversationID, MsgUnknown)
	}
}

func (r *Router) handleAction(ctx context.Context, u chat.Update) error {
	switch u.Action {
	case chat.ActionConfirm:
		return r.payments.Confirm(ctx, u.ConversationID)
	case chat.ActionCancel:
		return r.payments.Cancel(ctx, u.ConversationID)
	default:
		return fmt.Errorf("unknown action %q", u.Action)
	}
}

func (r *Router) handleCommand(ctx context.Context, u chat.Update) error {
	switch u.Command {
	case chat.CommandStart:
		return r.messenger.SendText(ctx, u.ConversationID, MsgWelcome)
	case chat.CommandHelp:
		return r.messenger.SendText(ctx, u.ConversationID, MsgHelp)
	case chat.CommandQuote:
		ticker := strings.TrimSpace(u.Args["ticker"])
		ticker = strings.TrimSuffix(strings.ToLower(ticker), ".hk")
		return r.handleQuote(ctx, u.ConversationID, ticker)
	default:
		return r.messenger.SendText(ctx, u.ConversationID, MsgUnknown)
	}
}

func (r *Router) handleQuote(ctx context.Context, conversationID, ticker string) error {
	if err := r.messenger.SendText(ctx, conversationID, msgFetching(ticker)); err != nil {
		return err
	}
	q, err := r.quotes.Quote(ctx, ticker)
	if err != nil {
		if sendErr := r.messenger.SendText(ctx, conversationID, msgQuoteFailed(ticker)); sendErr != nil {
			return errors.Join(err, sendErr)
		}
		return err
	}
	return r.messenger.SendText(ctx, conversationID, q.String())
}

func (r *Router) handleImage(ctx context.Context, u chat.Update) error {
	handle := vision.SelectVariant(u.Images)
	if handle == "" {
		if err := r.messenger.SendText(ctx, u.ConversationID, MsgBadImage); err != nil {
			return errors.Join(vision.ErrMissingAttachment, err)
		}
		return vision.ErrMissingAttachment
	}

	// the download completes before classification starts
	data, err := r.messenger.Download(ctx, handle)
	if err != nil {
		return r.visionFailed(ctx, u.ConversationID, fmt.Errorf("%w: download: %v", vision.ErrUpstream, err))
	}
	preds, err := r.classifier.Classify(ctx, data)
	if err != nil {
		return r.visionFailed(ctx, u.ConversationID, err)
	}
	return r.messenger.SendText(ctx, u.ConversationID, vision.FormatPredictions(preds, r.foods))
}

func (r *Router) visionFailed(ctx context.Context, conversationID string, err error) error {
	if sendErr := r.messenger.SendText(ctx, conversationID, MsgVisionFailed); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return err
}

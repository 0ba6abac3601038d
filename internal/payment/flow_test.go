package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susu3304/haileybot/internal/chat"
	"github.com/susu3304/haileybot/internal/chat/chattest"
	"github.com/susu3304/haileybot/internal/session"
)

type journalEntry struct {
	conversationID string
	userID         int64
	recipient      string
	amount         decimal.Decimal
	status         string
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []journalEntry
	err     error
}

func (j *fakeJournal) RecordPayment(_ context.Context, conversationID string, userID int64, recipient string, amount decimal.Decimal, status string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, journalEntry{conversationID, userID, recipient, amount, status})
	return j.err
}

func newTestFlow(sticker string) (*Flow, *session.Store, *chattest.Recorder, *fakeJournal) {
	store := session.NewStore()
	rec := chattest.NewRecorder()
	journal := &fakeJournal{}
	flow := NewFlow(Options{
		Store:     store,
		Messenger: rec,
		Journal:   journal,
		Sticker:   sticker,
	})
	return flow, store, rec, journal
}

func TestStartPresentsChoice(t *testing.T) {
	flow, store, rec, _ := newTestFlow("")
	ctx := context.Background()

	require.NoError(t, flow.Start(ctx, "c1", 7, "Alice", decimal.NewFromInt(100)))

	sess, ok := store.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Alice", sess.Recipient)
	assert.True(t, sess.Amount.Equal(decimal.NewFromInt(100)))

	last := rec.Last()
	assert.Equal(t, "choice", last.Kind)
	assert.Equal(t, "Recipient : Alice\nTxn amount : HKD100", last.Text)
	assert.Equal(t, []chat.Choice{
		{Label: "Confirm", Action: chat.ActionConfirm},
		{Label: "Cancel", Action: chat.ActionCancel},
	}, last.Options)
}

func TestConfirmCompletesAndClears(t *testing.T) {
	flow, store, rec, journal := newTestFlow("sticker-1")
	ctx := context.Background()
	require.NoError(t, flow.Start(ctx, "c1", 7, "Alice", decimal.NewFromInt(100)))
	rec.Reset()

	require.NoError(t, flow.Confirm(ctx, "c1"))

	sent := rec.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "sticker", sent[0].Kind)
	assert.Equal(t, "sticker-1", sent[0].Text)
	assert.Equal(t, MsgCompleted, sent[1].Text)
	assert.Equal(t, session.Idle, store.State("c1"))

	require.Len(t, journal.entries, 1)
	assert.Equal(t, StatusCompleted, journal.entries[0].status)
	assert.Equal(t, int64(7), journal.entries[0].userID)

	// round trip: the session is gone
	require.NoError(t, flow.Confirm(ctx, "c1"))
	assert.Equal(t, MsgExpired, rec.Last().Text)
	require.NoError(t, flow.Cancel(ctx, "c1"))
	assert.Equal(t, MsgExpired, rec.Last().Text)
}

func TestConfirmWithoutStickerSendsProcessingText(t *testing.T) {
	flow, _, rec, _ := newTestFlow("")
	ctx := context.Background()
	require.NoError(t, flow.Start(ctx, "c1", 7, "Alice", decimal.NewFromInt(1)))
	rec.Reset()

	require.NoError(t, flow.Confirm(ctx, "c1"))
	assert.Equal(t, []string{MsgProcessing, MsgCompleted}, rec.Texts())
}

func TestCancelClears(t *testing.T) {
	flow, store, rec, journal := newTestFlow("")
	ctx := context.Background()
	require.NoError(t, flow.Start(ctx, "c1", 7, "Alice", decimal.NewFromInt(100)))

	require.NoError(t, flow.Cancel(ctx, "c1"))
	assert.Equal(t, MsgCancelled, rec.Last().Text)
	assert.Equal(t, session.Idle, store.State("c1"))
	require.Len(t, journal.entries, 1)
	assert.Equal(t, StatusCancelled, journal.entries[0].status)

	require.NoError(t, flow.Confirm(ctx, "c1"))
	assert.Equal(t, MsgExpired, rec.Last().Text)
}

func TestConfirmOrCancelWhenIdle(t *testing.T) {
	flow, store, rec, journal := newTestFlow("")
	ctx := context.Background()

	require.NoError(t, flow.Confirm(ctx, "c1"))
	require.NoError(t, flow.Cancel(ctx, "c1"))

	assert.Equal(t, []string{MsgExpired, MsgExpired}, rec.Texts())
	assert.Equal(t, session.Idle, store.State("c1"))
	assert.Empty(t, journal.entries)
}

func TestSecondConfirmDuringDelayIsExpired(t *testing.T) {
	flow, store, rec, journal := newTestFlow("")
	flow.delay = 100 * time.Millisecond
	ctx := context.Background()
	require.NoError(t, flow.Start(ctx, "c1", 7, "Alice", decimal.NewFromInt(100)))
	rec.Reset()

	done := make(chan error, 1)
	go func() { done <- flow.Confirm(ctx, "c1") }()

	require.Eventually(t, func() bool { return store.State("c1") == session.Completing }, time.Second, 5*time.Millisecond)
	require.NoError(t, flow.Confirm(ctx, "c1"))
	require.NoError(t, flow.Cancel(ctx, "c1"))
	require.NoError(t, <-done)

	completed := 0
	for _, text := range rec.Texts() {
		if text == MsgCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
	assert.Len(t, journal.entries, 1)
	assert.Equal(t, session.Idle, store.State("c1"))
}

func TestConfirmCancelledContextReopens(t *testing.T) {
	flow, store, _, journal := newTestFlow("")
	flow.delay = time.Hour
	require.NoError(t, flow.Start(context.Background(), "c1", 7, "Alice", decimal.NewFromInt(100)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := flow.Confirm(ctx, "c1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, session.Pending, store.State("c1"))
	assert.Empty(t, journal.entries)
}

func TestStartWhileCompletingIsBusy(t *testing.T) {
	flow, store, rec, _ := newTestFlow("")
	ctx := context.Background()
	_, err := store.Begin("c1", 7, "Alice", decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = store.BeginConfirm("c1")
	require.NoError(t, err)

	require.NoError(t, flow.Start(ctx, "c1", 7, "Bob", decimal.NewFromInt(5)))
	assert.Equal(t, MsgBusy, rec.Last().Text)
}

func TestJournalFailureDoesNotBlockReply(t *testing.T) {
	flow, _, rec, journal := newTestFlow("")
	journal.err = errors.New("db down")
	ctx := context.Background()
	require.NoError(t, flow.Start(ctx, "c1", 7, "Alice", decimal.NewFromInt(100)))

	require.NoError(t, flow.Cancel(ctx, "c1"))
	assert.Equal(t, MsgCancelled, rec.Last().Text)
}

// Package chattest provides an in-memory chat.Messenger for tests.
package chattest

import (
	"context"
	"fmt"
	"sync"

	"github.com/susu3304/haileybot/internal/chat"
)

// Sent is one message recorded by Recorder.
type Sent struct {
	ConversationID string
	Kind           string // text|choice|sticker
	Text           string
	Options        []chat.Choice
}

// Recorder records outbound messages and serves downloads from Files.
type Recorder struct {
	mu    sync.Mutex
	sent  []Sent
	Files map[string][]byte
}

var _ chat.Messenger = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{Files: make(map[string][]byte)}
}

func (r *Recorder) SendText(_ context.Context, conversationID, text string) error {
	r.record(Sent{ConversationID: conversationID, Kind: "text", Text: text})
	return nil
}

func (r *Recorder) SendChoice(_ context.Context, conversationID, prompt string, options []chat.Choice) error {
	r.record(Sent{ConversationID: conversationID, Kind: "choice", Text: prompt, Options: options})
	return nil
}

func (r *Recorder) SendSticker(_ context.Context, conversationID, sticker string) error {
	r.record(Sent{ConversationID: conversationID, Kind: "sticker", Text: sticker})
	return nil
}

func (r *Recorder) Download(_ context.Context, handle string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.Files[handle]
	if !ok {
		return nil, fmt.Errorf("no file for handle %q", handle)
	}
	return data, nil
}

func (r *Recorder) record(s Sent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, s)
}

// Sent returns a copy of everything sent so far.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}

// Texts returns the text of every message, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, s := range r.Sent() {
		out = append(out, s.Text)
	}
	return out
}

// Last returns the most recent message, or the zero value.
func (r *Recorder) Last() Sent {
	sent := r.Sent()
	if len(sent) == 0 {
		return Sent{}
	}
	return sent[len(sent)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrExpired = errors.New("payment session has expired")
	ErrBusy    = errors.New("a payment is already being processed")
)

type State int

const (
	Idle State = iota
	Pending
	Completing
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completing:
		return "completing"
	default:
		return "idle"
	}
}

// Session is the in-progress payment request of one conversation.
type Session struct {
	ConversationID string
	UserID         int64
	Recipient      string
	Amount         decimal.Decimal
	State          State
	UpdatedAt      time.Time
}

// Store keeps one Session per conversation. Sessions are never persisted.
type Store struct {
	mu    sync.Mutex
	store map[string]*Session
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{store: make(map[string]*Session), now: time.Now}
}

// Begin records a new payment request and moves the conversation to
// Pending. A request that is already Pending is replaced; one that is
// Completing is left alone and ErrBusy is returned.
func (s *Store) Begin(conversationID string, userID int64, recipient string, amount decimal.Decimal) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.store[conversationID]; ok && sess.State == Completing {
		return Session{}, ErrBusy
	}
	sess := &Session{
		ConversationID: conversationID,
		UserID:         userID,
		Recipient:      recipient,
		Amount:         amount,
		State:          Pending,
		UpdatedAt:      s.now(),
	}
	s.store[conversationID] = sess
	return *sess, nil
}

// BeginConfirm moves a Pending session to Completing and returns it. Any
// other state yields ErrExpired, so a second confirm press during the
// completion delay cannot complete the payment twice.
func (s *Store) BeginConfirm(conversationID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.store[conversationID]
	if !ok || sess.State != Pending {
		return Session{}, ErrExpired
	}
	sess.State = Completing
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// Reopen moves a Completing session back to Pending.
func (s *Store) Reopen(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.store[conversationID]; ok && sess.State == Completing {
		sess.State = Pending
		sess.UpdatedAt = s.now()
	}
}

// Cancel removes a Pending session and returns it.
func (s *Store) Cancel(conversationID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.store[conversationID]
	if !ok || sess.State != Pending {
		return Session{}, ErrExpired
	}
	delete(s.store, conversationID)
	return *sess, nil
}

// Clear removes every field of the conversation's session.
func (s *Store) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, conversationID)
}

// Get returns a copy of the session; ok is false when the conversation is Idle.
func (s *Store) Get(conversationID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.store[conversationID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// State returns the conversation's current state.
func (s *Store) State(conversationID string) State {
	sess, ok := s.Get(conversationID)
	if !ok {
		return Idle
	}
	return sess.State
}

// ExpireBefore drops Pending sessions last touched before cutoff and
// returns the removed sessions.
func (s *Store) ExpireBefore(cutoff time.Time) []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []Session
	for id, sess := range s.store {
		if sess.State == Pending && sess.UpdatedAt.Before(cutoff) {
			removed = append(removed, *sess)
			delete(s.store, id)
		}
	}
	return removed
}

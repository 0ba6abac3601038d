package auth

import "errors"

var ErrUnauthorized = errors.New("sender is not on the allow-list")

// Allowlist is the fixed set of user IDs permitted to talk to the bot.
// It is built once at startup and never mutated.
type Allowlist struct {
	ids map[int64]struct{}
}

func NewAllowlist(ids []int64) *Allowlist {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Allowlist{ids: set}
}

func (a *Allowlist) Allowed(id int64) bool {
	if a == nil {
		return false
	}
	_, ok := a.ids[id]
	return ok
}

// Check returns ErrUnauthorized when id is not allow-listed.
func (a *Allowlist) Check(id int64) error {
	if !a.Allowed(id) {
		return ErrUnauthorized
	}
	return nil
}

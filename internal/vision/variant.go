package vision

import "github.com/susu3304/haileybot/internal/chat"

// MinWidth is the width at which a variant is good enough to classify.
const MinWidth = 400

// SelectVariant walks the variants in order and returns the handle of the
// first one at least MinWidth wide, or the last handle seen when none is.
func SelectVariant(variants []chat.ImageVariant) string {
	handle := ""
	for _, v := range variants {
		handle = v.Handle
		if v.Width >= MinWidth {
			break
		}
	}
	return handle
}

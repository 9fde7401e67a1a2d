// Package album groups photo messages that arrive as one Telegram media
// group into a single logical upload with consistently numbered filenames.
package album

import (
	"fmt"
	"strings"
	"time"

	"github.com/calefrey/telegram-bot/internal/session"
)

const timestampLayout = "-20060102-150405"

// AssignFilename advances the session's burst bookkeeping and returns the
// filename for the incoming photo.
//
// A photo opens a new burst when it carries no group token, when its token
// differs from the session's remembered one, or when no burst is active.
// The first photo of a burst fixes the caption base: the supplied caption if
// non-empty, otherwise the sender's initials plus a second-precision
// timestamp. Subsequent photos of the same burst get a "-N" suffix.
//
// The call is deliberately not idempotent: every invocation advances the
// burst index so filenames within a burst never repeat.
func AssignFilename(sess *session.Session, groupID, caption, initials string, now time.Time) string {
	if groupID == "" || sess.ActiveGroupID == "" || groupID != sess.ActiveGroupID {
		sess.ActiveGroupID = groupID
		sess.PhotoIndex = 1

		base := strings.TrimSpace(caption)
		if base == "" {
			base = initials + now.Format(timestampLayout)
		}
		sess.CaptionBase = base
		return base + ".png"
	}

	sess.PhotoIndex++
	return fmt.Sprintf("%s-%d.png", sess.CaptionBase, sess.PhotoIndex)
}

// Initials derives the default caption prefix from a sender's names.
// Missing name parts are simply skipped.
func Initials(firstName, lastName string) string {
	var b strings.Builder
	for _, name := range []string{firstName, lastName} {
		for _, r := range strings.TrimSpace(name) {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}

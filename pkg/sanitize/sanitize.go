package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text strips all HTML from user-authored content and trims surrounding
// whitespace. Applied to posts, comments, messages, and bios before storage.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}

// Package sanitize cleans user-supplied rich text before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	rich  = bluemonday.UGCPolicy()
	plain = bluemonday.StrictPolicy()
)

// Rich strips scripts, event handlers and unsafe URLs but keeps formatting markup.
func Rich(s string) string {
	return strings.TrimSpace(rich.Sanitize(s))
}

// Plain removes all markup.
func Plain(s string) string {
	return strings.TrimSpace(plain.Sanitize(s))
}

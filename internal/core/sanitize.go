// AngelaMos | 2026
// sanitize.go

package core

import (
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeText entity-escapes markup characters in free text before it is
// persisted.
func SanitizeText(s string) string {
	return htmlEscaper.Replace(s)
}

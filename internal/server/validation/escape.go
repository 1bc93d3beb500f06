package validation

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// EscapeHTML replaces characters that are significant in HTML, including
// '/', '\' and '`', with their entities. Usernames are stored escaped.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

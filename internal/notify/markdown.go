package notify

import "strings"

// markdownEscaper escapes the characters Telegram's legacy Markdown treats as
// entity delimiters outside of an entity.
var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

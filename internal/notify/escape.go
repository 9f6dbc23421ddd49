package notify

import "strings"

// markdownV2Reserved lists every character the MarkdownV2 dialect reserves.
// All of them must be escaped in interpolated values, URLs included.
const markdownV2Reserved = "_*[]()~`>#+-=|{}.!"

var markdownV2Replacer = newEscaper(markdownV2Reserved)

func newEscaper(reserved string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(reserved))
	for _, r := range reserved {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}

// EscapeMarkdownV2 escapes every reserved MarkdownV2 character in s.
func EscapeMarkdownV2(s string) string {
	return markdownV2Replacer.Replace(s)
}

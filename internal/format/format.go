// Package format turns the small Markdown subset produced by chat models into
// the HTML fragments rendered by the chat page.
package format

import (
	"regexp"
	"strings"
)

const lineBreak = "<br>"

var (
	boldPattern    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headingPattern = regexp.MustCompile(`### (.*?)<br>`)
	bulletPattern  = regexp.MustCompile(`- (.*?)<br>`)
)

// Reply rewrites a model reply for display. The steps run in a fixed order:
// line breaks first, so that headings and bullets only match when a <br>
// directly follows them. A heading or bullet at the very end of the text is
// therefore left untouched.
func Reply(raw string) string {
	out := strings.ReplaceAll(raw, `\n`, "\n")
	out = strings.ReplaceAll(out, "\n", lineBreak)
	out = boldPattern.ReplaceAllString(out, "<strong>${1}</strong>")
	out = headingPattern.ReplaceAllString(out, "<h5>${1}</h5>")
	out = bulletPattern.ReplaceAllString(out, "<li>${1}</li>")
	return out
}

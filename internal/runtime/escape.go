package runtime

import (
	"regexp"
	"strings"
)

// closingTagPattern matches a case-insensitive "</" followed by an ASCII
// letter — the sequence the HTML tokenizer treats as the start of a
// script-data-end tag.
var closingTagPattern = regexp.MustCompile(`(?i)</([a-zA-Z])`)

// escapeScriptBody neutralises byte sequences the HTML tokenizer would
// treat as a script-data-end marker or an HTML-comment start, so captured
// string content can never prematurely close the surrounding <script>
// element (spec §4.F). Both substitutions are no-ops inside JavaScript
// string, regex, and comment text.
func escapeScriptBody(s string) string {
	s = closingTagPattern.ReplaceAllString(s, `<\/$1`)
	s = strings.ReplaceAll(s, "<!--", `<\!--`)
	return s
}

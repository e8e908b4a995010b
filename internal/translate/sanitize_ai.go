package translate

import (
	"regexp"
	"strings"
)

var (
	// (Note: ...) and [Note: ...] blocks anywhere in the text
	bracketedNote = regexp.MustCompile(`(?is)[\(\[]\s*(note|lưu ý|ghi chú)\s*:[^\)\]]*[\)\]]`)
	// a whole line starting with Note:
	noteLine = regexp.MustCompile(`(?im)^\s*(note|lưu ý|ghi chú)\s*:.*$`)
	// "Translation:" style lead-ins
	leadIn = regexp.MustCompile(`(?i)^\s*(translation|bản dịch)\s*:\s*`)
)

// SanitizeAIText strips disclaimers and lead-ins language models add around
// a translation, and collapses the remaining whitespace.
func SanitizeAIText(s string) string {
	s = bracketedNote.ReplaceAllString(s, "")
	s = noteLine.ReplaceAllString(s, "")
	s = leadIn.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.Trim(s, "\"“”")
	return strings.Join(strings.Fields(s), " ")
}

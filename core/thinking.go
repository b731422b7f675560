package session

import "strings"

const (
	openTag      = "<think>"
	openTagAlias = "<thinking>"
)

// SplitThinking splits raw answer text into the presentable answer and the
// reasoning hidden in inline think tags. It is the fallback for models that
// never use the structured thinking field: spans delimited by
// <think>...</think> (or the <thinking> alias, case-insensitive) are
// removed from the answer and concatenated, in order of appearance,
// separated by a single line break. An unterminated open tag swallows the
// rest of the text into thinking, which keeps a mid-stream span out of the
// visible answer until its close tag arrives.
func SplitThinking(text string) (answer string, thinking string) {
	var kept strings.Builder
	var spans []string

	lower := strings.ToLower(text)
	i := 0
	for i < len(text) {
		rel := strings.Index(lower[i:], "<think")
		if rel < 0 {
			kept.WriteString(text[i:])
			break
		}
		open := i + rel

		var openLen int
		switch {
		case strings.HasPrefix(lower[open:], openTagAlias):
			openLen = len(openTagAlias)
		case strings.HasPrefix(lower[open:], openTag):
			openLen = len(openTag)
		default:
			// "<think" without a closing bracket is ordinary text.
			kept.WriteString(text[i : open+1])
			i = open + 1
			continue
		}

		kept.WriteString(text[i:open])
		body := open + openLen

		closeRel, closeLen := closeTagAfter(lower[body:])
		if closeRel < 0 {
			spans = append(spans, text[body:])
			break
		}
		spans = append(spans, text[body:body+closeRel])
		i = body + closeRel + closeLen
	}

	return kept.String(), strings.Join(spans, "\n")
}

// closeTagAfter finds the earliest close tag in lower-cased text, returning
// its offset and length, or -1 when there is none.
func closeTagAfter(lower string) (int, int) {
	offset := strings.Index(lower, "</think>")
	length := len("</think>")

	if alias := strings.Index(lower, "</thinking>"); alias >= 0 && (offset < 0 || alias < offset) {
		return alias, len("</thinking>")
	}
	if offset < 0 {
		return -1, 0
	}
	return offset, length
}

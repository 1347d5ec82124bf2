package adapter

import "strings"

// ExtractJSON recovers a JSON object or array from a completion reply.
// The service is not guaranteed to return bare JSON: replies may wrap the
// payload in markdown fences or surround it with prose. Returns "" when no
// candidate payload is found.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if fenced := ExtractFenced(text); fenced != "" {
		text = fenced
	}

	// Take the outermost {...} or [...] span.
	objStart := strings.IndexAny(text, "{[")
	if objStart < 0 {
		return ""
	}
	var closer byte
	if text[objStart] == '{' {
		closer = '}'
	} else {
		closer = ']'
	}
	objEnd := strings.LastIndexByte(text, closer)
	if objEnd <= objStart {
		return ""
	}
	return strings.TrimSpace(text[objStart : objEnd+1])
}

// ExtractFenced returns the contents of the first fenced code block, or ""
// when the text contains none. A language tag after the opening fence is
// discarded.
func ExtractFenced(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return ""
	}
	rest := text[start+3:]

	// Skip the language tag line, if any.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{[") {
			rest = rest[nl+1:]
		}
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}

package llm

import "strings"

// ExtractJSON recovers a single JSON object from model text that may wrap it
// in prose or a markdown code fence. Extraction order, first match wins:
// a ```json fence, any fence, then the first balanced top-level {...} span
// in the raw text. When nothing matches the input is returned unchanged so
// the subsequent parse fails loudly instead of this stage guessing.
func ExtractJSON(text string) string {
	if body, ok := fencedBlock(text, "```json"); ok {
		if obj, ok := braceSpan(body); ok {
			return obj
		}
	}

	if body, ok := fencedBlock(text, "```"); ok {
		if obj, ok := braceSpan(body); ok {
			return obj
		}
	}

	if obj, ok := braceSpan(text); ok {
		return obj
	}

	return text
}

// fencedBlock returns the content of the first code fence opened by marker.
func fencedBlock(text, marker string) (string, bool) {
	start := strings.Index(text, marker)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(marker):]

	// Skip the remainder of the fence line (e.g. a language tag).
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		// Unterminated fence: take everything after the opener.
		return rest, true
	}
	return rest[:end], true
}

// braceSpan returns the first balanced {...} span in text.
func braceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

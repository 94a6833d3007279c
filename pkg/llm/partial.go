package llm

import "strings"

// repairJSON closes an incomplete JSON document so that a prefix of a
// streamed object can be decoded: open strings are terminated, dangling
// commas and colons are resolved, and open braces/brackets are closed in
// reverse order. The result is syntactically valid JSON whenever the input
// is a prefix of valid JSON; semantic completeness is the caller's problem.
func repairJSON(s string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, ch)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if escaped {
		// Drop the dangling backslash before closing the string.
		trimmed := b.String()
		b.Reset()
		b.WriteString(trimmed[:len(trimmed)-1])
	}
	if inString {
		b.WriteByte('"')
	}

	out := strings.TrimRight(b.String(), " \t\r\n")
	if strings.HasSuffix(out, ":") {
		out += "null"
	} else {
		out = strings.TrimRight(out, ",")
		out = strings.TrimRight(out, " \t\r\n")
	}

	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i] {
		case '{':
			out += "}"
		case '[':
			out += "]"
		}
	}
	return out
}

package suggest

import (
	"strings"
	"unicode"
)

// SuggestRequest carries the buffer text and the cursor position (a byte
// offset into Code; out-of-range values are clamped).
type SuggestRequest struct {
	Code           string
	CursorPosition int
	Language       string
}

// Suggest returns a canned completion for the text before the cursor, or ""
// when no pattern matches. Pure function, no I/O.
func Suggest(req SuggestRequest) string {
	code := req.Code
	pos := req.CursorPosition
	if pos < 0 {
		pos = 0
	}
	if pos > len(code) {
		pos = len(code)
	}

	before := code[:pos]
	trimmed := strings.TrimRightFunc(before, unicode.IsSpace)
	lines := strings.Split(before, "\n")
	lastLine := strings.TrimLeftFunc(lines[len(lines)-1], unicode.IsSpace)

	python := req.Language == "python" || req.Language == ""

	switch {
	case strings.HasPrefix(lastLine, "def") && !strings.Contains(lastLine, "("):
		if python {
			return " my_function():"
		}
		return " myFunction() {"

	case strings.HasPrefix(lastLine, "if "):
		return "condition:"

	case strings.HasPrefix(lastLine, "for "):
		if python {
			return "item in items:"
		}
		return "let i = 0; i < length; i++) {"

	case strings.HasPrefix(lastLine, "import "):
		if python {
			return "os"
		}
		return "React"

	case strings.HasPrefix(lastLine, "class "):
		return "MyClass:"

	case strings.HasPrefix(lastLine, "return "):
		return "value"

	case strings.Contains(lastLine, "print(") || strings.Contains(lastLine, "console.log("):
		return `"Hello, World!"`

	case strings.HasSuffix(trimmed, "("):
		return ")"

	case strings.HasSuffix(trimmed, "["):
		return "]"

	case strings.HasSuffix(trimmed, "{"):
		return "}"
	}

	return ""
}

package internal

import (
	"strings"
	"unicode"
)

// DefaultSlug is used when the first content line produces no usable slug.
const DefaultSlug = "memory"

const maxTitleLength = 50

// TitleOf extracts the human title of a memory: the first content line with
// any leading markdown header markers stripped.
func TitleOf(content string) string {
	line := content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "#")
	return strings.TrimSpace(line)
}

// Slugify lowercases and hyphenates a title into a filename-safe token.
// Non-ASCII letters are dropped, runs of separators collapse into a single
// hyphen, and the input is truncated to 50 characters before slugging.
func Slugify(title string) string {
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return DefaultSlug
	}
	return slug
}

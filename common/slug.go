package common

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultFilenameBase = "historia"
	maxFilenameLength   = 50
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	nonWordChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(FoldAccents(s)))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}

// SanitizeFilename turns a story title into a download-safe base name.
// Accents are folded, punctuation dropped, whitespace becomes "-", and the
// result is capped at 50 bytes. Empty results fall back to "historia".
func SanitizeFilename(name string) string {
	s := FoldAccents(name)
	s = nonWordChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxFilenameLength {
		s = s[:maxFilenameLength]
	}
	s = strings.ToLower(s)
	if s == "" {
		return DefaultFilenameBase
	}
	return s
}

// FoldAccents decomposes to NFKD, drops combining marks and anything left outside ASCII.
func FoldAccents(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fillerReplacer substitutes path separators and spaces with the filler
// character before invalid characters are stripped.
var fillerReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	" ", "_",
)

// invalidChars are characters rejected by common filesystems.
const invalidChars = `<>:"|?*`

var titleCaser = cases.Title(language.English)

// Sanitize converts free text into a filesystem-safe path segment.
// Path separators and spaces become underscores, characters invalid in
// filenames are dropped, and leading/trailing underscores, dots, and
// whitespace are trimmed. Always returns a string, possibly empty, and is
// idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(part string) string {
	part = fillerReplacer.Replace(part)
	part = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return -1
		}
		return r
	}, part)
	return strings.Trim(part, "._ \t\r\n")
}

// CanonicalKey derives the registry lookup key for a vendor name: the
// sanitized form with fillers turned back into spaces, title-cased so that
// casing variants of the same vendor collapse to one key.
func CanonicalKey(name string) string {
	key := strings.ReplaceAll(Sanitize(name), "_", " ")
	return titleCaser.String(key)
}

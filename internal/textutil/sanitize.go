package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SafeName converts a person's full name into a token usable in generated
// file names: trimmed, internal whitespace collapsed to single underscores,
// and unsafe characters stripped. Non-Latin letters are preserved so
// Devanagari names survive intact.
func SafeName(name string) string {
	fields := strings.Fields(SanitizeFileName(name))
	if len(fields) == 0 {
		return "unnamed"
	}
	return strings.Join(fields, "_")
}

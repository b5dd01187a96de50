// Package fields packs and unpacks Anki field blobs.
//
// Note fields and model field names are both stored as a single string with
// values separated by the ASCII unit separator (0x1f).
package fields

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Separator delimits values inside a field blob.
const Separator = "\x1f"

// Split returns the ordered values of a blob. An empty blob yields one empty value.
func Split(raw string) []string {
	return strings.Split(raw, Separator)
}

// Join packs values back into a blob. Join(Split(b)) == b for any b.
func Join(values []string) string {
	return strings.Join(values, Separator)
}

// NonBlank drops entries that are empty after trimming.
func NonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Index finds key among names ignoring case and surrounding whitespace.
// It returns -1 when nothing matches.
func Index(names []string, key string) int {
	want := strings.ToLower(strings.TrimSpace(key))
	if want == "" {
		return -1
	}
	for i, n := range names {
		if strings.ToLower(strings.TrimSpace(n)) == want {
			return i
		}
	}
	return -1
}

// IsBlank reports whether s holds only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TrimEnd strips trailing whitespace.
func TrimEnd(s string) string {
	return strings.TrimRight(s, " \t\r\n\v\f")
}

var tagPattern = regexp.MustCompile(`(?s)<[^>]*>`)

// StripHTML removes markup and decodes entities, as Anki does before sorting
// and duplicate checks.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}

// SortField returns the sort value of a note: its first field without markup.
func SortField(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return StripHTML(values[0])
}

// Checksum is the first 32 bits of the SHA-1 of the stripped first field.
func Checksum(values []string) int64 {
	sum := sha1.Sum([]byte(SortField(values)))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return n
}

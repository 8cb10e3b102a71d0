package models

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks so "café" and "cafe" normalize equally.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTitle canonicalizes a title for duplicate comparison: diacritics
// folded, lowercased, punctuation stripped, whitespace collapsed.
func NormalizeTitle(title string) string {
	if folded, _, err := transform.String(deaccent, title); err == nil {
		title = folded
	}

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Stem returns the lowercased filename stem of a note path, the key used to
// resolve wiki links against the index.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// NormalizeLinkTarget canonicalizes a wiki-link target: alias and heading
// parts dropped, any path prefix reduced to the final stem, lowercased.
func NormalizeLinkTarget(target string) string {
	if i := strings.IndexByte(target, '|'); i >= 0 {
		target = target[:i]
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	target = strings.TrimSpace(target)
	if i := strings.LastIndexByte(target, '/'); i >= 0 {
		target = target[i+1:]
	}
	target = strings.TrimSuffix(target, ".md")
	return strings.ToLower(target)
}

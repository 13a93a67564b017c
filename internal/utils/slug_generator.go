package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"unicode"

	"github.com/mr-tron/base58"
	"golang.org/x/text/unicode/norm"
)

const maxSlugBaseLength = 60

// Slugify lowercases title and reduces it to ASCII letters, digits and single
// hyphens. Accented letters lose their marks ("Côte" becomes "cote").
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range norm.NFD.String(title) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
		if b.Len() >= maxSlugBaseLength {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "trip"
	}
	return slug
}

// GenerateSlug creates a slug in the format "title-words-XXXXXX" where XXXXXX
// is a random base58 suffix
func GenerateSlug(title string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("%s-%s", Slugify(title), base58.Encode(suffix)), nil
}

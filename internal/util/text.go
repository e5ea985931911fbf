package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var reSpaces = regexp.MustCompile(`\s+`)

// ToASCII transliterates non-ASCII characters to their closest ASCII form.
func ToASCII(input string) string {
	for i := 0; i < len(input); i++ {
		if input[i] >= 0x80 {
			return unidecode.Unidecode(input)
		}
	}
	return input
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// CountTokens counts whitespace-delimited tokens.
func CountTokens(input string) int {
	return len(strings.Fields(input))
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

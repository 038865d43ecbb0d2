package topicmap

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// camelize turns a display name into an id segment: "Getting started" -> "GettingStarted".
func camelize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		if r == '_' || r == '-' {
			return ' '
		}
		return -1
	}, name)

	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(titleCaser.String(word))
	}
	return b.String()
}

package contracts

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// smallWords stay lowercase inside a phrase (but not at its edges).
var smallWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true, "or": true,
	"nor": true, "so": true, "yet": true, "at": true, "by": true, "for": true,
	"from": true, "in": true, "into": true, "of": true, "on": true, "onto": true,
	"out": true, "over": true, "to": true, "up": true, "with": true, "as": true,
	"per": true, "via": true, "vs": true, "off": true, "than": true, "till": true,
	"until": true, "past": true, "near": true, "down": true, "upon": true,
	"within": true, "without": true, "through": true, "about": true,
	"before": true, "after": true, "around": true, "behind": true, "below": true,
	"beneath": true, "beside": true, "between": true, "beyond": true,
	"during": true, "inside": true, "outside": true, "under": true,
	"underneath": true, "across": true, "along": true, "amid": true,
	"among": true, "despite": true, "except": true, "including": true,
	"like": true, "since": true, "toward": true, "towards": true,
	"regarding": true,
}

// splitWords breaks a camelCase or snake_case identifier into words.
// Digit runs become their own words; acronym runs stay together up to the
// start of the next word (HTTPServer → HTTP, Server).
func splitWords(name string) []string {
	var parts []string
	for _, p := range strings.Split(name, "_") {
		parts = append(parts, splitCamel(p)...)
	}
	return parts
}

func splitCamel(s string) []string {
	var words []string
	runes := []rune(s)
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			boundary = true
		case unicode.IsDigit(prev) != unicode.IsDigit(cur):
			boundary = true
		case unicode.IsLetter(prev) != unicode.IsLetter(cur) && !unicode.IsDigit(prev) && !unicode.IsDigit(cur):
			boundary = true
		}
		if boundary {
			if w := strings.TrimFunc(string(runes[start:i]), isSeparator); w != "" {
				words = append(words, w)
			}
			start = i
		}
	}
	if w := strings.TrimFunc(string(runes[start:]), isSeparator); w != "" {
		words = append(words, w)
	}
	return words
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// titlePhrase joins words with title casing: acronyms kept as-is, small words
// lowercase unless first or last.
func titlePhrase(words []string) string {
	if len(words) == 0 {
		return ""
	}
	// Caser carries transform state, so it is created per call.
	titleCaser := cases.Title(language.English)
	out := make([]string, 0, len(words))
	last := len(words) - 1
	for i, w := range words {
		lower := strings.ToLower(w)
		switch {
		case w == strings.ToUpper(w) && len(w) > 1 && !isNumeric(w):
			out = append(out, w) // keep acronyms as-is
		case i != 0 && i != last && smallWords[lower]:
			out = append(out, lower)
		default:
			out = append(out, titleCaser.String(lower))
		}
	}
	return strings.Join(out, " ")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// PrettyPhrase formats an identifier into a readable phrase
// (GeneralQuorumProposal → General Quorum Proposal).
func PrettyPhrase(identifier string) string {
	return titlePhrase(splitWords(identifier))
}

// LabelFromFilename builds a display label from a header filename stem.
// Stems starting with Q get special treatment: the next character is forced
// uppercase, and all-caps stems keep only that one capital
// (QUTIL → QUtil, QVAULT → QVault, Qswap → QSwap, Qx → Qx).
func LabelFromFilename(stem string) string {
	if stem == "" {
		return ""
	}
	if len(stem) == 1 || (stem[0] != 'Q' && stem[0] != 'q') {
		return PrettyPhrase(stem)
	}

	rest := stem[1:]
	first := strings.ToUpper(rest[:1])
	tail := rest[1:]

	if stem == strings.ToUpper(stem) {
		return "Q" + first + strings.ToLower(tail)
	}
	return "Q" + first + tail
}

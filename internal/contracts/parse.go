package contracts

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	registerRe      = regexp.MustCompile(`REGISTER_USER_PROCEDURE\s*\(\s*&?\s*([A-Za-z_][A-Za-z0-9_]*)\s*,\s*(\d+)\s*\)`)
	includeRe       = regexp.MustCompile(`#\s*include\s*["<]([^">]+)[">]`)
	contractIndexRe = regexp.MustCompile(`#\s*define\s+[A-Za-z0-9_]+_CONTRACT_INDEX\s+(\d+)\b`)
	quotedStringRe  = regexp.MustCompile(`"([^"]+)"`)
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe   = regexp.MustCompile(`//[^\n]*`)
)

// stripComments removes C block and line comments.
func stripComments(code string) string {
	code = blockCommentRe.ReplaceAllString(code, "")
	return lineCommentRe.ReplaceAllString(code, "")
}

// skipHeader filters non-contract files referenced from contract_def.h.
func skipHeader(basename string) bool {
	if basename == "README.md" {
		return true
	}
	if strings.HasPrefix(basename, "Test") {
		return true
	}
	return basename == "math_lib.h" || basename == "qpi.h"
}

// includedHeaders returns the contract header basenames included by
// contract_def.h, sorted and filtered.
func includedHeaders(defText string) []string {
	seen := make(map[string]bool)
	for _, m := range includeRe.FindAllStringSubmatch(defText, -1) {
		basename := path.Base(m[1])
		if !skipHeader(basename) {
			seen[basename] = true
		}
	}
	headers := make([]string, 0, len(seen))
	for h := range seen {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}

// contractIndexes maps header basenames to their contract index, taken from
// the *_CONTRACT_INDEX define within the few lines above each include.
func contractIndexes(defText string, known []string) map[string]int {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}

	lines := strings.Split(defText, "\n")
	mapping := make(map[string]int)
	for i, line := range lines {
		m := includeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		basename := path.Base(m[1])
		if len(knownSet) > 0 && !knownSet[basename] {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-5; j-- {
			if im := contractIndexRe.FindStringSubmatch(lines[j]); im != nil {
				if idx, err := strconv.Atoi(im[1]); err == nil {
					mapping[basename] = idx
				}
				break
			}
		}
	}
	return mapping
}

// descriptionNames extracts contract display names from the
// contractDescriptions array. The first item is the reserved zero entry;
// items 1..N carry the name as the first quoted string.
func descriptionNames(defText string) map[int]string {
	text := stripComments(defText)
	pos := strings.Index(text, "contractDescriptions")
	if pos < 0 {
		return nil
	}
	eqPos := strings.Index(text[pos:], "=")
	if eqPos < 0 {
		return nil
	}
	braceStart := strings.Index(text[pos+eqPos:], "{")
	if braceStart < 0 {
		return nil
	}
	start := pos + eqPos + braceStart

	end := matchingBrace(text, start)
	if end < 0 {
		return nil // unbalanced braces
	}
	body := text[start+1 : end]

	var items []string
	for i := 0; i < len(body); {
		c := body[i]
		if c != '{' {
			i++
			continue
		}
		itemStart := i
		d := 0
		for ; i < len(body); i++ {
			switch body[i] {
			case '{':
				d++
			case '}':
				d--
			}
			if d == 0 {
				i++
				items = append(items, body[itemStart:i])
				break
			}
		}
	}

	names := make(map[int]string)
	for idx, item := range items {
		if idx == 0 {
			continue
		}
		if m := quotedStringRe.FindStringSubmatch(item); m != nil {
			names[idx] = m[1]
		}
	}
	return names
}

// matchingBrace returns the index of the '}' closing the '{' at start,
// or -1 if the braces are unbalanced.
func matchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// registeredProcedures extracts REGISTER_USER_PROCEDURE(symbol, id) pairs from
// a contract header, deduped by id and sorted.
func registeredProcedures(headerText string) []Procedure {
	text := stripComments(headerText)
	seen := make(map[int]bool)
	var procs []Procedure
	for _, m := range registerRe.FindAllStringSubmatch(text, -1) {
		id, err := strconv.Atoi(m[2])
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		procs = append(procs, Procedure{ID: id, Name: PrettyPhrase(m[1])})
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].ID < procs[j].ID })
	return procs
}

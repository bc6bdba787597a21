package check

import (
	"strings"
	"unicode"

	"github.com/colonyops/aipm/internal/core/ticket"
)

// minKeywordLen filters out short tokens that would match everything.
const minKeywordLen = 3

// stopwords are common words excluded from keyword extraction.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"from": {}, "have": {}, "are": {}, "was": {}, "were": {}, "been": {},
	"being": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"can": {}, "may": {}, "not": {}, "but": {}, "all": {}, "also": {},
	"into": {}, "over": {}, "such": {}, "than": {}, "then": {}, "when": {},
	"what": {}, "which": {}, "where": {}, "who": {}, "how": {}, "has": {},
	"had": {}, "its": {}, "our": {}, "out": {}, "use": {}, "add": {},
	"new": {}, "set": {},
}

// ExtractKeywords tokenizes a ticket's title and description into lowercase
// search keywords: punctuation stripped, stopwords removed, tokens shorter
// than three characters dropped, ticket key appended, order-preserving
// deduplication.
func ExtractKeywords(t ticket.Ticket) []string {
	text := strings.ToLower(t.Title + " " + t.Description)

	var words []string
	for _, raw := range strings.Fields(text) {
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
				return r
			}
			return -1
		}, raw)

		if len(cleaned) < minKeywordLen {
			continue
		}
		if _, stop := stopwords[cleaned]; stop {
			continue
		}
		words = append(words, cleaned)
	}

	if t.Key != "" {
		words = append(words, strings.ToLower(t.Key))
	}

	seen := make(map[string]struct{}, len(words))
	unique := words[:0]
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		unique = append(unique, w)
	}
	return unique
}

package wikipedia

import (
	"regexp"
	"strings"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

// ExtractionRule finds a scientific name candidate in the first capture group of Pattern.
type ExtractionRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules are tried in order against a page introduction.
var DefaultRules = []ExtractionRule{
	{Name: "parenthetical", Pattern: regexp.MustCompile(`\(([A-Z][a-z]+ [a-z]+(?:\s+[a-z]+)?)\)`)},
	{Name: "comma", Pattern: regexp.MustCompile(`,\s*([A-Z][a-z]+ [a-z]+)`)},
	{Name: "vetenskapliga namnet", Pattern: regexp.MustCompile(`(?i)vetenskapliga namnet?\s*[:\s]*([A-Z][a-z]+ [a-z]+)`)},
	{Name: "latinskt namn", Pattern: regexp.MustCompile(`(?i)latin(?:skt)?(?:\s+namn)?\s*[:\s]\s*([A-Z][a-z]+ [a-z]+)`)},
	{Name: "scientific name", Pattern: regexp.MustCompile(`(?i)scientific name[:\s]+([A-Z][a-z]+ [a-z]+)`)},
	{Name: "genus ending us", Pattern: regexp.MustCompile(`\b([A-Z][a-z]+us\s+[a-z]+)\b`)},
	{Name: "genus ending a", Pattern: regexp.MustCompile(`\b([A-Z][a-z]+a\s+[a-z]+)\b`)},
	{Name: "genus ending is", Pattern: regexp.MustCompile(`\b([A-Z][a-z]+is\s+[a-z]+)\b`)},
}

// ExtractLatinName returns the first rule match that is a valid binomial, lower-cased.
// Only the first match of each rule is considered.
func ExtractLatinName(text string, rules []ExtractionRule) (string, bool) {
	for _, rule := range rules {
		match := rule.Pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		candidate := strings.Join(strings.Fields(match[1]), " ")
		if taxon.IsValidLatinName(candidate) {
			return strings.ToLower(candidate), true
		}
	}
	return "", false
}

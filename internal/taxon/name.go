// Package taxon holds the resolved-name type and the Latin binomial predicates shared by every lookup source.
package taxon

import (
	"regexp"
	"strings"
)

var (
	binomialPattern = regexp.MustCompile(`(?i)^[a-z]+ [a-z]+$`)
	// Capital genus followed by a lowercase epithet, as typed by a user who means a scientific name.
	latinShapePattern = regexp.MustCompile(`^[A-Z][a-z]+ [a-z]+`)
)

// Name is a resolved species name. An empty field means the source did not know it.
type Name struct {
	Swedish string `json:"swedish_name,omitempty" yaml:"swedish_name,omitempty"`
	Latin   string `json:"latin_name,omitempty" yaml:"latin_name,omitempty"`
}

// NewName lower-cases both names.
func NewName(swedish, latin string) Name {
	return Name{
		Swedish: strings.ToLower(strings.TrimSpace(swedish)),
		Latin:   strings.ToLower(strings.TrimSpace(latin)),
	}
}

func (n Name) Empty() bool {
	return n.Swedish == "" && n.Latin == ""
}

// IsValidLatinName reports whether candidate is a two-word binomial such as "Cygnus olor".
// Names containing å, ä or ö are Swedish text and are always rejected.
func IsValidLatinName(candidate string) bool {
	if strings.ContainsAny(strings.ToLower(candidate), "åäö") {
		return false
	}
	return binomialPattern.MatchString(strings.TrimSpace(candidate))
}

// LooksLatin reports whether a free-text search term was probably typed as a scientific name.
func LooksLatin(term string) bool {
	return latinShapePattern.MatchString(strings.TrimSpace(term))
}

// EqualLatin compares two scientific names ignoring case and surrounding space.
func EqualLatin(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

package taxon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLatinName(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{name: "capitalized binomial", candidate: "Cygnus olor", want: true},
		{name: "lowercase binomial", candidate: "cygnus olor", want: true},
		{name: "surrounding whitespace is trimmed", candidate: "  Sula nebouxii ", want: true},
		{name: "single word", candidate: "Cygnus", want: false},
		{name: "three words", candidate: "Motacilla alba yarrellii", want: false},
		{name: "swedish å", candidate: "Blåfotad sula", want: false},
		{name: "swedish ä", candidate: "Sädes ärla", want: false},
		{name: "swedish ö", candidate: "Knöl svan", want: false},
		{name: "uppercase swedish letter", candidate: "Ödes fågel", want: false},
		{name: "double space", candidate: "Cygnus  olor", want: false},
		{name: "digits", candidate: "Cygnus olor2", want: false},
		{name: "empty", candidate: "", want: false},
		{name: "hyphenated epithet", candidate: "Anser anser-domesticus", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidLatinName(tt.candidate))
		})
	}
}

func TestIsValidLatinName_RejectsSwedishLetters(t *testing.T) {
	for _, letter := range []string{"å", "ä", "ö", "Å", "Ä", "Ö"} {
		for _, candidate := range []string{
			"Cygnus ol" + letter + "r",
			letter + "nser anser",
			"Parus maj" + letter,
		} {
			assert.False(t, IsValidLatinName(candidate), candidate)
		}
	}
}

func TestLooksLatin(t *testing.T) {
	tests := []struct {
		name string
		term string
		want bool
	}{
		{name: "scientific name", term: "Sula nebouxii", want: true},
		{name: "trinomial still looks latin", term: "Motacilla alba yarrellii", want: true},
		{name: "lowercase genus", term: "sula nebouxii", want: false},
		{name: "swedish name", term: "knölsvan", want: false},
		{name: "capitalized swedish two words", term: "Blåfotad sula", want: false},
		{name: "garbage", term: "xyzzyzzy123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLatin(tt.term))
		})
	}
}

func TestName(t *testing.T) {
	n := NewName(" Blåfotad sula ", "Sula Nebouxii")
	assert.Equal(t, Name{Swedish: "blåfotad sula", Latin: "sula nebouxii"}, n)
	assert.False(t, n.Empty())
	assert.True(t, Name{}.Empty())
	assert.True(t, EqualLatin("Sula nebouxii", "sula NEBOUXII "))
}

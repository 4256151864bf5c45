package wikidata

import (
	"encoding/json"
)

// Properties read from taxon items.
const (
	PropertyTaxonName = "P225"
	PropertyImage     = "P18"
)

type searchResponse struct {
	Search []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"search"`
}

type entitiesResponse struct {
	Entities map[string]Entity `json:"entities"`
}

// Entity is the subset of a wbgetentities item used for species resolution.
type Entity struct {
	ID        string              `json:"id"`
	Missing   *string             `json:"missing,omitempty"`
	Labels    map[string]Label    `json:"labels"`
	Claims    map[string][]Claim  `json:"claims"`
	Sitelinks map[string]Sitelink `json:"sitelinks"`
}

type Label struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type Sitelink struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

type Claim struct {
	Mainsnak struct {
		Datavalue struct {
			// Value is a string for P225 and P18 and an object for most other properties.
			Value json.RawMessage `json:"value"`
			Type  string          `json:"type"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

// StringClaim returns the first value of property when it is a string.
func (e Entity) StringClaim(property string) string {
	claims := e.Claims[property]
	if len(claims) == 0 {
		return ""
	}
	var value string
	if err := json.Unmarshal(claims[0].Mainsnak.Datavalue.Value, &value); err != nil {
		return ""
	}
	return value
}

// TaxonName is the P225 scientific name exactly as recorded.
func (e Entity) TaxonName() string {
	return e.StringClaim(PropertyTaxonName)
}

// ImageFile is the P18 Commons file name, without the "File:" prefix.
func (e Entity) ImageFile() string {
	return e.StringClaim(PropertyImage)
}

func (e Entity) Label(language string) string {
	return e.Labels[language].Value
}

// SitelinkTitle returns the article title on site, e.g. "svwiki".
func (e Entity) SitelinkTitle(site string) string {
	return e.Sitelinks[site].Title
}

// Package wikidata resolves species names through the Wikidata knowledge graph.
package wikidata

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

const (
	DefaultBaseURL = "https://www.wikidata.org"
	apiPath        = "/w/api.php"

	freeTextSearchLimit  = 5
	latinNameSearchLimit = 10
)

// Getter is the part of fetch.Fetcher used by the client.
type Getter interface {
	GetJSON(ctx context.Context, path string, params url.Values, out any) error
}

type Client struct {
	getter Getter
}

func NewClient(getter Getter) *Client {
	return &Client{getter: getter}
}

// Search returns entity IDs for term in ranked order.
func (c *Client) Search(ctx context.Context, term, language string, limit int) ([]string, error) {
	var response searchResponse
	if err := c.getter.GetJSON(ctx, apiPath, url.Values{
		"action":   {"wbsearchentities"},
		"search":   {term},
		"language": {language},
		"uselang":  {language},
		"type":     {"item"},
		"limit":    {strconv.Itoa(limit)},
	}, &response); err != nil {
		return nil, fmt.Errorf("wbsearchentities(%s) > %w", term, err)
	}

	ids := make([]string, 0, len(response.Search))
	for _, hit := range response.Search {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Entity fetches one entity. It returns nil when the ID is unknown.
func (c *Client) Entity(ctx context.Context, id, props, languages string) (*Entity, error) {
	params := url.Values{
		"action": {"wbgetentities"},
		"ids":    {id},
		"props":  {props},
	}
	if languages != "" {
		params.Set("languages", languages)
	}

	var response entitiesResponse
	if err := c.getter.GetJSON(ctx, apiPath, params, &response); err != nil {
		return nil, fmt.Errorf("wbgetentities(%s) > %w", id, err)
	}
	entity, ok := response.Entities[id]
	if !ok || entity.Missing != nil {
		return nil, nil
	}
	return &entity, nil
}

// Names reads the scientific name and the Swedish label of an entity.
// The scientific name is only kept when it is a valid binomial.
func (c *Client) Names(ctx context.Context, id string) (taxon.Name, bool, error) {
	entity, err := c.Entity(ctx, id, "claims|labels", "sv")
	if err != nil {
		return taxon.Name{}, false, err
	}
	if entity == nil {
		return taxon.Name{}, false, nil
	}

	var latin string
	if name := entity.TaxonName(); taxon.IsValidLatinName(name) {
		latin = name
	}
	result := taxon.NewName(entity.Label("sv"), latin)
	return result, !result.Empty(), nil
}

// SwedishNameWithLatinCheck returns the Swedish label of an entity only when its scientific name
// equals expectedLatin, ignoring case.
func (c *Client) SwedishNameWithLatinCheck(ctx context.Context, id, expectedLatin string) (taxon.Name, bool, error) {
	entity, err := c.Entity(ctx, id, "claims|labels", "sv|en")
	if err != nil {
		return taxon.Name{}, false, err
	}
	if entity == nil {
		return taxon.Name{}, false, nil
	}

	actual := entity.TaxonName()
	if actual == "" || !taxon.EqualLatin(actual, expectedLatin) {
		return taxon.Name{}, false, nil
	}
	swedish := entity.Label("sv")
	if swedish == "" {
		return taxon.Name{}, false, nil
	}
	return taxon.NewName(swedish, actual), true, nil
}

// SearchByLatinName searches for a scientific name and returns the first ranked entity whose
// scientific name matches it and which has a Swedish label.
func (c *Client) SearchByLatinName(ctx context.Context, latin string) (taxon.Name, bool, error) {
	ids, err := c.Search(ctx, latin, "en", latinNameSearchLimit)
	if err != nil {
		return taxon.Name{}, false, err
	}

	for _, id := range ids {
		name, ok, err := c.SwedishNameWithLatinCheck(ctx, id, latin)
		if err != nil {
			slog.Default().Debug("skipping wikidata candidate",
				"id", id,
				"latin", latin,
				"error", err,
			)
			continue
		}
		if ok {
			return name, true, nil
		}
	}
	return taxon.Name{}, false, nil
}

// SearchAndFetch searches free text in Swedish and reads the names of the top hit.
func (c *Client) SearchAndFetch(ctx context.Context, term string) (taxon.Name, bool, error) {
	ids, err := c.Search(ctx, term, "sv", freeTextSearchLimit)
	if err != nil {
		return taxon.Name{}, false, err
	}
	if len(ids) == 0 {
		return taxon.Name{}, false, nil
	}
	return c.Names(ctx, ids[0])
}

// MediaEntity fetches the claims and sitelinks of an entity, or nil when the ID is unknown.
func (c *Client) MediaEntity(ctx context.Context, id string) (*Entity, error) {
	return c.Entity(ctx, id, "claims|sitelinks", "")
}

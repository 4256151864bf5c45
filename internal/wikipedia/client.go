// Package wikipedia resolves species names by searching Wikipedia articles.
package wikipedia

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/at-ishikawa/birdlog/internal/taxon"
)

const (
	apiPath = "/w/api.php"

	searchLimit         = 5
	langLinkSearchLimit = 3
)

// BaseURL returns the API host of the Wikipedia edition for language.
func BaseURL(language string) string {
	return fmt.Sprintf("https://%s.wikipedia.org", language)
}

// ArticleURL builds the article link for title. Spaces become underscores and nothing else is escaped.
func ArticleURL(language, title string) string {
	return BaseURL(language) + "/wiki/" + strings.ReplaceAll(title, " ", "_")
}

type Getter interface {
	GetJSON(ctx context.Context, path string, params url.Values, out any) error
}

// EntityNames reads names from a linked Wikidata item.
type EntityNames interface {
	Names(ctx context.Context, id string) (taxon.Name, bool, error)
}

type Client struct {
	language string
	getter   Getter
	entities EntityNames
	rules    []ExtractionRule
}

type Option func(*Client)

// WithRules replaces DefaultRules.
func WithRules(rules []ExtractionRule) Option {
	return func(c *Client) {
		c.rules = rules
	}
}

// NewClient creates a client for one language edition. entities may be nil, in which case only
// text extraction is used.
func NewClient(language string, getter Getter, entities EntityNames, opts ...Option) *Client {
	c := &Client{
		language: language,
		getter:   getter,
		entities: entities,
		rules:    DefaultRules,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Language() string {
	return c.language
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title  string `json:"title"`
			PageID int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

type pagesResponse struct {
	Query struct {
		Pages map[string]page `json:"pages"`
	} `json:"query"`
}

type page struct {
	Title     string  `json:"title"`
	Missing   *string `json:"missing,omitempty"`
	Extract   string  `json:"extract"`
	PageProps struct {
		WikibaseItem string `json:"wikibase_item"`
	} `json:"pageprops"`
	LangLinks []struct {
		Lang  string `json:"lang"`
		Title string `json:"*"`
	} `json:"langlinks"`
}

// Search returns matching article titles in ranked order.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]string, error) {
	var response searchResponse
	if err := c.getter.GetJSON(ctx, apiPath, url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {term},
		"srlimit":  {strconv.Itoa(limit)},
	}, &response); err != nil {
		return nil, fmt.Errorf("%swiki search(%s) > %w", c.language, term, err)
	}

	titles := make([]string, 0, len(response.Query.Search))
	for _, hit := range response.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

// queryPage returns the single page of a titles= query, or nil when the title does not exist.
func (c *Client) queryPage(ctx context.Context, title string, params url.Values) (*page, error) {
	params.Set("action", "query")
	params.Set("titles", title)

	var response pagesResponse
	if err := c.getter.GetJSON(ctx, apiPath, params, &response); err != nil {
		return nil, fmt.Errorf("%swiki query(%s, %s) > %w", c.language, title, params.Get("prop"), err)
	}
	for _, p := range response.Query.Pages {
		if p.Missing != nil {
			return nil, nil
		}
		return &p, nil
	}
	return nil, nil
}

// Extract returns the plain-text introduction of an article.
func (c *Client) Extract(ctx context.Context, title string) (string, error) {
	p, err := c.queryPage(ctx, title, url.Values{
		"prop":        {"extracts"},
		"exintro":     {"true"},
		"explaintext": {"true"},
	})
	if err != nil || p == nil {
		return "", err
	}
	return p.Extract, nil
}

// WikibaseItem returns the Wikidata ID linked to an article, or "".
func (c *Client) WikibaseItem(ctx context.Context, title string) (string, error) {
	p, err := c.queryPage(ctx, title, url.Values{
		"prop":   {"pageprops"},
		"ppprop": {"wikibase_item"},
	})
	if err != nil || p == nil {
		return "", err
	}
	return p.PageProps.WikibaseItem, nil
}

// LangLink returns the title of the same article in another language edition, or "".
func (c *Client) LangLink(ctx context.Context, title, language string) (string, error) {
	p, err := c.queryPage(ctx, title, url.Values{
		"prop":   {"langlinks"},
		"lllang": {language},
	})
	if err != nil || p == nil {
		return "", err
	}
	for _, link := range p.LangLinks {
		if link.Title != "" {
			return link.Title, nil
		}
	}
	return "", nil
}

// SearchAndExtractLatinName finds the article for term and reads its scientific name,
// first from the linked Wikidata item and then from the introduction text.
// The text fallback only yields a Latin name.
func (c *Client) SearchAndExtractLatinName(ctx context.Context, term string) (taxon.Name, bool, error) {
	titles, err := c.Search(ctx, term, searchLimit)
	if err != nil {
		return taxon.Name{}, false, err
	}
	if len(titles) == 0 {
		return taxon.Name{}, false, nil
	}

	title := titles[0]
	for _, t := range titles {
		if strings.EqualFold(t, term) {
			title = t
			break
		}
	}

	if name, ok := c.linkedEntityNames(ctx, title); ok {
		return name, true, nil
	}

	extract, err := c.Extract(ctx, title)
	if err != nil {
		return taxon.Name{}, false, err
	}
	latin, ok := ExtractLatinName(extract, c.rules)
	if !ok {
		return taxon.Name{}, false, nil
	}
	return taxon.Name{Latin: latin}, true, nil
}

// linkedEntityNames is best effort: any failure falls through to text extraction.
func (c *Client) linkedEntityNames(ctx context.Context, title string) (taxon.Name, bool) {
	if c.entities == nil {
		return taxon.Name{}, false
	}

	id, err := c.WikibaseItem(ctx, title)
	if err != nil {
		slog.Default().Debug("failed to read the wikibase item",
			"language", c.language,
			"title", title,
			"error", err,
		)
		return taxon.Name{}, false
	}
	if id == "" {
		return taxon.Name{}, false
	}

	name, ok, err := c.entities.Names(ctx, id)
	if err != nil {
		slog.Default().Debug("failed to read the linked wikidata entity",
			"language", c.language,
			"title", title,
			"id", id,
			"error", err,
		)
		return taxon.Name{}, false
	}
	if !ok || name.Latin == "" {
		return taxon.Name{}, false
	}
	return name, true
}

// SearchByLatinNameForSwedishLabel searches this edition for latin and accepts the first article whose
// introduction mentions it. The article title becomes the Swedish name.
func (c *Client) SearchByLatinNameForSwedishLabel(ctx context.Context, latin string) (taxon.Name, bool, error) {
	titles, err := c.Search(ctx, latin, searchLimit)
	if err != nil {
		return taxon.Name{}, false, err
	}

	needle := strings.ToLower(latin)
	for _, title := range titles {
		extract, err := c.Extract(ctx, title)
		if err != nil {
			slog.Default().Debug("skipping wikipedia candidate",
				"language", c.language,
				"title", title,
				"error", err,
			)
			continue
		}
		if strings.Contains(strings.ToLower(extract), needle) {
			return taxon.NewName(title, latin), true, nil
		}
	}
	return taxon.Name{}, false, nil
}

// SearchThenFollowLangLink takes the top article for latin in this edition and returns the title of its
// link to the target language edition as the Swedish name. The link is not verified.
func (c *Client) SearchThenFollowLangLink(ctx context.Context, latin, language string) (taxon.Name, bool, error) {
	titles, err := c.Search(ctx, latin, langLinkSearchLimit)
	if err != nil {
		return taxon.Name{}, false, err
	}
	if len(titles) == 0 {
		return taxon.Name{}, false, nil
	}

	linked, err := c.LangLink(ctx, titles[0], language)
	if err != nil {
		return taxon.Name{}, false, err
	}
	if linked == "" {
		return taxon.Name{}, false, nil
	}
	return taxon.NewName(linked, latin), true, nil
}

// Package commons resolves Wikimedia Commons file names to thumbnail URLs.
package commons

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://commons.wikimedia.org"
	apiPath        = "/w/api.php"
)

type Getter interface {
	GetJSON(ctx context.Context, path string, params url.Values, out any) error
}

type Client struct {
	getter Getter
}

func NewClient(getter Getter) *Client {
	return &Client{getter: getter}
}

type imageInfoResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			ImageInfo []struct {
				URL      string `json:"url"`
				ThumbURL string `json:"thumburl"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// ThumbnailURL returns the URL of fileName scaled to width pixels, or "" when Commons has no such file.
func (c *Client) ThumbnailURL(ctx context.Context, fileName string, width int) (string, error) {
	title := fileName
	if !strings.HasPrefix(title, "File:") {
		title = "File:" + title
	}

	var response imageInfoResponse
	if err := c.getter.GetJSON(ctx, apiPath, url.Values{
		"action":     {"query"},
		"titles":     {title},
		"prop":       {"imageinfo"},
		"iiprop":     {"url"},
		"iiurlwidth": {strconv.Itoa(width)},
	}, &response); err != nil {
		return "", fmt.Errorf("imageinfo(%s, %d) > %w", title, width, err)
	}

	for _, page := range response.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		return page.ImageInfo[0].ThumbURL, nil
	}
	return "", nil
}

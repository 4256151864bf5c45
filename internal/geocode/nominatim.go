// Package geocode turns place names into coordinates and back using OpenStreetMap Nominatim.
package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/at-ishikawa/birdlog/internal/species"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	searchLimit    = 5
)

type Place struct {
	ID          int64  `json:"place_id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Lat         string `json:"lat" yaml:"lat"`
	Lon         string `json:"lon" yaml:"lon"`
}

// Location converts a search hit to an observation location named by the first two parts of its display name.
func (p Place) Location() (species.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return species.Location{}, fmt.Errorf("strconv.ParseFloat(lat=%q) > %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return species.Location{}, fmt.Errorf("strconv.ParseFloat(lon=%q) > %w", p.Lon, err)
	}

	parts := strings.Split(p.DisplayName, ",")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return species.Location{
		Lat:  lat,
		Lng:  lng,
		Name: strings.Join(parts, ","),
	}, nil
}

type address struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Country      string `json:"country"`
}

type reverseResponse struct {
	Address *address `json:"address"`
}

// placeName is "<city|town|village|municipality>, <country>" with absent parts left out.
func (a address) placeName() string {
	var parts []string
	for _, locality := range []string{a.City, a.Town, a.Village, a.Municipality} {
		if locality != "" {
			parts = append(parts, locality)
			break
		}
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
	Reverse(ctx context.Context, lat, lng float64) (species.Location, error)
}

type Getter interface {
	GetJSON(ctx context.Context, path string, params url.Values, out any) error
}

// Nominatim implements Geocoder. The getter must pace requests to at most one per second.
type Nominatim struct {
	getter Getter
}

var _ Geocoder = (*Nominatim)(nil)

func NewNominatim(getter Getter) *Nominatim {
	return &Nominatim{getter: getter}
}

// Search returns at most five places matching query. A blank query returns nothing without a request.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(searchLimit))

	var places []Place
	if err := n.getter.GetJSON(ctx, "/search", params, &places); err != nil {
		return nil, fmt.Errorf("GetJSON(search %q) > %w", query, err)
	}
	return places, nil
}

// Reverse returns the coordinates with a place name. The name is empty when Nominatim knows no address there.
func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (species.Location, error) {
	location := species.Location{Lat: lat, Lng: lng}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")

	var resp reverseResponse
	if err := n.getter.GetJSON(ctx, "/reverse", params, &resp); err != nil {
		return location, fmt.Errorf("GetJSON(reverse %v,%v) > %w", lat, lng, err)
	}
	if resp.Address != nil {
		location.Name = resp.Address.placeName()
	}
	return location, nil
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// VenueLinkKind tags the variant of a VenueLink.
type VenueLinkKind string

// VenueLinkMaps is a link to a maps provider.
const VenueLinkMaps VenueLinkKind = "maps"

// VenueLink points to an external page describing where an event happens.
// Build one with NewMapsLink; decoding goes through the same validation.
type VenueLink struct {
	Kind  VenueLinkKind `json:"kind"`
	Title string        `json:"title"`
	URI   string        `json:"uri"`
}

// NewMapsLink returns a validated maps link.
func NewMapsLink(title, uri string) (VenueLink, error) {
	l := VenueLink{Kind: VenueLinkMaps, Title: strings.TrimSpace(title), URI: strings.TrimSpace(uri)}
	if err := l.Validate(); err != nil {
		return VenueLink{}, err
	}
	return l, nil
}

// Validate checks the link fields.
func (l VenueLink) Validate() error {
	return validation.ValidateStruct(
		&l,
		validation.Field(&l.Kind, validation.Required, validation.In(VenueLinkMaps)),
		validation.Field(&l.Title, validation.Required),
		validation.Field(&l.URI, validation.Required, validation.By(absoluteHTTPURL)),
	)
}

// UnmarshalJSON rejects links that NewMapsLink would not build.
func (l *VenueLink) UnmarshalJSON(data []byte) error {
	type raw VenueLink
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	built, err := NewMapsLink(r.Title, r.URI)
	if err != nil {
		return fmt.Errorf("venue link: %w", err)
	}
	if r.Kind != "" && r.Kind != VenueLinkMaps {
		return fmt.Errorf("venue link: unsupported kind %q", r.Kind)
	}
	*l = built
	return nil
}

func absoluteHTTPURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// Venue is a known campus location.
type Venue struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CampusVenues is the catalog of campus locations offered to organisers.
var CampusVenues = []Venue{
	{Name: "Melodium", URL: "https://maps.app.goo.gl/86dPd4cHdM59ijaH9"},
	{Name: "Basketball Court", URL: "https://maps.app.goo.gl/yKnBYdnHMVTd7VUN6"},
	{Name: "Canteen", URL: "https://maps.app.goo.gl/AKqmYziry2dJ3KeHA"},
	{Name: "Aero Club", URL: "https://maps.app.goo.gl/mw5YrRakUSNDGt529"},
	{Name: "Arena SJEC", URL: "https://maps.app.goo.gl/2kfAvdwgE5hut2Eo7"},
	{Name: "College Ground", URL: "https://maps.app.goo.gl/pqqqYPoMmEReivDx8"},
}

// VenueLinksFor returns the maps link of a catalog venue, or nil when the
// location is not in the catalog.
func VenueLinksFor(location string) []VenueLink {
	for _, v := range CampusVenues {
		if strings.EqualFold(v.Name, strings.TrimSpace(location)) {
			link, err := NewMapsLink(v.Name, v.URL)
			if err != nil {
				return nil
			}
			return []VenueLink{link}
		}
	}
	return nil
}

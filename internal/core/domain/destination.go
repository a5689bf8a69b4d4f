package domain

import "strings"

// CategoryAll is the catalog filter value that disables category filtering.
const CategoryAll = "Semua"

// Categories lists the regions a destination can be filed under.
var Categories = []string{
	"Asia Tenggara",
	"Asia Timur",
	"Asia Selatan",
	"Asia Tengah",
	"Asia Barat",
	"Asia Utara",
}

// IsCategory reports whether c names a known region.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// Highlight is a secondary attraction shown on a destination's detail page.
type Highlight struct {
	Place       string `json:"place" bson:"place"`
	ImageURL    string `json:"image_url" bson:"image_url"`
	Description string `json:"description" bson:"description"`
}

// Destination is a catalog entry for a country and its headline place.
type Destination struct {
	ID          string      `json:"id"`
	Country     string      `json:"country"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url"`
	Category    string      `json:"category"`
	Link        string      `json:"link,omitempty"`
	Highlights  []Highlight `json:"highlights,omitempty"`
}

// Summary returns the description cut to maxLen runes with an ellipsis.
func (d *Destination) Summary(maxLen int) string {
	r := []rune(d.Description)
	if maxLen <= 0 || len(r) <= maxLen {
		return d.Description
	}
	return strings.TrimSpace(string(r[:maxLen])) + "..."
}

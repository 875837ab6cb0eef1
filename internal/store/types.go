package store

import "time"

// SignItem represents a single sign record from the upstream open-data feed.
// The feed serializes everything as strings; the provider fills the parsed
// fields before handing items to the store.
type SignItem struct {
	ObjectID    string `json:"objectid"`
	Borough     string `json:"boro"`
	Street      string `json:"main_st"`
	FromStreet  string `json:"from_st"`
	ToStreet    string `json:"to_st"`
	Side        string `json:"sos"`
	Description string `json:"sign_description"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`

	ID        int64     `json:"-"`
	Lat       float64   `json:"-"`
	Lon       float64   `json:"-"`
	Resolved  bool      `json:"-"` // coordinates and ID parsed successfully
	FetchedAt time.Time `json:"-"`
}

// Stats summarizes the stored sign corpus.
type Stats struct {
	TotalSigns int64            `json:"total_signs"`
	ByBorough  map[string]int64 `json:"by_borough"`
	Coverage   *CoverageBounds  `json:"coverage_area,omitempty"`
}

// CoverageBounds is the geographic extent of the stored signs.
type CoverageBounds struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

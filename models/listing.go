package models

import (
	"strings"
	"time"
)

// Price is the asking price of a project. Currency is informational only;
// scoring compares raw values.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency,omitempty"`
}

// DeliveryTrackRecord summarises how reliably a developer hands over on time.
type DeliveryTrackRecord struct {
	OnTime float64 `json:"onTime"`
}

// Developer is the developer summary attached to a project.
type Developer struct {
	Rating              float64             `json:"rating"`
	DeliveryTrackRecord DeliveryTrackRecord `json:"deliveryTrackRecord"`
}

// Completion is the expected handover quarter of a project.
type Completion struct {
	Quarter string `json:"quarter,omitempty"`
	Year    int    `json:"year,omitempty"`
}

// Listing is an immutable snapshot of a project record as handed over by the
// persistence layer. Pointer fields are optional: nil means the value is
// absent, which is distinct from zero.
type Listing struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name,omitempty"`
	Price       *Price      `json:"price,omitempty"`
	ROI         *float64    `json:"roi,omitempty"`
	RentalYield *float64    `json:"rentalYield,omitempty"`
	PriceGrowth *float64    `json:"priceGrowth,omitempty"`
	Location    string      `json:"location"`
	Category    []string    `json:"category"`
	Amenities   []string    `json:"amenities"`
	Developer   *Developer  `json:"developer,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
	Completion  *Completion `json:"completion,omitempty"`
}

// PrimaryType returns the first category tag, or "" when there is none.
func (l *Listing) PrimaryType() string {
	if len(l.Category) == 0 {
		return ""
	}
	return l.Category[0]
}

// HasAmenity reports whether the listing carries the given amenity,
// ignoring case.
func (l *Listing) HasAmenity(amenity string) bool {
	for _, a := range l.Amenities {
		if strings.EqualFold(a, amenity) {
			return true
		}
	}
	return false
}

// Float returns a pointer to v. Handy for building optional fields.
func Float(v float64) *float64 { return &v }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }

package domain

import "time"

// Known source identifiers. Every normalized record carries exactly one of these.
const (
	Source1 = "source1"
	Source2 = "source2"
)

// Price segments supplied by source2 only.
const (
	SegmentHigh   = "high"
	SegmentMedium = "medium"
	SegmentLow    = "low"
)

// Property is the canonical record both source formats normalize into.
// The source-provided id is kept as its own field; the store assigns its
// own document key, so duplicate ids across (or within) sources survive
// as separate documents.
type Property struct {
	ID            string    `bson:"id" json:"id"`
	Name          *string   `bson:"name,omitempty" json:"name,omitempty"`
	City          string    `bson:"city" json:"city"`
	Country       *string   `bson:"country,omitempty" json:"country,omitempty"`
	IsAvailable   bool      `bson:"isAvailable" json:"isAvailable"`
	PricePerNight float64   `bson:"pricePerNight" json:"pricePerNight"`
	PriceSegment  *string   `bson:"priceSegment,omitempty" json:"priceSegment,omitempty"`
	Source        string    `bson:"source" json:"source"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PropertyFilter carries the optional query dimensions. A nil field imposes
// no constraint, which is why zero-valued bounds (minPrice=0) stay meaningful.
type PropertyFilter struct {
	City         *string
	Country      *string
	IsAvailable  *bool
	MinPrice     *float64
	MaxPrice     *float64
	PriceSegment *string
	Source       *string
}

// PropertyPage is one page slice plus the unpaginated match count.
type PropertyPage struct {
	Data  []Property `json:"data"`
	Total int64      `json:"total"`
}

package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ElmaP103/buenro/internal/domain"
)

// BuildFilter translates the optional-filter object into a store query.
// Absent fields impose no constraint. Text dimensions match case-insensitive
// substrings (input quoted, so "c.a" matches the literal characters), price
// bounds form a closed range, and the rest match exactly.
func BuildFilter(f domain.PropertyFilter) bson.M {
	q := bson.M{}

	if f.City != nil {
		q["city"] = primitive.Regex{Pattern: regexp.QuoteMeta(*f.City), Options: "i"}
	}
	if f.Country != nil {
		q["country"] = primitive.Regex{Pattern: regexp.QuoteMeta(*f.Country), Options: "i"}
	}
	if f.IsAvailable != nil {
		q["isAvailable"] = *f.IsAvailable
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		q["pricePerNight"] = price
	}
	if f.PriceSegment != nil {
		q["priceSegment"] = *f.PriceSegment
	}
	if f.Source != nil {
		q["source"] = *f.Source
	}
	return q
}

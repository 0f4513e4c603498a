package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ElmaP103/buenro/internal/domain"
)

// The two normalizers are pure per-record mappings into the canonical shape.
// Classification happens before they run (the orchestrator dispatches by
// configured key); they only validate structure, never guess formats.

// NormalizeSource1 maps a format-1 record: nested address object,
// priceForNight field, isAvailable boolean, no price segment.
func NormalizeSource1(rec map[string]any) (domain.Property, error) {
	if rec == nil {
		return domain.Property{}, fmt.Errorf("%w: record is null", domain.ErrMalformedRecord)
	}
	id, ok := recordID(rec["id"])
	if !ok {
		return domain.Property{}, fmt.Errorf("%w: missing id", domain.ErrMalformedRecord)
	}
	addr, ok := rec["address"].(map[string]any)
	if !ok {
		return domain.Property{}, fmt.Errorf("%w: %s missing address object", domain.ErrMalformedRecord, id)
	}
	city, ok := addr["city"].(string)
	if !ok || city == "" {
		return domain.Property{}, fmt.Errorf("%w: %s missing address.city", domain.ErrMalformedRecord, id)
	}
	avail, ok := rec["isAvailable"].(bool)
	if !ok {
		return domain.Property{}, fmt.Errorf("%w: %s missing isAvailable", domain.ErrMalformedRecord, id)
	}
	price, err := coercePrice(id, rec["priceForNight"])
	if err != nil {
		return domain.Property{}, err
	}
	p := domain.Property{
		ID:            id,
		City:          city,
		IsAvailable:   avail,
		PricePerNight: price,
		Source:        domain.Source1,
	}
	if name, ok := rec["name"].(string); ok && name != "" {
		p.Name = &name
	}
	if country, ok := addr["country"].(string); ok && country != "" {
		p.Country = &country
	}
	return p, nil
}

// NormalizeSource2 maps a format-2 record: flat city, pricePerNight field,
// availability boolean, optional priceSegment.
func NormalizeSource2(rec map[string]any) (domain.Property, error) {
	if rec == nil {
		return domain.Property{}, fmt.Errorf("%w: record is null", domain.ErrMalformedRecord)
	}
	id, ok := recordID(rec["id"])
	if !ok {
		return domain.Property{}, fmt.Errorf("%w: missing id", domain.ErrMalformedRecord)
	}
	city, ok := rec["city"].(string)
	if !ok || city == "" {
		return domain.Property{}, fmt.Errorf("%w: %s missing city", domain.ErrMalformedRecord, id)
	}
	avail, ok := rec["availability"].(bool)
	if !ok {
		return domain.Property{}, fmt.Errorf("%w: %s missing availability", domain.ErrMalformedRecord, id)
	}
	price, err := coercePrice(id, rec["pricePerNight"])
	if err != nil {
		return domain.Property{}, err
	}
	p := domain.Property{
		ID:            id,
		City:          city,
		IsAvailable:   avail,
		PricePerNight: price,
		Source:        domain.Source2,
	}
	if seg, ok := rec["priceSegment"].(string); ok && seg != "" {
		p.PriceSegment = &seg
	}
	return p, nil
}

// NormalizeAll gates one source payload: the body must be a JSON array of
// objects, each of which goes through fn.
func NormalizeAll(raw any, fn func(map[string]any) (domain.Property, error)) ([]domain.Property, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", domain.ErrSourceShape, raw)
	}
	out := make([]domain.Property, 0, len(arr))
	for i, item := range arr {
		rec, _ := item.(map[string]any)
		p, err := fn(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// DetectSource classifies a record by field presence. Dispatch is key-based;
// this exists for diagnostics on payloads that arrive without provenance.
func DetectSource(rec map[string]any) (string, error) {
	if _, hasAddr := rec["address"]; hasAddr {
		if _, hasPrice := rec["priceForNight"]; hasPrice {
			return domain.Source1, nil
		}
	}
	if _, hasAvail := rec["availability"]; hasAvail {
		if _, hasSeg := rec["priceSegment"]; hasSeg {
			return domain.Source2, nil
		}
	}
	return "", fmt.Errorf("%w: unknown source format", domain.ErrMalformedRecord)
}

// recordID accepts the id as a string or a JSON number; it is never regenerated.
func recordID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	}
	return "", false
}

// coercePrice turns the source's numeric-or-string price into a float64.
// A structurally absent price fails the record; a present but non-numeric
// value becomes NaN and is only logged. Whether NaN should be excluded or
// rejected downstream is still undecided.
func coercePrice(id string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, nil
		}
	case nil:
		return 0, fmt.Errorf("%w: %s missing price", domain.ErrMalformedRecord, id)
	}
	log.Warn().Str("id", id).Interface("price", v).Msg("non-numeric price coerced to NaN")
	return math.NaN(), nil
}

package app_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ElmaP103/buenro/internal/app"
	"github.com/ElmaP103/buenro/internal/domain"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestNormalizeSource1_Valid(t *testing.T) {
	rec := decode(t, `{
		"id": "abc-1",
		"name": "Seaside Flat",
		"address": {"city": "Lisbon", "country": "Portugal"},
		"isAvailable": true,
		"priceForNight": "120.5"
	}`)
	p, err := app.NormalizeSource1(rec)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.ID != "abc-1" || p.City != "Lisbon" || !p.IsAvailable || p.PricePerNight != 120.5 {
		t.Fatalf("unexpected record: %+v", p)
	}
	if p.Source != domain.Source1 {
		t.Fatalf("want source1 tag, got %q", p.Source)
	}
	if p.Name == nil || *p.Name != "Seaside Flat" || p.Country == nil || *p.Country != "Portugal" {
		t.Fatalf("optional fields lost: %+v", p)
	}
	if p.PriceSegment != nil {
		t.Fatalf("format 1 never supplies a price segment")
	}
}

func TestNormalizeSource1_NumericIDAndPrice(t *testing.T) {
	rec := decode(t, `{"id": 1023, "address": {"city": "Oslo"}, "isAvailable": false, "priceForNight": 89}`)
	p, err := app.NormalizeSource1(rec)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.ID != "1023" || p.PricePerNight != 89 || p.IsAvailable {
		t.Fatalf("unexpected record: %+v", p)
	}
	if p.Name != nil || p.Country != nil {
		t.Fatalf("absent optionals must stay absent: %+v", p)
	}
}

func TestNormalizeSource1_MissingAddress(t *testing.T) {
	rec := decode(t, `{"id": "x", "isAvailable": true, "priceForNight": 10}`)
	if _, err := app.NormalizeSource1(rec); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("want ErrMalformedRecord, got %v", err)
	}
}

func TestNormalizeSource1_NullRecord(t *testing.T) {
	if _, err := app.NormalizeSource1(nil); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("want ErrMalformedRecord for null record")
	}
}

func TestNormalizeSource2_Valid(t *testing.T) {
	rec := decode(t, `{
		"id": "z9",
		"city": "Berlin",
		"availability": true,
		"pricePerNight": 200,
		"priceSegment": "high"
	}`)
	p, err := app.NormalizeSource2(rec)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.ID != "z9" || p.City != "Berlin" || !p.IsAvailable || p.PricePerNight != 200 {
		t.Fatalf("unexpected record: %+v", p)
	}
	if p.Source != domain.Source2 {
		t.Fatalf("want source2 tag, got %q", p.Source)
	}
	if p.PriceSegment == nil || *p.PriceSegment != domain.SegmentHigh {
		t.Fatalf("price segment lost: %+v", p)
	}
}

func TestNormalizeSource2_SegmentOptional(t *testing.T) {
	rec := decode(t, `{"id": "z10", "city": "Berlin", "availability": false, "pricePerNight": "42"}`)
	p, err := app.NormalizeSource2(rec)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.PriceSegment != nil || p.PricePerNight != 42 {
		t.Fatalf("unexpected record: %+v", p)
	}
}

func TestNormalizeSource2_MissingAvailability(t *testing.T) {
	rec := decode(t, `{"id": "z", "city": "Rome", "pricePerNight": 10}`)
	if _, err := app.NormalizeSource2(rec); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("want ErrMalformedRecord, got %v", err)
	}
}

func TestCoercePrice_NonNumericBecomesNaN(t *testing.T) {
	rec := decode(t, `{"id": "n1", "city": "Riga", "availability": true, "pricePerNight": "cheap"}`)
	p, err := app.NormalizeSource2(rec)
	if err != nil {
		t.Fatalf("non-numeric price must not fail the record: %v", err)
	}
	if !math.IsNaN(p.PricePerNight) {
		t.Fatalf("want NaN, got %v", p.PricePerNight)
	}
}

func TestCoercePrice_AbsentFails(t *testing.T) {
	rec := decode(t, `{"id": "n2", "city": "Riga", "availability": true}`)
	if _, err := app.NormalizeSource2(rec); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("want ErrMalformedRecord for absent price, got %v", err)
	}
}

func TestNormalizeAll_NonArray(t *testing.T) {
	var raw any
	_ = json.Unmarshal([]byte(`{"not": "an array"}`), &raw)
	if _, err := app.NormalizeAll(raw, app.NormalizeSource1); !errors.Is(err, domain.ErrSourceShape) {
		t.Fatalf("want ErrSourceShape, got %v", err)
	}
}

func TestNormalizeAll_ArrayOfRecords(t *testing.T) {
	var raw any
	_ = json.Unmarshal([]byte(`[
		{"id": "a", "city": "Paris", "availability": true, "pricePerNight": 1},
		{"id": "b", "city": "Paris", "availability": false, "pricePerNight": 2}
	]`), &raw)
	out, err := app.NormalizeAll(raw, app.NormalizeSource2)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestNormalizeAll_BadRecordAbortsSource(t *testing.T) {
	var raw any
	_ = json.Unmarshal([]byte(`[
		{"id": "a", "city": "Paris", "availability": true, "pricePerNight": 1},
		null
	]`), &raw)
	if _, err := app.NormalizeAll(raw, app.NormalizeSource2); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("want ErrMalformedRecord, got %v", err)
	}
}

func TestDetectSource(t *testing.T) {
	s1 := decode(t, `{"address": {"city": "x"}, "priceForNight": 1}`)
	s2 := decode(t, `{"availability": true, "priceSegment": "low"}`)
	unknown := decode(t, `{"city": "x"}`)

	if got, err := app.DetectSource(s1); err != nil || got != domain.Source1 {
		t.Fatalf("source1 detection: %v %v", got, err)
	}
	if got, err := app.DetectSource(s2); err != nil || got != domain.Source2 {
		t.Fatalf("source2 detection: %v %v", got, err)
	}
	if _, err := app.DetectSource(unknown); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

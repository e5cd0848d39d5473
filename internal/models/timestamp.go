package models

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Normalizer turns export timestamps into instants expressed in a single location.
// Text without an explicit offset is read as UTC.
type Normalizer struct {
	location *time.Location
}

func NewNormalizer(location *time.Location) *Normalizer {
	if location == nil {
		location = time.Local
	}
	return &Normalizer{location: location}
}

// NewNormalizerForZone resolves an IANA zone name; an empty name selects the process zone.
func NewNormalizerForZone(zone string) (*Normalizer, error) {
	if zone == "" {
		return NewNormalizer(nil), nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return NewNormalizer(loc), nil
}

func (n *Normalizer) Location() *time.Location {
	return n.location
}

func (n *Normalizer) Normalize(raw string) (time.Time, error) {
	return n.NormalizeField("timestamp", raw)
}

// NormalizeField is Normalize with the source field name carried into the ParseError.
func (n *Normalizer) NormalizeField(field, raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, &ParseError{Field: field, Value: raw, Err: errors.New("empty timestamp")}
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: raw, Err: err}
	}
	return t.In(n.location), nil
}

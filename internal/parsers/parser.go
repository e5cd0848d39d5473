// Package parsers turns raw export loads into filtered record collections and the
// calendar views built on top of them. Every view is computed once per parser and then
// served from memory; build a new parser to apply a different filter.
package parsers

import (
	"sync"
	"time"

	"lifestats/internal/models"
	"lifestats/internal/providers"
	"lifestats/internal/structures"
)

const secondsInDay = 86400

type base struct {
	filter     structures.Filter
	normalizer *models.Normalizer
	logger     providers.Logger
}

func newBase(filter structures.Filter, normalizer *models.Normalizer, logger providers.Logger) base {
	if normalizer == nil {
		normalizer = models.NewNormalizer(nil)
	}
	return base{filter: filter, normalizer: normalizer, logger: logger}
}

func (b base) Filter() structures.Filter {
	return b.filter
}

func (b base) inYear(t time.Time) bool {
	return !b.filter.HasYear() || t.Year() == b.filter.Year
}

func (b base) debugf(format string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Debugf(providers.TypeLoad, format, args...)
	}
}

// memo returns a view of source that derive computes on first use and then keeps.
func memo[S, T any](source func() (S, error), derive func(S) T) func() (T, error) {
	return sync.OnceValues(func() (T, error) {
		s, err := source()
		if err != nil {
			var zero T
			return zero, err
		}
		return derive(s), nil
	})
}

func selectWhere[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

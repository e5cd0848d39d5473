package parsers

import (
	"testing"
	"time"

	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/testutil"
)

// countingDecoder counts Decode calls to observe memoization.
type countingDecoder struct {
	loaders.DecoderInterface
	calls int
}

func (c *countingDecoder) Decode(v any) error {
	c.calls++
	return c.DecoderInterface.Decode(v)
}

func utc() *models.Normalizer {
	return models.NewNormalizer(time.UTC)
}

func jsonFixture(t *testing.T, name, content string) loaders.DecoderInterface {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, name, content)
	return loaders.NewJsonLoader(loaders.NewRoot(dir, nil), name)
}

func bucketTotal[T any](buckets [][]T) int {
	n := 0
	for _, b := range buckets {
		n += len(b)
	}
	return n
}

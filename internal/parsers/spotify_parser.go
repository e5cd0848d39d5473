package parsers

import (
	"fmt"
	"sync"
	"time"

	"lifestats/internal/aggregate"
	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/providers"
	"lifestats/internal/structures"
)

// StreamingHistoryParser merges every StreamingHistory*.json of a spotify export.
type StreamingHistoryParser struct {
	base
	loader loaders.DecoderInterface

	streams func() ([]models.Stream, error)
	artists func() ([]models.Artist, error)
	tracks  func() ([]models.Track, error)
	byMonth func() ([aggregate.MonthsInYear][]models.Stream, error)

	rankedArtists  func() ([]models.Artist, error)
	rankedTracks   func() ([]models.Track, error)
	artistsByMonth func() ([aggregate.MonthsInYear][]models.Artist, error)
	tracksByMonth  func() ([aggregate.MonthsInYear][]models.Track, error)
}

func NewStreamingHistoryParser(loader loaders.DecoderInterface, filter structures.Filter, normalizer *models.Normalizer, logger providers.Logger) *StreamingHistoryParser {
	p := &StreamingHistoryParser{base: newBase(filter, normalizer, logger), loader: loader}
	p.streams = sync.OnceValues(p.buildStreams)
	p.artists = sync.OnceValues(func() ([]models.Artist, error) {
		streams, err := p.streams()
		if err != nil {
			return nil, err
		}
		return groupArtists(streams), nil
	})
	p.tracks = sync.OnceValues(func() ([]models.Track, error) {
		streams, err := p.streams()
		if err != nil {
			return nil, err
		}
		return groupTracks(streams), nil
	})
	p.byMonth = sync.OnceValues(func() ([aggregate.MonthsInYear][]models.Stream, error) {
		streams, err := p.streams()
		if err != nil {
			return [aggregate.MonthsInYear][]models.Stream{}, err
		}
		return aggregate.ByMonth(streams, streamEnd), nil
	})
	p.rankedArtists = memo(p.artists, func(artists []models.Artist) []models.Artist {
		return aggregate.RankDescending(artists, models.Artist.StreamedDurationSeconds)
	})
	p.rankedTracks = memo(p.tracks, func(tracks []models.Track) []models.Track {
		return aggregate.RankDescending(tracks, models.Track.StreamedDurationSeconds)
	})
	p.artistsByMonth = memo(p.byMonth, func(buckets [aggregate.MonthsInYear][]models.Stream) [aggregate.MonthsInYear][]models.Artist {
		var out [aggregate.MonthsInYear][]models.Artist
		for i, bucket := range buckets {
			out[i] = aggregate.RankDescending(groupArtists(bucket), models.Artist.StreamedDurationSeconds)
		}
		return out
	})
	p.tracksByMonth = memo(p.byMonth, func(buckets [aggregate.MonthsInYear][]models.Stream) [aggregate.MonthsInYear][]models.Track {
		var out [aggregate.MonthsInYear][]models.Track
		for i, bucket := range buckets {
			out[i] = aggregate.RankDescending(groupTracks(bucket), models.Track.StreamedDurationSeconds)
		}
		return out
	})
	return p
}

func streamEnd(s models.Stream) time.Time { return s.EndTime }

func (p *StreamingHistoryParser) buildStreams() ([]models.Stream, error) {
	var raw []models.RawStream
	if err := p.loader.Decode(&raw); err != nil {
		return nil, err
	}

	streams := make([]models.Stream, 0, len(raw))
	for i, rs := range raw {
		s, err := models.NewStream(rs, p.normalizer)
		if err != nil {
			return nil, fmt.Errorf("stream #%d: %w", i, err)
		}
		if p.inYear(s.EndTime) {
			streams = append(streams, s)
		}
	}
	p.debugf("Loaded %d streams (%d kept) from %s", len(raw), len(streams), p.loader.Path())
	return streams, nil
}

func groupArtists(streams []models.Stream) []models.Artist {
	groups := aggregate.GroupBy(streams, func(s models.Stream) string { return s.ArtistName })
	artists := make([]models.Artist, len(groups))
	for i, g := range groups {
		artists[i] = models.Artist{Name: g.Key, Streams: g.Records}
	}
	return artists
}

// groupTracks keys on the track name alone, so equally named tracks of different
// artists are merged.
func groupTracks(streams []models.Stream) []models.Track {
	groups := aggregate.GroupBy(streams, func(s models.Stream) string { return s.TrackName })
	tracks := make([]models.Track, len(groups))
	for i, g := range groups {
		tracks[i] = models.Track{Name: g.Key, Streams: g.Records}
	}
	return tracks
}

func (p *StreamingHistoryParser) Streams() ([]models.Stream, error) {
	return p.streams()
}

func (p *StreamingHistoryParser) Count() (int, error) {
	streams, err := p.streams()
	return len(streams), err
}

// SkippedStreams are plays shorter than models.SkipThresholdMilliseconds.
func (p *StreamingHistoryParser) SkippedStreams() ([]models.Stream, error) {
	streams, err := p.streams()
	if err != nil {
		return nil, err
	}
	return selectWhere(streams, models.Stream.Skipped), nil
}

func (p *StreamingHistoryParser) Artists() ([]models.Artist, error) {
	return p.artists()
}

func (p *StreamingHistoryParser) Tracks() ([]models.Track, error) {
	return p.tracks()
}

func (p *StreamingHistoryParser) MostStreamedArtistsByDuration() ([]models.Artist, error) {
	return p.rankedArtists()
}

func (p *StreamingHistoryParser) MostStreamedTracksByDuration() ([]models.Track, error) {
	return p.rankedTracks()
}

func (p *StreamingHistoryParser) StreamsByMonth() ([aggregate.MonthsInYear][]models.Stream, error) {
	return p.byMonth()
}

// StreamDurationByMonth sums played milliseconds per month.
func (p *StreamingHistoryParser) StreamDurationByMonth() ([aggregate.MonthsInYear]int64, error) {
	var out [aggregate.MonthsInYear]int64
	buckets, err := p.byMonth()
	if err != nil {
		return out, err
	}
	for i, bucket := range buckets {
		for _, s := range bucket {
			out[i] += s.DurationMilliseconds
		}
	}
	return out, nil
}

// ArtistsByMonth groups each month's streams by artist, most streamed first. Artists
// streamed for fewer than minSeconds in a month are left out of that month.
func (p *StreamingHistoryParser) ArtistsByMonth(minSeconds int64) ([aggregate.MonthsInYear][]models.Artist, error) {
	var out [aggregate.MonthsInYear][]models.Artist
	ranked, err := p.artistsByMonth()
	if err != nil {
		return out, err
	}
	for i, artists := range ranked {
		out[i] = selectWhere(artists, func(a models.Artist) bool {
			return a.StreamedDurationSeconds() >= minSeconds
		})
	}
	return out, nil
}

func (p *StreamingHistoryParser) TracksByMonth(minSeconds int64) ([aggregate.MonthsInYear][]models.Track, error) {
	var out [aggregate.MonthsInYear][]models.Track
	ranked, err := p.tracksByMonth()
	if err != nil {
		return out, err
	}
	for i, tracks := range ranked {
		out[i] = selectWhere(tracks, func(t models.Track) bool {
			return t.StreamedDurationSeconds() >= minSeconds
		})
	}
	return out, nil
}

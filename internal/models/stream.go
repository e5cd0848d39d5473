package models

import (
	"math"
	"time"
)

// SkipThresholdMilliseconds is the play length under which a stream counts as skipped.
const SkipThresholdMilliseconds = 10000

// RawStream is one element of a spotify StreamingHistory*.json file.
type RawStream struct {
	EndTime    string `json:"endTime"`
	ArtistName string `json:"artistName"`
	TrackName  string `json:"trackName"`
	MsPlayed   int64  `json:"msPlayed"`
}

type Stream struct {
	EndTime              time.Time
	ArtistName           string
	TrackName            string
	DurationMilliseconds int64
}

func NewStream(raw RawStream, n *Normalizer) (Stream, error) {
	if raw.MsPlayed < 0 {
		return Stream{}, &ValidationError{Record: "stream", Reason: "negative msPlayed"}
	}
	end, err := n.NormalizeField("endTime", raw.EndTime)
	if err != nil {
		return Stream{}, err
	}
	return Stream{
		EndTime:              end,
		ArtistName:           raw.ArtistName,
		TrackName:            raw.TrackName,
		DurationMilliseconds: raw.MsPlayed,
	}, nil
}

func (s Stream) Skipped() bool {
	return s.DurationMilliseconds < SkipThresholdMilliseconds
}

// Track aggregates the streams of one track name.
type Track struct {
	Name    string
	Streams []Stream
}

func (t Track) StreamedDurationSeconds() int64 {
	return streamedSeconds(t.Streams)
}

func (t Track) String() string {
	return t.Name
}

// Artist aggregates the streams of one artist.
type Artist struct {
	Name    string
	Streams []Stream
}

func (a Artist) StreamedDurationSeconds() int64 {
	return streamedSeconds(a.Streams)
}

func (a Artist) String() string {
	return a.Name
}

// streamedSeconds rounds half to even.
func streamedSeconds(streams []Stream) int64 {
	var ms int64
	for _, s := range streams {
		ms += s.DurationMilliseconds
	}
	return int64(math.RoundToEven(float64(ms) / 1000))
}

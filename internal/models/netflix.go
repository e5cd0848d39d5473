package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawNetflixView is one ViewingActivity.csv row, already picked out by column name.
type RawNetflixView struct {
	Profile               string
	StartTime             string
	Duration              string
	Title                 string
	Device                string
	SupplementalVideoType string
}

type NetflixView struct {
	Profile               string
	StartTime             time.Time
	DurationSeconds       int
	Title                 string
	Device                string
	SupplementalVideoType string
}

func NewNetflixView(raw RawNetflixView, n *Normalizer) (NetflixView, error) {
	start, err := n.NormalizeField("Start Time", raw.StartTime)
	if err != nil {
		return NetflixView{}, err
	}
	duration, err := ParseClockDuration(raw.Duration)
	if err != nil {
		return NetflixView{}, &ParseError{Field: "Duration", Value: raw.Duration, Err: err}
	}
	return NetflixView{
		Profile:               raw.Profile,
		StartTime:             start,
		DurationSeconds:       duration,
		Title:                 raw.Title,
		Device:                raw.Device,
		SupplementalVideoType: strings.TrimSpace(raw.SupplementalVideoType),
	}, nil
}

// ShowTitle is the part of the title before the first colon ("Show: Season 1: Episode").
// Titles without a colon, or starting with one, are not shows.
func (v NetflixView) ShowTitle() (string, bool) {
	i := strings.Index(v.Title, ":")
	if i <= 0 {
		return "", false
	}
	return v.Title[:i], true
}

func (v NetflixView) IsSupplemental() bool {
	return v.SupplementalVideoType != ""
}

// ParseClockDuration converts "H:MM:SS" into seconds.
func ParseClockDuration(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, errors.New("expected H:MM:SS")
	}
	var units [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, errors.New("negative component")
		}
		units[i] = v
	}
	return units[0]*3600 + units[1]*60 + units[2], nil
}

type Show struct {
	Title string
	Views []NetflixView
}

func (s Show) DurationSeconds() int {
	total := 0
	for _, v := range s.Views {
		total += v.DurationSeconds
	}
	return total
}

func (s Show) DurationHours() float64 {
	return math.RoundToEven(float64(s.DurationSeconds())/3600*100) / 100
}

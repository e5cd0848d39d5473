package models

import (
	"fmt"
	"strings"
)

// SeriesPoint is one row of a long-format chart table: x bucket, optional color category, y value.
type SeriesPoint struct {
	Bucket   string  `json:"bucket"`
	Category string  `json:"category,omitempty"`
	Value    float64 `json:"value"`
}

type Series struct {
	Source    string        `json:"source"`
	Dimension string        `json:"dimension"`
	Metric    string        `json:"metric"`
	Year      int           `json:"year,omitempty"`
	Points    []SeriesPoint `json:"points"`
}

func (s *Series) Add(bucket, category string, value float64) {
	s.Points = append(s.Points, SeriesPoint{Bucket: bucket, Category: category, Value: value})
}

// ClassificationCounts counts matches per category inside one calendar bucket.
type ClassificationCounts struct {
	LikeAccepted int `json:"like_accepted"`
	UserAccepted int `json:"user_accepted"`
	LikeRejected int `json:"like_rejected"`
	UserRejected int `json:"user_rejected"`
}

// Add counts m under every category predicate it satisfies.
func (c *ClassificationCounts) Add(m Match) {
	if m.LikeAccepted() {
		c.LikeAccepted++
	}
	if m.UserAccepted() {
		c.UserAccepted++
	}
	if m.LikeRejected() {
		c.LikeRejected++
	}
	if m.UserRejected() {
		c.UserRejected++
	}
}

// KindDurations splits viewing time between series episodes and everything else.
type KindDurations struct {
	ShowSeconds  int `json:"show_seconds"`
	MovieSeconds int `json:"movie_seconds"`
}

type MatchSummary struct {
	Year                               int     `json:"year,omitempty"`
	LikeAccepted                       int     `json:"like_accepted"`
	LikeRejected                       int     `json:"like_rejected"`
	OthersAcceptanceRate               float64 `json:"others_acceptance_rate"`
	UserAccepted                       int     `json:"user_accepted"`
	UserRejected                       int     `json:"user_rejected"`
	UserAcceptanceRate                 float64 `json:"user_acceptance_rate"`
	NoChat                             int     `json:"no_chat"`
	Chatted                            int     `json:"chatted"`
	AverageDaysBetweenFirstAndLastChat float64 `json:"average_days_between_first_and_last_chat"`
	MedianDaysBetweenFirstAndLastChat  float64 `json:"median_days_between_first_and_last_chat"`
	AverageHoursBetweenChats           float64 `json:"average_hours_between_chats"`
	MedianSecondsBetweenChats          float64 `json:"median_seconds_between_chats"`
	AverageChatsSent                   float64 `json:"average_chats_sent"`
	MedianChatsSent                    float64 `json:"median_chats_sent"`
}

func (s MatchSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Likes sent that were accepted: %d\n", s.LikeAccepted)
	fmt.Fprintf(&b, "Likes sent that were ignored or rejected: %d\n", s.LikeRejected)
	fmt.Fprintf(&b, "Others acceptance rate of you %.1f%%\n", s.OthersAcceptanceRate)
	fmt.Fprintf(&b, "Likes received that you accepted: %d\n", s.UserAccepted)
	fmt.Fprintf(&b, "Likes received that you rejected: %d\n", s.UserRejected)
	fmt.Fprintf(&b, "Your acceptance rate %.1f%%\n", s.UserAcceptanceRate)
	fmt.Fprintf(&b, "Matches with no messages: %d\n", s.NoChat)
	fmt.Fprintf(&b, "Matches you sent a message to: %d\n", s.Chatted)
	fmt.Fprintf(&b, "Average time between first and last message sent to match: %.2f days\n", s.AverageDaysBetweenFirstAndLastChat)
	fmt.Fprintf(&b, "Median time between first and last message sent to match: %.2f days\n", s.MedianDaysBetweenFirstAndLastChat)
	fmt.Fprintf(&b, "Average time between messages: %.2f hours\n", s.AverageHoursBetweenChats)
	fmt.Fprintf(&b, "Median time between messages: %.0f seconds\n", s.MedianSecondsBetweenChats)
	fmt.Fprintf(&b, "Average chat messages sent to match (excluding ignored chats): %.0f\n", s.AverageChatsSent)
	fmt.Fprintf(&b, "Median chat messages sent to match (excluding ignored chats): %.1f\n", s.MedianChatsSent)
	return b.String()
}

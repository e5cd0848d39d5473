package models

import (
	"time"

	"lifestats/internal/aggregate"
)

// RawMatchEvent is one entry of the like/block/match arrays of a hinge export.
type RawMatchEvent struct {
	Timestamp string `json:"timestamp"`
}

type RawChat struct {
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// RawMatch is a hinge matches.json element. A nil slice means the key was absent.
type RawMatch struct {
	Like  []RawMatchEvent `json:"like"`
	Block []RawMatchEvent `json:"block"`
	Match []RawMatchEvent `json:"match"`
	Chats []RawChat       `json:"chats"`
}

type Chat struct {
	Body string
	Date time.Time
}

func NewChat(raw RawChat, n *Normalizer) (Chat, error) {
	date, err := n.NormalizeField("chats.timestamp", raw.Timestamp)
	if err != nil {
		return Chat{}, err
	}
	return Chat{Body: raw.Body, Date: date}, nil
}

func (c Chat) String() string {
	return c.Body
}

type Classification int

const (
	ClassNone Classification = iota
	ClassLikeAccepted
	ClassLikeRejected
	ClassUserAccepted
	ClassUserRejected
)

var classificationNames = map[Classification]string{
	ClassNone:         "None",
	ClassLikeAccepted: "Likes sent that were accepted",
	ClassLikeRejected: "Likes sent that were not accepted",
	ClassUserAccepted: "Likes received that you accepted",
	ClassUserRejected: "Rejections given",
}

func (c Classification) String() string {
	return classificationNames[c]
}

type Match struct {
	Liked     bool
	Blocked   bool
	MatchMade bool
	Date      time.Time
	// Chats keep the export order, which is assumed chronological.
	Chats []Chat
}

func NewMatch(raw RawMatch, n *Normalizer) (Match, error) {
	var timestamp string
	switch {
	case firstTimestamp(raw.Match) != "":
		timestamp = firstTimestamp(raw.Match)
	case firstTimestamp(raw.Block) != "":
		timestamp = firstTimestamp(raw.Block)
	case firstTimestamp(raw.Like) != "":
		timestamp = firstTimestamp(raw.Like)
	default:
		return Match{}, &ValidationError{Record: "match", Reason: "none of match, block or like carries a timestamp"}
	}

	date, err := n.NormalizeField("match.timestamp", timestamp)
	if err != nil {
		return Match{}, err
	}

	chats := make([]Chat, 0, len(raw.Chats))
	for _, rc := range raw.Chats {
		chat, err := NewChat(rc, n)
		if err != nil {
			return Match{}, err
		}
		chats = append(chats, chat)
	}

	return Match{
		Liked:     raw.Like != nil,
		Blocked:   raw.Block != nil,
		MatchMade: raw.Match != nil,
		Date:      date,
		Chats:     chats,
	}, nil
}

func firstTimestamp(events []RawMatchEvent) string {
	if len(events) == 0 {
		return ""
	}
	return events[0].Timestamp
}

// LikeAccepted: a like was sent and a match followed.
func (m Match) LikeAccepted() bool { return m.Liked && m.MatchMade }

// LikeRejected: a like was sent and no match followed.
func (m Match) LikeRejected() bool { return m.Liked && !m.MatchMade }

// UserAccepted: a like was received and accepted.
func (m Match) UserAccepted() bool { return !m.Liked && m.MatchMade }

// UserRejected: a like was received and blocked.
func (m Match) UserRejected() bool { return !m.MatchMade && m.Blocked }

func (m Match) Accepted() bool { return m.LikeAccepted() || m.UserAccepted() }

func (m Match) Chatted() bool { return len(m.Chats) > 0 }

// Classification picks a single category. A sent like that was blocked satisfies both
// LikeRejected and UserRejected; it is reported as LikeRejected.
func (m Match) Classification() Classification {
	switch {
	case m.LikeAccepted():
		return ClassLikeAccepted
	case m.LikeRejected():
		return ClassLikeRejected
	case m.UserAccepted():
		return ClassUserAccepted
	case m.UserRejected():
		return ClassUserRejected
	default:
		return ClassNone
	}
}

// ChatDurationSeconds is the time between the first and last chat, fractions of a second
// included. It is only defined for two or more chats.
func (m Match) ChatDurationSeconds() (float64, bool) {
	if len(m.Chats) < 2 {
		return 0, false
	}
	first := m.Chats[0]
	last := m.Chats[len(m.Chats)-1]
	return last.Date.Sub(first.Date).Seconds(), true
}

func (m Match) FrequencyByHour() [24]int {
	var frequency [24]int
	for _, chat := range m.Chats {
		frequency[chat.Date.Hour()]++
	}
	return frequency
}

// FrequencyByWeekday counts chats per weekday, Monday first.
func (m Match) FrequencyByWeekday() [7]int {
	var frequency [7]int
	for _, chat := range m.Chats {
		frequency[aggregate.Weekday(chat.Date)]++
	}
	return frequency
}

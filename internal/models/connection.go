package models

import (
	"time"
)

// RawConnections is instagram connections.json: follower and followee names mapped to
// the time the edge was created.
type RawConnections struct {
	Followers map[string]string `json:"followers"`
	Following map[string]string `json:"following"`
}

type Connection struct {
	Name string
	Date time.Time
}

func NewConnection(name, timestamp string, n *Normalizer) (Connection, error) {
	date, err := n.NormalizeField("connection.timestamp", timestamp)
	if err != nil {
		return Connection{}, err
	}
	return Connection{Name: name, Date: date}, nil
}

// RawLikes is instagram likes.json. Every media like is a [timestamp, name] pair.
type RawLikes struct {
	MediaLikes [][]string `json:"media_likes"`
}

type Like struct {
	Name string
	Date time.Time
}

func NewLike(pair []string, n *Normalizer) (Like, error) {
	if len(pair) < 2 {
		return Like{}, &ValidationError{Record: "media like", Reason: "expected a [timestamp, name] pair"}
	}
	date, err := n.NormalizeField("media_likes.timestamp", pair[0])
	if err != nil {
		return Like{}, err
	}
	return Like{Name: pair[1], Date: date}, nil
}

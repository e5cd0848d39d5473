package models

import (
	"fmt"
	"time"
)

type RawSubtitle struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RawYoutubeView is one element of a Takeout watch-history.json file.
type RawYoutubeView struct {
	Title     string        `json:"title"`
	TitleURL  string        `json:"titleUrl"`
	Time      string        `json:"time"`
	Subtitles []RawSubtitle `json:"subtitles"`
}

type YoutubeView struct {
	Title       string
	URL         string
	Date        time.Time
	ChannelName string
}

func NewYoutubeView(raw RawYoutubeView, n *Normalizer) (YoutubeView, error) {
	date, err := n.NormalizeField("time", raw.Time)
	if err != nil {
		return YoutubeView{}, err
	}
	view := YoutubeView{
		Title: raw.Title,
		URL:   raw.TitleURL,
		Date:  date,
	}
	if len(raw.Subtitles) > 0 {
		view.ChannelName = raw.Subtitles[0].Name
	}
	return view, nil
}

// Resolvable reports whether the view can be attributed to a video and a channel.
// Deleted videos and ad impressions have neither.
func (v YoutubeView) Resolvable() bool {
	return v.URL != "" && v.ChannelName != ""
}

type Channel struct {
	Name  string
	Views []YoutubeView
}

func (c Channel) String() string {
	return fmt.Sprintf("%s (%d views)", c.Name, len(c.Views))
}

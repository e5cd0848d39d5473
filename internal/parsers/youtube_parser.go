package parsers

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"lifestats/internal/aggregate"
	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/providers"
	"lifestats/internal/structures"
)

const (
	DefaultTopChannels     = 10
	DefaultMinChannelViews = 2
)

type youtubeViews struct {
	views   []models.YoutubeView
	skipped int
}

// YoutubeViewsParser reads a Takeout watch-history.json export.
type YoutubeViewsParser struct {
	base
	loader loaders.DecoderInterface

	views    func() (youtubeViews, error)
	channels func() ([]models.Channel, error)

	rankedChannels  func() ([]models.Channel, error)
	byWeekday       func() ([aggregate.DaysInWeek][]models.YoutubeView, error)
	byMonth         func() ([aggregate.MonthsInYear][]models.YoutubeView, error)
	channelsByMonth func() ([aggregate.MonthsInYear][]models.Channel, error)
}

func NewYoutubeViewsParser(loader loaders.DecoderInterface, filter structures.Filter, normalizer *models.Normalizer, logger providers.Logger) *YoutubeViewsParser {
	p := &YoutubeViewsParser{base: newBase(filter, normalizer, logger), loader: loader}
	p.views = sync.OnceValues(p.buildViews)
	p.channels = sync.OnceValues(func() ([]models.Channel, error) {
		v, err := p.views()
		if err != nil {
			return nil, err
		}
		return groupChannels(v.views), nil
	})
	p.rankedChannels = memo(p.channels, func(channels []models.Channel) []models.Channel {
		return aggregate.RankDescending(channels, channelViewCount)
	})
	p.byWeekday = memo(p.views, func(v youtubeViews) [aggregate.DaysInWeek][]models.YoutubeView {
		return aggregate.ByWeekday(v.views, youtubeDate)
	})
	p.byMonth = memo(p.views, func(v youtubeViews) [aggregate.MonthsInYear][]models.YoutubeView {
		return aggregate.ByMonth(v.views, youtubeDate)
	})
	p.channelsByMonth = memo(p.byMonth, func(buckets [aggregate.MonthsInYear][]models.YoutubeView) [aggregate.MonthsInYear][]models.Channel {
		var out [aggregate.MonthsInYear][]models.Channel
		for i, bucket := range buckets {
			out[i] = aggregate.RankDescending(groupChannels(bucket), channelViewCount)
		}
		return out
	})
	return p
}

func youtubeDate(v models.YoutubeView) time.Time { return v.Date }

// buildViews drops entries that cannot be attributed to a video and a channel; those are
// counted, not reported as errors.
func (p *YoutubeViewsParser) buildViews() (youtubeViews, error) {
	var raw []models.RawYoutubeView
	if err := p.loader.Decode(&raw); err != nil {
		return youtubeViews{}, err
	}

	out := youtubeViews{views: make([]models.YoutubeView, 0, len(raw))}
	for i, rv := range raw {
		view, err := models.NewYoutubeView(rv, p.normalizer)
		if err != nil {
			return youtubeViews{}, fmt.Errorf("watch entry #%d: %w", i, err)
		}
		if !view.Resolvable() {
			out.skipped++
			continue
		}
		if p.inYear(view.Date) {
			out.views = append(out.views, view)
		}
	}
	p.debugf("Loaded %d watch entries (%d kept, %d unresolvable) from %s", len(raw), len(out.views), out.skipped, p.loader.Path())
	return out, nil
}

func groupChannels(views []models.YoutubeView) []models.Channel {
	groups := aggregate.GroupBy(views, func(v models.YoutubeView) string { return v.ChannelName })
	channels := make([]models.Channel, len(groups))
	for i, g := range groups {
		channels[i] = models.Channel{Name: g.Key, Views: g.Records}
	}
	return channels
}

func channelViewCount(c models.Channel) int { return len(c.Views) }

func (p *YoutubeViewsParser) Views() ([]models.YoutubeView, error) {
	v, err := p.views()
	return v.views, err
}

func (p *YoutubeViewsParser) Count() (int, error) {
	v, err := p.views()
	return len(v.views), err
}

// SkippedViews counts entries without a video URL or channel, over every year.
func (p *YoutubeViewsParser) SkippedViews() (int, error) {
	v, err := p.views()
	return v.skipped, err
}

func (p *YoutubeViewsParser) Channels() ([]models.Channel, error) {
	return p.channels()
}

// MostViewedChannelsByCount returns at most limit channels; a non-positive limit falls
// back to DefaultTopChannels.
func (p *YoutubeViewsParser) MostViewedChannelsByCount(limit int) ([]models.Channel, error) {
	if limit <= 0 {
		limit = DefaultTopChannels
	}
	ranked, err := p.rankedChannels()
	if err != nil {
		return nil, err
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return slices.Clip(ranked), nil
}

func (p *YoutubeViewsParser) ViewsByWeekday() ([aggregate.DaysInWeek][]models.YoutubeView, error) {
	return p.byWeekday()
}

func (p *YoutubeViewsParser) ViewsByMonth() ([aggregate.MonthsInYear][]models.YoutubeView, error) {
	return p.byMonth()
}

// ChannelsByMonth groups each month's views by channel, most viewed first, keeping only
// channels with at least minViews views that month. A non-positive minViews falls back to
// DefaultMinChannelViews.
func (p *YoutubeViewsParser) ChannelsByMonth(minViews int) ([aggregate.MonthsInYear][]models.Channel, error) {
	if minViews <= 0 {
		minViews = DefaultMinChannelViews
	}
	var out [aggregate.MonthsInYear][]models.Channel
	ranked, err := p.channelsByMonth()
	if err != nil {
		return out, err
	}
	for i, channels := range ranked {
		out[i] = selectWhere(channels, func(c models.Channel) bool {
			return len(c.Views) >= minViews
		})
	}
	return out, nil
}

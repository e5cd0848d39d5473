package services

import (
	"lifestats/internal/aggregate"
	"lifestats/internal/models"
	"lifestats/internal/providers"
	"lifestats/internal/structures"
)

const (
	DimensionWeekday = "weekday"
	DimensionMonth   = "month"
	DimensionChannel = "channel"

	CategoryShow  = "Show"
	CategoryMovie = "Movie"

	CategoryFollowers = "Followers"
	CategoryFollowing = "Following"
)

func newSeries(source, dimension, metric string, filter structures.Filter) *models.Series {
	return &models.Series{Source: source, Dimension: dimension, Metric: metric, Year: filter.Year, Points: []models.SeriesPoint{}}
}

func addClassificationCounts(series *models.Series, bucket string, c models.ClassificationCounts) {
	series.Add(bucket, models.ClassLikeAccepted.String(), float64(c.LikeAccepted))
	series.Add(bucket, models.ClassUserAccepted.String(), float64(c.UserAccepted))
	series.Add(bucket, models.ClassLikeRejected.String(), float64(c.LikeRejected))
	series.Add(bucket, models.ClassUserRejected.String(), float64(c.UserRejected))
}

func hours(seconds int) float64 {
	return float64(seconds) / 3600
}

func (s *ExportService) MatchesByWeekday(filter structures.Filter) (*models.Series, error) {
	p := s.Matches(filter)
	if err := s.load(SourceHinge, p.Count); err != nil {
		return nil, err
	}
	counts, err := p.MatchCountsByWeekday()
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceHinge, DimensionWeekday, "matches", filter)
	for i, c := range counts {
		addClassificationCounts(series, aggregate.WeekdayNames[i], c)
	}
	return series, nil
}

func (s *ExportService) MatchesByMonth(filter structures.Filter) (*models.Series, error) {
	p := s.Matches(filter)
	if err := s.load(SourceHinge, p.Count); err != nil {
		return nil, err
	}
	counts, err := p.MatchCountsByMonth()
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceHinge, DimensionMonth, "matches", filter)
	for i, c := range counts {
		addClassificationCounts(series, aggregate.MonthNames[i], c)
	}
	return series, nil
}

func (s *ExportService) ChatsByWeekday(filter structures.Filter) (*models.Series, error) {
	p := s.Matches(filter)
	if err := s.load(SourceHinge, p.Count); err != nil {
		return nil, err
	}
	buckets, err := p.ChatsByWeekday()
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceHinge, DimensionWeekday, "messages_sent", filter)
	for i, chats := range buckets {
		series.Add(aggregate.WeekdayNames[i], "", float64(len(chats)))
	}
	return series, nil
}

func (s *ExportService) ChatsByMonth(filter structures.Filter) (*models.Series, error) {
	p := s.Matches(filter)
	if err := s.load(SourceHinge, p.Count); err != nil {
		return nil, err
	}
	buckets, err := p.ChatsByMonth()
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceHinge, DimensionMonth, "messages_sent", filter)
	for i, chats := range buckets {
		series.Add(aggregate.MonthNames[i], "", float64(len(chats)))
	}
	return series, nil
}

func (s *ExportService) MatchSummary(filter structures.Filter) (*models.MatchSummary, error) {
	p := s.Matches(filter)
	if err := s.load(SourceHinge, p.Count); err != nil {
		return nil, err
	}
	summary, err := p.Summary()
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *ExportService) ConnectionsByMonth(filter structures.Filter) (*models.Series, error) {
	p := s.Connections(filter)
	if err := s.load(SourceInstagram, p.Count); err != nil {
		return nil, err
	}
	followers, err := p.FollowersByMonth()
	if err != nil {
		return nil, err
	}
	following, err := p.FollowingByMonth()
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceInstagram, DimensionMonth, "connections", filter)
	for i := range aggregate.MonthsInYear {
		series.Add(aggregate.MonthNames[i], CategoryFollowers, float64(len(followers[i])))
		series.Add(aggregate.MonthNames[i], CategoryFollowing, float64(len(following[i])))
	}
	return series, nil
}

func (s *ExportService) LikesByMonth(filter structures.Filter) (*models.Series, error) {
	p := s.Likes(filter)
	if err := s.load(SourceInstagram, p.Count); err != nil {
		return nil, err
	}
	buckets, err := p.LikesByMonth()
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceInstagram, DimensionMonth, "likes", filter)
	for i, likes := range buckets {
		series.Add(aggregate.MonthNames[i], "", float64(len(likes)))
	}
	return series, nil
}

// NetflixByWeekday reports the average hours watched on each weekday of the selected
// year, split between shows and movies.
func (s *ExportService) NetflixByWeekday(filter structures.Filter) (*models.Series, error) {
	p := s.NetflixViews(filter)
	if err := s.load(SourceNetflix, p.Count); err != nil {
		return nil, err
	}
	kinds, err := p.ViewDurationByWeekdayAndKind()
	if err != nil {
		return nil, err
	}
	occurrences := aggregate.WeekdayOccurrences(filter.Year)
	series := newSeries(SourceNetflix, DimensionWeekday, "hours_average", filter)
	for i, k := range kinds {
		days := float64(occurrences[i])
		series.Add(aggregate.WeekdayNames[i], CategoryShow, aggregate.Round(aggregate.Round(hours(k.ShowSeconds), 2)/days, 2))
		series.Add(aggregate.WeekdayNames[i], CategoryMovie, aggregate.Round(aggregate.Round(hours(k.MovieSeconds), 2)/days, 2))
	}
	return series, nil
}

// NetflixByMonth reports total hours per show for every month, most watched first.
func (s *ExportService) NetflixByMonth(filter structures.Filter) (*models.Series, error) {
	p := s.NetflixViews(filter)
	if err := s.load(SourceNetflix, p.Count); err != nil {
		return nil, err
	}
	buckets, err := p.ShowsByMonth()
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceNetflix, DimensionMonth, "hours_total", filter)
	for i, shows := range buckets {
		for _, show := range shows {
			series.Add(aggregate.MonthNames[i], show.Title, aggregate.Round(hours(show.DurationSeconds()), 0))
		}
	}
	return series, nil
}

func (s *ExportService) NetflixProfiles() ([]string, error) {
	p := s.NetflixViews(structures.Filter{})
	if err := s.load(SourceNetflix, p.Count); err != nil {
		return nil, err
	}
	return p.Profiles()
}

// ArtistsByMonth reports minutes streamed per artist for every month.
func (s *ExportService) ArtistsByMonth(filter structures.Filter, minSeconds int64) (*models.Series, error) {
	p := s.StreamingHistory(filter)
	if err := s.load(SourceSpotify, p.Count); err != nil {
		return nil, err
	}
	buckets, err := p.ArtistsByMonth(minSeconds)
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceSpotify, DimensionMonth, "minutes_streamed", filter)
	for i, artists := range buckets {
		for _, a := range artists {
			series.Add(aggregate.MonthNames[i], a.Name, aggregate.Round(float64(a.StreamedDurationSeconds())/60, 2))
		}
	}
	return series, nil
}

func (s *ExportService) TracksByMonth(filter structures.Filter, minSeconds int64) (*models.Series, error) {
	p := s.StreamingHistory(filter)
	if err := s.load(SourceSpotify, p.Count); err != nil {
		return nil, err
	}
	buckets, err := p.TracksByMonth(minSeconds)
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceSpotify, DimensionMonth, "minutes_streamed", filter)
	for i, tracks := range buckets {
		for _, t := range tracks {
			series.Add(aggregate.MonthNames[i], t.Name, aggregate.Round(float64(t.StreamedDurationSeconds())/60, 2))
		}
	}
	return series, nil
}

// YoutubeByWeekday reports the average number of videos watched on each weekday.
func (s *ExportService) YoutubeByWeekday(filter structures.Filter) (*models.Series, error) {
	p := s.YoutubeViews(filter)
	if err := s.loadYoutube(filter, p.Count, p.SkippedViews); err != nil {
		return nil, err
	}
	buckets, err := p.ViewsByWeekday()
	if err != nil {
		return nil, err
	}
	occurrences := aggregate.WeekdayOccurrences(filter.Year)
	series := newSeries(SourceYoutube, DimensionWeekday, "views_average", filter)
	for i, views := range buckets {
		series.Add(aggregate.WeekdayNames[i], "", aggregate.Round(float64(len(views))/float64(occurrences[i]), 2))
	}
	return series, nil
}

func (s *ExportService) YoutubeByMonth(filter structures.Filter) (*models.Series, error) {
	p := s.YoutubeViews(filter)
	if err := s.loadYoutube(filter, p.Count, p.SkippedViews); err != nil {
		return nil, err
	}
	buckets, err := p.ChannelsByMonth(s.conf.Analysis.MinChannelViews)
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceYoutube, DimensionMonth, "views_total", filter)
	for i, channels := range buckets {
		for _, c := range channels {
			series.Add(aggregate.MonthNames[i], c.Name, float64(len(c.Views)))
		}
	}
	return series, nil
}

func (s *ExportService) YoutubeChannels(filter structures.Filter) (*models.Series, error) {
	p := s.YoutubeViews(filter)
	if err := s.loadYoutube(filter, p.Count, p.SkippedViews); err != nil {
		return nil, err
	}
	channels, err := p.MostViewedChannelsByCount(s.conf.Analysis.TopChannels)
	if err != nil {
		return nil, err
	}
	series := newSeries(SourceYoutube, DimensionChannel, "views_total", filter)
	for _, c := range channels {
		series.Add(c.Name, "", float64(len(c.Views)))
	}
	return series, nil
}

func (s *ExportService) loadYoutube(filter structures.Filter, count, skipped func() (int, error)) error {
	if err := s.load(SourceYoutube, count); err != nil {
		return err
	}
	n, err := skipped()
	if err != nil {
		return err
	}
	if n > 0 {
		s.metrics.AddSkippedRecords(SourceYoutube, n)
		s.logger.Debugf(providers.TypeLoad, "Skipped %d unattributable watch entries (year %d)", n, filter.Year)
	}
	return nil
}

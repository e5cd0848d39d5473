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

const (
	// DefaultMinViewSeconds drops trailers, previews and accidental plays.
	DefaultMinViewSeconds = 300
	// MovieShowTitle groups every view whose title is not "Show: Season: Episode".
	MovieShowTitle = "Other (i.e. Movie)"
)

type netflixColumns struct {
	profile, start, duration, title, device, supplemental int
}

// NetflixViewsParser reads a netflix ViewingActivity.csv export.
type NetflixViewsParser struct {
	base
	loader         loaders.TableLoaderInterface
	minViewSeconds int

	genuine func() ([]models.NetflixView, error)
	views   func() ([]models.NetflixView, error)
	shows   func() ([]models.Show, error)

	rankedShows  func() ([]models.Show, error)
	byWeekday    func() ([aggregate.DaysInWeek][]models.NetflixView, error)
	byMonth      func() ([aggregate.MonthsInYear][]models.NetflixView, error)
	showsByMonth func() ([aggregate.MonthsInYear][]models.Show, error)
}

func NewNetflixViewsParser(loader loaders.TableLoaderInterface, filter structures.Filter, normalizer *models.Normalizer, logger providers.Logger) *NetflixViewsParser {
	p := &NetflixViewsParser{
		base:           newBase(filter, normalizer, logger),
		loader:         loader,
		minViewSeconds: DefaultMinViewSeconds,
	}
	p.genuine = sync.OnceValues(p.buildGenuine)
	p.views = sync.OnceValues(func() ([]models.NetflixView, error) {
		genuine, err := p.genuine()
		if err != nil {
			return nil, err
		}
		return selectWhere(genuine, func(v models.NetflixView) bool {
			if p.filter.Profile != "" && v.Profile != p.filter.Profile {
				return false
			}
			return p.inYear(v.StartTime)
		}), nil
	})
	p.shows = sync.OnceValues(func() ([]models.Show, error) {
		views, err := p.views()
		if err != nil {
			return nil, err
		}
		return groupShows(views), nil
	})
	p.rankedShows = memo(p.shows, func(shows []models.Show) []models.Show {
		return aggregate.RankDescending(shows, models.Show.DurationSeconds)
	})
	p.byWeekday = memo(p.views, func(views []models.NetflixView) [aggregate.DaysInWeek][]models.NetflixView {
		return aggregate.ByWeekday(views, viewStart)
	})
	p.byMonth = memo(p.views, func(views []models.NetflixView) [aggregate.MonthsInYear][]models.NetflixView {
		return aggregate.ByMonth(views, viewStart)
	})
	p.showsByMonth = memo(p.byMonth, func(buckets [aggregate.MonthsInYear][]models.NetflixView) [aggregate.MonthsInYear][]models.Show {
		var out [aggregate.MonthsInYear][]models.Show
		for i, bucket := range buckets {
			out[i] = aggregate.RankDescending(groupShows(bucket), models.Show.DurationSeconds)
		}
		return out
	})
	return p
}

// SetMinViewSeconds must be called before any view is read. Views shorter than seconds
// are dropped.
func (p *NetflixViewsParser) SetMinViewSeconds(seconds int) {
	if seconds >= 0 {
		p.minViewSeconds = seconds
	}
}

func lookupNetflixColumns(table *loaders.Table) (netflixColumns, error) {
	var cols netflixColumns
	targets := []struct {
		dst   *int
		names []string
	}{
		{&cols.profile, []string{"Profile Name"}},
		{&cols.start, []string{"Start Time"}},
		{&cols.duration, []string{"Duration", "Duration (H:MM:SS)"}},
		{&cols.title, []string{"Title"}},
		{&cols.device, []string{"Device Type"}},
		{&cols.supplemental, []string{"Supplemental Video Type"}},
	}
	for _, t := range targets {
		i, ok := table.Column(t.names...)
		if !ok {
			return cols, &models.ValidationError{Record: "viewing activity header", Reason: "missing column " + t.names[0]}
		}
		*t.dst = i
	}
	return cols, nil
}

// buildGenuine parses every row and keeps full-length, non-supplemental views of any
// profile and year.
func (p *NetflixViewsParser) buildGenuine() ([]models.NetflixView, error) {
	table, err := p.loader.Load()
	if err != nil {
		return nil, err
	}
	cols, err := lookupNetflixColumns(table)
	if err != nil {
		return nil, err
	}

	views := make([]models.NetflixView, 0, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) < len(table.Columns) {
			return nil, fmt.Errorf("row %d: %w", i+2, &models.ValidationError{Record: "viewing activity row", Reason: "too few fields"})
		}
		view, err := models.NewNetflixView(models.RawNetflixView{
			Profile:               row[cols.profile],
			StartTime:             row[cols.start],
			Duration:              row[cols.duration],
			Title:                 row[cols.title],
			Device:                row[cols.device],
			SupplementalVideoType: row[cols.supplemental],
		}, p.normalizer)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if view.IsSupplemental() || view.DurationSeconds < p.minViewSeconds {
			continue
		}
		views = append(views, view)
	}
	p.debugf("Loaded %d netflix rows (%d genuine views) from %s", len(table.Rows), len(views), p.loader.Path())
	return views, nil
}

func groupShows(views []models.NetflixView) []models.Show {
	groups := aggregate.GroupBy(views, func(v models.NetflixView) string {
		if title, ok := v.ShowTitle(); ok {
			return title
		}
		return MovieShowTitle
	})
	shows := make([]models.Show, len(groups))
	for i, g := range groups {
		shows[i] = models.Show{Title: g.Key, Views: g.Records}
	}
	return shows
}

func viewStart(v models.NetflixView) time.Time { return v.StartTime }

func (p *NetflixViewsParser) Views() ([]models.NetflixView, error) {
	return p.views()
}

func (p *NetflixViewsParser) Count() (int, error) {
	views, err := p.views()
	return len(views), err
}

// Profiles lists every profile with at least one genuine view, in first-seen order.
// The profile and year filters do not apply.
func (p *NetflixViewsParser) Profiles() ([]string, error) {
	genuine, err := p.genuine()
	if err != nil {
		return nil, err
	}
	groups := aggregate.GroupBy(genuine, func(v models.NetflixView) string { return v.Profile })
	profiles := make([]string, len(groups))
	for i, g := range groups {
		profiles[i] = g.Key
	}
	return profiles, nil
}

func (p *NetflixViewsParser) Shows() ([]models.Show, error) {
	return p.shows()
}

func (p *NetflixViewsParser) MostViewedShowsByDuration() ([]models.Show, error) {
	return p.rankedShows()
}

func (p *NetflixViewsParser) ViewDurationSeconds() (int, error) {
	views, err := p.views()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, v := range views {
		total += v.DurationSeconds
	}
	return total, nil
}

func (p *NetflixViewsParser) ViewsByWeekday() ([aggregate.DaysInWeek][]models.NetflixView, error) {
	return p.byWeekday()
}

// ViewDurationByWeekday sums viewing seconds per weekday.
func (p *NetflixViewsParser) ViewDurationByWeekday() ([aggregate.DaysInWeek]int, error) {
	var out [aggregate.DaysInWeek]int
	buckets, err := p.ViewsByWeekday()
	if err != nil {
		return out, err
	}
	for i, bucket := range buckets {
		for _, v := range bucket {
			out[i] += v.DurationSeconds
		}
	}
	return out, nil
}

func (p *NetflixViewsParser) ViewDurationByWeekdayAndKind() ([aggregate.DaysInWeek]models.KindDurations, error) {
	var out [aggregate.DaysInWeek]models.KindDurations
	buckets, err := p.ViewsByWeekday()
	if err != nil {
		return out, err
	}
	for i, bucket := range buckets {
		for _, v := range bucket {
			if _, ok := v.ShowTitle(); ok {
				out[i].ShowSeconds += v.DurationSeconds
			} else {
				out[i].MovieSeconds += v.DurationSeconds
			}
		}
	}
	return out, nil
}

func (p *NetflixViewsParser) ViewsByMonth() ([aggregate.MonthsInYear][]models.NetflixView, error) {
	return p.byMonth()
}

func (p *NetflixViewsParser) ViewDurationByMonth() ([aggregate.MonthsInYear]int, error) {
	var out [aggregate.MonthsInYear]int
	buckets, err := p.ViewsByMonth()
	if err != nil {
		return out, err
	}
	for i, bucket := range buckets {
		for _, v := range bucket {
			out[i] += v.DurationSeconds
		}
	}
	return out, nil
}

// ShowsByMonth groups each month's views into shows, most watched first.
func (p *NetflixViewsParser) ShowsByMonth() ([aggregate.MonthsInYear][]models.Show, error) {
	return p.showsByMonth()
}

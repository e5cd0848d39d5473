package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifestats/internal/models"
	"lifestats/internal/structures"
	"lifestats/internal/testutil"
)

const watchHistoryFixture = `[
  {"title": "Watched one", "titleUrl": "https://www.youtube.com/watch?v=1", "time": "2021-01-04T10:00:00.000Z",
   "subtitles": [{"name": "Channel A", "url": "https://www.youtube.com/channel/a"}]},
  {"title": "Watched two", "titleUrl": "https://www.youtube.com/watch?v=2", "time": "2021-01-11T10:00:00.000Z",
   "subtitles": [{"name": "Channel A", "url": "https://www.youtube.com/channel/a"}]},
  {"title": "Watched three", "titleUrl": "https://www.youtube.com/watch?v=3", "time": "2021-01-05T10:00:00.000Z",
   "subtitles": [{"name": "Channel B", "url": "https://www.youtube.com/channel/b"}]},
  {"title": "Watched an ad", "time": "2021-01-06T10:00:00.000Z",
   "subtitles": [{"name": "Channel C", "url": "https://www.youtube.com/channel/c"}]},
  {"title": "Watched a video that has been removed", "titleUrl": "https://www.youtube.com/watch?v=4",
   "time": "2021-02-06T10:00:00.000Z"}
]`

func newYoutubeParser(t *testing.T, filter structures.Filter) (*YoutubeViewsParser, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	return NewYoutubeViewsParser(jsonFixture(t, "watch-history.json", watchHistoryFixture), filter, utc(), logger), logger
}

func TestYoutubeViewsParser_DropsUnresolvableEntries(t *testing.T) {
	p, logger := newYoutubeParser(t, structures.Filter{})

	views, err := p.Views()
	require.NoError(t, err)
	assert.Len(t, views, 3)
	for _, v := range views {
		assert.NotEmpty(t, v.URL)
		assert.NotEmpty(t, v.ChannelName)
	}

	skipped, err := p.SkippedViews()
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 1, logger.Count("debug"))
}

func TestYoutubeViewsParser_Channels(t *testing.T) {
	p, _ := newYoutubeParser(t, structures.Filter{})

	channels, err := p.Channels()
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "Channel A (2 views)", channels[0].String())

	top, err := p.MostViewedChannelsByCount(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Channel A", top[0].Name)

	all, err := p.MostViewedChannelsByCount(0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestYoutubeViewsParser_Buckets(t *testing.T) {
	p, _ := newYoutubeParser(t, structures.Filter{})

	byWeekday, err := p.ViewsByWeekday()
	require.NoError(t, err)
	assert.Len(t, byWeekday, 7)
	assert.Len(t, byWeekday[0], 2)
	assert.Len(t, byWeekday[1], 1)
	assert.Equal(t, 3, bucketTotal(byWeekday[:]))

	byMonth, err := p.ViewsByMonth()
	require.NoError(t, err)
	assert.Len(t, byMonth[0], 3)
	assert.Equal(t, 3, bucketTotal(byMonth[:]))

	channels, err := p.ChannelsByMonth(0)
	require.NoError(t, err)
	require.Len(t, channels[0], 1)
	assert.Equal(t, "Channel A", channels[0][0].Name)

	channels, err = p.ChannelsByMonth(1)
	require.NoError(t, err)
	assert.Len(t, channels[0], 2)
}

func TestYoutubeViewsParser_YearFilter(t *testing.T) {
	p, _ := newYoutubeParser(t, structures.Filter{Year: 2022})

	views, err := p.Views()
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestYoutubeViewsParser_BadTimeIsParseError(t *testing.T) {
	p := NewYoutubeViewsParser(jsonFixture(t, "watch-history.json", `[{"title": "x", "titleUrl": "u", "time": ""}]`), structures.Filter{}, utc(), nil)

	_, err := p.Views()
	assert.ErrorIs(t, err, models.ErrParse)
}

func TestYoutubeViewsParser_GroupsAreBuiltOnce(t *testing.T) {
	p, _ := newYoutubeParser(t, structures.Filter{})
	counting := &countingDecoder{DecoderInterface: p.loader}
	p.loader = counting

	top, err := p.MostViewedChannelsByCount(1)
	require.NoError(t, err)
	all, err := p.MostViewedChannelsByCount(5)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Same(t, &top[0], &all[0])

	// A caller appending to a shortened ranking must not overwrite the kept one.
	_ = append(top, models.Channel{Name: "Intruder"})
	all, err = p.MostViewedChannelsByCount(5)
	require.NoError(t, err)
	assert.Equal(t, "Channel B", all[1].Name)

	byWeekday, err := p.ViewsByWeekday()
	require.NoError(t, err)
	weekdayAgain, err := p.ViewsByWeekday()
	require.NoError(t, err)
	assert.Same(t, &byWeekday[0][0], &weekdayAgain[0][0])

	byMonth, err := p.ViewsByMonth()
	require.NoError(t, err)
	monthAgain, err := p.ViewsByMonth()
	require.NoError(t, err)
	assert.Same(t, &byMonth[0][0], &monthAgain[0][0])

	strict, err := p.ChannelsByMonth(2)
	require.NoError(t, err)
	require.Len(t, strict[0], 1)
	loose, err := p.ChannelsByMonth(1)
	require.NoError(t, err)
	assert.Len(t, loose[0], 2)

	assert.Equal(t, 1, counting.calls)
}

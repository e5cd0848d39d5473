package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/structures"
	"lifestats/internal/testutil"
)

func testConfig(dataRoot string) *structures.Config {
	return &structures.Config{
		DataRoot: dataRoot,
		Timezone: "UTC",
		Sources: structures.SourcesConfig{
			HingeMatches:         "hinge/matches.json",
			InstagramConnections: "instagram/connections.json",
			InstagramLikes:       "instagram/likes.json",
			NetflixViewing:       "netflix/ViewingActivity.csv",
			SpotifyDir:           "spotify",
			SpotifyPrefix:        "StreamingHistory",
			YoutubeHistory:       "youtube/watch-history.json",
		},
		Analysis: structures.AnalysisConfig{
			OutlierThreshold: 10,
			MinViewSeconds:   300,
			TopChannels:      1,
			MinChannelViews:  2,
		},
	}
}

func writeExports(t *testing.T) string {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "hinge/matches.json", `[
	  {"like": [{"timestamp": "2021-01-04 09:00:00"}], "match": [{"timestamp": "2021-01-04 10:00:00"}],
	   "chats": [{"body": "hi", "timestamp": "2021-01-04 11:00:00"}, {"body": "hey", "timestamp": "2021-01-05 11:00:00"}]},
	  {"match": [{"timestamp": "2021-06-07 10:00:00"}]},
	  {"block": [{"timestamp": "2021-03-03 10:00:00"}]}
	]`)
	testutil.WriteFile(t, dir, "instagram/connections.json", `{
	  "followers": {"amy": "2021-03-01T10:00:00+00:00"},
	  "following": {"cat": "2021-03-10T00:00:00+00:00", "dan": "2021-04-10T00:00:00+00:00"}
	}`)
	testutil.WriteFile(t, dir, "instagram/likes.json", `{"media_likes": [["2021-01-04T10:00:00+00:00", "alice"]]}`)
	testutil.WriteFile(t, dir, "netflix/ViewingActivity.csv",
		"Profile Name,Start Time,Duration,Attributes,Title,Supplemental Video Type,Device Type,Bookmark,Latest Bookmark,Country\n"+
			"Alice,2021-01-05 20:00:00,1:00:00,,The Show: Season 1: Episode 1,,TV,,,US\n"+
			"Bob,2021-02-01 20:00:00,1:30:00,,A Movie,,TV,,,US\n")
	testutil.WriteFile(t, dir, "spotify/StreamingHistory0.json", `[
	  {"endTime": "2021-01-04 10:00", "artistName": "A", "trackName": "T1", "msPlayed": 120000},
	  {"endTime": "2021-01-05 10:00", "artistName": "B", "trackName": "T2", "msPlayed": 5000}
	]`)
	testutil.WriteFile(t, dir, "youtube/watch-history.json", `[
	  {"title": "Watched 1", "titleUrl": "https://youtu.be/1", "time": "2021-01-04T10:00:00Z", "subtitles": [{"name": "Chan A"}]},
	  {"title": "Watched 2", "titleUrl": "https://youtu.be/2", "time": "2021-01-11T10:00:00Z", "subtitles": [{"name": "Chan A"}]},
	  {"title": "Watched 3", "titleUrl": "https://youtu.be/3", "time": "2021-01-12T10:00:00Z", "subtitles": [{"name": "Chan B"}]},
	  {"title": "Watched an ad", "time": "2021-01-12T11:00:00Z"}
	]`)
	return dir
}

func newTestService(t *testing.T) (*ExportService, *testutil.MockMetrics) {
	t.Helper()
	conf := testConfig(writeExports(t))
	metrics := testutil.NewMockMetrics()
	svc, err := NewExportService(conf, NewDataRoot(conf, nil), &testutil.MockLogger{}, metrics)
	require.NoError(t, err)
	return svc.(*ExportService), metrics
}

func point(t *testing.T, series *models.Series, bucket, category string) float64 {
	t.Helper()
	for _, p := range series.Points {
		if p.Bucket == bucket && p.Category == category {
			return p.Value
		}
	}
	t.Fatalf("no point %q/%q in %s %s series", bucket, category, series.Source, series.Dimension)
	return 0
}

func TestNewExportService_InvalidTimezone(t *testing.T) {
	conf := testConfig(t.TempDir())
	conf.Timezone = "Not/AZone"

	_, err := NewExportService(conf, NewDataRoot(conf, nil), &testutil.MockLogger{}, testutil.NewMockMetrics())
	assert.Error(t, err)
}

func TestExportService_MatchesByWeekday(t *testing.T) {
	svc, metrics := newTestService(t)

	series, err := svc.MatchesByWeekday(structures.Filter{Year: 2021})
	require.NoError(t, err)

	assert.Equal(t, SourceHinge, series.Source)
	assert.Equal(t, 2021, series.Year)
	assert.Len(t, series.Points, 7*4)
	assert.Equal(t, 1.0, point(t, series, "Monday", models.ClassLikeAccepted.String()))
	assert.Equal(t, 1.0, point(t, series, "Monday", models.ClassUserAccepted.String()))
	assert.Equal(t, 1.0, point(t, series, "Wednesday", models.ClassUserRejected.String()))
	assert.Equal(t, 0.0, point(t, series, "Friday", models.ClassLikeRejected.String()))

	assert.Equal(t, 3, metrics.Records[SourceHinge])
	assert.Equal(t, 1, metrics.Loads[SourceHinge])
}

func TestExportService_MatchesByMonth(t *testing.T) {
	svc, _ := newTestService(t)

	series, err := svc.MatchesByMonth(structures.Filter{})
	require.NoError(t, err)
	assert.Len(t, series.Points, 12*4)
	assert.Equal(t, 1.0, point(t, series, "June", models.ClassUserAccepted.String()))
}

func TestExportService_Chats(t *testing.T) {
	svc, _ := newTestService(t)

	weekday, err := svc.ChatsByWeekday(structures.Filter{})
	require.NoError(t, err)
	assert.Len(t, weekday.Points, 7)
	assert.Equal(t, 1.0, point(t, weekday, "Monday", ""))
	assert.Equal(t, 1.0, point(t, weekday, "Tuesday", ""))

	month, err := svc.ChatsByMonth(structures.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, point(t, month, "January", ""))
}

func TestExportService_MatchSummary(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.MatchSummary(structures.Filter{Year: 2021})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.LikeAccepted)
	assert.Equal(t, 100.0, summary.OthersAcceptanceRate)
	assert.Equal(t, 50.0, summary.UserAcceptanceRate)
}

func TestExportService_Instagram(t *testing.T) {
	svc, _ := newTestService(t)

	connections, err := svc.ConnectionsByMonth(structures.Filter{})
	require.NoError(t, err)
	assert.Len(t, connections.Points, 24)
	assert.Equal(t, 1.0, point(t, connections, "March", CategoryFollowers))
	assert.Equal(t, 1.0, point(t, connections, "March", CategoryFollowing))
	assert.Equal(t, 1.0, point(t, connections, "April", CategoryFollowing))

	likes, err := svc.LikesByMonth(structures.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, point(t, likes, "January", ""))
}

func TestExportService_NetflixByWeekday(t *testing.T) {
	svc, _ := newTestService(t)

	series, err := svc.NetflixByWeekday(structures.Filter{Year: 2021})
	require.NoError(t, err)
	assert.Len(t, series.Points, 14)
	// One hour of show on a Tuesday and 1.5 hours of movie on a Monday, over 52 of each.
	assert.Equal(t, 0.02, point(t, series, "Tuesday", CategoryShow))
	assert.Equal(t, 0.03, point(t, series, "Monday", CategoryMovie))
	assert.Equal(t, 0.0, point(t, series, "Monday", CategoryShow))
}

func TestExportService_NetflixByMonthAndProfiles(t *testing.T) {
	svc, _ := newTestService(t)

	series, err := svc.NetflixByMonth(structures.Filter{Profile: "Bob"})
	require.NoError(t, err)
	require.Len(t, series.Points, 1)
	assert.Equal(t, models.SeriesPoint{Bucket: "February", Category: "Other (i.e. Movie)", Value: 2}, series.Points[0])

	profiles, err := svc.NetflixProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, profiles)
}

func TestExportService_Spotify(t *testing.T) {
	svc, _ := newTestService(t)

	artists, err := svc.ArtistsByMonth(structures.Filter{}, 60)
	require.NoError(t, err)
	require.Len(t, artists.Points, 1)
	assert.Equal(t, 2.0, point(t, artists, "January", "A"))

	tracks, err := svc.TracksByMonth(structures.Filter{}, 0)
	require.NoError(t, err)
	assert.Len(t, tracks.Points, 2)
	assert.Equal(t, 0.08, point(t, tracks, "January", "T2"))
}

func TestExportService_Youtube(t *testing.T) {
	svc, metrics := newTestService(t)

	weekday, err := svc.YoutubeByWeekday(structures.Filter{Year: 2021})
	require.NoError(t, err)
	assert.Equal(t, 0.04, point(t, weekday, "Monday", ""))
	assert.Equal(t, 0.02, point(t, weekday, "Tuesday", ""))
	assert.Equal(t, 1, metrics.Skipped[SourceYoutube])

	month, err := svc.YoutubeByMonth(structures.Filter{})
	require.NoError(t, err)
	require.Len(t, month.Points, 1)
	assert.Equal(t, models.SeriesPoint{Bucket: "January", Category: "Chan A", Value: 2}, month.Points[0])

	channels, err := svc.YoutubeChannels(structures.Filter{})
	require.NoError(t, err)
	require.Len(t, channels.Points, 1)
	assert.Equal(t, "Chan A", channels.Points[0].Bucket)
}

func TestExportService_MissingExportIsLoadError(t *testing.T) {
	conf := testConfig(t.TempDir())
	logger := &testutil.MockLogger{}
	svc, err := NewExportService(conf, NewDataRoot(conf, nil), logger, testutil.NewMockMetrics())
	require.NoError(t, err)

	_, err = svc.YoutubeByMonth(structures.Filter{})
	assert.ErrorIs(t, err, models.ErrLoad)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestExportService_ReadsCompressedExports(t *testing.T) {
	dir := writeExports(t)
	compressor, err := loaders.NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	plain := []byte(`{"media_likes": [["2021-07-04T10:00:00+00:00", "zoe"]]}`)
	packed, err := compressor.Compress(plain)
	require.NoError(t, err)
	testutil.WriteFile(t, dir, "instagram/likes.json.zst", string(packed))
	require.NoError(t, os.Remove(filepath.Join(dir, "instagram/likes.json")))

	conf := testConfig(dir)
	svc, err := NewExportService(conf, NewDataRoot(conf, compressor), &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)

	likes, err := svc.LikesByMonth(structures.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, point(t, likes, "July", ""))
}

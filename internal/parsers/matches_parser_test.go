package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/structures"
	"lifestats/internal/testutil"
)

const matchesFixture = `[
  {"like": [{"timestamp": "2021-01-04 09:00:00"}],
   "match": [{"timestamp": "2021-01-04 10:00:00"}],
   "chats": [{"body": "hi", "timestamp": "2021-01-04 11:00:00"},
             {"body": "hey", "timestamp": "2021-01-05 11:00:00"}]},
  {"match": [{"timestamp": "2021-06-07 10:00:00"}]},
  {"block": [{"timestamp": "2021-03-03 10:00:00"}]},
  {"like": [{"timestamp": "2020-02-02 10:00:00"}]}
]`

func newMatchesParser(t *testing.T, content string, filter structures.Filter) *MatchesParser {
	return NewMatchesParser(jsonFixture(t, "matches.json", content), filter, utc(), &testutil.MockLogger{})
}

func TestMatchesParser_MatchesByMonth(t *testing.T) {
	p := newMatchesParser(t, `[
	  {"match": [{"timestamp": "2021-01-04 10:00:00"}]},
	  {"match": [{"timestamp": "2021-06-07 10:00:00"}]}
	]`, structures.Filter{})

	matches, err := p.Matches()
	require.NoError(t, err)
	byMonth, err := p.MatchesByMonth()
	require.NoError(t, err)

	assert.Len(t, byMonth, 12)
	assert.Equal(t, []models.Match{matches[0]}, byMonth[0])
	assert.Equal(t, []models.Match{matches[1]}, byMonth[5])
	for i, bucket := range byMonth {
		if i != 0 && i != 5 {
			assert.Empty(t, bucket, "month %d", i)
		}
	}
}

func TestMatchesParser_DatePriority(t *testing.T) {
	p := newMatchesParser(t, `[
	  {"like": [{"timestamp": "2021-01-01 00:00:00"}],
	   "block": [{"timestamp": "2021-02-01 00:00:00"}],
	   "match": [{"timestamp": "2021-03-01 00:00:00"}]},
	  {"like": [{"timestamp": "2021-01-01 00:00:00"}],
	   "block": [{"timestamp": "2021-02-01 00:00:00"}]},
	  {"like": [{"timestamp": "2021-01-01 00:00:00"}]}
	]`, structures.Filter{})

	matches, err := p.Matches()
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, 3, int(matches[0].Date.Month()))
	assert.Equal(t, 2, int(matches[1].Date.Month()))
	assert.Equal(t, 1, int(matches[2].Date.Month()))
}

func TestMatchesParser_MissingTimestampIsValidationError(t *testing.T) {
	p := newMatchesParser(t, `[{"chats": [{"body": "x", "timestamp": "2021-01-01 00:00:00"}]}]`, structures.Filter{})

	_, err := p.Matches()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestMatchesParser_MissingFileIsLoadError(t *testing.T) {
	root := loaders.NewRoot(t.TempDir(), nil)
	p := NewMatchesParser(loaders.NewJsonLoader(root, "matches.json"), structures.Filter{}, utc(), nil)

	_, err := p.Matches()
	assert.ErrorIs(t, err, models.ErrLoad)
	_, err = p.Summary()
	assert.ErrorIs(t, err, models.ErrLoad)
}

func TestMatchesParser_MalformedJsonIsLoadError(t *testing.T) {
	p := newMatchesParser(t, `{`, structures.Filter{})

	_, err := p.MatchesByWeekday()
	assert.ErrorIs(t, err, models.ErrLoad)
}

func TestMatchesParser_Classification(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})

	la, err := p.LikeAcceptedMatches()
	require.NoError(t, err)
	lr, err := p.LikeRejectedMatches()
	require.NoError(t, err)
	ua, err := p.UserAcceptedMatches()
	require.NoError(t, err)
	ur, err := p.UserRejectedMatches()
	require.NoError(t, err)

	assert.Len(t, la, 1)
	assert.Len(t, lr, 1)
	assert.Len(t, ua, 1)
	assert.Len(t, ur, 1)

	matches, err := p.Matches()
	require.NoError(t, err)
	assert.Equal(t, models.ClassLikeAccepted, matches[0].Classification())
	assert.Equal(t, models.ClassUserAccepted, matches[1].Classification())
	assert.Equal(t, models.ClassUserRejected, matches[2].Classification())
	assert.Equal(t, models.ClassLikeRejected, matches[3].Classification())
}

func TestMatchesParser_YearFilter(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{Year: 2021})

	n, err := p.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	byMonth, err := p.MatchesByMonth()
	require.NoError(t, err)
	assert.Len(t, byMonth[0], 1)
	assert.Len(t, byMonth[2], 1)
	assert.Len(t, byMonth[5], 1)
	assert.Empty(t, byMonth[1])
}

func TestMatchesParser_BucketsPartitionMatches(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})

	matches, err := p.Matches()
	require.NoError(t, err)
	byWeekday, err := p.MatchesByWeekday()
	require.NoError(t, err)
	byMonth, err := p.MatchesByMonth()
	require.NoError(t, err)

	assert.Len(t, byWeekday, 7)
	assert.Equal(t, len(matches), bucketTotal(byWeekday[:]))
	assert.Equal(t, len(matches), bucketTotal(byMonth[:]))
	// 2021-01-04 and 2021-06-07 are Mondays, 2021-03-03 a Wednesday, 2020-02-02 a Sunday.
	assert.Len(t, byWeekday[0], 2)
	assert.Len(t, byWeekday[2], 1)
	assert.Len(t, byWeekday[6], 1)
}

func TestMatchesParser_MatchCountsByWeekday(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})

	counts, err := p.MatchCountsByWeekday()
	require.NoError(t, err)
	assert.Equal(t, models.ClassificationCounts{LikeAccepted: 1, UserAccepted: 1}, counts[0])
	assert.Equal(t, models.ClassificationCounts{UserRejected: 1}, counts[2])
	assert.Equal(t, models.ClassificationCounts{LikeRejected: 1}, counts[6])

	monthly, err := p.MatchCountsByMonth()
	require.NoError(t, err)
	assert.Equal(t, 1, monthly[5].UserAccepted)
}

func TestMatchesParser_ChatStatistics(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})

	durations, err := p.ChatDurationsSeconds()
	require.NoError(t, err)
	assert.Equal(t, []float64{86400}, durations)

	lengths, err := p.ChatLengths(false)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 0, 0}, lengths)

	lengths, err = p.ChatLengths(true)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, lengths)

	avgDays, err := p.AverageDaysBetweenFirstAndLastChat()
	require.NoError(t, err)
	assert.Equal(t, 1.0, avgDays)

	avgGap, err := p.AverageSecondsBetweenChats()
	require.NoError(t, err)
	assert.Equal(t, 86400.0, avgGap)

	avgSent, err := p.AverageChatsSent(false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avgSent)

	medianSent, err := p.MedianChatsSent(true)
	require.NoError(t, err)
	assert.Equal(t, 2.0, medianSent)
}

func TestMatchesParser_AverageSecondsBetweenChatsRoundsUp(t *testing.T) {
	p := newMatchesParser(t, `[
	  {"match": [{"timestamp": "2021-01-04 10:00:00"}],
	   "chats": [{"body": "a", "timestamp": "2021-01-04 10:00:00"},
	             {"body": "b", "timestamp": "2021-01-04 10:00:01"},
	             {"body": "c", "timestamp": "2021-01-04 10:00:03"}]}
	]`, structures.Filter{})

	gaps, err := p.SecondsBetweenChats()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, gaps)

	avg, err := p.AverageSecondsBetweenChats()
	require.NoError(t, err)
	assert.Equal(t, 2.0, avg)

	median, err := p.MedianSecondsBetweenChats()
	require.NoError(t, err)
	assert.Equal(t, 1.5, median)
}

func TestMatchesParser_GapsKeepFractionalSeconds(t *testing.T) {
	p := newMatchesParser(t, `[
	  {"match": [{"timestamp": "2021-01-04 10:00:00"}],
	   "chats": [{"body": "a", "timestamp": "2021-01-04 10:00:00.000"},
	             {"body": "b", "timestamp": "2021-01-04 10:00:00.500"},
	             {"body": "c", "timestamp": "2021-01-04 10:00:02.000"}]}
	]`, structures.Filter{})

	gaps, err := p.SecondsBetweenChats()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5}, gaps)

	durations, err := p.ChatDurationsSeconds()
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, durations)

	median, err := p.MedianSecondsBetweenChats()
	require.NoError(t, err)
	assert.Equal(t, 1.0, median)

	avg, err := p.AverageSecondsBetweenChats()
	require.NoError(t, err)
	assert.Equal(t, 1.0, avg)
}

func TestMatchesParser_EmptyExportYieldsZeroStatistics(t *testing.T) {
	p := newMatchesParser(t, `[]`, structures.Filter{})

	summary, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, models.MatchSummary{}, summary)

	byWeekday, err := p.ChatsByWeekday()
	require.NoError(t, err)
	assert.Zero(t, bucketTotal(byWeekday[:]))
}

func TestMatchesParser_NoChatAndChatted(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})

	noChat, err := p.NoChatMatches()
	require.NoError(t, err)
	require.Len(t, noChat, 1)
	assert.True(t, noChat[0].UserAccepted())

	chatted, err := p.ChattedMatches()
	require.NoError(t, err)
	assert.Len(t, chatted, 1)
}

func TestMatchesParser_ChatsByWeekdayRejectsOutliers(t *testing.T) {
	chats := func(day string, n int) string {
		out := ""
		for i := 0; i < n; i++ {
			if i > 0 {
				out += ","
			}
			out += `{"body": "x", "timestamp": "` + day + ` 10:00:00"}`
		}
		return out
	}
	content := `[
	  {"match": [{"timestamp": "2021-01-04 10:00:00"}], "chats": [` + chats("2021-01-04", 1) + `]},
	  {"match": [{"timestamp": "2021-01-04 10:00:00"}], "chats": [` + chats("2021-01-04", 1) + `]},
	  {"match": [{"timestamp": "2021-01-04 10:00:00"}], "chats": [` + chats("2021-01-04", 1) + `]},
	  {"match": [{"timestamp": "2021-01-05 10:00:00"}], "chats": [` + chats("2021-01-05", 40) + `]}
	]`

	p := newMatchesParser(t, content, structures.Filter{})
	p.SetOutlierThreshold(1)

	byWeekday, err := p.ChatsByWeekday()
	require.NoError(t, err)
	assert.Len(t, byWeekday[0], 3)
	assert.Empty(t, byWeekday[1])

	byMonth, err := p.ChatsByMonth()
	require.NoError(t, err)
	assert.Len(t, byMonth[0], 43)
}

func TestMatchesParser_Summary(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})

	s, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, s.LikeAccepted)
	assert.Equal(t, 1, s.LikeRejected)
	assert.Equal(t, 50.0, s.OthersAcceptanceRate)
	assert.Equal(t, 1, s.UserAccepted)
	assert.Equal(t, 1, s.UserRejected)
	assert.Equal(t, 50.0, s.UserAcceptanceRate)
	assert.Equal(t, 1, s.NoChat)
	assert.Equal(t, 1, s.Chatted)
	assert.Equal(t, 1.0, s.AverageDaysBetweenFirstAndLastChat)
	assert.Equal(t, 24.0, s.AverageHoursBetweenChats)
	assert.Equal(t, 2.0, s.AverageChatsSent)
	assert.Contains(t, s.String(), "Likes sent that were accepted: 1")
}

func TestMatchesParser_LoadsOnce(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})
	counting := &countingDecoder{DecoderInterface: p.loader}
	p.loader = counting

	_, err := p.Matches()
	require.NoError(t, err)
	_, err = p.MatchesByMonth()
	require.NoError(t, err)
	_, err = p.Summary()
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
}

func TestMatchesParser_ChatBucketsAreKept(t *testing.T) {
	p := newMatchesParser(t, matchesFixture, structures.Filter{})

	byWeekday, err := p.ChatsByWeekday()
	require.NoError(t, err)
	require.Len(t, byWeekday[0], 1)

	// Buckets are built once, so a later threshold no longer applies.
	p.SetOutlierThreshold(0.1)
	again, err := p.ChatsByWeekday()
	require.NoError(t, err)
	require.Len(t, again[0], 1)
	assert.Same(t, &byWeekday[0][0], &again[0][0])

	byMonth, err := p.ChatsByMonth()
	require.NoError(t, err)
	require.Len(t, byMonth[0], 2)
	monthAgain, err := p.ChatsByMonth()
	require.NoError(t, err)
	assert.Same(t, &byMonth[0][0], &monthAgain[0][0])
}

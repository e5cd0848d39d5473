package parsers

import (
	"fmt"
	"math"
	"sync"
	"time"

	"lifestats/internal/aggregate"
	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/providers"
	"lifestats/internal/structures"
)

// DefaultOutlierThreshold keeps conversations within ten standard deviations of the mean
// chat count when bucketing chats by weekday.
const DefaultOutlierThreshold = 10

// MatchesParser reads a hinge matches.json export.
type MatchesParser struct {
	base
	loader           loaders.DecoderInterface
	outlierThreshold float64

	matches   func() ([]models.Match, error)
	byWeekday func() ([aggregate.DaysInWeek][]models.Match, error)
	byMonth   func() ([aggregate.MonthsInYear][]models.Match, error)

	chatsByWeekday func() ([aggregate.DaysInWeek][]models.Chat, error)
	chatsByMonth   func() ([aggregate.MonthsInYear][]models.Chat, error)
}

func NewMatchesParser(loader loaders.DecoderInterface, filter structures.Filter, normalizer *models.Normalizer, logger providers.Logger) *MatchesParser {
	p := &MatchesParser{
		base:             newBase(filter, normalizer, logger),
		loader:           loader,
		outlierThreshold: DefaultOutlierThreshold,
	}
	p.matches = sync.OnceValues(p.buildMatches)
	p.byWeekday = sync.OnceValues(func() ([aggregate.DaysInWeek][]models.Match, error) {
		matches, err := p.matches()
		if err != nil {
			return [aggregate.DaysInWeek][]models.Match{}, err
		}
		return aggregate.ByWeekday(matches, matchDate), nil
	})
	p.byMonth = sync.OnceValues(func() ([aggregate.MonthsInYear][]models.Match, error) {
		matches, err := p.matches()
		if err != nil {
			return [aggregate.MonthsInYear][]models.Match{}, err
		}
		return aggregate.ByMonth(matches, matchDate), nil
	})
	p.chatsByWeekday = memo(p.matches, p.bucketChatsByWeekday)
	p.chatsByMonth = memo(p.matches, func(matches []models.Match) [aggregate.MonthsInYear][]models.Chat {
		var chats []models.Chat
		for _, m := range matches {
			chats = append(chats, m.Chats...)
		}
		return aggregate.ByMonth(chats, chatDate)
	})
	return p
}

// SetOutlierThreshold must be called before ChatsByWeekday is first used; the weekday
// buckets are kept once built.
func (p *MatchesParser) SetOutlierThreshold(threshold float64) {
	if threshold > 0 {
		p.outlierThreshold = threshold
	}
}

func matchDate(m models.Match) time.Time { return m.Date }

func (p *MatchesParser) buildMatches() ([]models.Match, error) {
	var raw []models.RawMatch
	if err := p.loader.Decode(&raw); err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(raw))
	for i, rm := range raw {
		m, err := models.NewMatch(rm, p.normalizer)
		if err != nil {
			return nil, fmt.Errorf("match #%d: %w", i, err)
		}
		if p.inYear(m.Date) {
			matches = append(matches, m)
		}
	}
	p.debugf("Loaded %d matches (%d kept) from %s", len(raw), len(matches), p.loader.Path())
	return matches, nil
}

func (p *MatchesParser) Matches() ([]models.Match, error) {
	return p.matches()
}

func (p *MatchesParser) Count() (int, error) {
	matches, err := p.matches()
	return len(matches), err
}

func (p *MatchesParser) where(keep func(models.Match) bool) ([]models.Match, error) {
	matches, err := p.matches()
	if err != nil {
		return nil, err
	}
	return selectWhere(matches, keep), nil
}

func (p *MatchesParser) LikeAcceptedMatches() ([]models.Match, error) {
	return p.where(models.Match.LikeAccepted)
}

func (p *MatchesParser) LikeRejectedMatches() ([]models.Match, error) {
	return p.where(models.Match.LikeRejected)
}

func (p *MatchesParser) UserAcceptedMatches() ([]models.Match, error) {
	return p.where(models.Match.UserAccepted)
}

func (p *MatchesParser) UserRejectedMatches() ([]models.Match, error) {
	return p.where(models.Match.UserRejected)
}

// NoChatMatches are accepted matches nobody wrote to.
func (p *MatchesParser) NoChatMatches() ([]models.Match, error) {
	return p.where(func(m models.Match) bool { return m.Accepted() && !m.Chatted() })
}

func (p *MatchesParser) ChattedMatches() ([]models.Match, error) {
	return p.where(models.Match.Chatted)
}

// ChatDurationsSeconds lists first-to-last chat spans, skipping matches where the span is
// undefined or zero.
func (p *MatchesParser) ChatDurationsSeconds() ([]float64, error) {
	matches, err := p.matches()
	if err != nil {
		return nil, err
	}
	var durations []float64
	for _, m := range matches {
		if d, ok := m.ChatDurationSeconds(); ok && d != 0 {
			durations = append(durations, d)
		}
	}
	return durations, nil
}

func (p *MatchesParser) ChatLengths(excludeEmpty bool) ([]int, error) {
	matches, err := p.matches()
	if err != nil {
		return nil, err
	}
	lengths := make([]int, 0, len(matches))
	for _, m := range matches {
		if excludeEmpty && len(m.Chats) == 0 {
			continue
		}
		lengths = append(lengths, len(m.Chats))
	}
	return lengths, nil
}

func (p *MatchesParser) AverageDaysBetweenFirstAndLastChat() (float64, error) {
	durations, err := p.ChatDurationsSeconds()
	if err != nil {
		return 0, err
	}
	return aggregate.Round(aggregate.Mean(durations)/secondsInDay, 2), nil
}

func (p *MatchesParser) MedianDaysBetweenFirstAndLastChat() (float64, error) {
	durations, err := p.ChatDurationsSeconds()
	if err != nil {
		return 0, err
	}
	return aggregate.Round(aggregate.Median(durations)/secondsInDay, 2), nil
}

// SecondsBetweenChats lists the gap between every pair of consecutive chats of a match.
func (p *MatchesParser) SecondsBetweenChats() ([]float64, error) {
	matches, err := p.matches()
	if err != nil {
		return nil, err
	}
	var gaps []float64
	for _, m := range matches {
		for i := 1; i < len(m.Chats); i++ {
			gaps = append(gaps, m.Chats[i].Date.Sub(m.Chats[i-1].Date).Seconds())
		}
	}
	return gaps, nil
}

func (p *MatchesParser) AverageSecondsBetweenChats() (float64, error) {
	gaps, err := p.SecondsBetweenChats()
	if err != nil {
		return 0, err
	}
	return math.Ceil(aggregate.Mean(gaps)), nil
}

func (p *MatchesParser) MedianSecondsBetweenChats() (float64, error) {
	gaps, err := p.SecondsBetweenChats()
	if err != nil {
		return 0, err
	}
	return aggregate.Median(gaps), nil
}

func (p *MatchesParser) AverageChatsSent(excludeEmpty bool) (float64, error) {
	lengths, err := p.ChatLengths(excludeEmpty)
	if err != nil {
		return 0, err
	}
	return aggregate.Round(aggregate.Mean(lengths), 0), nil
}

func (p *MatchesParser) MedianChatsSent(excludeEmpty bool) (float64, error) {
	lengths, err := p.ChatLengths(excludeEmpty)
	if err != nil {
		return 0, err
	}
	return aggregate.Median(lengths), nil
}

func (p *MatchesParser) MatchesByWeekday() ([aggregate.DaysInWeek][]models.Match, error) {
	return p.byWeekday()
}

func (p *MatchesParser) MatchesByMonth() ([aggregate.MonthsInYear][]models.Match, error) {
	return p.byMonth()
}

func (p *MatchesParser) MatchCountsByWeekday() ([aggregate.DaysInWeek]models.ClassificationCounts, error) {
	var counts [aggregate.DaysInWeek]models.ClassificationCounts
	buckets, err := p.byWeekday()
	if err != nil {
		return counts, err
	}
	for i, bucket := range buckets {
		for _, m := range bucket {
			counts[i].Add(m)
		}
	}
	return counts, nil
}

func (p *MatchesParser) MatchCountsByMonth() ([aggregate.MonthsInYear]models.ClassificationCounts, error) {
	var counts [aggregate.MonthsInYear]models.ClassificationCounts
	buckets, err := p.byMonth()
	if err != nil {
		return counts, err
	}
	for i, bucket := range buckets {
		for _, m := range bucket {
			counts[i].Add(m)
		}
	}
	return counts, nil
}

// ChatsByWeekday buckets chats by the weekday they were sent, leaving out matches whose
// chat count is an outlier.
func (p *MatchesParser) ChatsByWeekday() ([aggregate.DaysInWeek][]models.Chat, error) {
	return p.chatsByWeekday()
}

func (p *MatchesParser) bucketChatsByWeekday(matches []models.Match) [aggregate.DaysInWeek][]models.Chat {
	counts := make([]int, len(matches))
	for i, m := range matches {
		counts[i] = len(m.Chats)
	}
	keep := aggregate.RejectOutliers(counts, p.outlierThreshold)

	var chats []models.Chat
	for i, m := range matches {
		if keep[i] {
			chats = append(chats, m.Chats...)
		}
	}
	return aggregate.ByWeekday(chats, chatDate)
}

func (p *MatchesParser) ChatsByMonth() ([aggregate.MonthsInYear][]models.Chat, error) {
	return p.chatsByMonth()
}

func chatDate(c models.Chat) time.Time { return c.Date }

func (p *MatchesParser) Summary() (models.MatchSummary, error) {
	s := models.MatchSummary{Year: p.filter.Year}
	matches, err := p.matches()
	if err != nil {
		return s, err
	}
	for _, m := range matches {
		if m.LikeAccepted() {
			s.LikeAccepted++
		}
		if m.LikeRejected() {
			s.LikeRejected++
		}
		if m.UserAccepted() {
			s.UserAccepted++
		}
		if m.UserRejected() {
			s.UserRejected++
		}
		if m.Accepted() && !m.Chatted() {
			s.NoChat++
		}
		if m.Chatted() {
			s.Chatted++
		}
	}
	s.OthersAcceptanceRate = percentage(s.LikeAccepted, s.LikeAccepted+s.LikeRejected)
	s.UserAcceptanceRate = percentage(s.UserAccepted, s.UserAccepted+s.UserRejected)

	if s.AverageDaysBetweenFirstAndLastChat, err = p.AverageDaysBetweenFirstAndLastChat(); err != nil {
		return s, err
	}
	if s.MedianDaysBetweenFirstAndLastChat, err = p.MedianDaysBetweenFirstAndLastChat(); err != nil {
		return s, err
	}
	avgGap, err := p.AverageSecondsBetweenChats()
	if err != nil {
		return s, err
	}
	s.AverageHoursBetweenChats = aggregate.Round(avgGap/3600, 2)
	if s.MedianSecondsBetweenChats, err = p.MedianSecondsBetweenChats(); err != nil {
		return s, err
	}
	if s.AverageChatsSent, err = p.AverageChatsSent(true); err != nil {
		return s, err
	}
	if s.MedianChatsSent, err = p.MedianChatsSent(true); err != nil {
		return s, err
	}
	return s, nil
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return aggregate.Round(100*float64(part)/float64(total), 1)
}

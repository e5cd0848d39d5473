package testutil

import (
	"sync"

	"lifestats/internal/models"
	"lifestats/internal/structures"
)

// MockExportService satisfies services.ExportServiceInterface. Every report returns
// Series (or Err when set) and records the call with its filter.
type MockExportService struct {
	mu sync.Mutex

	Series   *models.Series
	Summary  *models.MatchSummary
	Profiles []string
	Err      error

	Calls   []string
	Filters []structures.Filter
	// MinSeconds holds the last threshold passed to the spotify reports.
	MinSeconds int64
}

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Series:   &models.Series{Source: "mock", Dimension: "month", Metric: "count", Points: []models.SeriesPoint{{Bucket: "January", Value: 1}}},
		Summary:  &models.MatchSummary{LikeAccepted: 1},
		Profiles: []string{"Alice"},
	}
}

func (m *MockExportService) record(call string, filter structures.Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
	m.Filters = append(m.Filters, filter)
}

// CallCount returns how many times call was made.
func (m *MockExportService) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// LastFilter returns the filter of the most recent call.
func (m *MockExportService) LastFilter() structures.Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Filters) == 0 {
		return structures.Filter{}
	}
	return m.Filters[len(m.Filters)-1]
}

func (m *MockExportService) series(call string, filter structures.Filter) (*models.Series, error) {
	m.record(call, filter)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Series, nil
}

func (m *MockExportService) MatchesByWeekday(filter structures.Filter) (*models.Series, error) {
	return m.series("MatchesByWeekday", filter)
}

func (m *MockExportService) MatchesByMonth(filter structures.Filter) (*models.Series, error) {
	return m.series("MatchesByMonth", filter)
}

func (m *MockExportService) ChatsByWeekday(filter structures.Filter) (*models.Series, error) {
	return m.series("ChatsByWeekday", filter)
}

func (m *MockExportService) ChatsByMonth(filter structures.Filter) (*models.Series, error) {
	return m.series("ChatsByMonth", filter)
}

func (m *MockExportService) MatchSummary(filter structures.Filter) (*models.MatchSummary, error) {
	m.record("MatchSummary", filter)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Summary, nil
}

func (m *MockExportService) ConnectionsByMonth(filter structures.Filter) (*models.Series, error) {
	return m.series("ConnectionsByMonth", filter)
}

func (m *MockExportService) LikesByMonth(filter structures.Filter) (*models.Series, error) {
	return m.series("LikesByMonth", filter)
}

func (m *MockExportService) NetflixByWeekday(filter structures.Filter) (*models.Series, error) {
	return m.series("NetflixByWeekday", filter)
}

func (m *MockExportService) NetflixByMonth(filter structures.Filter) (*models.Series, error) {
	return m.series("NetflixByMonth", filter)
}

func (m *MockExportService) NetflixProfiles() ([]string, error) {
	m.record("NetflixProfiles", structures.Filter{})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Profiles, nil
}

func (m *MockExportService) ArtistsByMonth(filter structures.Filter, minSeconds int64) (*models.Series, error) {
	m.mu.Lock()
	m.MinSeconds = minSeconds
	m.mu.Unlock()
	return m.series("ArtistsByMonth", filter)
}

func (m *MockExportService) TracksByMonth(filter structures.Filter, minSeconds int64) (*models.Series, error) {
	m.mu.Lock()
	m.MinSeconds = minSeconds
	m.mu.Unlock()
	return m.series("TracksByMonth", filter)
}

func (m *MockExportService) YoutubeByWeekday(filter structures.Filter) (*models.Series, error) {
	return m.series("YoutubeByWeekday", filter)
}

func (m *MockExportService) YoutubeByMonth(filter structures.Filter) (*models.Series, error) {
	return m.series("YoutubeByMonth", filter)
}

func (m *MockExportService) YoutubeChannels(filter structures.Filter) (*models.Series, error) {
	return m.series("YoutubeChannels", filter)
}

package services

import (
	"time"

	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/parsers"
	"lifestats/internal/providers"
	"lifestats/internal/structures"
)

const (
	SourceHinge     = "hinge"
	SourceInstagram = "instagram"
	SourceNetflix   = "netflix"
	SourceSpotify   = "spotify"
	SourceYoutube   = "youtube"
)

type ExportServiceInterface interface {
	MatchesByWeekday(filter structures.Filter) (*models.Series, error)
	MatchesByMonth(filter structures.Filter) (*models.Series, error)
	ChatsByWeekday(filter structures.Filter) (*models.Series, error)
	ChatsByMonth(filter structures.Filter) (*models.Series, error)
	MatchSummary(filter structures.Filter) (*models.MatchSummary, error)
	ConnectionsByMonth(filter structures.Filter) (*models.Series, error)
	LikesByMonth(filter structures.Filter) (*models.Series, error)
	NetflixByWeekday(filter structures.Filter) (*models.Series, error)
	NetflixByMonth(filter structures.Filter) (*models.Series, error)
	NetflixProfiles() ([]string, error)
	ArtistsByMonth(filter structures.Filter, minSeconds int64) (*models.Series, error)
	TracksByMonth(filter structures.Filter, minSeconds int64) (*models.Series, error)
	YoutubeByWeekday(filter structures.Filter) (*models.Series, error)
	YoutubeByMonth(filter structures.Filter) (*models.Series, error)
	YoutubeChannels(filter structures.Filter) (*models.Series, error)
}

// ExportService builds a fresh parser per call, so every report reflects the exports
// currently on disk. Response caching is left to the caller.
type ExportService struct {
	conf       *structures.Config
	root       *loaders.Root
	normalizer *models.Normalizer
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewExportService(conf *structures.Config, root *loaders.Root, logger providers.Logger, metrics providers.MetricsProviderInterface) (ExportServiceInterface, error) {
	normalizer, err := models.NewNormalizerForZone(conf.Timezone)
	if err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "Reading exports from %s (timezone %s)", root.Dir(), normalizer.Location())
	return &ExportService{
		conf:       conf,
		root:       root,
		normalizer: normalizer,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// NewDataRoot binds the configured data root to the zstd compressor used for .zst exports.
func NewDataRoot(conf *structures.Config, compressor loaders.CompressorInterface) *loaders.Root {
	return loaders.NewRoot(conf.DataRoot, compressor)
}

func (s *ExportService) Matches(filter structures.Filter) *parsers.MatchesParser {
	p := parsers.NewMatchesParser(loaders.NewJsonLoader(s.root, s.conf.Sources.HingeMatches), filter, s.normalizer, s.logger)
	p.SetOutlierThreshold(s.conf.Analysis.OutlierThreshold)
	return p
}

func (s *ExportService) Connections(filter structures.Filter) *parsers.ConnectionsParser {
	return parsers.NewConnectionsParser(loaders.NewJsonLoader(s.root, s.conf.Sources.InstagramConnections), filter, s.normalizer, s.logger)
}

func (s *ExportService) Likes(filter structures.Filter) *parsers.LikesParser {
	return parsers.NewLikesParser(loaders.NewJsonLoader(s.root, s.conf.Sources.InstagramLikes), filter, s.normalizer, s.logger)
}

func (s *ExportService) NetflixViews(filter structures.Filter) *parsers.NetflixViewsParser {
	p := parsers.NewNetflixViewsParser(loaders.NewCsvLoader(s.root, s.conf.Sources.NetflixViewing), filter, s.normalizer, s.logger)
	p.SetMinViewSeconds(s.conf.Analysis.MinViewSeconds)
	return p
}

func (s *ExportService) StreamingHistory(filter structures.Filter) *parsers.StreamingHistoryParser {
	loader := loaders.NewMultiJsonLoader(s.root, s.conf.Sources.SpotifyDir, s.conf.Sources.SpotifyPrefix)
	return parsers.NewStreamingHistoryParser(loader, filter, s.normalizer, s.logger)
}

func (s *ExportService) YoutubeViews(filter structures.Filter) *parsers.YoutubeViewsParser {
	return parsers.NewYoutubeViewsParser(loaders.NewJsonLoader(s.root, s.conf.Sources.YoutubeHistory), filter, s.normalizer, s.logger)
}

// load forces the first parse of an export so its timing and size are recorded once.
func (s *ExportService) load(source string, count func() (int, error)) error {
	start := time.Now()
	n, err := count()
	s.metrics.ObserveLoadDuration(source, time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeLoad, "Loading %s export failed: %v", source, err)
		return err
	}
	s.metrics.SetRecordsTotal(source, n)
	s.logger.Debugf(providers.TypeLoad, "Loaded %d %s records in %s", n, source, time.Since(start))
	return nil
}

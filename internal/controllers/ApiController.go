package controllers

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"lifestats/internal/models"
	"lifestats/internal/providers"
	"lifestats/internal/services"
	"lifestats/internal/structures"
)

type ApiController struct {
	logger  providers.Logger
	service services.ExportServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.ExportServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

// badRequestError marks a query parameter that could not be used.
type badRequestError struct {
	param string
	value string
}

func (e *badRequestError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.param, e.value)
}

func queryInt(r *http.Request, param string) (int64, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, nil
	}
	v, err := cast.ToInt64E(raw)
	if err != nil || v < 0 {
		return 0, &badRequestError{param: param, value: raw}
	}
	return v, nil
}

func getFilter(r *http.Request) (structures.Filter, error) {
	year, err := queryInt(r, "year")
	if err != nil {
		return structures.Filter{}, err
	}
	if year > 9999 {
		return structures.Filter{}, &badRequestError{param: "year", value: r.URL.Query().Get("year")}
	}
	return structures.Filter{Year: int(year), Profile: r.URL.Query().Get("profile")}, nil
}

func cacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.RawQuery
}

func statusFor(err error) int {
	var badRequest *badRequestError
	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrLoad):
		return http.StatusNotFound
	case errors.Is(err, models.ErrParse), errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypeRequest, "%s: %v", r.URL.Path, err)
	} else {
		ac.logger.Warnf(providers.TypeRequest, "%s: %v", r.URL.Path, err)
	}
	http.Error(w, err.Error(), status)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, compute func() (any, error)) {
	key := cacheKey(r)
	if data, ok := ac.cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.fail(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.fail(w, r, err)
		return
	}

	ac.cache.Set(key, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveSeries(w http.ResponseWriter, r *http.Request, report func(structures.Filter) (*models.Series, error)) {
	ac.serveFromCacheOrCompute(w, r, func() (any, error) {
		filter, err := getFilter(r)
		if err != nil {
			return nil, err
		}
		return report(filter)
	})
}

func (ac *ApiController) serveStreams(w http.ResponseWriter, r *http.Request, report func(structures.Filter, int64) (*models.Series, error)) {
	ac.serveFromCacheOrCompute(w, r, func() (any, error) {
		filter, err := getFilter(r)
		if err != nil {
			return nil, err
		}
		minSeconds, err := queryInt(r, "min_seconds")
		if err != nil {
			return nil, err
		}
		return report(filter, minSeconds)
	})
}

func (ac *ApiController) MatchesByWeekday(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.MatchesByWeekday)
}

func (ac *ApiController) MatchesByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.MatchesByMonth)
}

func (ac *ApiController) ChatsByWeekday(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.ChatsByWeekday)
}

func (ac *ApiController) ChatsByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.ChatsByMonth)
}

func (ac *ApiController) MatchSummary(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, func() (any, error) {
		filter, err := getFilter(r)
		if err != nil {
			return nil, err
		}
		return ac.service.MatchSummary(filter)
	})
}

func (ac *ApiController) ConnectionsByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.ConnectionsByMonth)
}

func (ac *ApiController) LikesByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.LikesByMonth)
}

func (ac *ApiController) NetflixByWeekday(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.NetflixByWeekday)
}

func (ac *ApiController) NetflixByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.NetflixByMonth)
}

func (ac *ApiController) NetflixProfiles(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, func() (any, error) {
		return ac.service.NetflixProfiles()
	})
}

func (ac *ApiController) ArtistsByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveStreams(w, r, ac.service.ArtistsByMonth)
}

func (ac *ApiController) TracksByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveStreams(w, r, ac.service.TracksByMonth)
}

func (ac *ApiController) YoutubeByWeekday(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.YoutubeByWeekday)
}

func (ac *ApiController) YoutubeByMonth(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.YoutubeByMonth)
}

func (ac *ApiController) YoutubeChannels(w http.ResponseWriter, r *http.Request) {
	ac.serveSeries(w, r, ac.service.YoutubeChannels)
}

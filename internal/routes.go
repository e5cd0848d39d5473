package internal

import (
	"net/http"

	"lifestats/internal/controllers"
	"lifestats/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/hinge/matches/weekday", http.HandlerFunc(apiController.MatchesByWeekday))
	routers.Get("/hinge/matches/month", http.HandlerFunc(apiController.MatchesByMonth))
	routers.Get("/hinge/chats/weekday", http.HandlerFunc(apiController.ChatsByWeekday))
	routers.Get("/hinge/chats/month", http.HandlerFunc(apiController.ChatsByMonth))
	routers.Get("/hinge/summary", http.HandlerFunc(apiController.MatchSummary))

	routers.Get("/instagram/connections/month", http.HandlerFunc(apiController.ConnectionsByMonth))
	routers.Get("/instagram/likes/month", http.HandlerFunc(apiController.LikesByMonth))

	routers.Get("/netflix/weekday", http.HandlerFunc(apiController.NetflixByWeekday))
	routers.Get("/netflix/month", http.HandlerFunc(apiController.NetflixByMonth))
	routers.Get("/netflix/profiles", http.HandlerFunc(apiController.NetflixProfiles))

	routers.Get("/spotify/artists/month", http.HandlerFunc(apiController.ArtistsByMonth))
	routers.Get("/spotify/tracks/month", http.HandlerFunc(apiController.TracksByMonth))

	routers.Get("/youtube/weekday", http.HandlerFunc(apiController.YoutubeByWeekday))
	routers.Get("/youtube/month", http.HandlerFunc(apiController.YoutubeByMonth))
	routers.Get("/youtube/channels", http.HandlerFunc(apiController.YoutubeChannels))
	return routers
}

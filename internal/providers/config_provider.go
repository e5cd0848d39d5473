package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"lifestats/internal/structures"
)

const AppName = "lifestats"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "")
	v.SetDefault("sources.hingeMatches", "hinge/matches.json")
	v.SetDefault("sources.instagramConnections", "instagram/connections.json")
	v.SetDefault("sources.instagramLikes", "instagram/likes.json")
	v.SetDefault("sources.netflixViewing", "netflix/ViewingActivity.csv")
	v.SetDefault("sources.spotifyDir", "spotify")
	v.SetDefault("sources.spotifyPrefix", "StreamingHistory")
	v.SetDefault("sources.youtubeHistory", "youtube/watch-history.json")

	v.SetDefault("analysis.outlierThreshold", 10)
	v.SetDefault("analysis.minViewSeconds", 300)
	v.SetDefault("analysis.topChannels", 10)
	v.SetDefault("analysis.minChannelViews", 2)

	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 300)

	v.SetDefault("metrics.enabled", false)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	setConfigDefaults(v)

	_ = v.BindEnv("dataRoot", "LIFESTATS_DATA_ROOT")
	_ = v.BindEnv("logger.level", "LIFESTATS_LOG_LEVEL")
	_ = v.BindEnv("timezone", "LIFESTATS_TIMEZONE")
	_ = v.BindEnv("cache.enabled", "LIFESTATS_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "LIFESTATS_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

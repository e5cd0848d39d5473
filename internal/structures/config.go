package structures

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

// SourcesConfig holds export locations relative to Config.DataRoot.
type SourcesConfig struct {
	HingeMatches         string `yaml:"hingeMatches" validate:"required"`
	InstagramConnections string `yaml:"instagramConnections" validate:"required"`
	InstagramLikes       string `yaml:"instagramLikes" validate:"required"`
	NetflixViewing       string `yaml:"netflixViewing" validate:"required"`
	SpotifyDir           string `yaml:"spotifyDir" validate:"required"`
	SpotifyPrefix        string `yaml:"spotifyPrefix" validate:"required"`
	YoutubeHistory       string `yaml:"youtubeHistory" validate:"required"`
}

type AnalysisConfig struct {
	OutlierThreshold float64 `yaml:"outlierThreshold" validate:"required|min:1"`
	MinViewSeconds   int     `yaml:"minViewSeconds" validate:"min:0"`
	TopChannels      int     `yaml:"topChannels" validate:"required|min:1"`
	MinChannelViews  int     `yaml:"minChannelViews" validate:"min:0"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	DataRoot  string         `yaml:"dataRoot" validate:"required"`
	Timezone  string         `yaml:"timezone"`
	Sources   SourcesConfig  `yaml:"sources"`
	Analysis  AnalysisConfig `yaml:"analysis"`
	WebServer Server         `yaml:"webServer"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

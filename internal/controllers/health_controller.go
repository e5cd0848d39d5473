package controllers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"lifestats/internal/loaders"
	"lifestats/internal/services"
	"lifestats/internal/structures"
)

type HealthController struct {
	root      *loaders.Root
	sources   map[string]string
	startTime time.Time
}

type healthResponse struct {
	Status        string          `json:"status"`
	Uptime        string          `json:"uptime"`
	UptimeSeconds float64         `json:"uptime_seconds"`
	DataRoot      string          `json:"data_root"`
	Sources       map[string]bool `json:"sources"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		DataRoot:      hc.root.Dir(),
		Sources:       make(map[string]bool, len(hc.sources)),
	}
	for source, path := range hc.sources {
		resp.Sources[source] = hc.present(path)
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// present reports whether the export exists, plain or zstd-compressed.
func (hc *HealthController) present(path string) bool {
	full := hc.root.Resolve(path)
	if _, err := os.Stat(full); err == nil {
		return true
	}
	_, err := os.Stat(full + loaders.CompressedExt)
	return err == nil
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, root *loaders.Root) *HealthController {
	return &HealthController{
		root: root,
		sources: map[string]string{
			services.SourceHinge:     conf.Sources.HingeMatches,
			services.SourceInstagram: conf.Sources.InstagramConnections,
			services.SourceNetflix:   conf.Sources.NetflixViewing,
			services.SourceSpotify:   conf.Sources.SpotifyDir,
			services.SourceYoutube:   conf.Sources.YoutubeHistory,
		},
		startTime: time.Now(),
	}
}

// Command loadtest replays report requests against a running lifestats server and prints
// per-endpoint latency percentiles. Start the server with `lifestats serve` first.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var endpoints = []string{
	"/hinge/matches/weekday",
	"/hinge/matches/month",
	"/hinge/chats/weekday",
	"/hinge/chats/month",
	"/hinge/summary",
	"/instagram/connections/month",
	"/instagram/likes/month",
	"/netflix/weekday",
	"/netflix/month",
	"/netflix/profiles",
	"/spotify/artists/month",
	"/spotify/tracks/month",
	"/youtube/weekday",
	"/youtube/month",
	"/youtube/channels",
}

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:8090", "server base url")
	workers := flag.Int("workers", 20, "concurrent clients")
	duration := flag.Duration("duration", 10*time.Second, "length of each phase")
	years := flag.Int("years", 10, "distinct years queried in the cold phase")
	flag.Parse()

	fmt.Println("=== lifestats load test ===")
	fmt.Printf("Workers: %d | Duration: %s | Endpoints: %d\n\n", *workers, *duration, len(endpoints))

	fmt.Print("Waiting for server... ")
	if !waitForServer(*baseURL) {
		fmt.Println("FAILED: server not responding")
		return
	}
	fmt.Println("OK")

	// Each year produces a distinct cache key, so most requests re-parse the exports.
	fmt.Println("\n--- Phase 1: cold reads (year spread) ---")
	runPhase(*workers, *duration, func(rng *rand.Rand) result {
		year := time.Now().Year() - rng.IntN(*years)
		return doGet(*baseURL, endpoints[rng.IntN(len(endpoints))], fmt.Sprintf("year=%d", year))
	})

	fmt.Println("\n--- Phase 2: cached reads ---")
	runPhase(*workers, *duration, func(rng *rand.Rand) result {
		return doGet(*baseURL, endpoints[rng.IntN(len(endpoints))], "")
	})
}

func waitForServer(baseURL string) bool {
	for range 30 {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func runPhase(workers int, duration time.Duration, workFn func(rng *rand.Rand) result) {
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var mu sync.Mutex
	allResults := make(map[string]*stats)

	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		seed := uint64(time.Now().UnixNano()) + uint64(i)
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			for ctx.Err() == nil {
				r := workFn(rng)
				mu.Lock()
				s, ok := allResults[r.endpoint]
				if !ok {
					s = &stats{}
					allResults[r.endpoint] = s
				}
				s.count++
				if r.err {
					s.errors++
				}
				s.latencies = append(s.latencies, r.latency)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	names := make([]string, 0, len(allResults))
	for ep := range allResults {
		names = append(names, ep)
	}
	slices.Sort(names)

	fmt.Printf("\n  %-30s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 96))

	for _, ep := range names {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		slices.Sort(s.latencies)

		fmt.Printf("  %-30s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  no requests completed")
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 96))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// doGet treats 404 as success: a missing export is a valid answer for this data root.
func doGet(baseURL, endpoint, query string) result {
	url := baseURL + endpoint
	if query != "" {
		url += "?" + query
	}
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	ok := resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound
	return result{endpoint, resp.StatusCode, lat, !ok}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

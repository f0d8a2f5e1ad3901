// Command loadtest hammers a running searchd instance with concurrent
// queries and reports throughput and latency percentiles. Useful for
// checking that concurrent reads over the shared index scale as expected.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var defaultQueries = []string{
	"information retrieval",
	"inverted index",
	"term frequency",
	"cosine similarity",
	"document ranking",
	"vector space model",
	"query processing",
	"tokenization",
	"corpus statistics",
	"relevance score",
}

type stats struct {
	total     atomic.Int64
	success   atomic.Int64
	errors    atomic.Int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (s *stats) record(latency time.Duration, status int, err error) {
	s.total.Add(1)
	if err != nil || status < 200 || status >= 300 {
		s.errors.Add(1)
		return
	}
	s.success.Add(1)
	s.mu.Lock()
	s.latencies = append(s.latencies, latency)
	s.mu.Unlock()
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the search service")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	limit := flag.Int("limit", 10, "top-k passed to each query")
	queryFile := flag.String("queries", "", "optional file with one query per line")
	flag.Parse()

	queries := defaultQueries
	if *queryFile != "" {
		loaded, err := readQueries(*queryFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading queries: %v\n", err)
			os.Exit(1)
		}
		queries = loaded
	}

	fmt.Printf("target=%s concurrency=%d duration=%s queries=%d\n",
		*baseURL, *concurrency, *duration, len(queries))

	s := run(*baseURL, queries, *concurrency, *limit, *duration)
	report(s, *duration)
}

func run(baseURL string, queries []string, concurrency, limit int, duration time.Duration) *stats {
	s := &stats{latencies: make([]time.Duration, 0, 100000)}
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; ctx.Err() == nil; i++ {
				query := queries[i%len(queries)]
				target := fmt.Sprintf("%s/api/v1/search?q=%s&limit=%d",
					baseURL, url.QueryEscape(query), limit)

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
				if err != nil {
					s.record(0, 0, err)
					continue
				}
				start := time.Now()
				resp, err := client.Do(req)
				elapsed := time.Since(start)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.record(elapsed, 0, err)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				s.record(elapsed, resp.StatusCode, nil)
			}
		}(w)
	}
	wg.Wait()
	return s
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries in %s", path)
	}
	return queries, nil
}

func report(s *stats, duration time.Duration) {
	total := s.total.Load()
	fmt.Printf("\nrequests=%d success=%d errors=%d rps=%.1f\n",
		total, s.success.Load(), s.errors.Load(),
		float64(total)/duration.Seconds())

	s.mu.Lock()
	latencies := s.latencies
	s.mu.Unlock()
	if len(latencies) == 0 {
		fmt.Println("no successful requests; is the service running?")
		os.Exit(1)
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	fmt.Printf("latency min=%s p50=%s p90=%s p99=%s max=%s\n",
		latencies[0],
		percentile(latencies, 50),
		percentile(latencies, 90),
		percentile(latencies, 99),
		latencies[len(latencies)-1])
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"
)

const (
	numWorkers = 50
	numVoters  = 2000
)

var (
	baseURL      string
	accessKey    string
	testDuration time.Duration
)

var choices = []string{"interested", "neutral", "not-interested"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
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

// accepted counts 200 responses to votes that carried a choice.
var accepted atomic.Int64

func main() {
	pflag.StringVar(&baseURL, "url", "http://127.0.0.1:18090", "server base url")
	pflag.StringVar(&accessKey, "key", "", "participant access key")
	pflag.DurationVar(&testDuration, "duration", 10*time.Second, "duration of each phase")
	pflag.Parse()

	fmt.Println("=== LivePoll Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Voters: %d\n\n", numWorkers, testDuration, numVoters)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Every voter retries many times; only the first vote per session may land.
	fmt.Println("\n--- Phase 1: Vote storm (POST /api/vote) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doVote(rng)
	})
	checkUniqueness()

	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doVote(rng)
		case r < 0.50:
			return doComment(rng)
		case r < 0.90:
			return doGetResults()
		default:
			return doGetVoter(rng)
		}
	})

	fmt.Println("\n--- Phase 3: Dashboard polling (5% POST, 95% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.05 {
			return doVote(rng)
		}
		return doGetResults()
	})
	checkUniqueness()
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
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
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func voterID(rng *rand.Rand) string {
	return fmt.Sprintf("load-voter-%04d", rng.Intn(numVoters))
}

func keyed(path string) string {
	return baseURL + path + "?key=" + accessKey
}

func post(endpoint, voter string, body map[string]interface{}) (int, time.Duration, error) {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, keyed(endpoint), bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Voter-Token", voter)
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return 0, lat, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, lat, nil
}

func doVote(rng *rand.Rand) result {
	status, lat, err := post("/api/vote", voterID(rng), map[string]interface{}{
		"choice": choices[rng.Intn(len(choices))],
	})
	if err != nil {
		return result{"POST /api/vote", 0, lat, true}
	}
	if status == http.StatusOK {
		accepted.Add(1)
	}
	// 409 is the expected answer for a repeat voter
	return result{"POST /api/vote", status, lat, status != http.StatusOK && status != http.StatusConflict}
}

func doComment(rng *rand.Rand) result {
	status, lat, err := post("/api/vote", voterID(rng), map[string]interface{}{
		"choice":  nil,
		"comment": fmt.Sprintf("comment %d", rng.Intn(1000)),
	})
	if err != nil {
		return result{"POST /api/vote (comment)", 0, lat, true}
	}
	return result{"POST /api/vote (comment)", status, lat, status != http.StatusOK}
}

func get(endpoint, label string, header map[string]string) result {
	req, _ := http.NewRequest(http.MethodGet, keyed(endpoint), nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doGetResults() result {
	return get("/api/results", "GET /api/results", nil)
}

func doGetVoter(rng *rand.Rand) result {
	return get("/api/voter", "GET /api/voter", map[string]string{"X-Voter-Token": voterID(rng)})
}

func checkUniqueness() {
	resp, err := httpClient.Get(keyed("/api/results"))
	if err != nil {
		fmt.Printf("  uniqueness check failed: %s\n", err)
		return
	}
	defer resp.Body.Close()
	var res struct {
		Understood    int64 `json:"understood"`
		NotUnderstood int64 `json:"notUnderstood"`
		Neutral       int64 `json:"neutral"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		fmt.Printf("  uniqueness check failed: %s\n", err)
		return
	}
	recorded := res.Understood + res.NotUnderstood + res.Neutral
	verdict := "OK"
	if recorded != accepted.Load() || recorded > numVoters {
		verdict = "MISMATCH"
	}
	fmt.Printf("  Uniqueness: accepted=%d recorded=%d voters=%d %s\n", accepted.Load(), recorded, numVoters, verdict)
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

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

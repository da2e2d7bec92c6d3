package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Утилита нагрузочного тестирования HTTP API: прогоняет сценарии продаж
// и печатает сводку по латентности и кодам ответов.

type loadMode string

const (
	// modeSell — ручная продажа одной позиции.
	modeSell loadMode = "sell"
	// modeCheckout — положить товар в корзину и оформить заказ.
	modeCheckout loadMode = "checkout"
)

type config struct {
	addr        string
	total       int
	concurrency int
	timeout     time.Duration
	mode        loadMode
	priceMinor  int64
	stock       int
	qty         int
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type report struct {
	StartedAt       time.Time        `json:"started_at"`
	DurationSeconds float64          `json:"duration_seconds"`
	Total           int64            `json:"total"`
	Success         int64            `json:"success"`
	Rejected        int64            `json:"rejected"`
	Failed          int64            `json:"failed"`
	ErrorRate       float64          `json:"error_rate"`
	RPS             float64          `json:"rps"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	LatencyMs       latencySummary   `json:"latency_ms"`
}

type collector struct {
	mu        sync.Mutex
	codes     map[string]int64
	latencies []float64
}

func newCollector() *collector {
	return &collector{codes: make(map[string]int64)}
}

func (c *collector) record(latency time.Duration, statusCode int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[fmt.Sprintf("%d", statusCode)]++
	c.latencies = append(c.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) summary() (map[string]int64, latencySummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	codes := make(map[string]int64, len(c.codes))
	for code, count := range c.codes {
		codes[code] = count
	}
	return codes, summarize(c.latencies)
}

func summarize(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	percentile := func(p float64) float64 {
		if len(sorted) == 1 {
			return sorted[0]
		}
		rank := p / 100 * float64(len(sorted)-1)
		lower := int(math.Floor(rank))
		upper := int(math.Ceil(rank))
		if lower == upper {
			return sorted[lower]
		}
		weight := rank - float64(lower)
		return sorted[lower]*(1-weight) + sorted[upper]*weight
	}

	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(50),
		P95: percentile(95),
		P99: percentile(99),
	}
}

func parseFlags() (config, error) {
	var cfg config
	var mode string

	flag.StringVar(&cfg.addr, "addr", "http://localhost:8080", "base URL of the API")
	flag.IntVar(&cfg.total, "total", 1000, "total number of scenarios")
	flag.IntVar(&cfg.concurrency, "concurrency", 16, "number of concurrent workers")
	flag.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.StringVar(&mode, "mode", string(modeSell), "scenario: sell|checkout")
	flag.Int64Var(&cfg.priceMinor, "price-minor", 1000, "price of the seeded product")
	flag.IntVar(&cfg.stock, "stock", 0, "initial stock (default: total*qty)")
	flag.IntVar(&cfg.qty, "qty", 1, "units per scenario")
	flag.StringVar(&cfg.outputPath, "output", "", "write JSON report to file")
	flag.Parse()

	cfg.mode = loadMode(strings.ToLower(strings.TrimSpace(mode)))
	if cfg.mode != modeSell && cfg.mode != modeCheckout {
		return cfg, fmt.Errorf("unsupported mode: %s", mode)
	}
	if cfg.total <= 0 || cfg.concurrency <= 0 || cfg.qty <= 0 {
		return cfg, fmt.Errorf("total, concurrency and qty must be positive")
	}
	if cfg.stock <= 0 {
		cfg.stock = cfg.total * cfg.qty
	}
	cfg.addr = strings.TrimRight(cfg.addr, "/")
	return cfg, nil
}

// seedProduct создаёт товар с запасом под весь прогон.
func seedProduct(client *http.Client, cfg config) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"name":        fmt.Sprintf("loadtest-%d", time.Now().UnixNano()),
		"price_minor": cfg.priceMinor,
		"quantity":    cfg.stock,
	})

	resp, err := client.Post(cfg.addr+"/api/products", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("seed product: unexpected status %d", resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func runSell(client *http.Client, cfg config, productID string) (int, error) {
	body, _ := json.Marshal(map[string]any{"quantity": cfg.qty})
	resp, err := client.Post(cfg.addr+"/api/products/"+productID+"/sell", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func runCheckout(client *http.Client, cfg config, productID, sessionID string) (int, error) {
	addBody, _ := json.Marshal(map[string]any{"product_id": productID, "quantity": cfg.qty})
	req, err := http.NewRequest(http.MethodPost, cfg.addr+"/api/cart/items", bytes.NewReader(addBody))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}

	req, err = http.NewRequest(http.MethodPost, cfg.addr+"/api/checkout", bytes.NewReader([]byte("{}")))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sessionID)

	resp, err = client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: cfg.timeout}
	productID, err := seedProduct(client, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed product: %v\n", err)
		os.Exit(1)
	}

	var (
		success  int64
		rejected int64
		failed   int64
		next     int64
	)
	stats := newCollector()
	startedAt := time.Now()

	var wg sync.WaitGroup
	for worker := 0; worker < cfg.concurrency; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				n := atomic.AddInt64(&next, 1)
				if n > int64(cfg.total) {
					return
				}

				start := time.Now()
				var statusCode int
				var callErr error
				switch cfg.mode {
				case modeCheckout:
					sessionID := fmt.Sprintf("loadtest-%d-%d", worker, n)
					statusCode, callErr = runCheckout(client, cfg, productID, sessionID)
				default:
					statusCode, callErr = runSell(client, cfg, productID)
				}

				if callErr != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				stats.record(time.Since(start), statusCode)
				switch {
				case statusCode < 300:
					atomic.AddInt64(&success, 1)
				case statusCode < 500:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}(worker)
	}
	wg.Wait()

	elapsed := time.Since(startedAt)
	codes, latencies := stats.summary()
	total := success + rejected + failed

	result := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: elapsed.Seconds(),
		Total:           total,
		Success:         success,
		Rejected:        rejected,
		Failed:          failed,
		ErrorRate:       safeRate(failed, total),
		RPS:             float64(total) / elapsed.Seconds(),
		StatusCodes:     codes,
		LatencyMs:       latencies,
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))

	if cfg.outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.outputPath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output dir: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(cfg.outputPath, encoded, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}
}

func safeRate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

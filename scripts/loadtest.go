package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type LoadTestConfig struct {
	BaseURL       string
	APIKey        string
	TotalRequests int
	Concurrency   int
	Duration      time.Duration
}

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    int64
	MinLatency      int64
	MaxLatency      int64
	Errors          sync.Map
}

type client struct {
	ordersURL string
	apiKey    string
	http      *http.Client
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Service base URL")
	prefix := flag.String("prefix", "/api/v1", "API prefix")
	apiKey := flag.String("api-key", "", "Value for the X-API-Key header, if auth is enabled")
	requests := flag.Int("requests", 1000, "Total number of requests")
	concurrency := flag.Int("concurrency", 10, "Number of parallel requests")
	duration := flag.Duration("duration", 0, "Test duration (0 = use -requests)")
	operation := flag.String("operation", "create", "Operation type: create, get, list, update, status, delete, mixed")
	flag.Parse()

	apiURL := strings.TrimSuffix(*baseURL, "/")
	if p := strings.Trim(*prefix, "/"); p != "" {
		apiURL += "/" + p
	}

	config := LoadTestConfig{
		BaseURL:       apiURL,
		APIKey:        *apiKey,
		TotalRequests: *requests,
		Concurrency:   *concurrency,
		Duration:      *duration,
	}

	fmt.Printf("🚀 Starting load test\n")
	fmt.Printf("URL: %s\n", config.BaseURL)
	fmt.Printf("Operation: %s\n", *operation)
	if config.Duration > 0 {
		fmt.Printf("Duration: %v\n", config.Duration)
	} else {
		fmt.Printf("Requests: %d\n", config.TotalRequests)
	}
	fmt.Printf("Concurrency: %d\n\n", config.Concurrency)

	c := &client{
		ordersURL: config.BaseURL + "/orders",
		apiKey:    config.APIKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	stats := &Stats{
		MinLatency: int64(^uint64(0) >> 1), // max int64
	}

	startTime := time.Now()

	switch *operation {
	case "create":
		run(config, func(int64) { c.createOrder(stats) })
	case "list":
		run(config, func(int64) { c.listOrders(stats) })
	case "get":
		ids := c.prepareOrders(100)
		if len(ids) == 0 {
			fmt.Println("❌ Failed to create orders for test")
			return
		}
		run(config, func(i int64) { c.getOrder(ids[i%int64(len(ids))], stats) })
	case "update":
		ids := c.prepareOrders(100)
		if len(ids) == 0 {
			fmt.Println("❌ Failed to create orders for test")
			return
		}
		run(config, func(i int64) { c.updateOrder(ids[i%int64(len(ids))], stats) })
	case "status":
		ids := c.prepareOrders(100)
		if len(ids) == 0 {
			fmt.Println("❌ Failed to create orders for test")
			return
		}
		run(config, func(i int64) { c.setStatus(ids[i%int64(len(ids))], i, stats) })
	case "delete":
		fmt.Println("⚠️  Delete test creates an order before each deletion...")
		config.Duration = 0
		run(config, func(int64) {
			if id := c.createOrderID(); id != "" {
				c.deleteOrder(id, stats)
			} else {
				atomic.AddInt64(&stats.FailedRequests, 1)
			}
		})
	case "mixed":
		ids := c.prepareOrders(50)
		run(config, func(i int64) { c.mixed(ids, i, stats) })
	default:
		fmt.Printf("Unknown operation: %s\n", *operation)
		return
	}

	elapsed := time.Since(startTime)

	printResults(stats, elapsed)
}

// run calls op with increasing indexes, at most config.Concurrency at a
// time, until either the request count or the duration is exhausted.
func run(config LoadTestConfig, op func(index int64)) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.Concurrency)

	requestCount := int64(0)
	endTime := time.Now().Add(config.Duration)

	for (config.Duration <= 0 || !time.Now().After(endTime)) &&
		(config.Duration != 0 || requestCount < int64(config.TotalRequests)) {
		wg.Add(1)
		semaphore <- struct{}{}
		idx := atomic.AddInt64(&requestCount, 1)

		go func(index int64) {
			defer wg.Done()
			defer func() { <-semaphore }()
			op(index)
		}(idx)
	}

	wg.Wait()
}

func (c *client) prepareOrders(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if id := c.createOrderID(); id != "" {
			ids = append(ids, id)
		}
	}
	fmt.Printf("✅ Created %d orders for testing\n\n", len(ids))
	return ids
}

func (c *client) mixed(ids []string, index int64, stats *Stats) {
	op := index % 10
	switch {
	case op < 4 || len(ids) == 0:
		c.createOrder(stats)
	case op < 7:
		c.getOrder(ids[index%int64(len(ids))], stats)
	case op < 9:
		c.listOrders(stats)
	default:
		c.setStatus(ids[index%int64(len(ids))], index, stats)
	}
}

func orderPayload() map[string]interface{} {
	n := time.Now().UnixNano()
	return map[string]interface{}{
		"customer_id": fmt.Sprintf("customer-%d", n%1000),
		"items": []map[string]interface{}{
			{"item_id": "101", "name": "Widget A", "quantity": 2, "price": 25.50},
			{"item_id": "105", "quantity": 1, "price": 5.75},
		},
		"total":  56.75,
		"date":   time.Now().Format("2006-01-02"),
		"status": "Pending",
	}
}

var statuses = []string{"Pending", "Processing", "Shipped", "Delivered"}

func (c *client) createOrder(stats *Stats) string {
	return c.makeRequest("POST", c.ordersURL, orderPayload(), stats)
}

func (c *client) createOrderID() string {
	body := c.makeRequestRaw("POST", c.ordersURL, orderPayload())
	if body == "" {
		return ""
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return ""
	}

	if id, ok := result["order_id"].(string); ok {
		return id
	}
	return ""
}

func (c *client) getOrder(orderID string, stats *Stats) string {
	return c.makeRequest("GET", c.ordersURL+"/"+orderID, nil, stats)
}

func (c *client) listOrders(stats *Stats) string {
	return c.makeRequest("GET", c.ordersURL, nil, stats)
}

func (c *client) updateOrder(orderID string, stats *Stats) string {
	payload := map[string]interface{}{
		"total": float64(time.Now().UnixNano()%10000) / 100,
		"date":  time.Now().Format("2006-01-02"),
	}

	return c.makeRequest("PUT", c.ordersURL+"/"+orderID, payload, stats)
}

func (c *client) setStatus(orderID string, index int64, stats *Stats) string {
	payload := map[string]interface{}{
		"status": statuses[index%int64(len(statuses))],
	}

	return c.makeRequest("PUT", c.ordersURL+"/"+orderID+"/status", payload, stats)
}

func (c *client) deleteOrder(orderID string, stats *Stats) string {
	return c.makeRequest("DELETE", c.ordersURL+"/"+orderID, nil, stats)
}

func (c *client) newRequest(method, url string, payload interface{}) (*http.Request, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	return req, nil
}

func (c *client) makeRequest(method, url string, payload interface{}, stats *Stats) string {
	start := time.Now()
	atomic.AddInt64(&stats.TotalRequests, 1)

	req, err := c.newRequest(method, url, payload)
	if err != nil {
		recordError(stats, err)
		return ""
	}

	resp, err := c.http.Do(req)
	if err != nil {
		recordError(stats, err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	latency := time.Since(start).Milliseconds()
	recordLatency(stats, latency)

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		atomic.AddInt64(&stats.SuccessRequests, 1)
		return string(body)
	}
	recordError(stats, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)))
	return ""
}

func (c *client) makeRequestRaw(method, url string, payload interface{}) string {
	req, err := c.newRequest(method, url, payload)
	if err != nil {
		return ""
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func recordLatency(stats *Stats, latency int64) {
	atomic.AddInt64(&stats.TotalLatency, latency)

	for {
		old := atomic.LoadInt64(&stats.MinLatency)
		if latency >= old {
			break
		}
		if atomic.CompareAndSwapInt64(&stats.MinLatency, old, latency) {
			break
		}
	}

	for {
		old := atomic.LoadInt64(&stats.MaxLatency)
		if latency <= old {
			break
		}
		if atomic.CompareAndSwapInt64(&stats.MaxLatency, old, latency) {
			break
		}
	}
}

func recordError(stats *Stats, err error) {
	atomic.AddInt64(&stats.FailedRequests, 1)
	errMsg := err.Error()
	val, _ := stats.Errors.LoadOrStore(errMsg, new(int64))
	atomic.AddInt64(val.(*int64), 1)
}

func printResults(stats *Stats, elapsed time.Duration) {
	total := atomic.LoadInt64(&stats.TotalRequests)
	success := atomic.LoadInt64(&stats.SuccessRequests)
	failed := atomic.LoadInt64(&stats.FailedRequests)
	totalLatency := atomic.LoadInt64(&stats.TotalLatency)
	minLatency := atomic.LoadInt64(&stats.MinLatency)
	maxLatency := atomic.LoadInt64(&stats.MaxLatency)

	if total == 0 {
		fmt.Println("\nNo requests were sent.")
		return
	}

	fmt.Printf("\n📊 Load Test Results\n")
	fmt.Printf("═══════════════════════════════════════════════════\n")
	fmt.Printf("Total time:           %v\n", elapsed)
	fmt.Printf("Total requests:       %d\n", total)
	fmt.Printf("Successful:           %d (%.2f%%)\n", success, float64(success)/float64(total)*100)
	fmt.Printf("Failed:               %d (%.2f%%)\n", failed, float64(failed)/float64(total)*100)
	fmt.Printf("\n")
	fmt.Printf("Throughput:           %.2f req/sec\n", float64(total)/elapsed.Seconds())
	fmt.Printf("\n")
	fmt.Printf("Latency:\n")
	fmt.Printf("  Average:            %d ms\n", totalLatency/total)
	fmt.Printf("  Minimum:            %d ms\n", minLatency)
	fmt.Printf("  Maximum:            %d ms\n", maxLatency)

	if failed > 0 {
		fmt.Printf("\n❌ Errors:\n")
		stats.Errors.Range(func(key, value interface{}) bool {
			count := atomic.LoadInt64(value.(*int64))
			fmt.Printf("  [%d] %s\n", count, key.(string))
			return true
		})
	}
	fmt.Printf("═══════════════════════════════════════════════════\n")
}

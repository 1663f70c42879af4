// Package main - agitator
// Load generator for stress testing the cargo tracking server.
// Simulates concurrent external writers spamming transfers while slower
// viewers poll totals over HTTP and WebSocket.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	WSUrl          string
	NumWriters     int
	NumReaders     int
	WriteInterval  time.Duration
	ReadInterval   time.Duration
	TestDuration   time.Duration
}

// Stats tracks performance metrics
type Stats struct {
	TransfersSent   int64
	TotalsRead      int64
	WSMessagesRecv  int64
	Errors          int64
	Latencies       []time.Duration
	mu              sync.Mutex
}

var entityIDs = []string{"V001", "V002", "V003", "V004", "V005", "V006", "WORLD"}

var destinations = []string{"LOCAL", "IMPORT", "EXPORT"}

var resources = []string{
	"CRUDE", "PETROL", "COAL",
	"LOGS", "PLANKS",
	"GRAIN", "FOOD", "LIVESTOCK",
	"MAIL",
	"ORE", "STONE",
	"GOODS", "TOOLS", "MACHINES", "MATERIALS",
	"FISH",
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "HTTP server base URL")
	wsURL := flag.String("ws", "ws://localhost:8080/ws", "WebSocket server URL")
	writers := flag.Int("writers", 20, "Number of concurrent transfer writers")
	readers := flag.Int("readers", 5, "Number of concurrent totals readers")
	writeInterval := flag.Duration("write-interval", 50*time.Millisecond, "Transfer interval per writer")
	readInterval := flag.Duration("read-interval", 500*time.Millisecond, "Totals poll interval per reader")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	flag.Parse()

	config := Config{
		ServerURL:     *serverURL,
		WSUrl:         *wsURL,
		NumWriters:    *writers,
		NumReaders:    *readers,
		WriteInterval: *writeInterval,
		ReadInterval:  *readInterval,
		TestDuration:  *duration,
	}

	fmt.Println("=========================================")
	fmt.Println("🔥 EL AGITADOR - Cargo Stress Test Tool")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Writers: %d @ %v\n", config.NumWriters, config.WriteInterval)
	fmt.Printf("Readers: %d @ %v\n", config.NumReaders, config.ReadInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\n⚠️ Interrupt received, stopping...")
		cancel()
	}()

	stats := runStressTest(ctx, config)

	printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\n🚀 Starting writers and readers...")

	for i := 0; i < config.NumWriters; i++ {
		wg.Add(1)
		go func(writerID int) {
			defer wg.Done()
			runWriter(ctx, writerID, config, stats)
		}(i)

		// Stagger starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	for i := 0; i < config.NumReaders; i++ {
		wg.Add(1)
		go func(readerID int) {
			defer wg.Done()
			runReader(ctx, readerID, config, stats)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		runViewer(ctx, config, stats)
	}()

	fmt.Printf("✅ All %d writers and %d readers started\n\n", config.NumWriters, config.NumReaders)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sent := atomic.LoadInt64(&stats.TransfersSent)
				reads := atomic.LoadInt64(&stats.TotalsRead)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("📊 Progress: Transfers=%d Reads=%d Errors=%d\n", sent, reads, errs)
			}
		}
	}()

	wg.Wait()
	return stats
}

// runWriter plays the high-frequency simulation side: it posts random
// transfers as fast as the configured interval allows.
func runWriter(ctx context.Context, writerID int, config Config, stats *Stats) {
	client := &http.Client{Timeout: 5 * time.Second}

	ticker := time.NewTicker(config.WriteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			transfer := generateRandomTransfer()
			body, _ := json.Marshal(transfer)

			start := time.Now()
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				config.ServerURL+"/api/transfers", bytes.NewReader(body))
			if err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if resp.StatusCode != http.StatusAccepted {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}

			latency := time.Since(start)
			atomic.AddInt64(&stats.TransfersSent, 1)

			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()
		}
	}
}

// runReader plays the slower presentation side: it polls per-entity totals
// while the writers hammer the ledgers.
func runReader(ctx context.Context, readerID int, config Config, stats *Stats) {
	client := &http.Client{Timeout: 5 * time.Second}

	ticker := time.NewTicker(config.ReadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			entityID := entityIDs[rand.Intn(len(entityIDs)-1)] // skip WORLD

			req, err := http.NewRequestWithContext(ctx, http.MethodGet,
				config.ServerURL+"/api/entities/"+entityID+"/totals", nil)
			if err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}

			resp, err := client.Do(req)
			if err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			atomic.AddInt64(&stats.TotalsRead, 1)
		}
	}
}

// runViewer keeps one WebSocket viewer connected and counts broadcasts.
func runViewer(ctx context.Context, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.WSUrl, nil)
	if err != nil {
		log.Printf("Viewer: connection failed: %v", err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			return
		}
		atomic.AddInt64(&stats.WSMessagesRecv, 1)
	}
}

func generateRandomTransfer() map[string]interface{} {
	from := entityIDs[rand.Intn(len(entityIDs))]
	to := entityIDs[rand.Intn(len(entityIDs))]
	for to == from {
		to = entityIDs[rand.Intn(len(entityIDs))]
	}

	return map[string]interface{}{
		"from_id":     from,
		"to_id":       to,
		"destination": destinations[rand.Intn(len(destinations))],
		"resource":    resources[rand.Intn(len(resources))],
		"amount":      1 + rand.Intn(50),
	}
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("📊 STRESS TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.TransfersSent)
	reads := atomic.LoadInt64(&stats.TotalsRead)
	wsRecv := atomic.LoadInt64(&stats.WSMessagesRecv)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Transfers Sent:    %d\n", sent)
	fmt.Printf("Totals Reads:      %d\n", reads)
	fmt.Printf("WS Broadcasts:     %d\n", wsRecv)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+reads+1)*100)

	throughput := float64(sent) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f transfers/sec\n", throughput)

	if len(stats.Latencies) > 0 {
		var total time.Duration
		var min, max time.Duration = stats.Latencies[0], stats.Latencies[0]

		for _, l := range stats.Latencies {
			total += l
			if l < min {
				min = l
			}
			if l > max {
				max = l
			}
		}

		avg := total / time.Duration(len(stats.Latencies))

		fmt.Printf("\nLatency:\n")
		fmt.Printf("  Min: %v\n", min)
		fmt.Printf("  Avg: %v\n", avg)
		fmt.Printf("  Max: %v\n", max)
	}

	// Verdict
	fmt.Println("\n-----------------------------------------")
	if errs == 0 {
		fmt.Println("✅ TEST PASSED: System handled the load")
	} else if float64(errs)/float64(sent+reads+1) < 0.05 {
		fmt.Println("⚠️ TEST WARNING: Some errors detected")
	} else {
		fmt.Println("❌ TEST FAILED: High error rate")
	}
	fmt.Println("=========================================")

	results := map[string]interface{}{
		"transfers_sent":     sent,
		"totals_reads":       reads,
		"ws_broadcasts":      wsRecv,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"config": map[string]interface{}{
			"writers":        config.NumWriters,
			"readers":        config.NumReaders,
			"write_interval": config.WriteInterval.String(),
			"duration":       config.TestDuration.String(),
		},
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	os.WriteFile("stress_test_results.json", jsonData, 0644)
	fmt.Println("\n📁 Results saved to stress_test_results.json")
}

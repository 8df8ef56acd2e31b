package main

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	// Configuration
	url := "http://localhost:8080/api/v1/attendance"
	contentType := "application/json"

	numEmployees := 5000
	requestsPerEmployee := 2 // duplicate submissions: exactly one should win per employee
	totalRequests := numEmployees * requestsPerEmployee
	concurrency := 50 // Number of concurrent requests to avoid local port exhaustion

	fmt.Printf("Starting load test: %d employees (%d duplicate check-ins each) to %s with concurrency %d\n", numEmployees, requestsPerEmployee, url, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency) // Semaphore to limit concurrency

	var createdCount int64
	var duplicateCount int64
	var failCount int64

	reportedAt := time.Now().Format(time.RFC3339)
	startTime := time.Now()

	for i := 0; i < numEmployees; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		employeeID := fmt.Sprintf("load-test-emp-%d", i)

		go func(empID string) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			payload := []byte(fmt.Sprintf(`{"kind": "entrada", "latitude": 19.43, "longitude": -99.13, "reportedAt": "%s"}`, reportedAt))

			for j := 0; j < requestsPerEmployee; j++ {
				req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}
				req.Header.Set("Content-Type", contentType)
				req.Header.Set("X-Employee-ID", empID)

				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}

				switch {
				case resp.StatusCode == http.StatusCreated:
					atomic.AddInt64(&createdCount, 1)
				case resp.StatusCode == http.StatusConflict:
					atomic.AddInt64(&duplicateCount, 1)
				default:
					atomic.AddInt64(&failCount, 1)
				}
				resp.Body.Close()
			}
		}(employeeID)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Created:        %d (expected %d)\n", createdCount, numEmployees)
	fmt.Printf("Duplicates:     %d (expected %d)\n", duplicateCount, totalRequests-numEmployees)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}

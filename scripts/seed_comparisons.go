// seed_comparisons.go — standalone script to POST comparison fixtures to the API.
//
// The fixtures file is a JSON array of comparison requests in the same
// shape POST /api/v1/compare accepts.
//
// Usage:
//
//	go run scripts/seed_comparisons.go -fixtures fixtures/comparisons.json -api http://localhost:8700
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

type fixtureRequest struct {
	Options []struct {
		Name string `json:"name"`
	} `json:"options"`
	UseCase string `json:"use_case"`
}

func main() {
	fixturesPath := flag.String("fixtures", "comparisons.json", "path to JSON fixtures file")
	apiURL := flag.String("api", "http://localhost:8700", "decision API base URL")
	dryRun := flag.Bool("dry-run", false, "print requests without posting")
	flag.Parse()

	data, err := os.ReadFile(*fixturesPath)
	if err != nil {
		log.Fatalf("read fixtures: %v", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Fatalf("parse fixtures: %v", err)
	}
	log.Printf("parsed %d comparison requests from %s", len(raw), *fixturesPath)

	if *dryRun {
		for i, body := range raw {
			var req fixtureRequest
			if err := json.Unmarshal(body, &req); err != nil {
				log.Printf("[%d] unreadable request: %v", i+1, err)
				continue
			}
			names := make([]string, len(req.Options))
			for j, opt := range req.Options {
				names[j] = opt.Name
			}
			fmt.Printf("[%d] use_case=%q options=%v\n", i+1, req.UseCase, names)
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for i, body := range raw {
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/compare", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip request %d: %v", i+1, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip request %d: %v", i+1, err)
			skipped++
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			log.Printf("skip request %d: status %d", i+1, resp.StatusCode)
			skipped++
			continue
		}

		var result struct {
			ComparisonID string `json:"comparison_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			resp.Body.Close()
			log.Printf("request %d accepted but response unreadable: %v", i+1, err)
			skipped++
			continue
		}
		resp.Body.Close()

		fmt.Printf("[%d] comparison_id=%s\n", i+1, result.ComparisonID)
		created++
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

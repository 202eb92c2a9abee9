// Package main provides a CLI tool to ingest survey respondents from a CSV
// file into the API. This simulates real production usage by making API calls
// with proper authentication.
//
// Expected CSV layout (with a header row):
//
//	name,age,gender,ethnicity,education,income,q1,q2,q3,q4,q5,q6,q7,q8
//
// Usage:
//
//	go run scripts/ingest_csv.go -file /path/to/respondents.csv -api-url http://localhost:8080 -api-key YOUR_API_KEY
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config holds the CLI configuration.
type Config struct {
	FilePath string
	APIBase  string
	APIKey   string
	Compare  bool
	DelayMS  int
	DryRun   bool
}

// RespondentRequest matches the CreateRespondentRequest model.
type RespondentRequest struct {
	Name      string   `json:"name"`
	Age       string   `json:"age"`
	Gender    string   `json:"gender"`
	Ethnicity string   `json:"ethnicity"`
	Education string   `json:"education"`
	Income    string   `json:"income"`
	Answers   []string `json:"answers"`
}

// RespondentResponse is the subset of the API response the tool needs.
type RespondentResponse struct {
	UID int64 `json:"uid"`
}

// Stats tracks ingestion statistics.
type Stats struct {
	TotalRows       int
	SkippedShort    int
	SuccessfulPosts int
	FailedPosts     int
	Comparisons     int
}

// CSV column indices (0-based).
const (
	colName      = 0
	colAge       = 1
	colGender    = 2
	colEthnicity = 3
	colEducation = 4
	colIncome    = 5
	colFirstQ    = 6
	answerCount  = 8
	columnCount  = colFirstQ + answerCount
)

func main() {
	cfg := parseFlags()

	if cfg.FilePath == "" {
		fmt.Println("Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	if cfg.APIKey == "" {
		fmt.Println("Error: -api-key is required")
		flag.Usage()
		os.Exit(1)
	}

	fmt.Printf("🚀 Respondent CSV Ingestion Tool\n")
	fmt.Printf("   API URL: %s\n", cfg.APIBase)
	fmt.Printf("   CSV File: %s\n", cfg.FilePath)
	fmt.Printf("   Delay: %dms between requests\n", cfg.DelayMS)

	if cfg.DryRun {
		fmt.Printf("   ⚠️  DRY RUN MODE - No actual API calls will be made\n")
	}

	fmt.Println()

	stats := processCSV(cfg)

	fmt.Println()
	fmt.Println("📊 Ingestion Summary")
	fmt.Println("   ─────────────────────")
	fmt.Printf("   Total rows processed:  %d\n", stats.TotalRows)
	fmt.Printf("   Skipped (incomplete):  %d\n", stats.SkippedShort)
	fmt.Printf("   Successfully created:  %d\n", stats.SuccessfulPosts)
	fmt.Printf("   Failed:                %d\n", stats.FailedPosts)

	if cfg.Compare {
		fmt.Printf("   Comparisons stored:    %d\n", stats.Comparisons)
	}

	fmt.Println()

	if stats.FailedPosts > 0 {
		os.Exit(1)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.FilePath, "file", "", "Path to CSV file (required)")
	flag.StringVar(&cfg.APIBase, "api-url", "http://localhost:8080", "API base URL")
	flag.StringVar(&cfg.APIKey, "api-key", "", "API key for authentication (required)")
	flag.BoolVar(&cfg.Compare, "compare", false, "Also store a reference comparison per created respondent")
	flag.IntVar(&cfg.DelayMS, "delay", 100, "Delay in milliseconds between API calls")
	flag.BoolVar(&cfg.DryRun, "dry-run", false, "Parse CSV but don't make API calls")

	flag.Parse()

	return cfg
}

func processCSV(cfg Config) Stats {
	stats := Stats{}

	file, err := os.Open(cfg.FilePath)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable field counts
	reader.LazyQuotes = true    // Handle quotes more leniently

	client := &http.Client{Timeout: 120 * time.Second}

	// Skip header row
	if _, err := reader.Read(); err != nil {
		fmt.Printf("Error reading header: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("📥 Ingesting respondents...")

	rowNum := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			fmt.Printf("   ⚠  Row %d: Error reading: %v\n", rowNum, err)
			rowNum++

			continue
		}

		stats.TotalRows++

		req, ok := respondentFromRow(row)
		if !ok {
			stats.SkippedShort++
			rowNum++

			continue
		}

		if cfg.DryRun {
			fmt.Printf("   [dry-run] Row %d: %s\n", rowNum, req.Name)
			stats.SuccessfulPosts++
			rowNum++

			continue
		}

		uid, err := createRespondent(client, cfg, req)
		if err != nil {
			fmt.Printf("   ⚠  Row %d (%s): %v\n", rowNum, req.Name, err)
			stats.FailedPosts++
			rowNum++

			continue
		}

		stats.SuccessfulPosts++
		fmt.Printf("   + uid %d: %s\n", uid, req.Name)

		if cfg.Compare {
			if err := storeComparison(client, cfg, uid); err != nil {
				fmt.Printf("   ⚠  uid %d: comparison failed: %v\n", uid, err)
			} else {
				stats.Comparisons++
			}
		}

		time.Sleep(time.Duration(cfg.DelayMS) * time.Millisecond)
		rowNum++
	}

	return stats
}

// respondentFromRow maps a CSV row onto a create request. Rows with missing
// columns or blank answers are skipped.
func respondentFromRow(row []string) (RespondentRequest, bool) {
	if len(row) < columnCount {
		return RespondentRequest{}, false
	}

	req := RespondentRequest{
		Name:      strings.TrimSpace(row[colName]),
		Age:       strings.TrimSpace(row[colAge]),
		Gender:    strings.TrimSpace(row[colGender]),
		Ethnicity: strings.TrimSpace(row[colEthnicity]),
		Education: strings.TrimSpace(row[colEducation]),
		Income:    strings.TrimSpace(row[colIncome]),
	}

	if req.Name == "" {
		return RespondentRequest{}, false
	}

	for i := range answerCount {
		answer := strings.TrimSpace(row[colFirstQ+i])
		if answer == "" {
			return RespondentRequest{}, false
		}

		req.Answers = append(req.Answers, answer)
	}

	return req, true
}

func createRespondent(client *http.Client, cfg Config, req RespondentRequest) (int64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, cfg.APIBase+"/v1/respondents", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)

		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	var created RespondentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, err
	}

	return created.UID, nil
}

func storeComparison(client *http.Client, cfg Config, uid int64) error {
	url := fmt.Sprintf("%s/v1/respondents/%d/comparisons", cfg.APIBase, uid)

	httpReq, err := http.NewRequest(http.MethodPost, url, http.NoBody)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

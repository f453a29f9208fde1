// Command schedule_probe fetches section schedules from a running scheduler
// instance and verifies the render plans hold together: every continuation
// cell is covered by a span start, spans never overlap, and the pending and
// scheduled buckets partition the subject list. Useful when pointing the
// engine at a new registrar deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type cell struct {
	Bucket  int    `json:"bucket"`
	Time    string `json:"time"`
	Kind    string `json:"kind"`
	RowSpan int    `json:"row_span"`
}

type sectionView struct {
	SectionID string `json:"section_id"`
	Plan      struct {
		Days    []string          `json:"days"`
		Times   []string          `json:"times"`
		Columns map[string][]cell `json:"columns"`
	} `json:"plan"`
	Slots     []json.RawMessage `json:"slots"`
	Pending   []struct {
		SubjectID string `json:"subject_id"`
	} `json:"pending"`
	Scheduled []struct {
		SubjectID string `json:"subject_id"`
	} `json:"scheduled"`
}

type report struct {
	SectionID string
	Latency   time.Duration
	Problems  []string
	Err       error
}

func main() {
	var (
		baseURL  string
		token    string
		sections string
		timeout  time.Duration
	)
	flag.StringVar(&baseURL, "base", "http://localhost:8080/api/v1", "Scheduler API base URL")
	flag.StringVar(&token, "token", os.Getenv("PROBE_TOKEN"), "Bearer token")
	flag.StringVar(&sections, "sections", "", "Comma-separated section IDs")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "Per-request timeout")
	flag.Parse()

	ids := splitIDs(sections)
	if len(ids) == 0 {
		log.Fatal("no sections given, use -sections sec-1,sec-2")
	}

	client := &http.Client{Timeout: timeout}
	var results []report
	for _, id := range ids {
		results = append(results, probe(client, baseURL, token, id))
	}
	printReport(results)
}

func splitIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func probe(client *http.Client, baseURL, token, sectionID string) report {
	rep := report{SectionID: sectionID}

	url := fmt.Sprintf("%s/sections/%s/schedule", strings.TrimRight(baseURL, "/"), sectionID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		rep.Err = err
		return rep
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	rep.Latency = time.Since(start)
	if err != nil {
		rep.Err = err
		return rep
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		rep.Err = err
		return rep
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		rep.Err = fmt.Errorf("bad envelope: %w", err)
		return rep
	}
	if env.Error != nil {
		rep.Err = fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		return rep
	}

	var view sectionView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		rep.Err = fmt.Errorf("bad section view: %w", err)
		return rep
	}

	rep.Problems = checkPlan(view)
	return rep
}

func checkPlan(view sectionView) []string {
	var problems []string

	for _, day := range view.Plan.Days {
		cells := view.Plan.Columns[day]
		if len(cells) != len(view.Plan.Times) {
			problems = append(problems, fmt.Sprintf("%s: %d cells for %d time buckets", day, len(cells), len(view.Plan.Times)))
			continue
		}
		covered := 0
		for i, c := range cells {
			switch c.Kind {
			case "SPAN_START":
				if covered > 0 {
					problems = append(problems, fmt.Sprintf("%s %s: span starts inside another span", day, c.Time))
				}
				if c.RowSpan < 1 {
					problems = append(problems, fmt.Sprintf("%s %s: span start with row span %d", day, c.Time, c.RowSpan))
				}
				covered = c.RowSpan - 1
			case "CONTINUATION":
				if covered == 0 {
					problems = append(problems, fmt.Sprintf("%s %s: continuation with no covering span", day, c.Time))
				} else {
					covered--
				}
			default:
				if covered > 0 {
					problems = append(problems, fmt.Sprintf("%s %s: empty cell inside a span", day, c.Time))
					covered--
				}
			}
			if i == len(cells)-1 && covered > 0 {
				problems = append(problems, fmt.Sprintf("%s: span extends past the last bucket", day))
			}
		}
	}

	seen := make(map[string]bool)
	for _, subj := range view.Scheduled {
		seen[subj.SubjectID] = true
	}
	for _, subj := range view.Pending {
		if seen[subj.SubjectID] {
			problems = append(problems, fmt.Sprintf("subject %s is both pending and scheduled", subj.SubjectID))
		}
	}

	return problems
}

func printReport(results []report) {
	failed := 0
	for _, rep := range results {
		switch {
		case rep.Err != nil:
			failed++
			fmt.Printf("FAIL %-16s %v\n", rep.SectionID, rep.Err)
		case len(rep.Problems) > 0:
			failed++
			fmt.Printf("WARN %-16s %s (%d problems)\n", rep.SectionID, rep.Latency.Round(time.Millisecond), len(rep.Problems))
			for _, p := range rep.Problems {
				fmt.Printf("     - %s\n", p)
			}
		default:
			fmt.Printf("OK   %-16s %s\n", rep.SectionID, rep.Latency.Round(time.Millisecond))
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

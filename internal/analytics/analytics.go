package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"travel-assistant/internal/querycache"
	"travel-assistant/internal/storage"
)

// DailyStats summarizes one day of query-history activity.
type DailyStats struct {
	Date          string         `json:"date"`
	TotalQueries  int            `json:"total_queries"`
	RepeatHits    int            `json:"repeat_hits"`
	ToolCalls     int            `json:"tool_calls"`
	ToolsByName   map[string]int `json:"tools_by_name"`
	PlainAnswers  int            `json:"plain_answers"`
	TopQuery      string         `json:"top_query,omitempty"`
	TopQueryCount int            `json:"top_query_count,omitempty"`
}

// AnalyzeDailyQueries builds the stats for targetDate from history records.
// A record counts toward the day its row is dated; repeat hits are the extra
// times a cached row was served beyond its first store.
func AnalyzeDailyQueries(records []storage.QueryRecord, targetDate time.Time) *DailyStats {
	day := targetDate.Format("2006-01-02")
	stats := &DailyStats{
		Date:        day,
		ToolsByName: make(map[string]int),
	}

	for _, rec := range records {
		if rec.Date != day {
			continue
		}
		stats.TotalQueries++
		if rec.QueryCount > 1 {
			stats.RepeatHits += rec.QueryCount - 1
		}
		if rec.ToolName == querycache.PlainTextTool {
			stats.PlainAnswers++
		} else {
			stats.ToolCalls++
			stats.ToolsByName[rec.ToolName]++
		}
		if rec.QueryCount > stats.TopQueryCount {
			stats.TopQuery = rec.Query
			stats.TopQueryCount = rec.QueryCount
		}
	}
	return stats
}

// Summary renders the stats as a short plain-text report.
func (ds *DailyStats) Summary() string {
	summary := fmt.Sprintf(`Travel assistant usage for %s:

- Queries: %d
- Served from cache again: %d
- Tool calls: %d
- Plain answers: %d
`, ds.Date, ds.TotalQueries, ds.RepeatHits, ds.ToolCalls, ds.PlainAnswers)

	if len(ds.ToolsByName) > 0 {
		names := make([]string, 0, len(ds.ToolsByName))
		for name := range ds.ToolsByName {
			names = append(names, name)
		}
		sort.Strings(names)

		summary += "\nTool usage:\n"
		for _, name := range names {
			summary += fmt.Sprintf("- %s: %d\n", name, ds.ToolsByName[name])
		}
	}
	if ds.TopQueryCount > 1 {
		summary += fmt.Sprintf("\nMost repeated query (%d times): %s\n", ds.TopQueryCount, ds.TopQuery)
	}
	return summary
}

// ToJSON serializes the stats for machine consumers.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

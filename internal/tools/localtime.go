package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"travel-assistant/internal/httpretry"
)

// TimeTool reports the current local time of a location via TimeZoneDB.
type TimeTool struct {
	BaseURL string
	Retry   httpretry.Policy
	apiKey  string
	geo     *Geocoder
	http    *http.Client
}

func NewTimeTool(apiKey string, geo *Geocoder) *TimeTool {
	return &TimeTool{
		BaseURL: "http://api.timezonedb.com",
		Retry:   httpretry.Default,
		apiKey:  apiKey,
		geo:     geo,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type timezoneResponse struct {
	Status string `json:"status"`
	// Timestamp is already shifted to the zone's local clock.
	Timestamp int64  `json:"timestamp"`
	ZoneName  string `json:"zoneName"`
	Message   string `json:"message"`
}

func (t *TimeTool) Get(ctx context.Context, location string) string {
	lat, lon, err := t.geo.Geocode(ctx, location)
	if err != nil {
		log.Printf("time geocode error: %v", err)
		return "Location not found. Ask for confirmation."
	}

	q := url.Values{}
	q.Set("key", t.apiKey)
	q.Set("format", "json")
	q.Set("by", "position")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lon, 'f', -1, 64))
	reqURL := t.BaseURL + "/v2.1/get-time-zone?" + q.Encode()

	var tr timezoneResponse
	err = t.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return httpretry.Permanent(err)
		}
		resp, err := t.http.Do(req)
		if err != nil {
			return fmt.Errorf("time request: %w", err)
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(&tr)
	})
	if err != nil {
		log.Printf("time API error: %v", err)
		return fmt.Sprintf("Error fetching time: %v", err)
	}

	if tr.Status != "OK" {
		msg := tr.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return fmt.Sprintf("Time data not available: %s", msg)
	}

	local := time.Unix(tr.Timestamp, 0).UTC().Format("15:04")
	return fmt.Sprintf("Current time in %s: %s (%s).", location, local, tr.ZoneName)
}

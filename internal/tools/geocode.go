package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"travel-assistant/internal/httpretry"
)

// Geocoder resolves free-form place names to coordinates via Nominatim.
type Geocoder struct {
	BaseURL string
	Retry   httpretry.Policy
	http    *http.Client
}

func NewGeocoder() *Geocoder {
	return &Geocoder{
		BaseURL: "https://nominatim.openstreetmap.org",
		Retry:   httpretry.Default,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the coordinates of the best match for location, or an
// error when the place is unknown.
func (g *Geocoder) Geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")
	reqURL := g.BaseURL + "/search?" + q.Encode()

	var results []nominatimResult
	err = g.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return httpretry.Permanent(err)
		}
		req.Header.Set("User-Agent", "travel_assistant")

		resp, err := g.http.Do(req)
		if err != nil {
			return fmt.Errorf("geocode request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("geocode status: %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(&results)
	})
	if err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("location %q not found", location)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lat: %w", err)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lon: %w", err)
	}
	return lat, lon, nil
}

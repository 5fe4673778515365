package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"travel-assistant/internal/httpretry"
)

// AttractionsTool lists top tourist attractions near a location via Geoapify.
type AttractionsTool struct {
	BaseURL string
	Retry   httpretry.Policy
	apiKey  string
	geo     *Geocoder
	http    *http.Client
}

func NewAttractionsTool(apiKey string, geo *Geocoder) *AttractionsTool {
	return &AttractionsTool{
		BaseURL: "https://api.geoapify.com",
		Retry:   httpretry.Default,
		apiKey:  apiKey,
		geo:     geo,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type placesResponse struct {
	Features []struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"features"`
}

// Get returns up to three named attractions within 10km of the location.
func (t *AttractionsTool) Get(ctx context.Context, location string) string {
	lat, lon, err := t.geo.Geocode(ctx, location)
	if err != nil {
		log.Printf("attractions geocode error: %v", err)
		return "Location not found. Ask for confirmation."
	}

	reqURL := fmt.Sprintf("%s/v2/places?categories=tourism.attraction&filter=circle:%v,%v,10000&apiKey=%s",
		t.BaseURL, lon, lat, t.apiKey)

	var pr placesResponse
	err = t.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return httpretry.Permanent(err)
		}
		resp, err := t.http.Do(req)
		if err != nil {
			return fmt.Errorf("attractions request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("attractions status: %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(&pr)
	})
	if err != nil {
		log.Printf("attractions API error: %v", err)
		return fmt.Sprintf("Error fetching attractions: %v", err)
	}

	var names []string
	for _, f := range pr.Features {
		if f.Properties.Name == "" {
			continue
		}
		names = append(names, f.Properties.Name)
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No attractions found in %s.", location)
	}
	return fmt.Sprintf("Top attractions in %s: %s.", location, strings.Join(names, ", "))
}

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

// WeatherTool answers current-weather questions via OpenWeatherMap, with a
// packing hint based on the temperature.
type WeatherTool struct {
	BaseURL string
	Retry   httpretry.Policy
	apiKey  string
	geo     *Geocoder
	http    *http.Client
}

func NewWeatherTool(apiKey string, geo *Geocoder) *WeatherTool {
	return &WeatherTool{
		BaseURL: "https://api.openweathermap.org",
		Retry:   httpretry.Default,
		apiKey:  apiKey,
		geo:     geo,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type weatherResponse struct {
	Cod  json.Number `json:"cod"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message"`
}

// Get returns a user-facing sentence; failures become sentences too, so the
// agent can always answer.
func (t *WeatherTool) Get(ctx context.Context, location string) string {
	lat, lon, err := t.geo.Geocode(ctx, location)
	if err != nil {
		log.Printf("weather geocode error: %v", err)
		return "Location not found. Ask for confirmation."
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", t.apiKey)
	q.Set("units", "metric")
	reqURL := t.BaseURL + "/data/2.5/weather?" + q.Encode()

	var wr weatherResponse
	err = t.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return httpretry.Permanent(err)
		}
		resp, err := t.http.Do(req)
		if err != nil {
			return fmt.Errorf("weather request: %w", err)
		}
		defer resp.Body.Close()
		return json.NewDecoder(resp.Body).Decode(&wr)
	})
	if err != nil {
		log.Printf("weather API error: %v", err)
		return fmt.Sprintf("Error fetching weather data: %v", err)
	}

	if wr.Cod.String() != "200" {
		msg := wr.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return fmt.Sprintf("Weather data not available: %s", msg)
	}

	description := ""
	if len(wr.Weather) > 0 {
		description = wr.Weather[0].Description
	}
	pack := "Bring layers and an umbrella"
	if wr.Main.Temp > 20 {
		pack = "Pack light clothes and sunscreen"
	}
	return fmt.Sprintf("Current weather in %s: %s°C, %s. %s.", location, trimFloat(wr.Main.Temp), description, pack)
}

// trimFloat renders a float without trailing zeros (18.5, not 18.500000).
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"travel-assistant/internal/httpretry"
)

// iataCodes maps the city names the assistant understands to airport codes.
var iataCodes = map[string]string{
	"new york":  "NYC",
	"london":    "LON",
	"new delhi": "DEL",
	"mumbai":    "BOM",
	"paris":     "PAR",
}

// FlightsTool searches flight offers via the Amadeus API. The OAuth2
// client-credentials config caches and refreshes the access token across
// calls.
type FlightsTool struct {
	BaseURL string
	Retry   httpretry.Policy
	http    *http.Client
}

// NewFlightsTool wires the Amadeus client. tokenURL is overridable for
// tests; pass "" for the default.
func NewFlightsTool(apiKey, apiSecret, tokenURL string) *FlightsTool {
	if tokenURL == "" {
		tokenURL = "https://test.api.amadeus.com/v1/security/oauth2/token"
	}
	cc := &clientcredentials.Config{
		ClientID:     apiKey,
		ClientSecret: apiSecret,
		TokenURL:     tokenURL,
	}
	client := cc.Client(context.Background())
	client.Timeout = 10 * time.Second
	return &FlightsTool{
		BaseURL: "https://test.api.amadeus.com",
		Retry:   httpretry.Default,
		http:    client,
	}
}

type flightOffersResponse struct {
	Data []struct {
		Itineraries []struct {
			Duration string `json:"duration"`
		} `json:"itineraries"`
		Price struct {
			Total string `json:"total"`
		} `json:"price"`
	} `json:"data"`
}

// Search returns a user-facing sentence describing the first offer for
// today's date between two city names.
func (t *FlightsTool) Search(ctx context.Context, fromLocation, toLocation string) string {
	fromCode := iataCodes[strings.ToLower(fromLocation)]
	toCode := iataCodes[strings.ToLower(toLocation)]
	if fromCode == "" || toCode == "" {
		return fmt.Sprintf("Invalid airport codes for %s or %s. Please use city names like 'New York' or 'London'.", fromLocation, toLocation)
	}

	q := url.Values{}
	q.Set("originLocationCode", fromCode)
	q.Set("destinationLocationCode", toCode)
	q.Set("departureDate", time.Now().Format("2006-01-02"))
	q.Set("adults", "1")
	reqURL := t.BaseURL + "/v2/shopping/flight-offers?" + q.Encode()

	var fr flightOffersResponse
	err := t.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return httpretry.Permanent(err)
		}
		resp, err := t.http.Do(req)
		if err != nil {
			return fmt.Errorf("flights request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("flights status: %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(&fr)
	})
	if err != nil {
		log.Printf("flights API error: %v", err)
		return fmt.Sprintf("Error searching flights: %v", err)
	}

	if len(fr.Data) == 0 || len(fr.Data[0].Itineraries) == 0 {
		return "No flights found for the specified route or date."
	}
	offer := fr.Data[0]
	return fmt.Sprintf("Found flight from %s to %s: Duration %s, price %s EUR.",
		fromLocation, toLocation, offer.Itineraries[0].Duration, offer.Price.Total)
}

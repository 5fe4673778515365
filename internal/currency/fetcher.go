package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"travel-assistant/internal/httpretry"
)

// Batch is one normalized upstream response: all quotes relative to the base
// currency, sharing a timestamp and a calendar date.
type Batch struct {
	Rates     map[string]float64
	Timestamp int64
	Date      string
}

type rateEnvelope struct {
	Success   bool               `json:"success"`
	Rates     map[string]float64 `json:"rates"`
	Timestamp int64              `json:"timestamp"`
	Date      string             `json:"date"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Fetcher pulls the latest quotes from the exchangeratesapi.io-style
// upstream. Every call carries a hard timeout and goes through the shared
// retry policy; a failed fetch leaves no trace anywhere.
type Fetcher struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	Retry      httpretry.Policy
}

func NewFetcher(baseURL, accessKey string) *Fetcher {
	return &Fetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		Retry:      httpretry.Default,
	}
}

// FetchLatest requests quotes for symbols. It retries transport failures,
// non-200 statuses and unsuccessful response envelopes; once the budget is
// spent it returns ErrUpstreamUnavailable wrapping the last error.
func (f *Fetcher) FetchLatest(ctx context.Context, symbols []string) (Batch, error) {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("access_key", f.accessKey)
	reqURL := f.baseURL + "/latest?" + q.Encode()

	var batch Batch
	err := f.Retry.Do(ctx, func() error {
		b, err := f.fetchOnce(ctx, reqURL)
		if err != nil {
			log.Printf("rates fetch attempt failed: %v", err)
			return err
		}
		batch = b
		return nil
	})
	if err != nil {
		return Batch{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return batch, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, reqURL string) (Batch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Batch{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Batch{}, fmt.Errorf("API request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var env rateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Batch{}, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		msg := env.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return Batch{}, fmt.Errorf("API error: %s", msg)
	}

	return Batch{Rates: env.Rates, Timestamp: env.Timestamp, Date: env.Date}, nil
}

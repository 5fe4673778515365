package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"travel-assistant/internal/storage"
)

type recordingAudit struct {
	mu      sync.Mutex
	queries []string
	tools   []string
}

func (a *recordingAudit) Store(query, response, toolName string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queries = append(a.queries, query)
	a.tools = append(a.tools, toolName)
}

func testRateStore(t *testing.T) *storage.RateStore {
	t.Helper()
	db, err := storage.Open(t.TempDir() + "/exchange_rates.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	s := storage.NewRateStore(db)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	return s
}

func upstreamServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshThenConvert(t *testing.T) {
	srv := upstreamServer(t, `{"success":true,"rates":{"USD":1.08,"GBP":0.86},"timestamp":1700000000,"date":"2023-11-14"}`)
	store := testRateStore(t)
	audit := &recordingAudit{}

	f := NewFetcher(srv.URL, "k")
	f.Retry = fastRetry()
	c := NewConverter(f, store, audit)

	res, err := c.Refresh(context.Background(), "USD", "GBP")
	if err != nil {
		t.Fatal(err)
	}
	if res.Date != "2023-11-14" {
		t.Errorf("refresh date = %q", res.Date)
	}

	conv, err := c.Convert(50, "USD", "GBP")
	if err != nil {
		t.Fatal(err)
	}
	if conv.Result != 39.81 {
		t.Errorf("50 USD in GBP = %v, want 39.81", conv.Result)
	}
	if conv.Date != "2023-11-14" {
		t.Errorf("conversion date = %q", conv.Date)
	}

	if len(audit.queries) != 1 || audit.tools[0] != AuditTool {
		t.Errorf("audit rows = %v / %v", audit.queries, audit.tools)
	}
}

func TestConvertFromBase(t *testing.T) {
	store := testRateStore(t)
	if err := store.Upsert([]storage.Rate{
		{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"},
	}); err != nil {
		t.Fatal(err)
	}
	c := NewConverter(nil, store, nil)

	conv, err := c.Convert(100, "EUR", "USD")
	if err != nil {
		t.Fatal(err)
	}
	if conv.Result != 108.0 {
		t.Errorf("100 EUR in USD = %v, want 108", conv.Result)
	}
}

func TestConvertBaseToBaseIdentity(t *testing.T) {
	store := testRateStore(t)
	if err := store.Upsert([]storage.Rate{
		{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"},
	}); err != nil {
		t.Fatal(err)
	}
	c := NewConverter(nil, store, nil)

	conv, err := c.Convert(42.5, "EUR", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if conv.Result != 42.5 {
		t.Errorf("EUR->EUR = %v, want identity", conv.Result)
	}
}

func TestConvertEmptyStore(t *testing.T) {
	c := NewConverter(nil, testRateStore(t), nil)
	_, err := c.Convert(10, "USD", "EUR")
	if !errors.Is(err, storage.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	store := testRateStore(t)
	if err := store.Upsert([]storage.Rate{
		{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"},
		{Currency: "GBP", Rate: 0.86, Timestamp: 1700000000, Date: "2023-11-14"},
	}); err != nil {
		t.Fatal(err)
	}
	c := NewConverter(nil, store, nil)

	_, err := c.Convert(10, "USD", "JPY")
	var unsupported *UnsupportedCurrencyError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedCurrencyError, got %v", err)
	}
	if !strings.Contains(err.Error(), "JPY") {
		t.Errorf("error should name the missing code, got %q", err)
	}
}

func TestRefreshFailureLeavesStoreUntouched(t *testing.T) {
	srv := upstreamServer(t, `{"success":false,"error":{"message":"quota exceeded"}}`)
	store := testRateStore(t)

	f := NewFetcher(srv.URL, "k")
	f.Retry = fastRetry()
	c := NewConverter(f, store, nil)

	if _, err := c.Refresh(context.Background()); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if _, err := store.Latest(); !errors.Is(err, storage.ErrNoData) {
		t.Fatalf("store should stay empty after a failed refresh, got %v", err)
	}
}

func TestRefreshTwiceNoDuplicates(t *testing.T) {
	srv := upstreamServer(t, `{"success":true,"rates":{"USD":1.08},"timestamp":1700000000,"date":"2023-11-14"}`)
	store := testRateStore(t)

	f := NewFetcher(srv.URL, "k")
	f.Retry = fastRetry()
	c := NewConverter(f, store, nil)

	for i := 0; i < 2; i++ {
		if _, err := c.Refresh(context.Background(), "USD"); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if len(latest.Rates) != 1 {
		t.Errorf("expected a single USD row, got %v", latest.Rates)
	}
}

func TestConvertRoundsToTwoDecimals(t *testing.T) {
	store := testRateStore(t)
	if err := store.Upsert([]storage.Rate{
		{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"},
		{Currency: "JPY", Rate: 162.43, Timestamp: 1700000000, Date: "2023-11-14"},
	}); err != nil {
		t.Fatal(err)
	}
	c := NewConverter(nil, store, nil)

	conv, err := c.Convert(7, "USD", "JPY")
	if err != nil {
		t.Fatal(err)
	}
	// 7 * 162.43/1.08 = 1052.7868...
	if conv.Result != 1052.79 {
		t.Errorf("result = %v, want 1052.79", conv.Result)
	}
}

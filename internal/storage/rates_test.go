package storage

import (
	"errors"
	"testing"
)

func testRateStore(t *testing.T) *RateStore {
	t.Helper()
	db, err := Open(t.TempDir() + "/exchange_rates.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	s := NewRateStore(db)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRateStoreInitIdempotent(t *testing.T) {
	s := testRateStore(t)
	if err := s.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
}

func TestRateStoreLatestEmpty(t *testing.T) {
	s := testRateStore(t)
	_, err := s.Latest()
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestRateStoreUpsertAndLatest(t *testing.T) {
	s := testRateStore(t)
	batch := []Rate{
		{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"},
		{Currency: "GBP", Rate: 0.86, Timestamp: 1700000000, Date: "2023-11-14"},
	}
	if err := s.Upsert(batch); err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if got.Date != "2023-11-14" {
		t.Errorf("date = %q, want 2023-11-14", got.Date)
	}
	if got.Rates["USD"] != 1.08 || got.Rates["GBP"] != 0.86 {
		t.Errorf("rates = %v", got.Rates)
	}
}

func TestRateStoreUpsertIdempotent(t *testing.T) {
	s := testRateStore(t)
	batch := []Rate{{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"}}
	if err := s.Upsert(batch); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(batch); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM exchange_rates`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 row after duplicate upsert, got %d", n)
	}
}

func TestRateStoreNewerTimestampWins(t *testing.T) {
	s := testRateStore(t)
	if err := s.Upsert([]Rate{{Currency: "USD", Rate: 1.05, Timestamp: 1600000000, Date: "2020-09-13"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert([]Rate{{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest("USD")
	if err != nil {
		t.Fatal(err)
	}
	if got.Rates["USD"] != 1.08 {
		t.Errorf("latest USD = %v, want 1.08", got.Rates["USD"])
	}
	if got.Date != "2023-11-14" {
		t.Errorf("date = %q, want 2023-11-14", got.Date)
	}
}

func TestRateStoreLatestSymbolFilter(t *testing.T) {
	s := testRateStore(t)
	batch := []Rate{
		{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"},
		{Currency: "GBP", Rate: 0.86, Timestamp: 1700000000, Date: "2023-11-14"},
		{Currency: "JPY", Rate: 162.4, Timestamp: 1700000000, Date: "2023-11-14"},
	}
	if err := s.Upsert(batch); err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest("USD", "GBP")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rates) != 2 {
		t.Errorf("expected 2 rates, got %v", got.Rates)
	}
	if _, ok := got.Rates["JPY"]; ok {
		t.Error("JPY should have been filtered out")
	}
}

func TestRateStoreLatestNoSymbolMatchKeepsDate(t *testing.T) {
	s := testRateStore(t)
	if err := s.Upsert([]Rate{{Currency: "USD", Rate: 1.08, Timestamp: 1700000000, Date: "2023-11-14"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest("JPY")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rates) != 0 {
		t.Errorf("expected no rates, got %v", got.Rates)
	}
	if got.Date != "2023-11-14" {
		t.Errorf("date = %q, want batch date even with empty filter result", got.Date)
	}
}

// Package querycache answers "did we already handle a question like this?"
// over the persistent query history. Lookups are fuzzy; writes deduplicate
// on the exact query text unless Options.FuzzyStore unifies the two sides.
package querycache

import (
	"log"
	"math"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"travel-assistant/internal/storage"
)

// PlainTextTool tags history rows answered by the model directly, without a
// tool call.
const PlainTextTool = "none"

type Options struct {
	// TTL is the maximum age of a row eligible for lookup reuse and for
	// write-side dedup.
	TTL time.Duration
	// SimilarityThreshold is the 0..100 score a cached query must reach
	// against the incoming one.
	SimilarityThreshold int
	// FuzzyStore switches the write-side dedup key from exact text equality
	// to the same fuzzy match the lookup uses.
	FuzzyStore bool
}

// Cache is the caller-facing surface over the history store. Storage errors
// never escape it: a failed read is a miss, a failed write is logged and
// dropped so the caller's primary result survives.
type Cache struct {
	store *storage.HistoryStore
	opts  Options
	lev   *metrics.Levenshtein
}

func New(store *storage.HistoryStore, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = 90
	}
	return &Cache{store: store, opts: opts, lev: metrics.NewLevenshtein()}
}

// Lookup returns the response of the newest row within the TTL window whose
// query text is similar enough to query.
func (c *Cache) Lookup(query string) (string, bool) {
	since := time.Now().Add(-c.opts.TTL).Unix()
	rows, err := c.store.RecentSince(since)
	if err != nil {
		log.Printf("error checking cache: %v", err)
		return "", false
	}
	for _, row := range rows {
		if c.similarity(query, row.Query) >= c.opts.SimilarityThreshold {
			log.Printf("cache hit for query: %q (matched: %q)", query, row.Query)
			return row.Response, true
		}
	}
	log.Printf("cache miss for query: %q", query)
	return "", false
}

// Store records a query/response pair produced by toolName. A near-enough
// existing row inside the TTL window is refreshed in place instead of
// creating a duplicate; which rows count as "near enough" depends on
// FuzzyStore.
func (c *Cache) Store(query, response, toolName string) {
	now := time.Now()
	dedupCutoff := now.Add(-c.opts.TTL).Unix()

	if c.opts.FuzzyStore {
		rows, err := c.store.RecentSince(dedupCutoff)
		if err != nil {
			log.Printf("error storing query/response: %v", err)
			return
		}
		for _, row := range rows {
			if c.similarity(query, row.Query) >= c.opts.SimilarityThreshold {
				if err := c.store.Touch(row.ID, now); err != nil {
					log.Printf("error storing query/response: %v", err)
				}
				return
			}
		}
	}

	if err := c.store.Store(query, response, toolName, now, dedupCutoff); err != nil {
		log.Printf("error storing query/response: %v", err)
	}
}

// Prune deletes rows older than maxAge and returns the count removed.
func (c *Cache) Prune(maxAge time.Duration) (int64, error) {
	return c.store.DeleteOlderThan(time.Now().Add(-maxAge).Unix())
}

func (c *Cache) similarity(a, b string) int {
	score := strutil.Similarity(strings.ToLower(a), strings.ToLower(b), c.lev)
	return int(math.Round(score * 100))
}

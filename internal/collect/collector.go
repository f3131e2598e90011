package collect

import (
	"context"
	"sort"
	"time"

	"github.com/ukaji/marketbrief/internal/cache"
	"github.com/ukaji/marketbrief/internal/model"
	"github.com/ukaji/marketbrief/internal/worker"
)

// FeedSource fetches one feed. Satisfied by *FeedFetcher; a test double in
// collector_test.go stands in for it.
type FeedSource interface {
	Fetch(ctx context.Context, target FeedTarget, limit int) ([]model.NewsItem, error)
}

// Collector gathers items from all feed targets concurrently. A failing feed
// contributes an error message to the briefing instead of failing the batch.
type Collector struct {
	source   FeedSource
	workers  int
	maxItems int
}

// NewCollector creates a collector from configuration. Pass a nil store to
// disable feed payload caching.
func NewCollector(cfg *model.Config, store cache.Cache) *Collector {
	return &Collector{
		source:   NewFeedFetcher(cfg, store),
		workers:  cfg.Concurrency.Workers,
		maxItems: cfg.Feeds.MaxItemsPerFeed,
	}
}

type feedJob struct {
	// ctx carries the collection deadline; the pool's own context only
	// governs shutdown.
	ctx    context.Context
	index  int
	target FeedTarget
	limit  int
	source FeedSource
}

type feedResult struct {
	index  int
	target FeedTarget
	items  []model.NewsItem
	err    error
}

func (r *feedResult) GetError() error {
	return r.err
}

func (j *feedJob) Execute(poolCtx context.Context) worker.Result {
	ctx := j.ctx
	if ctx == nil {
		ctx = poolCtx
	}
	items, err := j.source.Fetch(ctx, j.target, j.limit)
	if err != nil {
		return &feedResult{index: j.index, target: j.target, err: &FeedError{Label: j.target.Label, Err: err}}
	}
	return &feedResult{index: j.index, target: j.target, items: items}
}

// Collect fetches all targets and assembles a briefing. Items are ordered
// newest first; feed errors keep the target order.
func (c *Collector) Collect(ctx context.Context, query string, targets []FeedTarget) *model.Briefing {
	pool := worker.NewPool(c.workers)
	pool.Start()

	for i, target := range targets {
		pool.Submit(&feedJob{ctx: ctx, index: i, target: target, limit: c.maxItems, source: c.source})
	}

	results := pool.Wait()

	// Pool results arrive unordered; restore the target order so output is
	// deterministic for a given set of feed responses.
	ordered := make([]*feedResult, len(targets))
	for _, r := range results {
		fr := r.(*feedResult)
		ordered[fr.index] = fr
	}

	var items []model.NewsItem
	var feedErrors []string
	for _, fr := range ordered {
		if fr == nil {
			continue
		}
		if fr.err != nil {
			feedErrors = append(feedErrors, fr.err.Error())
			continue
		}
		items = append(items, fr.items...)
	}

	sortByPublished(items)

	return &model.Briefing{
		Query:       query,
		CollectedAt: time.Now().UTC(),
		Items:       items,
		Statements:  model.Statements(items),
		FeedErrors:  feedErrors,
	}
}

// pubDateLayouts are the timestamp formats seen in feed pubDate fields
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

func parsePublished(s string) (time.Time, bool) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortByPublished orders items newest first. Unparseable timestamps sort
// after parseable ones, by raw string as a stable fallback.
func sortByPublished(items []model.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, iok := parsePublished(items[i].Published)
		tj, jok := parsePublished(items[j].Published)

		switch {
		case iok && jok:
			return ti.After(tj)
		case iok != jok:
			return iok
		default:
			return items[i].Published > items[j].Published
		}
	})
}

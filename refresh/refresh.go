package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gazette/db"
	"gazette/feed"
	"gazette/parser"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// maxFeedsPerCycle bounds the work a single cycle can pick up
	maxFeedsPerCycle = 50

	// batchSize bounds the peak number of concurrent outbound fetches;
	// batch boundaries carry no correctness meaning
	batchSize = 10
)

// Refresher runs the poll refresh cycle against due feeds
type Refresher struct {
	db           db.DB
	parser       parser.FeedParser
	baseInterval time.Duration
}

// New creates a refresher which polls with the given base interval between
// checks of a healthy feed
func New(adb db.DB, p parser.FeedParser, baseInterval time.Duration) *Refresher {
	if baseInterval <= 0 {
		baseInterval = DefaultBaseInterval
	}

	return &Refresher{
		db:           adb,
		parser:       p,
		baseInterval: baseInterval,
	}
}

// Refresh selects due, push-inactive feeds and fetches them in concurrent
// batches. Per-feed failures are recorded on the feed and collected into the
// result; they never abort the cycle or their batch siblings
func (r *Refresher) Refresh(ctx context.Context) (*feed.RefreshResult, error) {
	feeds, err := r.db.DueFeeds(time.Now(), maxFeedsPerCycle)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select due feeds")
	}

	result := &feed.RefreshResult{Errors: []string{}}
	var mu sync.Mutex

	for start := 0; start < len(feeds); start += batchSize {
		end := start + batchSize
		if end > len(feeds) {
			end = len(feeds)
		}

		var wg sync.WaitGroup
		for _, f := range feeds[start:end] {
			wg.Add(1)
			go func(f *feed.Feed) {
				defer wg.Done()

				err := r.refreshFeed(ctx, f)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Errors = append(
						result.Errors,
						fmt.Sprintf("%s (%s): %v", f.Title, f.URL, err))
				} else {
					result.Refreshed++
				}
			}(f)
		}

		wg.Wait()
	}

	log.Info().
		Int("refreshed", result.Refreshed).
		Int("errors", len(result.Errors)).
		Msg("Refresh cycle finished")

	return result, nil
}

func (r *Refresher) refreshFeed(ctx context.Context, f *feed.Feed) error {
	parsed, err := r.parser.Fetch(ctx, f.URL)
	now := time.Now()

	if err != nil {
		f.FailureCount++
		f.IsAvailable = !Unavailable(f.FailureCount)
		f.NextCheckAt = NextCheckTime(f.FailureCount, r.baseInterval, now)

		if dbErr := r.db.RecordFeedFailure(f); dbErr != nil {
			log.Error().
				Err(dbErr).
				Str("url", f.URL).
				Msg("Failed to record feed failure")
		}

		return err
	}

	if !f.CustomTitle && parsed.Title != "" {
		f.Title = parsed.Title
	}
	if parsed.HubURL != "" {
		f.HubURL = parsed.HubURL
	}
	if parsed.TopicURL != "" {
		f.TopicURL = parsed.TopicURL
	}

	f.FailureCount = 0
	f.IsAvailable = true
	f.LastFetchedAt = &now
	f.NextCheckAt = NextCheckTime(0, r.baseInterval, now)

	inserted, err := r.db.ApplyRefresh(f, parsed.Entries)
	if err != nil {
		return err
	}

	log.Debug().
		Str("url", f.URL).
		Int("inserted", inserted).
		Msg("Feed refreshed")

	return nil
}

package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/pkg/logger"
)

// ErrVerification is returned when any response broke a ranking rule.
var ErrVerification = errors.New("verification failed")

// orderings cycles through every combination the boundary accepts.
var orderings = [][2]string{
	{"", ""},
	{"score", ""},
	{"score", "true"},
	{"score", "false"},
	{"name", ""},
	{"name", "true"},
	{"name", "false"},
	{"", "true"},
	{"", "false"},
}

// Run executes a complete load run: health check, concurrent verified
// searches and, when enabled, the add-artist conflict probe.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	if len(cfg.Terms) == 0 {
		cfg.Terms = DefaultTerms
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	start := time.Now()
	log.Info(ctx, "starting load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", cfg.Queries),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	var (
		searches, results, failed, violations atomic.Int64
		epoch                                 atomic.Uint64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Queries; i++ {
		text := cfg.Terms[i%len(cfg.Terms)]
		order := orderings[i%len(orderings)]
		g.Go(func() error {
			q, err := buildQuery(text, order[0], order[1])
			if err != nil {
				return err
			}
			reply, err := client.Search(gctx, text, order[0], order[1])
			searches.Add(1)
			if err != nil {
				failed.Add(1)
				log.Warn(gctx, "search failed", logger.String("query", text), logger.Error(err))
				return nil
			}
			results.Add(int64(len(reply.Results)))
			storeMax(&epoch, reply.Epoch)

			if err := Verify(reply.Results, q); err != nil {
				violations.Add(1)
				log.Error(gctx, "ranking violation",
					logger.String("query", text),
					logger.String("sortRule", order[0]),
					logger.String("ascending", order[1]),
					logger.Error(err))
				return nil
			}
			if cfg.Verbose {
				log.Debug(gctx, "search verified",
					logger.String("query", text),
					logger.Int("results", len(reply.Results)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.Probe {
		e, err := probeConflict(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("conflict probe failed: %w", err)
		}
		storeMax(&epoch, e)
	}

	stats := &Stats{
		Searches:   int(searches.Load()),
		Results:    int(results.Load()),
		Failed:     int(failed.Load()),
		Violations: int(violations.Load()),
		Epoch:      epoch.Load(),
		Duration:   time.Since(start),
	}
	displayFinalStats(ctx, log, stats)

	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d of %d searches", ErrVerification, stats.Violations, stats.Searches)
	}
	return stats, nil
}

// probeConflict adds a fresh artist twice under a throwaway genre. The first
// add must succeed and advance the epoch; the second must conflict.
func probeConflict(ctx context.Context, client *Client) (uint64, error) {
	genre := "loadtest"
	artist := "probe-" + uuid.NewString()

	first, err := client.AddArtist(ctx, genre, artist)
	if err != nil {
		return 0, err
	}
	if first.Status != http.StatusCreated {
		return 0, fmt.Errorf("%w: first add returned %d: %s", ErrUnexpectedStatus, first.Status, first.Message)
	}

	second, err := client.AddArtist(ctx, genre, artist)
	if err != nil {
		return 0, err
	}
	if second.Status != http.StatusConflict {
		return 0, fmt.Errorf("%w: repeated add returned %d", ErrUnexpectedStatus, second.Status)
	}
	want := fmt.Sprintf(`Artist "%s" already exists in genre "%s".`, artist, genre)
	if second.Message != want {
		return 0, fmt.Errorf("conflict message %q, want %q", second.Message, want)
	}
	return first.Epoch, nil
}

func buildQuery(text, rule, ascending string) (model.Query, error) {
	r, err := model.ParseSortRule(rule)
	if err != nil {
		return model.Query{}, err
	}
	d, err := model.ParseDirection(ascending)
	if err != nil {
		return model.Query{}, err
	}
	return model.Query{Text: text, Sort: r, Direction: d}, nil
}

func storeMax(v *atomic.Uint64, n uint64) {
	for {
		cur := v.Load()
		if n <= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Searches) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("searches", stats.Searches),
		logger.Int("results", stats.Results),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", stats.Violations),
		logger.Uint64("epoch", stats.Epoch),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("searchesPerSecond", perSecond))
}

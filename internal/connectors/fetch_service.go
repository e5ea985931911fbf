package connectors

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"debatetxt/internal"
	"debatetxt/internal/observability/logging"
	"debatetxt/internal/observability/metrics"
)

const LastFetchKey = "transcripts.last_fetch"

type FetchService struct {
	client  *Client
	store   *TranscriptStore
	db      TranscriptRecorder
	metrics *metrics.Metrics
}

type FetchOptions struct {
	IndexURL string
	// Prefix keeps file names starting with it, e.g. "2001-".
	Prefix string
	Limit  int
}

type FetchResult struct {
	TraceID    string
	Listed     int
	Downloaded int
	Unchanged  int
}

func NewFetchService(db TranscriptRecorder, dir string, client *Client, m *metrics.Metrics) *FetchService {
	return &FetchService{
		client:  client,
		store:   NewTranscriptStore(db, dir),
		db:      db,
		metrics: m,
	}
}

// FetchAndStore downloads every transcript listed on the index page that
// passes the filter. The first failed download aborts the run.
func (s *FetchService) FetchAndStore(ctx context.Context, opts FetchOptions) (FetchResult, error) {
	result := FetchResult{TraceID: uuid.NewString()}
	logger := logging.WithRun("fetch", result.TraceID)

	base, err := url.Parse(opts.IndexURL)
	if err != nil {
		return result, fmt.Errorf("index url: %w", err)
	}
	page, err := s.client.Fetch(ctx, base.String())
	if err != nil {
		return result, err
	}
	listings, err := ParseIndex(base, bytes.NewReader(page))
	if err != nil {
		return result, fmt.Errorf("parse index %s: %w", base, err)
	}
	listings = FilterListings(listings, opts.Prefix, opts.Limit)
	if len(listings) == 0 {
		return result, fmt.Errorf("%w at %s", internal.ErrNoTranscripts, base)
	}
	result.Listed = len(listings)

	for _, l := range listings {
		raw, err := s.client.Fetch(ctx, l.URL)
		if err != nil {
			s.count("failed")
			return result, err
		}
		_, written, err := s.store.Store(l, raw)
		if err != nil {
			return result, fmt.Errorf("%s: %w", l.Name, err)
		}
		if written {
			result.Downloaded++
			s.count("downloaded")
		} else {
			result.Unchanged++
			s.count("unchanged")
		}
		logger.Debug().Str("name", l.Name).Bool("written", written).Msg("transcript stored")
	}

	if s.db != nil {
		_ = s.db.SetMetadata(LastFetchKey, time.Now().UTC().Format(time.RFC3339))
	}
	logger.Info().
		Int("listed", result.Listed).
		Int("downloaded", result.Downloaded).
		Int("unchanged", result.Unchanged).
		Msg("transcripts fetched")
	return result, nil
}

func (s *FetchService) count(status string) {
	if s.metrics != nil {
		s.metrics.TranscriptsFetch.WithLabelValues(status).Inc()
	}
}

package index

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"debatetxt/internal"
	"debatetxt/internal/dataset"
	"debatetxt/internal/observability/logging"
	"debatetxt/internal/observability/metrics"
)

const progressEvery = 1000

type DocumentIndexer interface {
	IndexDocument(ctx context.Context, index, id, text string) error
}

type IndexerFactory func() (DocumentIndexer, error)

// FailureRecorder persists rows that could not be indexed.
type FailureRecorder interface {
	InsertIndexFailure(traceID, indexName, documentID, message string) error
}

type BulkResult struct {
	TraceID string
	Indexed int
	Failed  int
}

// BulkIndexer sends dataset rows to the search index. A failed row is logged
// and recorded; it never stops the run.
type BulkIndexer struct {
	factory  IndexerFactory
	recorder FailureRecorder
	metrics  *metrics.Metrics
	index    string
	workers  int
}

func NewBulkIndexer(factory IndexerFactory, recorder FailureRecorder, m *metrics.Metrics, index string, workers int) *BulkIndexer {
	return &BulkIndexer{factory: factory, recorder: recorder, metrics: m, index: index, workers: workers}
}

// RowsFromTable reads (speech_id, text) pairs, at most limit of them when
// limit > 0.
func RowsFromTable(t *dataset.Table, limit int) ([]internal.IndexRow, error) {
	t = t.Head(limit)
	ids, err := t.Column(dataset.ColSpeechID)
	if err != nil {
		return nil, err
	}
	texts, err := t.Column(dataset.ColText)
	if err != nil {
		return nil, err
	}
	out := make([]internal.IndexRow, 0, len(ids))
	for i, id := range ids {
		out = append(out, internal.IndexRow{ID: id, Text: texts[i]})
	}
	return out, nil
}

func (b *BulkIndexer) Run(ctx context.Context, rows []internal.IndexRow) (BulkResult, error) {
	result := BulkResult{TraceID: uuid.NewString()}
	logger := logging.WithRun("index", result.TraceID)

	var done, failed atomic.Int64
	index := func(client DocumentIndexer, row internal.IndexRow) {
		if err := client.IndexDocument(ctx, b.index, row.ID, row.Text); err != nil {
			failed.Add(1)
			b.recordFailure(logger, result.TraceID, row.ID, err)
		} else {
			b.count("ok")
		}
		if n := done.Add(1); n%progressEvery == 0 {
			logger.Info().Int64("rows", n).Msg("indexing progress")
		}
	}

	workers := b.workers
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers <= 1 {
		client, err := b.factory()
		if err != nil {
			return result, err
		}
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			index(client, row)
		}
	} else {
		jobs := make(chan internal.IndexRow)
		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			g.Go(func() error {
				client, err := b.factory()
				if err != nil {
					return err
				}
				for row := range jobs {
					index(client, row)
				}
				return nil
			})
		}
		g.Go(func() error {
			defer close(jobs)
			for _, row := range rows {
				select {
				case jobs <- row:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return result, err
		}
	}

	result.Failed = int(failed.Load())
	result.Indexed = int(done.Load()) - result.Failed
	logger.Info().Int("indexed", result.Indexed).Int("failed", result.Failed).Msg("indexing finished")
	return result, nil
}

func (b *BulkIndexer) recordFailure(logger zerolog.Logger, traceID, id string, cause error) {
	b.count("failed")
	logger.Warn().Err(cause).Str("id", id).Msg("index document failed")
	if b.recorder == nil {
		return
	}
	if err := b.recorder.InsertIndexFailure(traceID, b.index, id, cause.Error()); err != nil {
		logger.Error().Err(err).Str("id", id).Msg("record index failure")
	}
}

func (b *BulkIndexer) count(status string) {
	if b.metrics != nil {
		b.metrics.DocumentsIndexed.WithLabelValues(status).Inc()
	}
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"debatetxt/internal"
	"debatetxt/internal/dataset"
	"debatetxt/internal/observability/logging"
	"debatetxt/internal/observability/metrics"
)

// RunRecorder stores one ledger entry per pipeline run.
type RunRecorder interface {
	InsertRun(traceID, command string, timings map[string]float64, counts map[string]int) error
}

type BatchService struct {
	runs    RunRecorder
	metrics *metrics.Metrics
	cleaner TextCleaner
}

func NewBatchService(runs RunRecorder, m *metrics.Metrics, cleaner TextCleaner) *BatchService {
	return &BatchService{runs: runs, metrics: m, cleaner: cleaner}
}

type Options struct {
	Corpus internal.Corpus
	// Files is an allow-list of transcript file names.
	Files   []string
	Limit   int
	Workers int
	Clean   bool
	// MembersPath is a roster dataset; empty skips enrichment.
	MembersPath string
	Columns     []string
}

type BatchResult struct {
	TraceID string
	Full    *dataset.Table
	// Light is Full without the text columns.
	Light *dataset.Table
	Files int
	Stats internal.ExtractStats
}

// ExtractSpeeches runs extraction, then optional cleaning, then optional roster
// enrichment over the transcripts of dir. Rows follow the sorted file order
// whatever the worker count. Any file error aborts the run.
func (s *BatchService) ExtractSpeeches(ctx context.Context, dir string, opts Options) (BatchResult, error) {
	start := time.Now()
	result := BatchResult{TraceID: uuid.NewString()}
	logger := logging.WithRun("batch", result.TraceID)

	paths, err := DiscoverTranscripts(dir, FileFilter{Names: opts.Files, Limit: opts.Limit})
	if err != nil {
		return result, err
	}
	if len(paths) == 0 {
		return result, fmt.Errorf("%w in %s", internal.ErrNoTranscripts, dir)
	}
	result.Files = len(paths)

	perFile, err := s.extractAll(ctx, paths, opts)
	if err != nil {
		return result, err
	}
	var speeches []internal.Speech
	for _, part := range perFile {
		speeches = append(speeches, part.speeches...)
		result.Stats.Add(part.stats)
	}
	extractedAt := time.Now()

	if opts.Clean {
		if s.cleaner == nil {
			return result, errors.New("cleaning requested without a text cleaner")
		}
		speeches, err = CleanSpeeches(ctx, s.cleaner, speeches, opts.Workers)
		if err != nil {
			return result, fmt.Errorf("clean speeches: %w", err)
		}
	}
	cleanedAt := time.Now()

	full := dataset.FromSpeeches(speeches, opts.Clean)
	if opts.MembersPath != "" {
		roster, columns, err := LoadRoster(opts.MembersPath, opts.Columns)
		if err != nil {
			return result, fmt.Errorf("%s: %w", opts.MembersPath, err)
		}
		full, err = JoinRoster(full, roster, columns)
		if err != nil {
			return result, fmt.Errorf("join roster: %w", err)
		}
	}
	result.Full = full
	result.Light = dataset.Lightweight(full)

	s.observe(result.Stats, len(paths))
	timings := map[string]float64{
		"extractMs": float64(extractedAt.Sub(start).Milliseconds()),
		"cleanMs":   float64(cleanedAt.Sub(extractedAt).Milliseconds()),
		"enrichMs":  float64(time.Since(cleanedAt).Milliseconds()),
		"totalMs":   float64(time.Since(start).Milliseconds()),
	}
	counts := map[string]int{
		"files":    len(paths),
		"speeches": full.Len(),
		"skipped":  result.Stats.TotalSkipped(),
	}
	s.recordRun(result.TraceID, "extract-speeches", timings, counts)

	logger.Info().
		Int("files", len(paths)).
		Int("speeches", full.Len()).
		Int("skipped", result.Stats.TotalSkipped()).
		Dur("took", time.Since(start)).
		Msg("speeches extracted")
	return result, nil
}

type fileResult struct {
	speeches []internal.Speech
	stats    internal.ExtractStats
}

// extractAll parses every path into its own slot so the reduce keeps the
// input order.
func (s *BatchService) extractAll(ctx context.Context, paths []string, opts Options) ([]fileResult, error) {
	out := make([]fileResult, len(paths))
	extract := func(i int) error {
		speeches, stats, err := ExtractSpeechesFromFile(paths[i], opts.Corpus)
		if err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
		out[i] = fileResult{speeches: speeches, stats: stats}
		return nil
	}

	if opts.Workers <= 1 {
		for i := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := extract(i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return extract(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractMembers builds one roster dataset from member files, in the order
// given.
func (s *BatchService) ExtractMembers(ctx context.Context, paths []string) (BatchResult, error) {
	start := time.Now()
	result := BatchResult{TraceID: uuid.NewString(), Files: len(paths)}

	parts := make([]*dataset.Table, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		part, stats, err := ExtractFile(KindMembers, path, internal.CorpusNone)
		if err != nil {
			return result, err
		}
		parts = append(parts, part)
		result.Stats.Add(stats)
	}

	full, err := dataset.Concat(dataset.MemberColumns, parts...)
	if err != nil {
		return result, err
	}
	result.Full = full
	result.Light = full
	if s.metrics != nil {
		s.metrics.FilesProcessed.Add(float64(len(paths)))
		s.metrics.MembersExtracted.Add(float64(full.Len()))
	}
	s.recordRun(result.TraceID, "extract-members",
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"files": len(paths), "members": full.Len()})

	logger := logging.WithRun("batch", result.TraceID)
	logger.Info().
		Int("files", len(paths)).
		Int("members", full.Len()).
		Msg("members extracted")
	return result, nil
}

func (s *BatchService) observe(stats internal.ExtractStats, files int) {
	if s.metrics == nil {
		return
	}
	s.metrics.FilesProcessed.Add(float64(files))
	s.metrics.SpeechesExtracted.Add(float64(stats.Speeches))
	for reason, n := range stats.Skipped {
		s.metrics.SpeechesSkipped.WithLabelValues(string(reason)).Add(float64(n))
	}
}

func (s *BatchService) recordRun(traceID, command string, timings map[string]float64, counts map[string]int) {
	if s.runs == nil {
		return
	}
	if err := s.runs.InsertRun(traceID, command, timings, counts); err != nil {
		logger := logging.WithRun("batch", traceID)
		logger.Warn().Err(err).Msg("record run")
	}
}

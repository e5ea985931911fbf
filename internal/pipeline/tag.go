package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"debatetxt/internal"
	"debatetxt/internal/dataset"
	"debatetxt/internal/index"
	"debatetxt/internal/observability/logging"
	"debatetxt/internal/observability/metrics"
)

// Searcher runs one query against the search index.
type Searcher interface {
	Search(ctx context.Context, q internal.Query) ([]internal.SearchHit, error)
}

// ColumnName derives the tag column for a query: the whitespace-separated
// terms and the mode joined by underscores, e.g. "tax_reform_and".
func ColumnName(query string, mode internal.QueryMode) string {
	parts := append(strings.Fields(query), string(mode))
	return strings.Join(parts, "_")
}

// TagDataset left-joins hit scores onto base as an integer column. Rows
// without a hit score 0; for repeated ids the first hit wins. An existing
// column of the same name is replaced. base is not modified.
func TagDataset(hits []internal.Hit, base *dataset.Table, joinKey, column string) (*dataset.Table, error) {
	if joinKey == "" {
		joinKey = dataset.ColSpeechID
	}
	if !base.Has(joinKey) {
		return nil, fmt.Errorf("%w: %s", internal.ErrMissingColumn, joinKey)
	}

	scores := dataset.New(
		dataset.Column{Name: joinKey, Kind: dataset.String},
		dataset.Column{Name: column, Kind: dataset.Int},
	)
	for _, h := range hits {
		if err := scores.Append(h.ID, strconv.Itoa(h.Score)); err != nil {
			return nil, err
		}
	}

	left := base
	if base.Has(column) {
		left = base.Drop(column)
	}
	return dataset.LeftJoin(left, joinKey, scores, joinKey, []string{column}, func(dataset.Column) string { return "0" })
}

// Tagger runs queries and tags datasets with their decoded scores.
type Tagger struct {
	searcher Searcher
	metrics  *metrics.Metrics
	index    string
	size     int
}

func NewTagger(searcher Searcher, m *metrics.Metrics, index string, size int) *Tagger {
	return &Tagger{searcher: searcher, metrics: m, index: index, size: size}
}

// Hits runs one query and decodes a frequency score for every hit.
func (t *Tagger) Hits(ctx context.Context, spec internal.QuerySpec) ([]internal.Hit, error) {
	raw, err := t.searcher.Search(ctx, internal.Query{Text: spec.Text, Mode: spec.Mode, Index: t.index, Size: t.size})
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", spec.Text, err)
	}
	if t.metrics != nil {
		t.metrics.QueryHits.WithLabelValues(string(spec.Mode)).Add(float64(len(raw)))
	}

	out := make([]internal.Hit, 0, len(raw))
	for _, h := range raw {
		out = append(out, internal.Hit{ID: h.ID, Score: index.DecodeScore(h.Explanation)})
	}
	return out, nil
}

// Tag adds the column for one query and returns its name with the new table.
func (t *Tagger) Tag(ctx context.Context, base *dataset.Table, spec internal.QuerySpec) (*dataset.Table, string, error) {
	hits, err := t.Hits(ctx, spec)
	if err != nil {
		return nil, "", err
	}
	column := ColumnName(spec.Text, spec.Mode)
	tagged, err := TagDataset(hits, base, dataset.ColSpeechID, column)
	if err != nil {
		return nil, "", err
	}
	logger := logging.WithComponent("tag")
	logger.Info().
		Str("column", column).
		Int("hits", len(hits)).
		Int("rows", tagged.Len()).
		Msg("dataset tagged")
	return tagged, column, nil
}

// TagAll applies specs in order, one column each.
func (t *Tagger) TagAll(ctx context.Context, base *dataset.Table, specs []internal.QuerySpec) (*dataset.Table, []string, error) {
	current := base
	columns := make([]string, 0, len(specs))
	for _, spec := range specs {
		tagged, column, err := t.Tag(ctx, current, spec)
		if err != nil {
			return nil, nil, err
		}
		current = tagged
		columns = append(columns, column)
	}
	return current, columns, nil
}

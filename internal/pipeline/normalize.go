package pipeline

import (
	"context"
	"fmt"

	"debatetxt/internal"
	"debatetxt/internal/util"
)

// TextCleaner is the batch contract of the text normalizer.
type TextCleaner interface {
	CleanAll(ctx context.Context, texts []string, workers int) ([]string, error)
}

// CleanSpeeches returns copies of speeches with CleanedText set. The input
// slice is left untouched.
func CleanSpeeches(ctx context.Context, cleaner TextCleaner, speeches []internal.Speech, workers int) ([]internal.Speech, error) {
	texts := make([]string, 0, len(speeches))
	for _, s := range speeches {
		texts = append(texts, s.Text)
	}
	cleaned, err := cleaner.CleanAll(ctx, texts, workers)
	if err != nil {
		return nil, err
	}
	if len(cleaned) != len(speeches) {
		return nil, fmt.Errorf("cleaner returned %d texts for %d speeches", len(cleaned), len(speeches))
	}

	out := make([]internal.Speech, len(speeches))
	for i, s := range speeches {
		s.CleanedText = util.StringPtr(cleaned[i])
		out[i] = s
	}
	return out, nil
}

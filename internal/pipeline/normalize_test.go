package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatetxt/internal"
)

func TestCleanSpeechesLeavesInputUntouched(t *testing.T) {
	in := []internal.Speech{{SpeechID: "1", Text: "a b"}, {SpeechID: "2", Text: "c"}}
	out, err := CleanSpeeches(context.Background(), upperCleaner{}, in, 2)
	require.NoError(t, err)

	require.Len(t, out, 2)
	require.NotNil(t, out[0].CleanedText)
	assert.Equal(t, "A B", *out[0].CleanedText)
	assert.Equal(t, "C", *out[1].CleanedText)
	assert.Nil(t, in[0].CleanedText)
}

type shortCleaner struct{}

func (shortCleaner) CleanAll(ctx context.Context, texts []string, workers int) ([]string, error) {
	return texts[:len(texts)-1], nil
}

func TestCleanSpeechesRejectsShortResult(t *testing.T) {
	in := []internal.Speech{{SpeechID: "1", Text: "a"}, {SpeechID: "2", Text: "b"}}
	_, err := CleanSpeeches(context.Background(), shortCleaner{}, in, 1)
	assert.ErrorContains(t, err, "cleaner returned 1 texts for 2 speeches")
}

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreIndependentPerInstance(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.SpeechesExtracted.Add(3)
	a.SpeechesSkipped.WithLabelValues("no_speaker").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(a.SpeechesExtracted))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SpeechesExtracted))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.SpeechesSkipped.WithLabelValues("no_speaker")))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.FilesProcessed.Inc()

	path := filepath.Join(t.TempDir(), "debatetxt.prom")
	require.NoError(t, m.WriteTextfile(path))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(blob), "debatetxt_files_processed_total 1")

	assert.NoError(t, m.WriteTextfile(""))
	var nilMetrics *Metrics
	assert.NoError(t, nilMetrics.WriteTextfile(path))
}

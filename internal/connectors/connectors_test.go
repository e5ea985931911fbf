package connectors

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"debatetxt/internal"
	"debatetxt/internal/config"
	"debatetxt/internal/observability/metrics"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const indexPage = `<html><body><pre>
<a href="../">../</a>
<a href="2001-03-15.xml">2001-03-15.xml</a>
<a href="2001-03-14.xml">2001-03-14.xml</a>
<a href="/scrapedxml/representatives_debates/2002-02-12.xml">2002-02-12.xml</a>
<a href="2001-03-14.xml">dup</a>
<a href="README.xml">README.xml</a>
<a href="2001-03-16.txt">2001-03-16.txt</a>
</pre></body></html>`

type memoryRecorder struct {
	files    map[string]internal.TranscriptFile
	metadata map[string]string
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{files: map[string]internal.TranscriptFile{}, metadata: map[string]string{}}
}

func (m *memoryRecorder) UpsertTranscript(file internal.TranscriptFile) error {
	m.files[file.Name] = file
	return nil
}

func (m *memoryRecorder) SetMetadata(key, value string) error {
	m.metadata[key] = value
	return nil
}

func testClient(rt roundTripFunc) *Client {
	client := NewClient(config.Config{FetchRateLimitRPS: 1000, FetchTimeoutMs: 1000})
	client.limiter = rate.NewLimiter(rate.Inf, 1)
	client.backoff = 0
	client.httpClient = &http.Client{Transport: rt}
	return client
}

func TestParseIndex(t *testing.T) {
	base, err := url.Parse("http://data.test/scrapedxml/representatives_debates/")
	require.NoError(t, err)

	listings, err := ParseIndex(base, strings.NewReader(indexPage))
	require.NoError(t, err)
	assert.Equal(t, []Listing{
		{Name: "2001-03-14.xml", URL: "http://data.test/scrapedxml/representatives_debates/2001-03-14.xml"},
		{Name: "2001-03-15.xml", URL: "http://data.test/scrapedxml/representatives_debates/2001-03-15.xml"},
		{Name: "2002-02-12.xml", URL: "http://data.test/scrapedxml/representatives_debates/2002-02-12.xml"},
	}, listings)

	assert.Len(t, FilterListings(listings, "2001-", 0), 2)
	assert.Equal(t, "2001-03-14.xml", FilterListings(listings, "", 1)[0].Name)
}

func TestClientRetriesRetryableStatus(t *testing.T) {
	attempt := 0
	client := testClient(func(r *http.Request) (*http.Response, error) {
		attempt++
		if attempt < 3 {
			return response(http.StatusServiceUnavailable, "busy"), nil
		}
		return response(http.StatusOK, "<publicwhip/>"), nil
	})

	body, err := client.Fetch(context.Background(), "http://data.test/a.xml")
	require.NoError(t, err)
	assert.Equal(t, "<publicwhip/>", string(body))
	assert.Equal(t, 3, attempt)
}

func TestClientDoesNotRetryNotFound(t *testing.T) {
	attempt := 0
	client := testClient(func(r *http.Request) (*http.Response, error) {
		attempt++
		return response(http.StatusNotFound, "nope"), nil
	})
	_, err := client.Fetch(context.Background(), "http://data.test/a.xml")
	require.Error(t, err)
	assert.Equal(t, 1, attempt)
}

func TestFetchAndStore(t *testing.T) {
	files := map[string]string{
		"/debates/2001-03-14.xml": "<publicwhip>14</publicwhip>",
		"/debates/2001-03-15.xml": "<publicwhip>15</publicwhip>",
	}
	client := testClient(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path == "/debates/" {
			return response(http.StatusOK, `<a href="2001-03-14.xml">a</a><a href="2001-03-15.xml">b</a><a href="2002-01-01.xml">c</a>`), nil
		}
		body, ok := files[r.URL.Path]
		if !ok {
			return response(http.StatusNotFound, ""), nil
		}
		return response(http.StatusOK, body), nil
	})

	dir := filepath.Join(t.TempDir(), "xml")
	recorder := newMemoryRecorder()
	m := metrics.NewMetrics()
	svc := NewFetchService(recorder, dir, client, m)
	opts := FetchOptions{IndexURL: "http://data.test/debates/", Prefix: "2001-"}

	res, err := svc.FetchAndStore(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Listed)
	assert.Equal(t, 2, res.Downloaded)

	blob, err := os.ReadFile(filepath.Join(dir, "2001-03-15.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<publicwhip>15</publicwhip>", string(blob))
	require.Contains(t, recorder.files, "2001-03-14.xml")
	assert.Len(t, recorder.files["2001-03-14.xml"].Hash, 64)
	assert.Contains(t, recorder.metadata, LastFetchKey)

	again, err := svc.FetchAndStore(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Downloaded)
	assert.Equal(t, 2, again.Unchanged)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TranscriptsFetch.WithLabelValues("unchanged")))

	_, err = svc.FetchAndStore(context.Background(), FetchOptions{IndexURL: "http://data.test/debates/", Prefix: "2002-"})
	require.Error(t, err)

	_, err = svc.FetchAndStore(context.Background(), FetchOptions{IndexURL: "http://data.test/debates/", Prefix: "1999-"})
	assert.ErrorIs(t, err, internal.ErrNoTranscripts)
}

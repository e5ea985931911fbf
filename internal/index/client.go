package index

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"debatetxt/internal"
	"debatetxt/internal/config"
	"debatetxt/internal/util"
)

const textField = "text"

// Client wraps one Elasticsearch connection. Values are not shared between
// bulk-index workers; each worker builds its own through an IndexerFactory.
type Client struct {
	es         *elasticsearch.Client
	index      string
	maxResults int
}

func NewClient(cfg config.Config) (*Client, error) {
	return newClient(cfg, nil)
}

// Factory returns an IndexerFactory building independent clients from cfg.
func Factory(cfg config.Config) IndexerFactory {
	return func() (DocumentIndexer, error) {
		c, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func newClient(cfg config.Config, transport http.RoundTripper) (*Client, error) {
	if err := cfg.Require("ELASTIC_ADDRESS", cfg.ElasticAddress); err != nil {
		return nil, err
	}
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: time.Duration(cfg.ElasticTimeoutSec) * time.Second,
			TLSClientConfig:       &tls.Config{InsecureSkipVerify: cfg.ElasticInsecure},
		}
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     strings.Split(cfg.ElasticAddress, ","),
		Username:      cfg.ElasticUsername,
		Password:      cfg.ElasticPassword,
		RetryOnStatus: []int{429, 502, 503, 504},
		MaxRetries:    cfg.ElasticMaxRetries,
		RetryBackoff: func(attempt int) time.Duration {
			return time.Duration(250*(1<<(attempt-1))) * time.Millisecond
		},
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{es: es, index: cfg.ElasticIndex, maxResults: cfg.ElasticMaxResults}, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID          string                `json:"_id"`
			Explanation *internal.Explanation `json:"_explanation"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs q with explanations on, ordered by index order rather than
// relevance. Empty Index and Size fall back to the configured defaults.
func (c *Client) Search(ctx context.Context, q internal.Query) ([]internal.SearchHit, error) {
	body, err := SearchBody(q.Text, q.Mode)
	if err != nil {
		return nil, err
	}
	size := q.Size
	if size <= 0 {
		size = c.maxResults
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.indexOr(q.Index)),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithSize(size),
		c.es.Search.WithSort("_doc"),
		c.es.Search.WithSource("false"),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]internal.SearchHit, 0, len(payload.Hits.Hits))
	for _, h := range payload.Hits.Hits {
		out = append(out, internal.SearchHit{ID: h.ID, Explanation: h.Explanation})
	}
	return out, nil
}

// SearchBody builds the request body for one query: a phrase match for exact
// mode, a term match with the and/or operator otherwise.
func SearchBody(text string, mode internal.QueryMode) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, internal.ErrEmptyQuery
	}

	var query map[string]any
	switch mode {
	case internal.ModeExact:
		query = map[string]any{"match_phrase": map[string]any{textField: text}}
	case internal.ModeAnd, internal.ModeOr:
		query = map[string]any{"match": map[string]any{
			textField: map[string]any{"query": text, "operator": string(mode)},
		}}
	default:
		return nil, fmt.Errorf("%w: %q", internal.ErrInvalidMode, mode)
	}
	return json.Marshal(map[string]any{"explain": true, "query": query})
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

// Get returns the raw source of one document.
func (c *Client) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	res, err := c.es.Get(c.indexOr(index), id, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", internal.ErrNotFound, id)
	}
	if err := responseError(res); err != nil {
		return nil, err
	}

	var payload getResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode get response: %w", err)
	}
	if !payload.Found {
		return nil, fmt.Errorf("%w: %s", internal.ErrNotFound, id)
	}
	return payload.Source, nil
}

func (c *Client) IndexDocument(ctx context.Context, index, id, text string) error {
	body, err := json.Marshal(map[string]string{textField: text})
	if err != nil {
		return err
	}
	res, err := c.es.Index(
		c.indexOr(index),
		bytes.NewReader(body),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(id),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return responseError(res)
}

func (c *Client) indexOr(index string) string {
	return util.FirstNonEmpty(index, c.index)
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
}

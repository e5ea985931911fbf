package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"debatetxt/internal"
	"debatetxt/internal/config"
	"debatetxt/internal/connectors"
	"debatetxt/internal/index"
	"debatetxt/internal/nlp"
	"debatetxt/internal/observability/logging"
	"debatetxt/internal/observability/metrics"
	"debatetxt/internal/pipeline"
	"debatetxt/internal/storage"
	"debatetxt/internal/util"
)

var (
	appCfg     config.Config
	appMetrics *metrics.Metrics
)

// searchClient is the part of the index client the commands use.
type searchClient interface {
	Search(ctx context.Context, q internal.Query) ([]internal.SearchHit, error)
	Get(ctx context.Context, index, id string) (json.RawMessage, error)
}

// Swapped out in tests.
var (
	newSearchClient = func(cfg config.Config) (searchClient, error) {
		c, err := index.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	newIndexerFactory = index.Factory
	newFetchClient    = func() *connectors.Client { return connectors.NewClient(appCfg) }
	newTextCleaner    = func() (pipeline.TextCleaner, error) {
		stops := nlp.Customize(appCfg.StopwordsAdd, appCfg.StopwordsRemove)
		logger := logging.WithComponent("nlp")
		logger.Debug().Int("stopwords", len(stops.All())).Msg("stoplist loaded")
		n, err := nlp.New(stops)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
)

var rootCmd = &cobra.Command{
	Use:   "debatetxt",
	Short: "Parliamentary debate transcripts as datasets",
	Long: `Extracts speeches and members from parliamentary debate transcripts into
tabular datasets, indexes them into Elasticsearch and tags datasets with
per-speech query frequencies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appCfg = cfg
		logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
		appMetrics = metrics.NewMetrics()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return appMetrics.WriteTextfile(appCfg.MetricsTextfile)
	},
}

func openDB() (*storage.DB, error) {
	return storage.Open(appCfg.DBPath)
}

// splitList parses a comma separated flag value.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func indexOr(name string) string {
	return util.FirstNonEmpty(name, appCfg.ElasticIndex)
}

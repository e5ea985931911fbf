package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"debatetxt/internal"
	"debatetxt/internal/pipeline"
)

var (
	queryIndex string
	querySize  int
	queryMode  string
	queryJSON  bool
	getIndex   string
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the index and print per-speech frequencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print one indexed document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	queryCmd.Flags().StringVar(&queryIndex, "index", "", "index name (default ELASTIC_INDEX)")
	queryCmd.Flags().IntVarP(&querySize, "size", "n", 0, "maximum hits (default ELASTIC_MAX_RESULTS)")
	queryCmd.Flags().StringVar(&queryMode, "mode", string(internal.ModeAnd), "and|or|exact")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output hits as JSON")
	rootCmd.AddCommand(queryCmd)

	getCmd.Flags().StringVar(&getIndex, "index", "", "index name (default ELASTIC_INDEX)")
	rootCmd.AddCommand(getCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	mode, err := internal.ParseQueryMode(queryMode)
	if err != nil {
		return err
	}
	client, err := newSearchClient(appCfg)
	if err != nil {
		return err
	}

	tagger := pipeline.NewTagger(client, appMetrics, indexOr(queryIndex), querySize)
	hits, err := tagger.Hits(cmd.Context(), internal.QuerySpec{Text: args[0], Mode: mode})
	if err != nil {
		return err
	}

	if queryJSON {
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal hits: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	if len(hits) == 0 {
		cmd.Println("No hits.")
		return nil
	}
	for _, h := range hits {
		cmd.Printf("%s\t%d\n", h.ID, h.Score)
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := newSearchClient(appCfg)
	if err != nil {
		return err
	}
	src, err := client.Get(cmd.Context(), indexOr(getIndex), args[0])
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(src, &doc); err != nil {
		return fmt.Errorf("decode document %s: %w", args[0], err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

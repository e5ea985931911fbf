package main

import (
	"time"

	"github.com/spf13/cobra"

	"debatetxt/internal/dataset"
	"debatetxt/internal/index"
)

var (
	indexName    string
	indexLimit   int
	indexWorkers int
)

var indexDatasetCmd = &cobra.Command{
	Use:   "index-dataset [path]",
	Short: "Index the speeches of a dataset into Elasticsearch",
	Long: `Sends the speech_id and text of every row to the search index. Rows that
fail are logged and recorded; they do not stop the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexDataset,
}

func init() {
	indexDatasetCmd.Flags().StringVar(&indexName, "index", "", "index name (default ELASTIC_INDEX)")
	indexDatasetCmd.Flags().IntVar(&indexLimit, "limit", 0, "index at most this many rows")
	indexDatasetCmd.Flags().IntVarP(&indexWorkers, "workers", "w", 1, "parallel workers, one client each")
	rootCmd.AddCommand(indexDatasetCmd)
}

func runIndexDataset(cmd *cobra.Command, args []string) error {
	tbl, err := dataset.ReadFile(args[0], indexLimit)
	if err != nil {
		return err
	}
	rows, err := index.RowsFromTable(tbl, indexLimit)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	bulk := index.NewBulkIndexer(newIndexerFactory(appCfg), db, appMetrics, indexOr(indexName), indexWorkers)
	res, err := bulk.Run(cmd.Context(), rows)
	if err != nil {
		return err
	}
	if err := db.InsertRun(res.TraceID, "index-dataset",
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"rows": len(rows), "indexed": res.Indexed, "failed": res.Failed}); err != nil {
		return err
	}
	cmd.Printf("indexed=%d failed=%d trace=%s\n", res.Indexed, res.Failed, res.TraceID)
	return nil
}

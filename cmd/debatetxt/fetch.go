package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"debatetxt/internal/connectors"
)

var (
	fetchURL    string
	fetchDir    string
	fetchPrefix string
	fetchLimit  int
)

var fetchTranscriptsCmd = &cobra.Command{
	Use:   "fetch-transcripts",
	Short: "Download transcript XML files from a directory index",
	Args:  cobra.NoArgs,
	RunE:  runFetchTranscripts,
}

func init() {
	f := fetchTranscriptsCmd.Flags()
	f.StringVar(&fetchURL, "url", "", "index page (default TRANSCRIPT_INDEX_URL)")
	f.StringVar(&fetchDir, "dir", "", "download directory (default DATA_DIR/xml)")
	f.StringVar(&fetchPrefix, "prefix", "", "only names starting with this, e.g. 2001-")
	f.IntVar(&fetchLimit, "limit", 0, "download at most this many files")
	rootCmd.AddCommand(fetchTranscriptsCmd)
}

func runFetchTranscripts(cmd *cobra.Command, args []string) error {
	url := fetchURL
	if url == "" {
		url = appCfg.TranscriptIndexURL
	}
	dir := fetchDir
	if dir == "" {
		dir = filepath.Join(appCfg.DataDir, "xml")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := connectors.NewFetchService(db, dir, newFetchClient(), appMetrics)
	res, err := svc.FetchAndStore(cmd.Context(), connectors.FetchOptions{IndexURL: url, Prefix: fetchPrefix, Limit: fetchLimit})
	if err != nil {
		return err
	}
	cmd.Printf("listed=%d downloaded=%d unchanged=%d dir=%s\n", res.Listed, res.Downloaded, res.Unchanged, dir)
	return nil
}

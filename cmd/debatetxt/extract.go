package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"debatetxt/internal"
	"debatetxt/internal/dataset"
	"debatetxt/internal/pipeline"
)

var (
	extractMembersPath string
	extractColumns     string
	extractClean       bool
	extractLimit       int
	extractFiles       string
	extractWorkers     int
	extractCorpus      string
	extractOutput      string
	membersOutput      string
	fileKind           string
	fileCorpus         string
	fileOutput         string
)

var extractSpeechesCmd = &cobra.Command{
	Use:   "extract-speeches [dir]",
	Short: "Extract speeches from a directory of transcripts",
	Long: `Parses every YYYY-MM-DD.xml transcript of the directory into one speech
dataset, optionally cleaning the text and joining member attributes. Writes
the full dataset and a companion without the text columns.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractSpeeches,
}

var extractMembersCmd = &cobra.Command{
	Use:   "extract-members [path...]",
	Short: "Extract members from transcript files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtractMembers,
}

var extractFileCmd = &cobra.Command{
	Use:   "extract-file [path]",
	Short: "Extract one transcript without cleaning or enrichment",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractFile,
}

func init() {
	f := extractSpeechesCmd.Flags()
	f.StringVar(&extractMembersPath, "members", "", "members dataset to join on speaker_id")
	f.StringVar(&extractColumns, "columns", "", "comma separated member columns to join (default party,division,gender)")
	f.BoolVar(&extractClean, "clean", false, "add a cleaned_text column")
	f.IntVar(&extractLimit, "limit", 0, "process at most this many files")
	f.StringVar(&extractFiles, "files", "", "comma separated file names to process")
	f.IntVarP(&extractWorkers, "workers", "w", 1, "parallel workers")
	f.StringVar(&extractCorpus, "corpus", string(internal.CorpusRepresentatives), "representatives|senate")
	f.StringVarP(&extractOutput, "output", "o", "speeches.csv", "output path (.csv or .xlsx)")
	rootCmd.AddCommand(extractSpeechesCmd)

	extractMembersCmd.Flags().StringVarP(&membersOutput, "output", "o", "members.csv", "output path (.csv or .xlsx)")
	rootCmd.AddCommand(extractMembersCmd)

	f = extractFileCmd.Flags()
	f.StringVar(&fileKind, "kind", pipeline.KindSpeeches, "speeches|members")
	f.StringVar(&fileCorpus, "corpus", string(internal.CorpusRepresentatives), "representatives|senate")
	f.StringVarP(&fileOutput, "output", "o", "", "output path (default <dir>/<stem>_<kind>.csv)")
	rootCmd.AddCommand(extractFileCmd)
}

func parseCorpus(value string) (internal.Corpus, error) {
	switch corpus := internal.Corpus(value); corpus {
	case internal.CorpusRepresentatives, internal.CorpusSenate, internal.CorpusNone:
		return corpus, nil
	default:
		return "", fmt.Errorf("unknown corpus %q", value)
	}
}

func runExtractSpeeches(cmd *cobra.Command, args []string) error {
	corpus, err := parseCorpus(extractCorpus)
	if err != nil {
		return err
	}

	var cleaner pipeline.TextCleaner
	if extractClean {
		if cleaner, err = newTextCleaner(); err != nil {
			return fmt.Errorf("load text normalizer: %w", err)
		}
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := pipeline.NewBatchService(db, appMetrics, cleaner)
	res, err := svc.ExtractSpeeches(cmd.Context(), args[0], pipeline.Options{
		Corpus:      corpus,
		Files:       splitList(extractFiles),
		Limit:       extractLimit,
		Workers:     extractWorkers,
		Clean:       extractClean,
		MembersPath: extractMembersPath,
		Columns:     splitList(extractColumns),
	})
	if err != nil {
		return err
	}

	fullPath, lightPath, err := pipeline.ExportSpeeches(res.Full, res.Light, extractOutput)
	if err != nil {
		return err
	}
	cmd.Printf("extracted speeches=%d files=%d skipped=%d\n", res.Full.Len(), res.Files, res.Stats.TotalSkipped())
	cmd.Printf("wrote %s\n", fullPath)
	cmd.Printf("wrote %s\n", lightPath)
	return nil
}

func runExtractMembers(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := pipeline.NewBatchService(db, appMetrics, nil).ExtractMembers(cmd.Context(), args)
	if err != nil {
		return err
	}
	if err := dataset.WriteFile(res.Full, membersOutput); err != nil {
		return err
	}
	cmd.Printf("extracted members=%d files=%d\n", res.Full.Len(), res.Files)
	cmd.Printf("wrote %s\n", filepath.Clean(membersOutput))
	return nil
}

func runExtractFile(cmd *cobra.Command, args []string) error {
	corpus, err := parseCorpus(fileCorpus)
	if err != nil {
		return err
	}
	tbl, stats, err := pipeline.ExtractFile(fileKind, args[0], corpus)
	if err != nil {
		return err
	}

	out := fileOutput
	if out == "" {
		out = filepath.Join(filepath.Dir(args[0]), dataset.Stem(args[0])+"_"+fileKind+".csv")
	}
	if err := dataset.WriteFile(tbl, out); err != nil {
		return err
	}
	cmd.Printf("extracted %s=%d skipped=%d\n", fileKind, tbl.Len(), stats.TotalSkipped())
	cmd.Printf("wrote %s\n", out)
	return nil
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"debatetxt/internal"
	"debatetxt/internal/config"
	"debatetxt/internal/dataset"
	"debatetxt/internal/pipeline"
)

var (
	tagQueries   string
	tagIndex     string
	tagSize      int
	tagMode      string
	tagOutputDir string
)

var buildTaggedCmd = &cobra.Command{
	Use:   "build-tagged-dataset [base] [text]",
	Short: "Add query frequency columns to a dataset",
	Long: `Runs one query, or every query of a YAML query set, against the index and
adds one integer column per query to the base dataset. Speeches without a hit
get 0. The result is written next to the base dataset as
<base stem>_<column>.<ext>, naming the last column added.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBuildTagged,
}

func init() {
	f := buildTaggedCmd.Flags()
	f.StringVar(&tagQueries, "queries", "", "YAML query set file")
	f.StringVar(&tagIndex, "index", "", "index name (default ELASTIC_INDEX)")
	f.IntVarP(&tagSize, "size", "n", 0, "maximum hits per query (default ELASTIC_MAX_RESULTS)")
	f.StringVar(&tagMode, "mode", string(internal.ModeAnd), "and|or|exact for the text argument")
	f.StringVar(&tagOutputDir, "output-dir", "", "output directory (default next to base)")
	rootCmd.AddCommand(buildTaggedCmd)
}

func querySpecs(args []string) ([]internal.QuerySpec, error) {
	var specs []internal.QuerySpec
	if tagQueries != "" {
		loaded, err := config.LoadQuerySet(tagQueries)
		if err != nil {
			return nil, err
		}
		specs = append(specs, loaded...)
	}
	if len(args) > 1 {
		mode, err := internal.ParseQueryMode(tagMode)
		if err != nil {
			return nil, err
		}
		specs = append(specs, internal.QuerySpec{Text: args[1], Mode: mode})
	}
	if len(specs) == 0 {
		return nil, errors.New("give a query text or --queries")
	}
	return specs, nil
}

func runBuildTagged(cmd *cobra.Command, args []string) error {
	specs, err := querySpecs(args)
	if err != nil {
		return err
	}
	base, err := dataset.ReadFile(args[0], 0)
	if err != nil {
		return err
	}
	client, err := newSearchClient(appCfg)
	if err != nil {
		return err
	}

	tagger := pipeline.NewTagger(client, appMetrics, indexOr(tagIndex), tagSize)
	tagged, columns, err := tagger.TagAll(cmd.Context(), base, specs)
	if err != nil {
		return err
	}

	out := pipeline.TaggedPath(tagOutputDir, args[0], columns[len(columns)-1])
	if err := dataset.WriteFile(tagged, out); err != nil {
		return err
	}
	for _, c := range columns {
		cmd.Printf("tagged %s\n", c)
	}
	cmd.Printf("wrote %s\n", out)
	return nil
}

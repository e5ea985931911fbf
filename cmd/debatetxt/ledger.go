package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"debatetxt/internal/connectors"
	"debatetxt/internal/util"
)

var showRunCmd = &cobra.Command{
	Use:   "show-run [trace-id]",
	Short: "Show a recorded run and its failed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var statusCmd = &cobra.Command{
	Use:   "status [transcript...]",
	Short: "Show the last transcript fetch and recorded transcript files",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(showRunCmd)
	rootCmd.AddCommand(statusCmd)
}

func runShowRun(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(args[0])
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run with trace id %s", args[0])
	}
	cmd.Printf("trace=%s command=%s\n", run.TraceID, run.Command)
	for _, k := range sortedKeys(run.Counts) {
		cmd.Printf("  %s=%d\n", k, run.Counts[k])
	}
	for _, k := range sortedKeys(run.Timings) {
		cmd.Printf("  %s=%.0f\n", k, run.Timings[k])
	}

	failed, err := db.ListIndexFailures(run.TraceID)
	if err != nil {
		return err
	}
	for _, id := range failed {
		cmd.Printf("failed %s\n", id)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	last, err := db.GetMetadata(connectors.LastFetchKey)
	if err != nil {
		return err
	}
	cmd.Printf("last fetch: %s\n", util.FirstNonEmpty(util.DerefString(last), "never"))

	for _, name := range args {
		file, err := db.GetTranscript(name)
		if err != nil {
			return err
		}
		if file == nil {
			cmd.Printf("%s: not fetched\n", name)
			continue
		}
		cmd.Printf("%s: %s sha256=%s url=%s\n", file.Name, file.Path, file.Hash, file.URL)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const transcriptExt = ".xml"

type FileFilter struct {
	// Names restricts discovery to these file names when non-empty.
	Names []string
	// Limit keeps only the first Limit files after Names is applied.
	Limit int
}

// DiscoverTranscripts lists the transcript files of dir in lexicographic order
// of their names and applies the filter.
func DiscoverTranscripts(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), transcriptExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return filterNames(dir, names, filter), nil
}

func filterNames(dir string, names []string, filter FileFilter) []string {
	if len(filter.Names) > 0 {
		allowed := make(map[string]struct{}, len(filter.Names))
		for _, n := range filter.Names {
			allowed[filepath.Base(strings.TrimSpace(n))] = struct{}{}
		}
		kept := names[:0:0]
		for _, n := range names {
			if _, ok := allowed[n]; ok {
				kept = append(kept, n)
			}
		}
		names = kept
	}
	if filter.Limit > 0 && len(names) > filter.Limit {
		names = names[:filter.Limit]
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, filepath.Join(dir, n))
	}
	return out
}

package pipeline

import (
	"fmt"

	"debatetxt/internal"
	"debatetxt/internal/dataset"
)

const (
	KindSpeeches = "speeches"
	KindMembers  = "members"
)

// ExtractFile parses a single transcript into a dataset of the given record
// kind without any of the optional stages.
func ExtractFile(kind string, path string, corpus internal.Corpus) (*dataset.Table, internal.ExtractStats, error) {
	switch kind {
	case KindSpeeches:
		speeches, stats, err := ExtractSpeechesFromFile(path, corpus)
		if err != nil {
			return nil, stats, fmt.Errorf("%s: %w", path, err)
		}
		return dataset.FromSpeeches(speeches, false), stats, nil
	case KindMembers:
		members, stats, err := ExtractMembersFromFile(path)
		if err != nil {
			return nil, stats, fmt.Errorf("%s: %w", path, err)
		}
		return dataset.FromMembers(members), stats, nil
	default:
		return nil, internal.ExtractStats{}, fmt.Errorf("unsupported record kind: %s", kind)
	}
}

package pipeline

import (
	"debatetxt/internal/dataset"
)

// DefaultRosterColumns are pulled from the roster when none are requested.
var DefaultRosterColumns = []string{"party", "division", "gender"}

// JoinRoster left-joins the requested roster columns onto speeches by
// speaker_id == member_id. Every speech row survives exactly once; rows with no
// roster entry get empty values. member_id is not carried over.
func JoinRoster(speeches, roster *dataset.Table, columns []string) (*dataset.Table, error) {
	return dataset.LeftJoin(speeches, dataset.ColSpeakerID, roster, dataset.ColMemberID, columns, nil)
}

// LoadRoster reads a roster file keeping only member_id and columns. With no
// columns requested, those DefaultRosterColumns the file carries are used.
func LoadRoster(path string, columns []string) (*dataset.Table, []string, error) {
	roster, err := dataset.ReadFile(path, 0)
	if err != nil {
		return nil, nil, err
	}
	if len(columns) == 0 {
		for _, name := range DefaultRosterColumns {
			if roster.Has(name) {
				columns = append(columns, name)
			}
		}
	}
	projected, err := roster.Project(append([]string{dataset.ColMemberID}, columns...)...)
	if err != nil {
		return nil, nil, err
	}
	return projected, columns, nil
}

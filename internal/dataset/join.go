package dataset

import (
	"fmt"

	"debatetxt/internal"
)

// KeyIndex maps a key value to the first row holding it.
type KeyIndex map[string]int

func BuildIndex(t *Table, key string) (KeyIndex, error) {
	col := t.Index(key)
	if col < 0 {
		return nil, fmt.Errorf("%w: %s", internal.ErrMissingColumn, key)
	}
	idx := make(KeyIndex, len(t.Rows))
	for i, row := range t.Rows {
		if _, seen := idx[row[col]]; !seen {
			idx[row[col]] = i
		}
	}
	return idx, nil
}

// LeftJoin keeps every row of left exactly once and appends the requested
// columns of right, matched on left[leftKey] == right[rightKey]. The first
// matching right row wins. Unmatched rows get fill(column). rightKey itself is
// never carried over.
func LeftJoin(left *Table, leftKey string, right *Table, rightKey string, columns []string, fill func(Column) string) (*Table, error) {
	lk := left.Index(leftKey)
	if lk < 0 {
		return nil, fmt.Errorf("%w: %s", internal.ErrMissingColumn, leftKey)
	}
	index, err := BuildIndex(right, rightKey)
	if err != nil {
		return nil, err
	}

	srcIdx := make([]int, 0, len(columns))
	added := make([]Column, 0, len(columns))
	for _, name := range columns {
		if name == rightKey {
			continue
		}
		ri := right.Index(name)
		if ri < 0 {
			return nil, fmt.Errorf("%w: %s", internal.ErrMissingColumn, name)
		}
		if left.Has(name) {
			return nil, fmt.Errorf("%w: %s", internal.ErrDuplicateColumn, name)
		}
		srcIdx = append(srcIdx, ri)
		added = append(added, right.Columns[ri])
	}

	out := &Table{
		Columns: append(append([]Column(nil), left.Columns...), added...),
		Rows:    make([][]string, 0, len(left.Rows)),
	}
	for _, row := range left.Rows {
		next := make([]string, 0, len(out.Columns))
		next = append(next, row...)
		match, ok := index[row[lk]]
		for i, ri := range srcIdx {
			if ok {
				next = append(next, right.Rows[match][ri])
				continue
			}
			if fill != nil {
				next = append(next, fill(added[i]))
			} else {
				next = append(next, "")
			}
		}
		out.Rows = append(out.Rows, next)
	}
	return out, nil
}

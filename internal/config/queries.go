package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"debatetxt/internal"
)

type querySetFile struct {
	Queries []internal.QuerySpec `yaml:"queries"`
}

// LoadQuerySet reads an ordered list of queries from a YAML file:
//
//	queries:
//	  - text: tax reform
//	    mode: and
//
// A missing mode defaults to "and".
func LoadQuerySet(path string) ([]internal.QuerySpec, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseQuerySet(blob)
}

func ParseQuerySet(blob []byte) ([]internal.QuerySpec, error) {
	var file querySetFile
	if err := yaml.Unmarshal(blob, &file); err != nil {
		return nil, fmt.Errorf("parse query set: %w", err)
	}

	out := make([]internal.QuerySpec, 0, len(file.Queries))
	for i, q := range file.Queries {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return nil, fmt.Errorf("query %d: %w", i+1, internal.ErrEmptyQuery)
		}
		if q.Mode == "" {
			q.Mode = internal.ModeAnd
		}
		mode, err := internal.ParseQueryMode(string(q.Mode))
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i+1, err)
		}
		q.Mode = mode
		out = append(out, q)
	}
	return out, nil
}

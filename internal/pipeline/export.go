package pipeline

import (
	"path/filepath"
	"strings"

	"debatetxt/internal/dataset"
)

const lightSuffix = "_notext"

// ExportSpeeches writes full to outPath and light next to it with a
// "_notext" suffix on the stem. The format follows the extension of outPath.
// It returns the two paths written.
func ExportSpeeches(full, light *dataset.Table, outPath string) (string, string, error) {
	if err := dataset.WriteFile(full, outPath); err != nil {
		return "", "", err
	}
	lightPath := LightPath(outPath)
	if err := dataset.WriteFile(light, lightPath); err != nil {
		return "", "", err
	}
	return outPath, lightPath, nil
}

// LightPath returns the lightweight companion of outPath,
// e.g. "out/speeches.csv" -> "out/speeches_notext.csv".
func LightPath(outPath string) string {
	ext := filepath.Ext(outPath)
	return strings.TrimSuffix(outPath, ext) + lightSuffix + ext
}

// TaggedPath names the output of a tagging run after the base dataset and
// the tag column: "<dir>/<base stem>_<column>.<base ext>".
func TaggedPath(dir, basePath, column string) string {
	if dir == "" {
		dir = filepath.Dir(basePath)
	}
	return filepath.Join(dir, dataset.Stem(basePath)+"_"+column+filepath.Ext(basePath))
}

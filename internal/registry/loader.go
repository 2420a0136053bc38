package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"modelcheck/internal/common/fsutil"
	"modelcheck/internal/model"
	"modelcheck/pkg/types"
)

// defaultRecords is the built-in inventory: three linear samples and four trees.
var defaultRecords = []types.ModelRecord{
	{Key: "[1]", Label: "Model 1", FilePrefix: "model_1"},
	{Key: "[2]", Label: "Model 2", FilePrefix: "model_2"},
	{Key: "[3]", Label: "Model 3", FilePrefix: "model_3"},
	{Key: "[tree_0]", Label: "Tree 0", FilePrefix: "tree_0"},
	{Key: "[tree_1]", Label: "Tree 1", FilePrefix: "tree_1"},
	{Key: "[tree_2]", Label: "Tree 2", FilePrefix: "tree_2"},
	{Key: "[tree_3]", Label: "Tree 3", FilePrefix: "tree_3"},
}

// Default returns a copy of the built-in registry in its fixed order.
func Default() []types.ModelRecord {
	out := make([]types.ModelRecord, len(defaultRecords))
	copy(out, defaultRecords)
	return out
}

// DefaultFormats is the save order used when none is configured.
func DefaultFormats() []string { return []string{"xml", "json"} }

// LoadDir scans dir for saved model files in any supported format and builds
// records from their names. Key is the absolute path and Label the file name.
// FilePrefix keeps the source extension ("model_1.xml" becomes "model_1_xml") so
// the same model saved in several formats yields distinct prefixes. Records are
// sorted by file name.
func LoadDir(dir string) ([]types.ModelRecord, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var records []types.ModelRecord
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !model.Supports(model.FormatOf(name)) {
			continue
		}
		records = append(records, types.ModelRecord{
			Key:        filepath.Join(abs, name),
			Label:      name,
			FilePrefix: filePrefix(name),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Label < records[j].Label })
	return records, nil
}

func filePrefix(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + strings.ToLower(strings.TrimPrefix(ext, "."))
}

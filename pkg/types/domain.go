package types

// ModelRecord names one model under test.
type ModelRecord struct {
	// Opaque identifier resolved by the model provider.
	// example: [tree_1]
	Key string `json:"key" yaml:"key" toml:"key" example:"[tree_1]"`
	// Human-readable name used in size reports.
	// example: Tree 1
	Label string `json:"label" yaml:"label" toml:"label" example:"Tree 1"`
	// Path stem for saved files; the format extension is appended.
	// example: tree_1
	FilePrefix string `json:"file_prefix" yaml:"file_prefix" toml:"file_prefix" example:"tree_1"`
}

// OutputPath returns the file name for this record in the given format.
func (r ModelRecord) OutputPath(ext string) string {
	return r.FilePrefix + "." + ext
}

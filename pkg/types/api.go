package types

import "time"

// SizeReport is emitted once per model during the size-report phase.
type SizeReport struct {
	// example: [1]
	Key string `json:"key" example:"[1]"`
	// example: Model 1
	Label string `json:"label" example:"Model 1"`
	// Provider-defined size metric.
	// example: 10
	Size int `json:"size" example:"10"`
}

// SavedFile records one successful save.
type SavedFile struct {
	// example: [1]
	Key string `json:"key" example:"[1]"`
	// example: json
	Format string `json:"format" example:"json"`
	// example: out/model_1.json
	Path string `json:"path" example:"out/model_1.json"`
	// Size of the written file in bytes, 0 if it could not be stat'ed.
	// example: 812
	Bytes int64 `json:"bytes" example:"812"`
}

// FailureReport describes one failed step.
type FailureReport struct {
	// Phase the failure happened in: size, save or run.
	// example: save
	Phase string `json:"phase" example:"save"`
	// example: [tree_9]
	Key string `json:"key,omitempty" example:"[tree_9]"`
	// example: Tree 9
	Label string `json:"label,omitempty" example:"Tree 9"`
	// example: xml
	Format string `json:"format,omitempty" example:"xml"`
	// example: tree_9.xml
	Path string `json:"path,omitempty" example:"tree_9.xml"`
	// Failure class: not_found, provider_error, io_error or canceled.
	// example: not_found
	Kind string `json:"kind" example:"not_found"`
	// example: model not found: [tree_9]
	Message string `json:"message" example:"model not found: [tree_9]"`
}

// PreflightReport summarizes environment checks taken before a run.
type PreflightReport struct {
	// Directory files are written to ("" means the working directory).
	OutputDir string `json:"output_dir"`
	// Whether OutputDir exists and is a directory.
	DirExists bool `json:"dir_exists"`
	// Free bytes on the output volume, 0 if unknown.
	// example: 53687091200
	FreeBytes uint64 `json:"free_bytes" example:"53687091200"`
	// Error encountered while probing, if any.
	Error string `json:"error,omitempty"`
}

// RunReport is the structured result of one harness run.
type RunReport struct {
	// example: 5f0c8a9e-7f7b-4a53-9a43-2a3f7c1d9e10
	RunID string `json:"run_id" example:"5f0c8a9e-7f7b-4a53-9a43-2a3f7c1d9e10"`
	// Aggregate status: success or failure.
	// example: success
	Status     string    `json:"status" example:"success"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Number of models in the registry.
	// example: 7
	Models int `json:"models" example:"7"`
	// Formats in save order.
	Formats   []string        `json:"formats"`
	Sizes     []SizeReport    `json:"sizes"`
	Saved     []SavedFile     `json:"saved"`
	Failures  []FailureReport `json:"failures"`
	Preflight PreflightReport `json:"preflight"`
}

// RunSummary is one row of the run history.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Number of models in the registry for this run.
	Models int `json:"models"`
	// Formats the run saved to, comma separated.
	// example: xml,json
	Formats string `json:"formats" example:"xml,json"`
	// Number of failed steps.
	Failures int `json:"failures"`
}

// ModelsResponse wraps the registry returned by GET /models.
type ModelsResponse struct {
	Models []ModelRecord `json:"models"`
}

// FormatsResponse wraps the format set returned by GET /formats.
type FormatsResponse struct {
	// Formats used by runs, in save order.
	// example: ["xml","json"]
	Formats []string `json:"formats" example:"xml,json"`
	// All formats the provider can write.
	// example: ["json","toml","xml","yaml"]
	Supported []string `json:"supported" example:"json,toml,xml,yaml"`
}

// RunsResponse wraps the history returned by GET /runs.
type RunsResponse struct {
	Runs []RunSummary `json:"runs"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: run already in progress
	Error string `json:"error" example:"run already in progress"`
	// HTTP status code.
	// example: 429
	Code int `json:"code" example:"429"`
}

// OK reports whether the run succeeded.
func (r RunReport) OK() bool { return r.Status == "success" }

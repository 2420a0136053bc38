// Package model is the model library the harness exercises. It is structured
// into small files by concern:
//
//   - model.go: Model, Layer and Output types, Size and Compute.
//   - samples.go: built-in sample models addressed by bracketed keys ("[1]", "[tree_2]").
//   - codec.go: on-disk formats (json, xml, yaml, toml), Save and ReadFile.
//   - library.go: Library, which resolves a key to a model (sample or file).
//   - print.go: human-readable listing of a model.
//   - errors.go: error types and helpers (IsNotFound, IsIO, KindOf).
//
// Callers outside this package should go through Library.Load and the Model
// methods; the layer layout is subject to change.
package model

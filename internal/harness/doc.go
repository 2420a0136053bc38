// Package harness runs the model inventory smoke test: load every registered
// model, report its size, then save it in every configured format.
//
//   - runner.go: Runner, Config and the two phases.
//   - provider.go: Provider/Handle, the only view the runner has of models.
//   - result.go: Result, Failure and the collapsed status / exit code.
//   - events.go: EventPublisher and the console/log publishers.
//   - eventpub_memory.go: MemoryPublisher for tests and API callers.
//   - preflight.go: output directory and free space probe.
//   - metrics.go: Prometheus collectors and textfile export.
//
// Run never returns a Go error. Every failed step is recorded as a Failure and
// the run status collapses to success or failure.
package harness

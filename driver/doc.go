// Package driver runs builds over many units: sequential multi-unit builds,
// import-closure builds, concurrent isolated group builds, and the
// configured pipeline that writes a persisted schema, optionally on every
// source change.
//
// Key types:
//   - Result: merged schema, diagnostics and unit list of a build
//   - Config: the typereflect.yaml project file
//   - Pipeline: config -> front-end -> build -> flatten -> output/store
//   - Watcher: debounced file-system trigger for a pipeline
package driver

// Package metrics records build metrics for docmatrix runs.
//
// Components take a Recorder and default to NoopRecorder, so callers never
// check for nil. When a textfile path is configured, the CLI swaps in a
// PrometheusRecorder and writes its registry with WriteTextfile after each
// run, for pickup by the node exporter textfile collector.
package metrics

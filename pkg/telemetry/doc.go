// Package telemetry persists error logs and fallback chain attempt records
// to Parquet files for offline analysis, alongside normal structured
// logging.
package telemetry

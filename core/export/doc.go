// Package export defines the sinks a finished run is handed to. Sinks such as
// the JSONL and SQLite stores or the Prometheus and Influx exporters are
// registered by name and built from factory.ModuleConfig; several configured
// sinks are combined into a MultiSink.
package export

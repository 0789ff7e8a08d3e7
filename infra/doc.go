// Package infra contains technical adapters: the zerolog logger and the
// result sinks (file stores, Prometheus, InfluxDB, MQTT). These packages
// depend only on the interfaces defined in the core packages.
package infra

package store

import (
	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/core/factory"
)

// init registers the persistence sinks.
func init() {
	_ = export.RegisterSink("jsonl", func(conf map[string]any) (export.ResultSink, error) {
		c := struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
			Compress   bool   `json:"compress"`
		}{Path: "runs/steps.jsonl", MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 30}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays, c.Compress)
	})

	_ = export.RegisterSink("sqlite", func(conf map[string]any) (export.ResultSink, error) {
		c := struct {
			Path string `json:"path"`
		}{Path: "runs.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})

	_ = export.RegisterSink("csv", func(conf map[string]any) (export.ResultSink, error) {
		c := struct {
			Dir string `json:"dir"`
		}{Dir: "runs"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewCSVSink(c.Dir)
	})
}

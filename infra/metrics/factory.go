package metrics

import (
	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/core/factory"
)

// init registers built-in result sinks.
func init() {
	_ = export.RegisterSink("nop", func(map[string]any) (export.ResultSink, error) {
		return export.NopSink{}, nil
	})

	_ = export.RegisterSink("prometheus", func(map[string]any) (export.ResultSink, error) {
		return NewPromSink()
	})

	_ = export.RegisterSink("influx", func(conf map[string]any) (export.ResultSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}

package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/microgrid/core/events"
	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/infra/logger"
)

// InfluxSink writes ledgers and bus events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
	timeout  time.Duration
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
		timeout:  30 * time.Second,
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) export.ResultSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return export.NopSink{}
	}
	return sink
}

// Export writes one "ledger" point per step carrying every column as a
// field, followed by a "run_summary" point.
func (s *InfluxSink) Export(ctx context.Context, r *export.Run) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	sum := r.Summary
	var points []*write.Point
	if l := r.Ledger; l != nil {
		cols := l.Columns()
		for step := 0; step < l.Len(); step++ {
			p := write.NewPointWithMeasurement("ledger").
				AddTag("run_id", sum.RunID).
				AddTag("scenario", sum.Scenario).
				AddTag("mode", sum.Mode)
			for _, c := range cols {
				p = p.AddField(c.Name, round3(l.Get(c.Name, step)))
			}
			points = append(points, p.SetTime(l.Horizon().At(step)))
		}
	}
	points = append(points, write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", sum.RunID).
		AddTag("scenario", sum.Scenario).
		AddTag("mode", sum.Mode).
		AddField("system_covered", sum.SystemCovered).
		AddField("demand_kwh", round3(sum.DemandKWh)).
		AddField("unmet_kwh", round3(sum.UnmetKWh)).
		AddField("unmet_steps", sum.UnmetSteps).
		AddField("max_shortfall_kw", round3(sum.MaxShortfall.PowerKW)).
		AddField("co2_kg", round3(sum.Eco.TotalCO2Kg)).
		AddField("renewable_share", round3(sum.Eco.RenewableShare)).
		SetTime(sum.End))
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordUnmet writes an uncovered step.
func (s *InfluxSink) RecordUnmet(ev events.UnmetDemandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("unmet_demand").
		AddTag("component", "dispatch_engine").
		AddField("step", ev.Step).
		AddField("power_kw", round3(ev.PowerKW)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordReplacement writes a scheduled stack replacement.
func (s *InfluxSink) RecordReplacement(ev events.ReplacementEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("replacement").
		AddTag("component", ev.Component).
		AddField("step", ev.Step).
		AddField("replacements", ev.Replacements).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

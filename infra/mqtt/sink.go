package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/microgrid/core/events"
	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/core/factory"
	"github.com/kilianp07/microgrid/infra/logger"
)

// SummarySink publishes the summary of each run to
// <prefix>/runs/<run-id>/summary and engine events to <prefix>/events/<kind>.
type SummarySink struct {
	cli     pahoClient
	cfg     Config
	logger  logger.Logger
	backoff time.Duration
}

// NewSummarySink connects to the broker.
func NewSummarySink(cfg Config) (*SummarySink, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_sink")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &SummarySink{
		cli:     c,
		cfg:     cfg,
		logger:  log,
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
	}, nil
}

// SummaryTopic returns the topic a run summary is published to.
func (s *SummarySink) SummaryTopic(runID string) string {
	return fmt.Sprintf("%s/runs/%s/summary", s.cfg.TopicPrefix, runID)
}

// Export publishes the run summary as JSON.
func (s *SummarySink) Export(ctx context.Context, run *export.Run) error {
	payload, err := json.Marshal(run.Summary)
	if err != nil {
		return err
	}
	return s.publish(ctx, s.SummaryTopic(run.Summary.RunID), payload)
}

// RecordUnmet publishes an uncovered step.
func (s *SummarySink) RecordUnmet(ev events.UnmetDemandEvent) error {
	return s.publishJSON(s.cfg.TopicPrefix+"/events/unmet", ev)
}

// RecordReplacement publishes a scheduled stack replacement.
func (s *SummarySink) RecordReplacement(ev events.ReplacementEvent) error {
	return s.publishJSON(s.cfg.TopicPrefix+"/events/replacement", ev)
}

func (s *SummarySink) publishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.publish(context.Background(), topic, payload)
}

// publish retries with exponential backoff until MaxRetries is exhausted or
// ctx is done.
func (s *SummarySink) publish(ctx context.Context, topic string, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		token := s.cli.Publish(topic, s.cfg.QoS, s.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			s.logger.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		s.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == s.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff * time.Duration(1<<attempt)):
		}
	}
	return publishErr
}

// Close gracefully closes the MQTT connection.
func (s *SummarySink) Close() error {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	return nil
}

func init() {
	_ = export.RegisterSink("mqtt", func(conf map[string]any) (export.ResultSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSummarySink(c)
	})
}

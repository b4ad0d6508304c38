// Package telemetry pushes realtime snapshots to an MQTT broker. The
// publisher is optional: without a configured broker the process serves
// HTTP only.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/bluecape/droidmetrics/internal/config"
	"github.com/bluecape/droidmetrics/internal/metrics"
)

type Publisher struct {
	client   mqtt.Client
	service  *metrics.Service
	logger   *slog.Logger
	topic    string
	interval time.Duration
}

// NewPublisher builds a publisher for the configured broker. Returns nil
// when no broker is configured.
func NewPublisher(cfg config.TelemetryConfig, service *metrics.Service, logger *slog.Logger) *Publisher {
	if cfg.Broker == "" {
		return nil
	}

	opts := mqtt.NewClientOptions().AddBroker(fmt.Sprintf("tcp://%s:%s", cfg.Broker, cfg.Port))
	opts.SetClientID(fmt.Sprintf("droidmetrics_%d", time.Now().Unix()))
	opts.SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	return &Publisher{
		client:   mqtt.NewClient(opts),
		service:  service,
		logger:   logger,
		topic:    cfg.Topic,
		interval: cfg.Interval,
	}
}

// Run connects and publishes snapshots until the context ends. Publish
// failures are logged and never fatal; the HTTP surface stays up.
func (p *Publisher) Run(ctx context.Context) error {
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect failed: %w", token.Error())
	}
	p.logger.Info("Telemetry publisher connected", "topic", p.topic, "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.client.Disconnect(250)
			return nil
		case <-ticker.C:
			p.publishOnce(ctx)
		}
	}
}

func (p *Publisher) publishOnce(ctx context.Context) {
	snapshot, err := p.service.Realtime(ctx)
	if err != nil {
		p.logger.Warn("Telemetry snapshot failed", "error", err)
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.Warn("Telemetry snapshot marshal failed", "error", err)
		return
	}

	if token := p.client.Publish(p.topic, 0, false, payload); token.Wait() && token.Error() != nil {
		p.logger.Warn("Telemetry publish failed", "topic", p.topic, "error", token.Error())
	}
}

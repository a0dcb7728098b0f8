// Package bus implements ports.ProgressPublisher over a headers-exchange
// AMQP connection, grounded on bus.py's Publisher and its
// PluginInstallProgressEvent/PluginUninstallProgressEvent typed events. The
// rabbitmq/amqp091-go client is the one dependency this component brings in
// from outside the base dependency set — see DESIGN.md.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Publisher implements ports.ProgressPublisher against a single AMQP
// channel, serialized by mu since amqp091-go channels are not safe for
// concurrent Publish calls.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     ports.BusConfig
	logger  ports.Logger

	mu sync.Mutex
}

// Dial connects to the broker and declares the configured headers exchange.
func Dial(cfg ports.BusConfig, logger ports.Logger) (*Publisher, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d%s", cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.VHost)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to message bus: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening bus channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "headers", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring bus exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, cfg: cfg, logger: logger}, nil
}

type progressPayload struct {
	Data progressData `json:"data"`
}

type progressData struct {
	UUID   string             `json:"uuid"`
	Status string             `json:"status"`
	Errors *ports.ErrorPayload `json:"errors,omitempty"`
}

func (p *Publisher) PublishInstallProgress(ctx context.Context, uuid, status string, errors *ports.ErrorPayload) error {
	return p.publish(ctx, ports.EventPluginInstallProgress, uuid, status, errors)
}

func (p *Publisher) PublishUninstallProgress(ctx context.Context, uuid, status string, errors *ports.ErrorPayload) error {
	return p.publish(ctx, ports.EventPluginUninstallProgress, uuid, status, errors)
}

func (p *Publisher) publish(ctx context.Context, eventName, uuid, status string, errors *ports.ErrorPayload) error {
	body, err := json.Marshal(progressPayload{Data: progressData{UUID: uuid, Status: status, Errors: errors}})
	if err != nil {
		return fmt.Errorf("encoding progress event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.cfg.Exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{"name": eventName},
		Body:        body,
	})
	if err != nil {
		if p.logger != nil {
			p.logger.Error(ctx, "failed to publish progress event", "event", eventName, "uuid", uuid, "error", err)
		}
		return fmt.Errorf("publishing %s: %w", eventName, err)
	}
	return nil
}

func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil && p.logger != nil {
		p.logger.Warn(ctx, "error closing bus channel", "error", err)
	}
	return p.conn.Close()
}

var _ ports.ProgressPublisher = (*Publisher)(nil)

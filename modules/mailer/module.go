package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ServiceSend is the service name for queueing mail.
const ServiceSend = "send"

// SendResponse acknowledges that a message was queued.
type SendResponse struct {
	Queued bool `json:"queued"`
}

// Module is the mail delivery module. Sending is asynchronous; the send
// service only queues.
type Module struct {
	pool *Pool
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new mailer Module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "mailer"
}

// Start initializes the SMTP sender and launches the delivery workers.
func (m *Module) Start(ctx context.Context) error {
	config := LoadConfig()

	sender, err := NewSender(config)
	if err != nil {
		return fmt.Errorf("failed to initialize sender: %w", err)
	}

	m.pool = NewPool(DefaultPoolConfig(), sender)
	m.pool.Start(context.Background())

	if config.Enabled() {
		log.Printf("[mailer] Module started (smtp: %s:%d)", config.Host, config.Port)
	} else {
		log.Println("[mailer] Module started without SMTP configuration, mail is dropped")
	}
	return nil
}

// Stop shuts down the delivery workers.
func (m *Module) Stop(_ context.Context) error {
	if m.pool != nil {
		m.pool.Stop()
	}
	log.Println("[mailer] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.pool != nil,
		Message: "operational",
	}
}

// RegisterServices registers the send service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceSend, json.Unmarshal, json.Marshal, m.handleSend,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceSend, err)
	}
	log.Println("[mailer] Registered services: send")
	return nil
}

func (m *Module) handleSend(_ context.Context, msg Message, _ *mono.Msg) (SendResponse, error) {
	return SendResponse{Queued: m.pool.Enqueue(msg)}, nil
}

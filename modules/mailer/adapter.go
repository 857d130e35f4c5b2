package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Adapter queues mail through the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new mailer Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// SendTemplate queues a templated mail for asynchronous delivery.
func (a *Adapter) SendTemplate(ctx context.Context, to, subject, template string, data map[string]any) error {
	req := Message{
		To:       to,
		Subject:  subject,
		Template: template,
		Data:     data,
	}
	var resp SendResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceSend,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}

	if !resp.Queued {
		return fmt.Errorf("mail queue full")
	}
	return nil
}

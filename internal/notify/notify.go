// Package notify defines the outbound transactional email port.
package notify

import "context"

// Notifier sends a templated transactional email. Implementations return an
// error for delivery failures and never panic; callers decide whether a
// failure is fatal to their operation.
type Notifier interface {
	Send(ctx context.Context, toEmail, toName string, templateID int64, params map[string]string) error
}

// Nop discards all sends. Used when no email provider is configured.
type Nop struct{}

func (Nop) Send(context.Context, string, string, int64, map[string]string) error { return nil }

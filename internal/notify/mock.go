package notify

import (
	"context"
	"log"
)

// Mock implements the Notifier interface by logging messages to stdout.
// Used when no delivery channel is configured.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Publish(ctx context.Context, subject, message string) error {
	log.Printf("📨 [MockNotifier] %s: %s", subject, message)
	return nil
}

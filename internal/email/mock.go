package email

import (
	"context"
	"sync"
)

// SentMessage records one Send call for assertions.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// MockProvider captures messages instead of delivering them.
type MockProvider struct {
	mu       sync.Mutex
	Messages []SentMessage
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Send(_ context.Context, to, subject, htmlBody string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages = append(p.Messages, SentMessage{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (p *MockProvider) Sent() []SentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SentMessage, len(p.Messages))
	copy(out, p.Messages)
	return out
}

package protocol

import "context"

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one conversation turn as it travels in an outbound request
// body.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// ChatRequest is the request body both chat endpoints accept. This consumer
// always streams.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// EventStream is an open event stream for one request. Events yields typed
// wire events in arrival order; a non-nil error for a yielded pair reports
// either a recoverable frame parse failure (nil event follows with the next
// frame) or a terminal transport failure, after which iteration stops.
type EventStream interface {
	Events(ctx context.Context) func(func(Event, error) bool)
}

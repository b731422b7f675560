package session

import (
	"context"

	"github.com/koscakluka/crew-core/core/events"
	"github.com/koscakluka/crew-core/core/protocol"
)

type Option func(*Session)

// Backend opens response streams for outbound requests. The bridge client
// is the shipped implementation; tests substitute scripted streams.
type Backend interface {
	Chat(ctx context.Context, messages []protocol.Message) (protocol.EventStream, error)
	TeamChat(ctx context.Context, messages []protocol.Message) (protocol.EventStream, error)
}

func WithBackend(client Backend) Option {
	return func(s *Session) {
		s.backend = client
	}
}

func WithMode(mode Mode) Option {
	return func(s *Session) {
		s.mode = mode
	}
}

type SendOptions struct {
	onSpeakerStarted  func(bufferID string, speaker Speaker)
	onAnswerSegment   func(bufferID string, segment string)
	onThinkingSegment func(bufferID string, segment string)
	onToolEvent       func(bufferID string, entry ToolLogEntry)
	onCollapse        func(bufferID string, collapseThinking, collapseTools bool)
	onCompletion      func(finalAnswer string)
	onError           func(message string)

	eventHandler func(events.Event)
}

type SendOption func(*SendOptions)

// WithSpeakerStartedCallback sets a callback invoked when a speaker's
// section opens with a fresh buffer.
func WithSpeakerStartedCallback(callback func(bufferID string, speaker Speaker)) SendOption {
	return func(o *SendOptions) {
		o.onSpeakerStarted = callback
	}
}

// WithAnswerSegmentCallback sets a callback invoked for each streamed
// answer text segment of the active buffer.
func WithAnswerSegmentCallback(callback func(bufferID string, segment string)) SendOption {
	return func(o *SendOptions) {
		o.onAnswerSegment = callback
	}
}

// WithThinkingSegmentCallback sets a callback invoked for each streamed
// reasoning text segment of the active buffer.
func WithThinkingSegmentCallback(callback func(bufferID string, segment string)) SendOption {
	return func(o *SendOptions) {
		o.onThinkingSegment = callback
	}
}

// WithToolEventCallback sets a callback invoked for each tool request or
// result recorded on the active buffer.
func WithToolEventCallback(callback func(bufferID string, entry ToolLogEntry)) SendOption {
	return func(o *SendOptions) {
		o.onToolEvent = callback
	}
}

// WithCollapseCallback sets a callback invoked when a buffer is archived,
// carrying the collapse directive for its transient sections.
func WithCollapseCallback(callback func(bufferID string, collapseThinking, collapseTools bool)) SendOption {
	return func(o *SendOptions) {
		o.onCollapse = callback
	}
}

// WithCompletionCallback sets a callback invoked on normal stream
// termination with the finalized assistant text.
func WithCompletionCallback(callback func(finalAnswer string)) SendOption {
	return func(o *SendOptions) {
		o.onCompletion = callback
	}
}

// WithErrorCallback sets a callback invoked when the exchange terminates
// with a transport or model-reported error.
func WithErrorCallback(callback func(message string)) SendOption {
	return func(o *SendOptions) {
		o.onError = callback
	}
}

// WithEventHandler sets a handler that receives every typed update event,
// before the per-kind callbacks fire.
func WithEventHandler(handler func(events.Event)) SendOption {
	return func(o *SendOptions) {
		o.eventHandler = handler
	}
}

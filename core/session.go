package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/koscakluka/crew-core/core/protocol"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrExchangeInFlight reports a Send while a previous stream is still
	// being consumed. New submissions are rejected rather than cancelling
	// or superseding the open stream.
	ErrExchangeInFlight = errors.New("an exchange is already in flight")
	// ErrNoBackend reports a Send on a session with no backend configured.
	ErrNoBackend = errors.New("no backend configured")
)

// Session owns one conversation: its transcript, its mode, and at most one
// in-flight exchange. It is the explicit replacement for ambient UI state;
// the presenter and the state machine both receive it by reference.
type Session struct {
	mu sync.Mutex

	backend    Backend
	transcript *Transcript
	mode       Mode

	active *Exchange
}

func New(opts ...Option) *Session {
	s := &Session{
		transcript: NewTranscript(),
		mode:       ModeSolo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode
}

// SetMode switches between solo and team requests. The new mode applies
// from the next Send; an in-flight exchange keeps the mode it started with.
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
}

func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// ActiveExchange returns the in-flight exchange, nil when the session is
// idle.
func (s *Session) ActiveExchange() *Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.active
}

// Send submits one user prompt and consumes the response stream to
// completion. It blocks until the stream terminates, so callers drive it
// from their own goroutine when they need to stay responsive.
//
// Exactly one exchange may be in flight per session; a Send while one is
// active returns ErrExchangeInFlight without touching the transcript. On
// normal termination the finalized assistant text (when non-empty) is
// appended to the transcript; on failure the exchange is returned alongside
// the error so partial buffers stay presentable.
func (s *Session) Send(ctx context.Context, prompt string, opts ...SendOption) (*Exchange, error) {
	options := SendOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, ErrExchangeInFlight
	}
	if s.backend == nil {
		s.mu.Unlock()
		return nil, ErrNoBackend
	}
	backend := s.backend
	mode := s.mode

	s.transcript.Append(protocol.Message{Role: protocol.MessageRoleUser, Content: prompt})
	history := s.transcript.Snapshot()

	exchange := newExchange(mode, newCallbackEventEmitter(options))
	s.active = exchange
	s.mu.Unlock()

	// Emitted outside the critical section so a callback may use the
	// session without deadlocking.
	exchange.begin()

	defer func() {
		s.mu.Lock()
		s.active = nil
		s.mu.Unlock()
	}()

	ctx, span := tracer.Start(ctx, "send exchange")
	defer span.End()
	span.SetAttributes(
		attribute.String("exchange.id", exchange.ID()),
		attribute.String("exchange.mode", string(mode)),
		attribute.Int("request.history_length", len(history)),
	)

	var stream protocol.EventStream
	var err error
	if mode == ModeTeam {
		stream, err = backend.TeamChat(ctx, history)
	} else {
		stream, err = backend.Chat(ctx, history)
	}
	if err != nil {
		err = fmt.Errorf("error opening response stream: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		exchange.fail(err.Error())
		return exchange, err
	}

	for event, err := range stream.Events(ctx) {
		if err != nil {
			err = fmt.Errorf("error consuming response stream: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			exchange.fail(err.Error())
			return exchange, err
		}
		exchange.Apply(event)
		if exchange.Failed() {
			break
		}
	}

	if exchange.Failed() {
		return exchange, fmt.Errorf("exchange failed: %s", exchange.Err())
	}

	if answer := exchange.FinalAnswer(); answer != "" {
		s.transcript.Append(protocol.Message{Role: protocol.MessageRoleAssistant, Content: answer})
	}
	return exchange, nil
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/koscakluka/crew-core/core/protocol"
)

// scriptedStream yields a fixed event sequence, optionally followed by a
// terminal error.
type scriptedStream struct {
	events      []protocol.Event
	terminalErr error
}

func (s *scriptedStream) Events(ctx context.Context) func(func(protocol.Event, error) bool) {
	return func(yield func(protocol.Event, error) bool) {
		for _, event := range s.events {
			if !yield(event, nil) {
				return
			}
		}
		if s.terminalErr != nil {
			yield(nil, s.terminalErr)
		}
	}
}

// scriptedBackend serves scripted streams and records which endpoint each
// request hit together with the history it carried.
type scriptedBackend struct {
	stream  *scriptedStream
	openErr error

	chatCalls     int
	teamChatCalls int
	lastHistory   []protocol.Message
}

func (b *scriptedBackend) Chat(ctx context.Context, messages []protocol.Message) (protocol.EventStream, error) {
	b.chatCalls++
	b.lastHistory = messages
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.stream, nil
}

func (b *scriptedBackend) TeamChat(ctx context.Context, messages []protocol.Message) (protocol.EventStream, error) {
	b.teamChatCalls++
	b.lastHistory = messages
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.stream, nil
}

func TestSessionSendAppendsBothTurns(t *testing.T) {
	backend := &scriptedBackend{stream: &scriptedStream{events: []protocol.Event{
		protocol.ContentDelta{Text: "Hel"},
		protocol.ContentDelta{Text: "lo"},
		protocol.StreamEnd{},
	}}}
	sess := New(WithBackend(backend))

	exchange, err := sess.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}
	if !exchange.Done() {
		t.Fatalf("expected exchange done")
	}

	entries := sess.Transcript().Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", len(entries))
	}
	if entries[0].Role != protocol.MessageRoleUser || entries[0].Content != "hi" {
		t.Fatalf("expected user entry first, got %+v", entries[0])
	}
	if entries[1].Role != protocol.MessageRoleAssistant || entries[1].Content != "Hello" {
		t.Fatalf("expected assistant entry %q, got %+v", "Hello", entries[1])
	}

	if backend.chatCalls != 1 || backend.teamChatCalls != 0 {
		t.Fatalf("expected exactly one solo request, got chat=%d team=%d",
			backend.chatCalls, backend.teamChatCalls)
	}
	// The request history includes the prompt just appended.
	if len(backend.lastHistory) != 1 || backend.lastHistory[0].Content != "hi" {
		t.Fatalf("expected request history to carry the prompt, got %+v", backend.lastHistory)
	}
}

func TestSessionTeamModeAppendsOnlyLeaderAnswer(t *testing.T) {
	backend := &scriptedBackend{stream: &scriptedStream{events: []protocol.Event{
		protocol.MemberStart{ID: "rex", DisplayName: "Rex"},
		protocol.ContentDelta{Text: "member take"},
		protocol.MemberEnd{ID: "rex"},
		protocol.LeaderStart{ID: "lead", DisplayName: "Lead"},
		protocol.ContentDelta{Text: "verdict"},
		protocol.StreamEnd{},
	}}}
	sess := New(WithBackend(backend), WithMode(ModeTeam))

	if _, err := sess.Send(context.Background(), "settle this"); err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}

	if backend.teamChatCalls != 1 || backend.chatCalls != 0 {
		t.Fatalf("expected exactly one team request, got chat=%d team=%d",
			backend.chatCalls, backend.teamChatCalls)
	}
	entries := sess.Transcript().Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", len(entries))
	}
	if entries[1].Content != "verdict" {
		t.Fatalf("expected only the leader answer in the transcript, got %q", entries[1].Content)
	}
}

func TestSessionStreamErrorLeavesNoAssistantEntry(t *testing.T) {
	backend := &scriptedBackend{stream: &scriptedStream{events: []protocol.Event{
		protocol.ContentDelta{Text: "partial"},
		protocol.StreamError{Message: "model unavailable"},
	}}}
	sess := New(WithBackend(backend))

	exchange, err := sess.Send(context.Background(), "hi")
	if err == nil {
		t.Fatalf("expected an error for a failed exchange")
	}
	if exchange == nil || !exchange.Failed() {
		t.Fatalf("expected the failed exchange returned for inspection")
	}

	entries := sess.Transcript().Snapshot()
	if len(entries) != 1 || entries[0].Role != protocol.MessageRoleUser {
		t.Fatalf("expected only the user entry after failure, got %+v", entries)
	}
}

func TestSessionTransportErrorFailsExchange(t *testing.T) {
	transportErr := errors.New("connection reset")
	backend := &scriptedBackend{stream: &scriptedStream{
		events:      []protocol.Event{protocol.ContentDelta{Text: "partial"}},
		terminalErr: transportErr,
	}}
	sess := New(WithBackend(backend))

	exchange, err := sess.Send(context.Background(), "hi")
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected the transport error wrapped, got %v", err)
	}
	if !exchange.Failed() {
		t.Fatalf("expected exchange marked failed")
	}
	if snapshot := exchange.Snapshot(); len(snapshot.Buffers) != 1 || snapshot.Buffers[0].Answer != "partial" {
		t.Fatalf("expected partial output preserved, got %+v", snapshot.Buffers)
	}
}

func TestSessionRejectsConcurrentSend(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	backend := &scriptedBackend{stream: &scriptedStream{events: []protocol.Event{
		protocol.StreamEnd{},
	}}}
	sess := New(WithBackend(backend))

	go func() {
		sess.Send(context.Background(), "first",
			WithSpeakerStartedCallback(func(string, Speaker) {
				close(started)
				<-release
			}))
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatalf("first send never started")
	}

	if _, err := sess.Send(context.Background(), "second"); !errors.Is(err, ErrExchangeInFlight) {
		t.Fatalf("expected ErrExchangeInFlight, got %v", err)
	}
	if got := sess.Transcript().Len(); got != 1 {
		t.Fatalf("expected the rejected send to leave the transcript alone, got %d entries", got)
	}
	close(release)
}

func TestSessionCallbacksMayUseTheSession(t *testing.T) {
	backend := &scriptedBackend{stream: &scriptedStream{events: []protocol.Event{
		protocol.ContentDelta{Text: "Hello"},
		protocol.StreamEnd{},
	}}}
	sess := New(WithBackend(backend))

	// The opening speaker event fires before the first stream event; a
	// callback that reads session state back must not block on the
	// session's own lock.
	var observedMode Mode
	done := make(chan error, 1)
	go func() {
		_, err := sess.Send(context.Background(), "hi",
			WithSpeakerStartedCallback(func(string, Speaker) {
				observedMode = sess.Mode()
			}))
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected send to succeed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("send blocked on a re-entrant callback")
	}
	if observedMode != ModeSolo {
		t.Fatalf("expected the callback to observe the solo mode, got %q", observedMode)
	}
}

func TestSessionSpeakerStartedCallbackFires(t *testing.T) {
	backend := &scriptedBackend{stream: &scriptedStream{events: []protocol.Event{
		protocol.StreamEnd{},
	}}}
	sess := New(WithBackend(backend))

	var started []Speaker
	if _, err := sess.Send(context.Background(), "hi",
		WithSpeakerStartedCallback(func(_ string, speaker Speaker) {
			started = append(started, speaker)
		})); err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}

	if len(started) != 1 || started[0].Kind != SpeakerSolo {
		t.Fatalf("expected exactly the solo speaker announced, got %+v", started)
	}
}

func TestSessionWithoutBackend(t *testing.T) {
	sess := New()

	if _, err := sess.Send(context.Background(), "hi"); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
	if got := sess.Transcript().Len(); got != 0 {
		t.Fatalf("expected no transcript entries, got %d", got)
	}
}

func TestSessionSendCallbacks(t *testing.T) {
	backend := &scriptedBackend{stream: &scriptedStream{events: []protocol.Event{
		protocol.ThinkingDelta{Text: "pondering"},
		protocol.ContentDelta{Text: "Hello"},
		protocol.ToolRequest{Tool: "python_exec", Arguments: []byte(`{"code":"1+1"}`)},
		protocol.ToolResult{Tool: "python_exec", Result: []byte(`"2"`)},
		protocol.StreamEnd{},
	}}}
	sess := New(WithBackend(backend))

	var answer, thinking, completion string
	var tools []ToolLogEntry
	var collapseThinking, collapseTools bool

	_, err := sess.Send(context.Background(), "hi",
		WithAnswerSegmentCallback(func(_ string, segment string) { answer += segment }),
		WithThinkingSegmentCallback(func(_ string, segment string) { thinking += segment }),
		WithToolEventCallback(func(_ string, entry ToolLogEntry) { tools = append(tools, entry) }),
		WithCollapseCallback(func(_ string, thinkingFlag, toolsFlag bool) {
			collapseThinking, collapseTools = thinkingFlag, toolsFlag
		}),
		WithCompletionCallback(func(finalAnswer string) { completion = finalAnswer }),
	)
	if err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}

	if answer != "Hello" || thinking != "pondering" {
		t.Fatalf("expected streamed text %q/%q, got %q/%q", "Hello", "pondering", answer, thinking)
	}
	if len(tools) != 2 || tools[0].Kind != ToolLogRequest || tools[1].Kind != ToolLogResult {
		t.Fatalf("expected a request/result pair, got %+v", tools)
	}
	if !collapseThinking || !collapseTools {
		t.Fatalf("expected both transient sections flagged for collapse")
	}
	if completion != "Hello" {
		t.Fatalf("expected completion callback with %q, got %q", "Hello", completion)
	}
}

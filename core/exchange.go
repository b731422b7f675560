package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/crew-core/core/events"
	"github.com/koscakluka/crew-core/core/protocol"
)

type Mode string

const (
	ModeSolo Mode = "solo"
	ModeTeam Mode = "team"
)

type exchangePhase int

const (
	phaseIdle exchangePhase = iota
	phaseAwaitingSolo
	phaseAwaitingMember
	phaseAwaitingLeader
	phaseDone
	phaseFailed
)

// Exchange is the state machine for one request/response round trip. It
// consumes the ordered wire event sequence, owns the single active speaker
// buffer, archives buffers on lifecycle transitions, and emits typed update
// events toward the presentation sink.
//
// Apply is called from the single stream-consuming goroutine; the mutex
// only guards snapshot reads from other goroutines.
type Exchange struct {
	mu sync.RWMutex

	id    string
	mode  Mode
	phase exchangePhase

	active   *SpeakerBuffer
	archived []*SpeakerBuffer
	// solo and leader point into archived/active; whichever matches the
	// mode is the buffer whose final answer reaches the transcript.
	solo   *SpeakerBuffer
	leader *SpeakerBuffer

	errMessage string

	emit eventEmitter
}

func newExchange(mode Mode, emit eventEmitter) *Exchange {
	if emit == nil {
		emit = noopEventEmitter
	}
	e := &Exchange{
		id:    uuid.NewString(),
		mode:  mode,
		phase: phaseIdle,
		emit:  emit,
	}
	if mode == ModeSolo {
		// Solo mode has no lifecycle frames; its one speaker exists from
		// the start of the exchange.
		buffer := newSpeakerBuffer(Speaker{Kind: SpeakerSolo})
		e.solo = buffer
		e.active = buffer
		e.phase = phaseAwaitingSolo
	}
	return e
}

// begin emits the opening speaker event for a first speaker that exists
// before any stream event arrives (solo mode). It is separate from
// construction so the session can emit it after releasing its own lock:
// callbacks may call back into the session.
func (e *Exchange) begin() {
	e.mu.RLock()
	buffer := e.active
	e.mu.RUnlock()

	if buffer == nil {
		return
	}
	speaker := buffer.speaker
	e.emit(events.NewSpeakerStarted(buffer.id, string(speaker.Kind), speaker.ID, speaker.DisplayName, speaker.Avatar))
}

func (e *Exchange) ID() string {
	return e.id
}

func (e *Exchange) Mode() Mode {
	return e.mode
}

// Apply advances the state machine by one wire event. Events arriving after
// a terminal state are dropped.
func (e *Exchange) Apply(event protocol.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == phaseDone || e.phase == phaseFailed {
		logger.Debug("dropping event after terminal state", "kind", string(event.Kind()))
		return
	}

	switch typedEvent := event.(type) {
	case protocol.ContentDelta:
		if e.active == nil {
			logger.Debug("dropping content delta with no active speaker")
			return
		}
		e.active.appendAnswer(typedEvent.Text)
		e.emit(events.NewSpeakerAnswerSegment(e.active.id, typedEvent.Text))

	case protocol.ThinkingDelta:
		if e.active == nil {
			logger.Debug("dropping thinking delta with no active speaker")
			return
		}
		e.active.appendThinking(typedEvent.Text)
		e.emit(events.NewSpeakerThinkingSegment(e.active.id, typedEvent.Text))

	case protocol.ToolRequest:
		if e.active == nil {
			logger.Debug("dropping tool request with no active speaker", "tool", typedEvent.Tool)
			return
		}
		e.active.appendTool(ToolLogEntry{Kind: ToolLogRequest, Tool: typedEvent.Tool, Payload: string(typedEvent.Arguments)})
		e.emit(events.NewSpeakerToolRequested(e.active.id, typedEvent.Tool, string(typedEvent.Arguments)))

	case protocol.ToolResult:
		if e.active == nil {
			logger.Debug("dropping tool result with no active speaker", "tool", typedEvent.Tool)
			return
		}
		e.active.appendTool(ToolLogEntry{Kind: ToolLogResult, Tool: typedEvent.Tool, Payload: string(typedEvent.Result)})
		e.emit(events.NewSpeakerToolResulted(e.active.id, typedEvent.Tool, string(typedEvent.Result)))

	case protocol.MemberStart:
		e.archiveActive()
		e.startSpeaker(Speaker{
			Kind:        SpeakerMember,
			ID:          typedEvent.ID,
			DisplayName: typedEvent.DisplayName,
			Avatar:      typedEvent.Avatar,
		})
		e.phase = phaseAwaitingMember

	case protocol.MemberEnd:
		if e.active != nil && typedEvent.ID != "" && e.active.speaker.ID != typedEvent.ID {
			logger.Debug("member end id does not match active speaker",
				"active", e.active.speaker.ID, "ended", typedEvent.ID)
		}
		e.archiveActive()

	case protocol.LeaderStart:
		e.archiveActive()
		e.leader = e.startSpeaker(Speaker{
			Kind:        SpeakerLeader,
			ID:          typedEvent.ID,
			DisplayName: typedEvent.DisplayName,
			Avatar:      typedEvent.Avatar,
		})
		e.phase = phaseAwaitingLeader

	case protocol.LeaderEnd:
		// Informational only; stream end finalizes the leader buffer.

	case protocol.StreamError:
		e.failLocked(typedEvent.Message)

	case protocol.StreamEnd:
		e.archiveActive()
		e.phase = phaseDone
		e.emit(events.NewExchangeCompleted(e.id, e.finalAnswerLocked()))
	}
}

// fail terminates the exchange with an error. Buffers produced so far stay
// presentable: the active buffer is frozen without a collapse directive so
// the sink keeps its sections open next to the error.
func (e *Exchange) fail(message string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == phaseDone || e.phase == phaseFailed {
		return
	}
	e.failLocked(message)
}

func (e *Exchange) failLocked(message string) {
	if e.active != nil {
		e.active.freeze()
	}
	e.errMessage = message
	e.phase = phaseFailed
	e.emit(events.NewExchangeFailed(e.id, message))
}

func (e *Exchange) startSpeaker(speaker Speaker) *SpeakerBuffer {
	buffer := newSpeakerBuffer(speaker)
	e.active = buffer
	e.emit(events.NewSpeakerStarted(buffer.id, string(speaker.Kind), speaker.ID, speaker.DisplayName, speaker.Avatar))
	return buffer
}

// archiveActive freezes the active buffer, moves it to the archive, and
// emits its collapse directive. Sections collapse only when they hold
// content; an empty section is not shown at all.
func (e *Exchange) archiveActive() {
	if e.active == nil {
		return
	}
	buffer := e.active
	e.active = nil

	buffer.freeze()
	e.archived = append(e.archived, buffer)

	answer, thinking := buffer.FinalAnswer(), buffer.FinalThinking()
	e.emit(events.NewSpeakerCollapsed(buffer.id, answer, thinking, thinking != "", len(buffer.toolLog) > 0))
}

func (e *Exchange) finalAnswerLocked() string {
	final := e.solo
	if e.mode == ModeTeam {
		final = e.leader
	}
	if final == nil {
		return ""
	}
	return final.FinalAnswer()
}

// FinalAnswer returns the text that becomes the assistant transcript entry:
// the leader's finalized answer in team mode, the solo speaker's otherwise.
// Empty until the exchange completes, and empty forever on failure.
func (e *Exchange) FinalAnswer() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.phase != phaseDone {
		return ""
	}
	return e.finalAnswerLocked()
}

func (e *Exchange) Done() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.phase == phaseDone
}

func (e *Exchange) Failed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.phase == phaseFailed
}

// Err returns the terminating error message, empty while the exchange is
// healthy.
func (e *Exchange) Err() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.errMessage
}

// ExchangeSnapshot is a point-in-time view of exchange state.
type ExchangeSnapshot struct {
	ID      string
	Mode    Mode
	Buffers []BufferSnapshot
	Done    bool
	Failed  bool
	Err     string
}

// Snapshot returns the archived buffers followed by the active one, each
// snapshotted for presentation.
func (e *Exchange) Snapshot() ExchangeSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	buffers := make([]BufferSnapshot, 0, len(e.archived)+1)
	for _, buffer := range e.archived {
		buffers = append(buffers, buffer.Snapshot())
	}
	if e.active != nil {
		buffers = append(buffers, e.active.Snapshot())
	}

	return ExchangeSnapshot{
		ID:      e.id,
		Mode:    e.mode,
		Buffers: buffers,
		Done:    e.phase == phaseDone,
		Failed:  e.phase == phaseFailed,
		Err:     e.errMessage,
	}
}

package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// ErrBufferFrozen reports a write to a buffer whose speaker already ended.
var ErrBufferFrozen = errors.New("speaker buffer is frozen")

type SpeakerKind string

const (
	SpeakerSolo   SpeakerKind = "solo"
	SpeakerMember SpeakerKind = "member"
	SpeakerLeader SpeakerKind = "leader"
)

// Speaker identifies one logical participant within an exchange. The set of
// members is data carried by the stream, never a fixed list.
type Speaker struct {
	Kind        SpeakerKind
	ID          string
	DisplayName string
	Avatar      string
}

type ToolLogKind string

const (
	ToolLogRequest ToolLogKind = "request"
	ToolLogResult  ToolLogKind = "result"
)

// ToolLogEntry is one tool event recorded verbatim. Requests and results
// correlate by arrival order only; the wire carries no call id, so a
// backend that ever reordered tool events across speakers would be
// misattributed here.
type ToolLogEntry struct {
	Kind    ToolLogKind
	Tool    string
	Payload string
}

// SpeakerBuffer accumulates one speaker's output while that speaker is
// active. Exactly one buffer is mutable at any instant: the state machine
// freezes a buffer when its speaker ends and never reuses it for a later
// speaker.
type SpeakerBuffer struct {
	id      string
	speaker Speaker

	answer   strings.Builder
	thinking strings.Builder
	toolLog  []ToolLogEntry

	sawThinkingDelta bool
	frozen           bool
}

func newSpeakerBuffer(speaker Speaker) *SpeakerBuffer {
	return &SpeakerBuffer{id: uuid.NewString(), speaker: speaker}
}

func (b *SpeakerBuffer) ID() string {
	return b.id
}

func (b *SpeakerBuffer) Speaker() Speaker {
	return b.speaker
}

func (b *SpeakerBuffer) appendAnswer(text string) error {
	if b.frozen {
		return ErrBufferFrozen
	}
	b.answer.WriteString(text)
	return nil
}

// appendThinking records a structured thinking fragment. Receiving one at
// all permanently switches the buffer to the structured field: the inline
// tag fallback stays disabled for the rest of the buffer's lifetime even if
// later frames omit the field.
func (b *SpeakerBuffer) appendThinking(text string) error {
	if b.frozen {
		return ErrBufferFrozen
	}
	b.sawThinkingDelta = true
	b.thinking.WriteString(text)
	return nil
}

func (b *SpeakerBuffer) appendTool(entry ToolLogEntry) error {
	if b.frozen {
		return ErrBufferFrozen
	}
	b.toolLog = append(b.toolLog, entry)
	return nil
}

func (b *SpeakerBuffer) freeze() {
	b.frozen = true
}

func (b *SpeakerBuffer) Frozen() bool {
	return b.frozen
}

// RawAnswer returns the accumulated answer text exactly as streamed,
// including any inline think-tag spans.
func (b *SpeakerBuffer) RawAnswer() string {
	return b.answer.String()
}

func (b *SpeakerBuffer) SawThinkingDelta() bool {
	return b.sawThinkingDelta
}

// FinalAnswer returns the presentable answer text. When the structured
// thinking field was never used, inline think-tag spans are stripped out of
// the answer first.
func (b *SpeakerBuffer) FinalAnswer() string {
	if b.sawThinkingDelta {
		return b.answer.String()
	}
	answer, _ := SplitThinking(b.answer.String())
	return answer
}

// FinalThinking returns the speaker's reasoning text: the structured field
// verbatim when it was used, otherwise whatever inline think-tag spans can
// be recovered from the answer text.
func (b *SpeakerBuffer) FinalThinking() string {
	if b.sawThinkingDelta {
		return b.thinking.String()
	}
	_, thinking := SplitThinking(b.answer.String())
	return thinking
}

// ToolLog returns a copy of the tool event log in arrival order.
func (b *SpeakerBuffer) ToolLog() []ToolLogEntry {
	var entries []ToolLogEntry
	copier.Copy(&entries, &b.toolLog)
	return entries
}

// BufferSnapshot is a point-in-time, presentation-ready view of a buffer.
type BufferSnapshot struct {
	ID       string
	Speaker  Speaker
	Answer   string
	Thinking string
	ToolLog  []ToolLogEntry
	Frozen   bool
}

func (b *SpeakerBuffer) Snapshot() BufferSnapshot {
	return BufferSnapshot{
		ID:       b.id,
		Speaker:  b.speaker,
		Answer:   b.FinalAnswer(),
		Thinking: b.FinalThinking(),
		ToolLog:  b.ToolLog(),
		Frozen:   b.frozen,
	}
}

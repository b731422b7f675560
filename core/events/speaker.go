package events

const (
	// KindSpeakerStarted identifies the opening of a speaker's section.
	KindSpeakerStarted Kind = "speaker.started"
	// KindSpeakerAnswerSegment identifies streamed answer text.
	KindSpeakerAnswerSegment Kind = "speaker.answer_segment"
	// KindSpeakerThinkingSegment identifies streamed reasoning text.
	KindSpeakerThinkingSegment Kind = "speaker.thinking_segment"
	// KindSpeakerCollapsed identifies the collapse directive emitted when a
	// buffer is archived.
	KindSpeakerCollapsed Kind = "speaker.collapsed"
)

// SpeakerStarted announces a fresh buffer for a speaker whose section just
// opened.
type SpeakerStarted struct {
	Base
	BufferID    string
	SpeakerKind string
	SpeakerID   string
	DisplayName string
	Avatar      string
}

// NewSpeakerStarted creates a speaker started event.
func NewSpeakerStarted(bufferID, speakerKind, speakerID, displayName, avatar string) SpeakerStarted {
	return SpeakerStarted{
		Base:        NewBase(KindSpeakerStarted),
		BufferID:    bufferID,
		SpeakerKind: speakerKind,
		SpeakerID:   speakerID,
		DisplayName: displayName,
		Avatar:      avatar,
	}
}

// SpeakerAnswerSegment carries a streamed answer text segment.
type SpeakerAnswerSegment struct {
	Base
	BufferID string
	Segment  string
}

// NewSpeakerAnswerSegment creates an answer segment event.
func NewSpeakerAnswerSegment(bufferID, segment string) SpeakerAnswerSegment {
	return SpeakerAnswerSegment{Base: NewBase(KindSpeakerAnswerSegment), BufferID: bufferID, Segment: segment}
}

// SpeakerThinkingSegment carries a streamed reasoning text segment.
type SpeakerThinkingSegment struct {
	Base
	BufferID string
	Segment  string
}

// NewSpeakerThinkingSegment creates a thinking segment event.
func NewSpeakerThinkingSegment(bufferID, segment string) SpeakerThinkingSegment {
	return SpeakerThinkingSegment{Base: NewBase(KindSpeakerThinkingSegment), BufferID: bufferID, Segment: segment}
}

// SpeakerCollapsed is the replace operation for an archived buffer: Answer
// and Thinking carry the finalized texts (with any inline think-tag spans
// resolved), superseding the raw segments streamed so far. The collapse
// flags direct the sink to default the named finished sections to a
// collapsed state; a false flag means the section is empty and should not
// be shown at all.
type SpeakerCollapsed struct {
	Base
	BufferID         string
	Answer           string
	Thinking         string
	CollapseThinking bool
	CollapseTools    bool
}

// NewSpeakerCollapsed creates a collapse directive event.
func NewSpeakerCollapsed(bufferID, answer, thinking string, collapseThinking, collapseTools bool) SpeakerCollapsed {
	return SpeakerCollapsed{
		Base:             NewBase(KindSpeakerCollapsed),
		BufferID:         bufferID,
		Answer:           answer,
		Thinking:         thinking,
		CollapseThinking: collapseThinking,
		CollapseTools:    collapseTools,
	}
}

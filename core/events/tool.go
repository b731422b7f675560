package events

const (
	// KindSpeakerToolRequested identifies the start of a backend tool
	// invocation.
	KindSpeakerToolRequested Kind = "speaker.tool_requested"
	// KindSpeakerToolResulted identifies the outcome of a backend tool
	// invocation.
	KindSpeakerToolResulted Kind = "speaker.tool_resulted"
)

// SpeakerToolRequested marks the start of a tool invocation reported for
// the active buffer. Arguments are the verbatim wire payload.
type SpeakerToolRequested struct {
	Base
	BufferID  string
	Tool      string
	Arguments string
}

// NewSpeakerToolRequested creates a tool requested event.
func NewSpeakerToolRequested(bufferID, tool, arguments string) SpeakerToolRequested {
	return SpeakerToolRequested{Base: NewBase(KindSpeakerToolRequested), BufferID: bufferID, Tool: tool, Arguments: arguments}
}

// SpeakerToolResulted marks the outcome of a tool invocation reported for
// the active buffer. Result is the verbatim wire payload.
type SpeakerToolResulted struct {
	Base
	BufferID string
	Tool     string
	Result   string
}

// NewSpeakerToolResulted creates a tool resulted event.
func NewSpeakerToolResulted(bufferID, tool, result string) SpeakerToolResulted {
	return SpeakerToolResulted{Base: NewBase(KindSpeakerToolResulted), BufferID: bufferID, Tool: tool, Result: result}
}

package protocol

import "encoding/json"

type Kind string

const (
	KindContentDelta  Kind = "content_delta"
	KindThinkingDelta Kind = "thinking_delta"
	KindToolRequest   Kind = "tool_request"
	KindToolResult    Kind = "tool_result"
	KindMemberStart   Kind = "member_start"
	KindMemberEnd     Kind = "member_end"
	KindLeaderStart   Kind = "leader_start"
	KindLeaderEnd     Kind = "leader_end"
	KindError         Kind = "error"
	KindStreamEnd     Kind = "stream_end"
)

// Event is one decoded wire event. The set of implementations in this
// package is closed: every frame the classifier accepts maps onto exactly
// these kinds, so consumers can switch over them exhaustively.
type Event interface {
	Kind() Kind
}

// ContentDelta carries an incremental fragment of the active speaker's
// answer text.
type ContentDelta struct {
	Text string
}

func (ContentDelta) Kind() Kind { return KindContentDelta }

// ThinkingDelta carries an incremental fragment of the active speaker's
// reasoning text.
type ThinkingDelta struct {
	Text string
}

func (ThinkingDelta) Kind() Kind { return KindThinkingDelta }

// ToolRequest reports that the backend started a tool invocation on behalf
// of the active speaker. Arguments are opaque to the consumer.
type ToolRequest struct {
	Tool      string
	Arguments json.RawMessage
}

func (ToolRequest) Kind() Kind { return KindToolRequest }

// ToolResult reports the outcome of a tool invocation. Results correlate to
// requests by arrival order only; the wire carries no call id.
type ToolResult struct {
	Tool   string
	Result json.RawMessage
}

func (ToolResult) Kind() Kind { return KindToolResult }

// MemberStart opens a team member's section of the stream.
type MemberStart struct {
	ID          string
	DisplayName string
	Avatar      string
}

func (MemberStart) Kind() Kind { return KindMemberStart }

// MemberEnd closes the current team member's section. ID echoes the member
// that the backend believes it is closing.
type MemberEnd struct {
	ID string
}

func (MemberEnd) Kind() Kind { return KindMemberEnd }

// LeaderStart opens the synthesizing leader's section of the stream.
type LeaderStart struct {
	ID          string
	DisplayName string
	Avatar      string
}

func (LeaderStart) Kind() Kind { return KindLeaderStart }

// LeaderEnd closes the leader's section. The bridge emits it right before
// the termination sentinel; stream end already finalizes the leader, so
// consumers may treat it as informational.
type LeaderEnd struct {
	ID string
}

func (LeaderEnd) Kind() Kind { return KindLeaderEnd }

// StreamError is a model-reported failure inside an otherwise well-formed
// frame. It terminates the exchange.
type StreamError struct {
	Message string
}

func (StreamError) Kind() Kind { return KindError }

// StreamEnd is the synthetic event produced when the termination sentinel
// frame is consumed. No further events follow it for the request.
type StreamEnd struct{}

func (StreamEnd) Kind() Kind { return KindStreamEnd }

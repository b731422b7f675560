// Package events defines the typed update contract between the session
// state machine and a presentation sink.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - speaker.*
//   - exchange.*
//
// Semantics used across the package:
//
//   - Segment: append-only text piece emitted in stream order. Appending
//     every segment for a buffer, in order, reproduces that buffer's text
//     exactly; re-rendering from a buffer snapshot instead must produce the
//     same output.
//   - Collapsed: terminal directive for a finished speaker section; the
//     sink should default the named sections to a hidden state and must not
//     expect further segments for the buffer.
//
// speaker events
//
//   - SpeakerStarted (speaker.started): a speaker's section opened; carries
//     the speaker identity and the id of its fresh buffer.
//   - SpeakerAnswerSegment (speaker.answer_segment): streamed answer text
//     for the active buffer.
//   - SpeakerThinkingSegment (speaker.thinking_segment): streamed reasoning
//     text for the active buffer.
//   - SpeakerToolRequested (speaker.tool_requested): the backend started a
//     tool invocation for the active buffer.
//   - SpeakerToolResulted (speaker.tool_resulted): a tool invocation
//     produced a result for the active buffer.
//   - SpeakerCollapsed (speaker.collapsed): the buffer was archived; the
//     directive says which non-empty transient sections default to
//     collapsed.
//
// exchange events
//
//   - ExchangeCompleted (exchange.completed): the stream terminated
//     normally; carries the finalized assistant text (empty when the
//     exchange produced none).
//   - ExchangeFailed (exchange.failed): the stream terminated with a
//     transport or model-reported error; buffers produced so far remain
//     valid.
package events

package session

import "github.com/koscakluka/crew-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts SendOptions) eventEmitter {
	return func(event events.Event) {
		if opts.eventHandler != nil {
			opts.eventHandler(event)
		}

		switch typedEvent := event.(type) {
		case events.SpeakerStarted:
			if opts.onSpeakerStarted != nil {
				opts.onSpeakerStarted(typedEvent.BufferID, Speaker{
					Kind:        SpeakerKind(typedEvent.SpeakerKind),
					ID:          typedEvent.SpeakerID,
					DisplayName: typedEvent.DisplayName,
					Avatar:      typedEvent.Avatar,
				})
			}
		case events.SpeakerAnswerSegment:
			if opts.onAnswerSegment != nil {
				opts.onAnswerSegment(typedEvent.BufferID, typedEvent.Segment)
			}
		case events.SpeakerThinkingSegment:
			if opts.onThinkingSegment != nil {
				opts.onThinkingSegment(typedEvent.BufferID, typedEvent.Segment)
			}
		case events.SpeakerToolRequested:
			if opts.onToolEvent != nil {
				opts.onToolEvent(typedEvent.BufferID, ToolLogEntry{
					Kind:    ToolLogRequest,
					Tool:    typedEvent.Tool,
					Payload: typedEvent.Arguments,
				})
			}
		case events.SpeakerToolResulted:
			if opts.onToolEvent != nil {
				opts.onToolEvent(typedEvent.BufferID, ToolLogEntry{
					Kind:    ToolLogResult,
					Tool:    typedEvent.Tool,
					Payload: typedEvent.Result,
				})
			}
		case events.SpeakerCollapsed:
			if opts.onCollapse != nil {
				opts.onCollapse(typedEvent.BufferID, typedEvent.CollapseThinking, typedEvent.CollapseTools)
			}
		case events.ExchangeCompleted:
			if opts.onCompletion != nil {
				opts.onCompletion(typedEvent.FinalAnswer)
			}
		case events.ExchangeFailed:
			if opts.onError != nil {
				opts.onError(typedEvent.Message)
			}
		}
	}
}

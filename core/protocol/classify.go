package protocol

import (
	"encoding/json"
	"fmt"
)

// frameBody mirrors the bridge's frame payload. A frame carries exactly one
// of error/team_event/tool_event, or a delta frame with content and/or
// thinking; unknown fields are ignored.
type frameBody struct {
	Error     json.RawMessage `json:"error"`
	TeamEvent *teamEventBody  `json:"team_event"`
	ToolEvent *toolEventBody  `json:"tool_event"`
	Choices   []choiceBody    `json:"choices"`
}

type teamEventBody struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type toolEventBody struct {
	Type      string          `json:"type"`
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
	Result    json.RawMessage `json:"result"`
}

type choiceBody struct {
	Delta deltaBody `json:"delta"`
}

type deltaBody struct {
	Content  string `json:"content"`
	Thinking string `json:"thinking"`
}

// Classify parses one framed payload into its typed events.
//
// A parse failure is not fatal to the stream: the producer does not
// guarantee payload-per-line atomicity against network chunking, so callers
// are expected to log the returned error and keep consuming. A well-formed
// frame yields zero, one, or two events (a delta frame may carry both
// content and thinking).
func Classify(payload string) ([]Event, error) {
	var body frameBody
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		return nil, fmt.Errorf("error unmarshalling frame: %w", err)
	}

	// An explicit JSON null is not a failure, only a present error value is.
	if len(body.Error) > 0 && string(body.Error) != "null" {
		return []Event{StreamError{Message: errorMessage(body.Error)}}, nil
	}

	if body.TeamEvent != nil {
		return classifyTeamEvent(*body.TeamEvent), nil
	}

	if body.ToolEvent != nil {
		return classifyToolEvent(*body.ToolEvent), nil
	}

	var events []Event
	if len(body.Choices) > 0 {
		delta := body.Choices[0].Delta
		if delta.Content != "" {
			events = append(events, ContentDelta{Text: delta.Content})
		}
		if delta.Thinking != "" {
			events = append(events, ThinkingDelta{Text: delta.Thinking})
		}
	}
	return events, nil
}

func classifyTeamEvent(body teamEventBody) []Event {
	switch body.Type {
	case "member_start":
		return []Event{MemberStart{ID: body.ID, DisplayName: body.DisplayName, Avatar: body.Avatar}}
	case "member_end":
		return []Event{MemberEnd{ID: body.ID}}
	case "leader_start":
		return []Event{LeaderStart{ID: body.ID, DisplayName: body.DisplayName, Avatar: body.Avatar}}
	case "leader_end":
		return []Event{LeaderEnd{ID: body.ID}}
	}
	logger.Debug("skipping unknown team event", "type", body.Type)
	return nil
}

func classifyToolEvent(body toolEventBody) []Event {
	switch body.Type {
	case "request":
		return []Event{ToolRequest{Tool: body.Tool, Arguments: body.Arguments}}
	case "result":
		return []Event{ToolResult{Tool: body.Tool, Result: body.Result}}
	}
	logger.Debug("skipping unknown tool event", "type", body.Type)
	return nil
}

// errorMessage renders the error field, which the bridge sends as a JSON
// string but older builds sent as a bare object.
func errorMessage(raw json.RawMessage) string {
	var message string
	if err := json.Unmarshal(raw, &message); err == nil {
		return message
	}
	return string(raw)
}

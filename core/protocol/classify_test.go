package protocol

import "testing"

func TestClassifyDeltaFrames(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected []Event
	}{
		{
			name:     "content only",
			payload:  `{"choices":[{"delta":{"content":"Hel"}}]}`,
			expected: []Event{ContentDelta{Text: "Hel"}},
		},
		{
			name:     "thinking only",
			payload:  `{"choices":[{"delta":{"thinking":"hmm"}}]}`,
			expected: []Event{ThinkingDelta{Text: "hmm"}},
		},
		{
			name:     "content and thinking in one frame",
			payload:  `{"choices":[{"delta":{"content":"A","thinking":"B"}}]}`,
			expected: []Event{ContentDelta{Text: "A"}, ThinkingDelta{Text: "B"}},
		},
		{
			name:     "empty delta yields nothing",
			payload:  `{"choices":[{"delta":{}}]}`,
			expected: nil,
		},
		{
			name:     "no choices yields nothing",
			payload:  `{"id":"x"}`,
			expected: nil,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			events, err := Classify(testCase.payload)
			if err != nil {
				t.Fatalf("expected frame to classify, got %v", err)
			}
			if len(events) != len(testCase.expected) {
				t.Fatalf("expected %d events, got %d (%v)", len(testCase.expected), len(events), events)
			}
			for i, event := range events {
				if event != testCase.expected[i] {
					t.Fatalf("expected event %d to be %#v, got %#v", i, testCase.expected[i], event)
				}
			}
		})
	}
}

func TestClassifyLifecycleFrames(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected Event
	}{
		{
			name:     "member start",
			payload:  `{"team_event":{"type":"member_start","id":"rex","display_name":"Rex","avatar":"🦖"}}`,
			expected: MemberStart{ID: "rex", DisplayName: "Rex", Avatar: "🦖"},
		},
		{
			name:     "member end",
			payload:  `{"team_event":{"type":"member_end","id":"rex"}}`,
			expected: MemberEnd{ID: "rex"},
		},
		{
			name:     "leader start",
			payload:  `{"team_event":{"type":"leader_start","id":"sage","display_name":"Sage","avatar":"🦉"}}`,
			expected: LeaderStart{ID: "sage", DisplayName: "Sage", Avatar: "🦉"},
		},
		{
			name:     "leader end",
			payload:  `{"team_event":{"type":"leader_end","id":"sage"}}`,
			expected: LeaderEnd{ID: "sage"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			events, err := Classify(testCase.payload)
			if err != nil {
				t.Fatalf("expected frame to classify, got %v", err)
			}
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0] != testCase.expected {
				t.Fatalf("expected %#v, got %#v", testCase.expected, events[0])
			}
		})
	}
}

func TestClassifyToolFrames(t *testing.T) {
	events, err := Classify(`{"tool_event":{"type":"request","tool":"python_exec","arguments":{"code":"1+1"}}}`)
	if err != nil {
		t.Fatalf("expected frame to classify, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	request, ok := events[0].(ToolRequest)
	if !ok {
		t.Fatalf("expected a ToolRequest, got %#v", events[0])
	}
	if request.Tool != "python_exec" {
		t.Fatalf("expected tool %q, got %q", "python_exec", request.Tool)
	}
	if string(request.Arguments) != `{"code":"1+1"}` {
		t.Fatalf("expected verbatim arguments, got %q", string(request.Arguments))
	}

	events, err = Classify(`{"tool_event":{"type":"result","tool":"python_exec","result":{"ok":true}}}`)
	if err != nil {
		t.Fatalf("expected frame to classify, got %v", err)
	}
	result, ok := events[0].(ToolResult)
	if !ok {
		t.Fatalf("expected a ToolResult, got %#v", events[0])
	}
	if string(result.Result) != `{"ok":true}` {
		t.Fatalf("expected verbatim result, got %q", string(result.Result))
	}
}

func TestClassifyErrorFrameWinsOverOtherFields(t *testing.T) {
	events, err := Classify(`{"error":"model exploded","choices":[{"delta":{"content":"ignored"}}]}`)
	if err != nil {
		t.Fatalf("expected frame to classify, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected the error to suppress the delta, got %d events", len(events))
	}
	streamErr, ok := events[0].(StreamError)
	if !ok {
		t.Fatalf("expected a StreamError, got %#v", events[0])
	}
	if streamErr.Message != "model exploded" {
		t.Fatalf("expected message %q, got %q", "model exploded", streamErr.Message)
	}
}

func TestClassifyNullErrorFieldIsNotAFailure(t *testing.T) {
	events, err := Classify(`{"error":null,"choices":[{"delta":{"content":"ok"}}]}`)
	if err != nil {
		t.Fatalf("expected frame to classify, got %v", err)
	}
	if len(events) != 1 || events[0] != (ContentDelta{Text: "ok"}) {
		t.Fatalf("expected the delta to survive a null error field, got %#v", events)
	}
}

func TestClassifyMalformedPayloadIsRecoverable(t *testing.T) {
	if _, err := Classify(`{"choices":[{"delta":{"content":"trunc`); err == nil {
		t.Fatalf("expected a parse error for a truncated payload")
	}

	// The next valid frame still classifies; nothing is sticky.
	events, err := Classify(`{"choices":[{"delta":{"content":"ok"}}]}`)
	if err != nil {
		t.Fatalf("expected the stream to keep classifying after a bad frame, got %v", err)
	}
	if len(events) != 1 || events[0] != (ContentDelta{Text: "ok"}) {
		t.Fatalf("unexpected events after recovery: %#v", events)
	}
}

func TestClassifyUnknownMarkerTypesAreSkipped(t *testing.T) {
	for _, payload := range []string{
		`{"team_event":{"type":"member_pause","id":"rex"}}`,
		`{"tool_event":{"type":"progress","tool":"python_exec"}}`,
	} {
		events, err := Classify(payload)
		if err != nil {
			t.Fatalf("expected unknown marker to be skipped without error, got %v", err)
		}
		if len(events) != 0 {
			t.Fatalf("expected no events for unknown marker, got %#v", events)
		}
	}
}

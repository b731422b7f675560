package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "speaker started", event: NewSpeakerStarted("buf", "member", "rex", "Rex", "🦖"), expected: KindSpeakerStarted},
		{name: "speaker answer segment", event: NewSpeakerAnswerSegment("buf", "seg"), expected: KindSpeakerAnswerSegment},
		{name: "speaker thinking segment", event: NewSpeakerThinkingSegment("buf", "seg"), expected: KindSpeakerThinkingSegment},
		{name: "speaker tool requested", event: NewSpeakerToolRequested("buf", "python_exec", "{}"), expected: KindSpeakerToolRequested},
		{name: "speaker tool resulted", event: NewSpeakerToolResulted("buf", "python_exec", "{}"), expected: KindSpeakerToolResulted},
		{name: "speaker collapsed", event: NewSpeakerCollapsed("buf", "answer", "thinking", true, false), expected: KindSpeakerCollapsed},
		{name: "exchange completed", event: NewExchangeCompleted("ex", "answer"), expected: KindExchangeCompleted},
		{name: "exchange failed", event: NewExchangeFailed("ex", "boom"), expected: KindExchangeFailed},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestCollapsedDirectiveCarriesReplacementTexts(t *testing.T) {
	event := NewSpeakerCollapsed("buf", "final answer", "final thinking", true, true)

	if event.Answer != "final answer" {
		t.Fatalf("expected replacement answer to survive, got %q", event.Answer)
	}
	if event.Thinking != "final thinking" {
		t.Fatalf("expected replacement thinking to survive, got %q", event.Thinking)
	}
}

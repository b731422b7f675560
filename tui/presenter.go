package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	session "github.com/koscakluka/crew-core/core"
	"github.com/koscakluka/crew-core/core/events"
)

// speakerSection is the materialized view of one speaker buffer. Streamed
// segments append to it; the collapse directive replaces its texts with the
// finalized form and marks the transient sections collapsed.
type speakerSection struct {
	bufferID    string
	kind        session.SpeakerKind
	name        string
	avatar      string
	answer      string
	thinking    string
	tools       []session.ToolLogEntry
	sawThinking bool

	finished         bool
	collapseThinking bool
	collapseTools    bool
}

// exchangeView materializes one exchange from its event stream. Rendering
// happens from this state alone, so repainting the same state twice yields
// the same output regardless of how many events produced it.
type exchangeView struct {
	mode       session.Mode
	sections   []*speakerSection
	errMessage string
	done       bool
}

func newExchangeView(mode session.Mode) *exchangeView {
	return &exchangeView{mode: mode}
}

func (v *exchangeView) section(bufferID string) *speakerSection {
	for _, section := range v.sections {
		if section.bufferID == bufferID {
			return section
		}
	}
	return nil
}

func (v *exchangeView) apply(event events.Event) {
	switch typedEvent := event.(type) {
	case events.SpeakerStarted:
		v.sections = append(v.sections, &speakerSection{
			bufferID: typedEvent.BufferID,
			kind:     session.SpeakerKind(typedEvent.SpeakerKind),
			name:     typedEvent.DisplayName,
			avatar:   typedEvent.Avatar,
		})
	case events.SpeakerAnswerSegment:
		if section := v.section(typedEvent.BufferID); section != nil {
			section.answer += typedEvent.Segment
		}
	case events.SpeakerThinkingSegment:
		if section := v.section(typedEvent.BufferID); section != nil {
			section.thinking += typedEvent.Segment
			section.sawThinking = true
		}
	case events.SpeakerToolRequested:
		if section := v.section(typedEvent.BufferID); section != nil {
			section.tools = append(section.tools, session.ToolLogEntry{
				Kind:    session.ToolLogRequest,
				Tool:    typedEvent.Tool,
				Payload: typedEvent.Arguments,
			})
		}
	case events.SpeakerToolResulted:
		if section := v.section(typedEvent.BufferID); section != nil {
			section.tools = append(section.tools, session.ToolLogEntry{
				Kind:    session.ToolLogResult,
				Tool:    typedEvent.Tool,
				Payload: typedEvent.Result,
			})
		}
	case events.SpeakerCollapsed:
		if section := v.section(typedEvent.BufferID); section != nil {
			section.answer = typedEvent.Answer
			section.thinking = typedEvent.Thinking
			section.finished = true
			section.collapseThinking = typedEvent.CollapseThinking
			section.collapseTools = typedEvent.CollapseTools
		}
	case events.ExchangeCompleted:
		v.done = true
	case events.ExchangeFailed:
		v.done = true
		v.errMessage = typedEvent.Message
	}
}

// presentable returns the section's texts for rendering. While the speaker
// is still streaming and never used the structured thinking field, inline
// think-tag spans are split out live so they show as thinking instead of
// answer text.
func (s *speakerSection) presentable() (answer string, thinking string) {
	if s.finished || s.sawThinking {
		return s.answer, s.thinking
	}
	return session.SplitThinking(s.answer)
}

func (s *speakerSection) title() string {
	name := s.name
	if name == "" {
		name = "assistant"
	}
	label := name
	if s.avatar != "" {
		label = s.avatar + " " + name
	}
	if s.kind == session.SpeakerLeader {
		return leaderNameStyle.Render(label)
	}
	return speakerNameStyle.Render(label)
}

func (v *exchangeView) render(width int) string {
	var b strings.Builder

	for i, section := range v.sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if section.kind != session.SpeakerSolo {
			b.WriteString(section.title())
			b.WriteString("\n")
		}

		answer, thinking := section.presentable()

		if thinking != "" {
			if section.finished && section.collapseThinking {
				b.WriteString(collapsedStyle.Render(fmt.Sprintf("▸ thinking (%d lines, hidden)", lineCount(thinking))))
				b.WriteString("\n")
			} else {
				b.WriteString(thinkingStyle.Render(wordwrap.String(thinking, width)))
				b.WriteString("\n")
			}
		}

		if len(section.tools) > 0 {
			if section.finished && section.collapseTools {
				b.WriteString(collapsedStyle.Render(fmt.Sprintf("▸ tool activity (%d events, hidden)", len(section.tools))))
				b.WriteString("\n")
			} else {
				for _, entry := range section.tools {
					b.WriteString(toolStyle.Render(renderToolEntry(entry, width)))
					b.WriteString("\n")
				}
			}
		}

		if answer != "" {
			b.WriteString(wordwrap.String(answer, width))
			b.WriteString("\n")
		}
	}

	if v.errMessage != "" {
		b.WriteString(errorStyle.Render(wordwrap.String("error: "+v.errMessage, width)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderToolEntry(entry session.ToolLogEntry, width int) string {
	payload := entry.Payload
	if runes := []rune(payload); len(runes) > 120 {
		payload = string(runes[:120]) + "…"
	}
	switch entry.Kind {
	case session.ToolLogRequest:
		return wordwrap.String(fmt.Sprintf("⚙ %s ← %s", entry.Tool, payload), width)
	default:
		return wordwrap.String(fmt.Sprintf("⚙ %s → %s", entry.Tool, payload), width)
	}
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

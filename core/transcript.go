package session

import (
	"sync"

	"github.com/koscakluka/crew-core/core/protocol"
)

// Transcript is the durable, append-only list of completed user/assistant
// turns. Its snapshot is the conversation context sent with the next
// outbound request. Only finalized leader or solo output is appended; team
// member buffers never reach the transcript.
type Transcript struct {
	mu      sync.RWMutex
	entries []protocol.Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records one completed turn. It is the only mutator besides Reset.
func (t *Transcript) Append(entry protocol.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, entry)
}

// Snapshot returns the ordered entries, copied so callers cannot mutate the
// transcript through the returned slice.
func (t *Transcript) Snapshot() []protocol.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]protocol.Message, len(t.entries))
	copy(entries, t.entries)
	return entries
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}

// Reset clears all entries. Callers that expose this to an end user are
// expected to confirm first when the transcript is non-empty.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = nil
}

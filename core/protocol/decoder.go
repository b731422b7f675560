package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	endMessage  = "[DONE]"
	framePrefix = "data:"
)

// ErrStreamClosed reports that the transport ended before the termination
// sentinel was seen.
var ErrStreamClosed = errors.New("stream closed before termination sentinel")

// LineDecoder assembles complete text lines from raw byte chunks.
//
// Chunk boundaries carry no meaning: a chunk may end in the middle of a line
// or in the middle of a multi-byte UTF-8 sequence. Incomplete trailing
// sequences are carried over to the next chunk so they decode once the rest
// of their bytes arrive, and a trailing partial line is buffered until a
// newline (or Flush) completes it.
type LineDecoder struct {
	carry   []byte
	partial strings.Builder
}

// Feed decodes one chunk and returns the complete lines it finished, in
// order. Line terminators are stripped.
func (d *LineDecoder) Feed(chunk []byte) []string {
	data := chunk
	if len(d.carry) > 0 {
		data = append(d.carry, chunk...)
		d.carry = nil
	}

	if tail := incompleteTrailingRune(data); tail > 0 {
		d.carry = append([]byte(nil), data[len(data)-tail:]...)
		data = data[:len(data)-tail]
	}

	var lines []string
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			d.partial.Write(data)
			return lines
		}
		d.partial.Write(data[:i])
		lines = append(lines, strings.TrimSuffix(d.partial.String(), "\r"))
		d.partial.Reset()
		data = data[i+1:]
	}
}

// Flush returns the buffered partial line, if any. Called when the stream
// ends without a final newline.
func (d *LineDecoder) Flush() (string, bool) {
	if d.partial.Len() == 0 && len(d.carry) == 0 {
		return "", false
	}
	d.partial.Write(d.carry)
	d.carry = nil
	line := strings.TrimSuffix(d.partial.String(), "\r")
	d.partial.Reset()
	return line, true
}

// incompleteTrailingRune returns the length of an incomplete UTF-8 sequence
// at the end of b, or 0 when b ends on a rune boundary.
func incompleteTrailingRune(b []byte) int {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if utf8.RuneStart(c) {
			if utf8.FullRune(b[len(b)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

// FrameReader extracts framed payloads from an event stream body.
//
// Lines that do not carry the frame prefix are dropped silently (the bridge
// separates frames with blank keep-alive lines). The termination sentinel
// payload ends iteration without error.
type FrameReader struct {
	r   io.Reader
	dec LineDecoder
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// Frames yields framed payloads until the termination sentinel. A transport
// error or early close surfaces as a non-nil error after every payload
// decoded up to that point has been yielded.
func (f *FrameReader) Frames(yield func(string, error) bool) {
	buf := make([]byte, 4096)
	for {
		n, err := f.r.Read(buf)
		if n > 0 {
			for _, line := range f.dec.Feed(buf[:n]) {
				payload, ok := framePayload(line)
				if !ok {
					continue
				}
				if payload == endMessage {
					return
				}
				if !yield(payload, nil) {
					return
				}
			}
		}
		if err != nil {
			if line, ok := f.dec.Flush(); ok && errors.Is(err, io.EOF) {
				if payload, ok := framePayload(line); ok {
					if payload == endMessage {
						return
					}
					if !yield(payload, nil) {
						return
					}
				}
			}
			if errors.Is(err, io.EOF) {
				yield("", ErrStreamClosed)
			} else {
				yield("", fmt.Errorf("error reading streamed response: %w", err))
			}
			return
		}
	}
}

// framePayload strips the frame prefix from a line, reporting whether the
// line was a frame at all. Empty payloads are not frames.
func framePayload(line string) (string, bool) {
	if !strings.HasPrefix(line, framePrefix) {
		return "", false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, framePrefix))
	if payload == "" {
		return "", false
	}
	return payload, true
}

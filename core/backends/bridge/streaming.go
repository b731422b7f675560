package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/koscakluka/crew-core/core/protocol"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stream is one pending chat request. The request is sent when Events is
// iterated; the iterator yields wire events in arrival order and finishes
// with StreamEnd on clean termination.
type Stream struct {
	client   *Client
	path     string
	messages []protocol.Message
}

// Events consumes the response stream. Frames that fail to parse are
// skipped and logged, because the producer does not guarantee
// payload-per-line atomicity against network chunking; transport failures
// are yielded as a terminal error.
func (s *Stream) Events(ctx context.Context) func(func(protocol.Event, error) bool) {
	requestToFirstFrameTime := time.Time{}
	setRequestToFirstFrameTime := func(span trace.Span) {
		if requestToFirstFrameTime.IsZero() {
			return
		}
		span.SetAttributes(attribute.Float64("response.request_to_first_frame_time", time.Since(requestToFirstFrameTime).Seconds()))
		span.AddEvent("received first frame")
		requestToFirstFrameTime = time.Time{}
	}

	return func(yield func(protocol.Event, error) bool) {
		ctx, span := tracer.Start(ctx, "consume chat stream")
		defer span.End()
		span.SetAttributes(
			attribute.String("request.path", s.path),
			attribute.Int("request.message_count", len(s.messages)),
		)

		requestBodyBytes, err := json.Marshal(protocol.ChatRequest{Messages: s.messages, Stream: true})
		if err != nil {
			err = fmt.Errorf("error marshalling JSON: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.client.baseURL+s.path, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			err = fmt.Errorf("error creating HTTP request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")

		span.SetAttributes(attribute.String("request.url", req.URL.String()))
		requestToFirstFrameTime = time.Now()
		span.AddEvent("request started")
		resp, err := s.client.httpClient.Do(req)
		if err != nil {
			err = fmt.Errorf("error sending request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
		if resp.StatusCode != http.StatusOK {
			if errorBody, err := io.ReadAll(resp.Body); err != nil {
				span.SetAttributes(attribute.String("error", err.Error()))
			} else {
				span.SetAttributes(attribute.String("response.error", string(errorBody)))
			}

			err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		frameCount, skippedCount := 0, 0
		defer func() {
			span.SetAttributes(
				attribute.Int("response.frame_count", frameCount),
				attribute.Int("response.skipped_frame_count", skippedCount),
			)
		}()

		for payload, err := range protocol.NewFrameReader(resp.Body).Frames {
			setRequestToFirstFrameTime(span)

			if err != nil {
				span.RecordError(err)
				yield(nil, err)
				return
			}

			frameCount++
			events, err := protocol.Classify(payload)
			if err != nil {
				skippedCount++
				logger.Debug("skipping unparseable frame", "error", err)
				continue
			}
			for _, event := range events {
				if !yield(event, nil) {
					return
				}
			}
		}

		yield(protocol.StreamEnd{}, nil)
	}
}

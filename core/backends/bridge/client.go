// Package bridge is the HTTP client for the agent bridge backend: two
// streaming chat endpoints (solo and team) and a synchronous health query.
// The response streams carry the frame protocol decoded by core/protocol.
package bridge

import (
	"context"
	"net/http"
	"strings"

	"github.com/koscakluka/crew-core/core/protocol"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	chatPath     = "/api/chat"
	teamChatPath = "/api/chat/team"
	healthPath   = "/api/health"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
}

// Chat opens a solo-mode response stream for the given conversation
// context. No request is made until the stream's Events iterator runs.
func (c *Client) Chat(ctx context.Context, messages []protocol.Message) (protocol.EventStream, error) {
	return &Stream{client: c, path: chatPath, messages: messages}, nil
}

// TeamChat opens a team-mode response stream: members answer in sequence,
// then the leader synthesizes.
func (c *Client) TeamChat(ctx context.Context, messages []protocol.Message) (protocol.EventStream, error) {
	return &Stream{client: c, path: teamChatPath, messages: messages}, nil
}

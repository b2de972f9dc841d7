package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultSocketTimeout bounds an exchange when the context has no deadline.
const DefaultSocketTimeout = 20 * time.Second

// ErrSocketProtocol is returned when the server deviates from the expected
// exchange.
var ErrSocketProtocol = errors.New("unexpected websocket exchange")

// Handshake describes a three step request/response over a websocket:
// wait for Ready, send Hello, read one frame and extract its payload.
type Handshake struct {
	Endpoint string
	Origin   string
	Ready    string
	Hello    string
	// Extract applies the server framing rule to the data frame.
	Extract func(frame string) (string, bool)
}

// Exchange runs h on a fresh connection. The connection is closed on every
// return path.
func (c *Client) Exchange(ctx context.Context, h Handshake) (string, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.socketTimeout)
	}

	dialer := websocket.Dialer{
		Proxy:            c.proxy,
		HandshakeTimeout: time.Until(deadline),
	}
	header := http.Header{}
	if h.Origin != "" {
		header.Set("Origin", h.Origin)
	}
	header.Set("User-Agent", c.spoofed)

	log.Debug().Str("endpoint", h.Endpoint).Msg("Websocket connecting")
	conn, resp, err := dialer.DialContext(ctx, h.Endpoint, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)

	_, hello, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if string(hello) != h.Ready {
		return "", fmt.Errorf("%w: ready frame %q", ErrSocketProtocol, hello)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(h.Hello)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	_, frame, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	payload := string(frame)
	if h.Extract != nil {
		var ok bool
		if payload, ok = h.Extract(payload); !ok {
			return "", fmt.Errorf("%w: data frame", ErrSocketProtocol)
		}
	}
	if payload == "" {
		return "", ErrNoData
	}

	log.Debug().Str("endpoint", h.Endpoint).Int("bytes", len(payload)).Msg("Websocket exchange completed")
	return payload, nil
}
